package group

import (
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/cespare/xxhash/v2"

	"github.com/luyoutao/sam-subsample/record"
)

var (
	// ErrExhausted is returned when All is ranged over a second time. A
	// Grouper drains its reader and cannot be restarted.
	ErrExhausted = errors.New("group: sequence already consumed")
	// ErrInputOrder is returned when order checking is enabled and a
	// grouping name reappears after its run has ended.
	ErrInputOrder = errors.New("group: name reappeared after its run ended")
)

// Template is a contiguous run of records sharing one name, in input order.
// It is the unit the sampler keeps or discards; records of a template never
// separate.
type Template struct {
	Name    string
	Records []record.Record
}

// Len returns the number of records in the template.
func (t Template) Len() int { return len(t.Records) }

// Grouper folds a record stream into templates. It holds exactly one open
// template at a time, so memory stays proportional to the largest run, not
// the stream.
type Grouper struct {
	r       record.Reader
	check   bool
	started bool
}

// Option configures a Grouper.
type Option func(*Grouper)

// WithOrderCheck tracks completed template names and fails the sequence
// with ErrInputOrder when one reappears. Names are tracked as 64-bit
// hashes: memory grows with the template count and a hash collision can
// report a violation on input that is in fact grouped.
func WithOrderCheck() Option {
	return func(g *Grouper) { g.check = true }
}

// New returns a Grouper reading from r.
func New(r record.Reader, opts ...Option) *Grouper {
	g := &Grouper{r: r}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// All returns the sequence of templates in stream order. The sequence
// stops at the first error, yielding it as the second element. Breaking
// out of the range is permitted; resuming is not.
func (g *Grouper) All() iter.Seq2[Template, error] {
	return func(yield func(Template, error) bool) {
		if g.started {
			yield(Template{}, ErrExhausted)
			return
		}
		g.started = true

		var seen map[uint64]struct{}
		if g.check {
			seen = make(map[uint64]struct{})
		}
		completed := func(name string) error {
			if seen == nil {
				return nil
			}
			h := xxhash.Sum64String(name)
			if _, dup := seen[h]; dup {
				return fmt.Errorf("%w: %q", ErrInputOrder, name)
			}
			seen[h] = struct{}{}
			return nil
		}

		var (
			cur  Template
			open bool
		)
		for {
			rec, err := g.r.Read()
			if errors.Is(err, io.EOF) {
				if open {
					if err := completed(cur.Name); err != nil {
						yield(Template{}, err)
						return
					}
					yield(cur, nil)
				}
				return
			}
			if err != nil {
				yield(Template{}, fmt.Errorf("group: read record: %w", err))
				return
			}

			switch {
			case !open:
				cur = Template{Name: rec.Name, Records: []record.Record{rec}}
				open = true
			case rec.Name == cur.Name:
				cur.Records = append(cur.Records, rec)
			default:
				if err := completed(cur.Name); err != nil {
					yield(Template{}, err)
					return
				}
				if !yield(cur, nil) {
					return
				}
				cur = Template{Name: rec.Name, Records: []record.Record{rec}}
			}
		}
	}
}
