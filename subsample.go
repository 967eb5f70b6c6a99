// Package subsample draws a fixed-size uniform random sample of templates
// from a name-grouped record stream in a single pass.
//
// A template is a maximal contiguous run of records sharing one grouping
// name, so paired reads and their supplementary records travel together:
// the sampler keeps or discards whole templates, never individual records.
// Memory stays proportional to the sample size and the largest template,
// regardless of stream length.
//
// The pipeline is record source -> grouper -> reservoir -> emitter, built
// from the record, group, sample and emit packages. Run wires it together;
// callers needing different plumbing can assemble the stages themselves.
//
// Basic usage:
//
//	in, err := samio.NewReader(os.Stdin, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, err := samio.NewWriter(os.Stdout, in.Header(), nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	stats, err := subsample.Run(ctx, in, out,
//	    subsample.WithCapacity(5000),
//	    subsample.WithSeed(11))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := out.Flush(); err != nil {
//	    log.Fatal(err)
//	}
//	log.Printf("kept %d of %d templates", stats.TemplatesKept, stats.TemplatesSeen)
package subsample

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/luyoutao/sam-subsample/emit"
	"github.com/luyoutao/sam-subsample/group"
	"github.com/luyoutao/sam-subsample/record"
	"github.com/luyoutao/sam-subsample/sample"
)

// Stats reports what a completed run saw and wrote.
type Stats struct {
	// TemplatesSeen counts every template of the input stream.
	TemplatesSeen uint64
	// TemplatesKept counts templates retained in the sample.
	TemplatesKept int
	// RecordsWritten counts records written to the sink.
	RecordsWritten uint64
}

// Run streams src through the sampling pipeline and writes the retained
// templates to dst. It returns the stats of the run together with the
// first error encountered; the stats stay meaningful on failure and
// describe the work done up to it.
//
// Run reads src exactly once and never buffers more than the sample plus
// the template being grouped. Cancelling ctx stops the run between
// templates.
func Run(ctx context.Context, src record.Reader, dst record.Writer, opts ...Option) (Stats, error) {
	if src == nil {
		return Stats{}, errors.New("subsample: record source cannot be nil")
	}
	if dst == nil {
		return Stats{}, errors.New("subsample: record sink cannot be nil")
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	sampleOpts := []sample.Option{sample.WithPolicy(o.policy)}
	if o.rng != nil {
		sampleOpts = append(sampleOpts, sample.WithRNG(o.rng))
	}
	res, err := sample.New(o.capacity, sampleOpts...)
	if err != nil {
		return Stats{}, err
	}

	var groupOpts []group.Option
	if o.orderCheck {
		groupOpts = append(groupOpts, group.WithOrderCheck())
	}

	for tpl, err := range group.New(src, groupOpts...).All() {
		if err != nil {
			return Stats{TemplatesSeen: res.Seen()}, err
		}
		if err := ctx.Err(); err != nil {
			return Stats{TemplatesSeen: res.Seen()}, err
		}

		res.Observe(tpl)
		if o.progressEvery > 0 && res.Seen()%o.progressEvery == 0 {
			o.logger.Info("templates processed", zap.Uint64("templates", res.Seen()))
		}
	}

	if res.Seen() < uint64(o.capacity) {
		o.logger.Warn("capacity exceeds the input template count; keeping every template",
			zap.Uint64("templates", res.Seen()),
			zap.Int("capacity", o.capacity))
	}

	emitFn := emit.Emit
	if o.sorted {
		emitFn = emit.EmitSorted
	}
	written, err := emitFn(ctx, res, dst)

	return Stats{
		TemplatesSeen:  res.Seen(),
		TemplatesKept:  res.Len(),
		RecordsWritten: written,
	}, err
}
