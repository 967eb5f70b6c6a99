package samio

import (
	"bufio"
	"errors"
	"strings"

	"github.com/luyoutao/sam-subsample/record"
)

// Common errors that can be returned by samio operations.
var (
	ErrLineTooLong = errors.New("samio: record line exceeds maximum size")
)

const (
	defaultBufSize     = 64 * 1024
	defaultMaxLineSize = 16 * 1024 * 1024
)

// Options configures reading and writing behavior.
type Options struct {
	// BufferSize is the initial size of the line buffer.
	BufferSize int

	// MaxLineSize bounds a single line. Reads fail with ErrLineTooLong
	// beyond it.
	MaxLineSize int
}

// Header holds the verbatim leading '@' lines of a SAM text stream. The
// lines are carried untouched; only the @HD sort order is ever inspected.
type Header struct {
	lines []string
}

// NewHeader returns a header over the given lines, without trailing
// newlines.
func NewHeader(lines ...string) Header {
	return Header{lines: lines}
}

// Lines returns the header lines in input order.
func (h Header) Lines() []string { return h.lines }

// Len returns the number of header lines.
func (h Header) Len() int { return len(h.lines) }

// SortOrder returns the SO field of the @HD line, or the empty string when
// the header does not declare one.
func (h Header) SortOrder() string {
	for _, line := range h.lines {
		fields := strings.Split(line, "\t")
		if fields[0] != "@HD" {
			continue
		}
		for _, field := range fields[1:] {
			if v, ok := strings.CutPrefix(field, "SO:"); ok {
				return v
			}
		}
	}
	return ""
}

// toRecord names a body line by its first tab-separated field. A line with
// no tab is its own name. The payload stays the whole line, byte for byte.
func toRecord(line string) record.Record {
	name := line
	if i := strings.IndexByte(line, '\t'); i >= 0 {
		name = line[:i]
	}
	return record.Record{Name: name, Data: []byte(line)}
}

func wrapScanError(err error) error {
	if errors.Is(err, bufio.ErrTooLong) {
		return ErrLineTooLong
	}
	return err
}
