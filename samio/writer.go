package samio

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/luyoutao/sam-subsample/record"
)

// Writer writes a header followed by record lines, one line per record.
// Output is buffered; call Flush before treating it as complete.
type Writer struct {
	w *bufio.Writer
}

// NewWriter returns a Writer over w that has already written the header.
func NewWriter(w io.Writer, header Header, opts *Options) (*Writer, error) {
	if w == nil {
		return nil, errors.New("samio: writer cannot be nil")
	}

	if opts == nil {
		opts = &Options{}
	}
	if opts.BufferSize == 0 {
		opts.BufferSize = defaultBufSize
	}

	bw := bufio.NewWriterSize(w, opts.BufferSize)
	for _, line := range header.Lines() {
		if _, err := bw.WriteString(line); err != nil {
			return nil, fmt.Errorf("samio: write header: %w", err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return nil, fmt.Errorf("samio: write header: %w", err)
		}
	}
	return &Writer{w: bw}, nil
}

// Write appends one record line.
func (w *Writer) Write(rec record.Record) error {
	if _, err := w.w.Write(rec.Data); err != nil {
		return fmt.Errorf("samio: write record: %w", err)
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("samio: write record: %w", err)
	}
	return nil
}

// Flush forces buffered output through to the underlying writer.
func (w *Writer) Flush() error {
	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("samio: flush: %w", err)
	}
	return nil
}
