package samio

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/luyoutao/sam-subsample/record"
)

// Reader reads SAM text as records. The header is consumed at construction;
// every following line becomes one record named by its first field. Reads
// return io.EOF after the final line.
type Reader struct {
	s       *bufio.Scanner
	header  Header
	pending *record.Record
	line    int
}

// NewReader returns a Reader over r. It reads the leading '@' lines
// eagerly, so the header is available before the first record.
func NewReader(r io.Reader, opts *Options) (*Reader, error) {
	if r == nil {
		return nil, errors.New("samio: reader cannot be nil")
	}

	if opts == nil {
		opts = &Options{}
	}
	if opts.BufferSize == 0 {
		opts.BufferSize = defaultBufSize
	}
	if opts.MaxLineSize == 0 {
		opts.MaxLineSize = defaultMaxLineSize
	}

	// The scanner takes the larger of the two as its limit, so the
	// initial buffer must not exceed MaxLineSize.
	bufSize := opts.BufferSize
	if bufSize > opts.MaxLineSize {
		bufSize = opts.MaxLineSize
	}

	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, bufSize), opts.MaxLineSize)

	sr := &Reader{s: s}
	for s.Scan() {
		line := s.Text()
		if len(line) > 0 && line[0] == '@' {
			sr.header.lines = append(sr.header.lines, line)
			sr.line++
			continue
		}
		rec := toRecord(line)
		sr.pending = &rec
		break
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("samio: line %d: %w", sr.line+1, wrapScanError(err))
	}
	return sr, nil
}

// Header returns the header read at construction.
func (r *Reader) Header() Header { return r.header }

// Read returns the next record, or io.EOF once the stream is exhausted.
func (r *Reader) Read() (record.Record, error) {
	if r.pending != nil {
		rec := *r.pending
		r.pending = nil
		r.line++
		return rec, nil
	}
	if !r.s.Scan() {
		if err := r.s.Err(); err != nil {
			return record.Record{}, fmt.Errorf("samio: line %d: %w", r.line+1, wrapScanError(err))
		}
		return record.Record{}, io.EOF
	}
	r.line++
	return toRecord(r.s.Text()), nil
}
