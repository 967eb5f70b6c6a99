// Package record defines the unit of input and the reader and writer
// contracts the sampling pipeline is built from.
//
// A Record is a grouping name plus the opaque line it arrived with. Nothing
// in this module interprets the payload; records pass through byte for byte.
package record

import "io"

// Record is a single input item.
type Record struct {
	// Name is the grouping key. Records that share a Name and arrive
	// adjacently form one template.
	Name string
	// Data is the verbatim payload. It is carried, never parsed.
	Data []byte
}

// Reader produces records in input order. Read returns io.EOF after the
// final record. A Reader is forward-only and consumed at most once.
type Reader interface {
	Read() (Record, error)
}

// Writer consumes records. A failed write is fatal to the run; callers do
// not retry.
type Writer interface {
	Write(Record) error
}

// WriterFunc adapts a function to the Writer interface.
type WriterFunc func(Record) error

// Write calls f(r).
func (f WriterFunc) Write(r Record) error { return f(r) }

// List is an in-memory Reader over a fixed set of records.
type List struct {
	records []Record
	next    int
}

// NewList returns a Reader that yields the given records in order.
func NewList(records ...Record) *List {
	return &List{records: records}
}

// Read returns the next record, or io.EOF once the list is exhausted.
func (l *List) Read() (Record, error) {
	if l.next >= len(l.records) {
		return Record{}, io.EOF
	}
	r := l.records[l.next]
	l.next++
	return r, nil
}

// Buffer is a Writer that retains everything written to it, in order.
type Buffer struct {
	Records []Record
}

// Write appends r to the buffer. It never fails.
func (b *Buffer) Write(r Record) error {
	b.Records = append(b.Records, r)
	return nil
}
