// Package samio adapts SAM text streams to the record interfaces. It is a
// line splitter, not a SAM parser: leading '@' lines pass through as an
// opaque header, every other line becomes one record named by its first
// tab-separated field, and payloads are never modified. Binary BAM input is
// out of scope; convert it to text first.
//
// The one piece of the header samio understands is the @HD SO: field, which
// callers use to confirm the stream is grouped by query name before
// sampling it.
//
// Basic usage:
//
//	r, err := samio.NewReader(in, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if so := r.Header().SortOrder(); so != "queryname" {
//	    log.Fatalf("input sorted by %q, want queryname", so)
//	}
//
//	w, err := samio.NewWriter(out, r.Header(), nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// ... stream records from r to w ...
//	if err := w.Flush(); err != nil {
//	    log.Fatal(err)
//	}
package samio
