// Package group folds an ordered record stream into templates: maximal
// contiguous runs of records sharing one grouping name. Templates are the
// unit of sampling, so paired and supplementary records that belong together
// stay together through the pipeline.
//
// The grouper buffers exactly one open template, giving O(largest template)
// memory regardless of stream length. It relies on the input being grouped
// by name; it never sorts. When two runs of the same name are separated by
// another name the grouper silently yields two distinct templates, which a
// downstream sampler will treat as independent. WithOrderCheck upgrades that
// situation to an error.
//
// Key features:
//   - Single forward pass, one open template of buffered state
//   - Iterator-based interface using Go's iter.Seq2
//   - Optional detection of name runs that restart (ErrInputOrder)
//
// Basic usage:
//
//	r := record.NewList(
//	    record.Record{Name: "r1", Data: []byte("r1\tread/1")},
//	    record.Record{Name: "r1", Data: []byte("r1\tread/2")},
//	    record.Record{Name: "r2", Data: []byte("r2\tread/1")},
//	)
//
//	for tpl, err := range group.New(r).All() {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(tpl.Name, tpl.Len())
//	}
package group
