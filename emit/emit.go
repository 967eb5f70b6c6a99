// Package emit drains a reservoir into a record writer. Templates are
// written whole: all records of a retained template appear consecutively
// and in their original relative order.
//
// Emit walks slots in slot order, which is cheap and deterministic for a
// fixed reservoir state but unrelated to stream order. EmitSorted orders
// templates by name instead, useful when downstream tooling expects
// queryname-grouped output to also be name sorted.
package emit

import (
	"context"
	"fmt"

	"github.com/google/btree"

	"github.com/luyoutao/sam-subsample/group"
	"github.com/luyoutao/sam-subsample/record"
	"github.com/luyoutao/sam-subsample/sample"
)

// Emit writes every record of every retained template to w in slot order.
// It returns the number of records written, also counting those written
// before a failure.
func Emit(ctx context.Context, res *sample.Reservoir, w record.Writer) (uint64, error) {
	var written uint64
	for tpl := range res.All() {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		n, err := writeTemplate(w, tpl)
		written += n
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// slotted pairs a template with its reservoir slot. The slot breaks name
// ties so two retained templates with equal names both survive the tree.
type slotted struct {
	slot int
	tpl  group.Template
}

func lessByName(a, b slotted) bool {
	if a.tpl.Name != b.tpl.Name {
		return a.tpl.Name < b.tpl.Name
	}
	return a.slot < b.slot
}

// EmitSorted writes the retained templates ordered by name. It buffers the
// reservoir contents in a btree, so memory stays proportional to the
// sample, never the stream.
func EmitSorted(ctx context.Context, res *sample.Reservoir, w record.Writer) (uint64, error) {
	tree := btree.NewG[slotted](2, lessByName)
	slot := 0
	for tpl := range res.All() {
		tree.ReplaceOrInsert(slotted{slot: slot, tpl: tpl})
		slot++
	}

	var (
		written uint64
		emitErr error
	)
	tree.Ascend(func(item slotted) bool {
		if err := ctx.Err(); err != nil {
			emitErr = err
			return false
		}
		n, err := writeTemplate(w, item.tpl)
		written += n
		if err != nil {
			emitErr = err
			return false
		}
		return true
	})
	return written, emitErr
}

func writeTemplate(w record.Writer, tpl group.Template) (uint64, error) {
	var written uint64
	for _, rec := range tpl.Records {
		if err := w.Write(rec); err != nil {
			return written, fmt.Errorf("emit: write record %q: %w", rec.Name, err)
		}
		written++
	}
	return written, nil
}
