package group_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/luyoutao/sam-subsample/group"
	"github.com/luyoutao/sam-subsample/record"
)

func flatten(tpls []group.Template) []record.Record {
	var out []record.Record
	for _, tpl := range tpls {
		out = append(out, tpl.Records...)
	}
	return out
}

func regroup(rt *rapid.T, recs []record.Record) []group.Template {
	var out []group.Template
	for tpl, err := range group.New(record.NewList(recs...)).All() {
		require.NoError(rt, err)
		out = append(out, tpl)
	}
	return out
}

// TestGrouperPartitionProperties checks that grouping is a lossless,
// order-preserving partition into maximal runs, and that regrouping the
// flattened output is a fixpoint.
func TestGrouperPartitionProperties(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		names := rapid.SliceOfN(
			rapid.SampledFrom([]string{"r1", "r2", "r3", "r4"}), 0, 64,
		).Draw(rt, "names")

		var stream []record.Record
		for i, name := range names {
			stream = append(stream, record.Record{
				Name: name,
				Data: []byte(fmt.Sprintf("%s\t%d", name, i)),
			})
		}

		templates := regroup(rt, stream)

		// Lossless and order preserving: flattening reproduces the stream.
		assert.Equal(rt, stream, flatten(templates))

		for i, tpl := range templates {
			require.NotEmpty(rt, tpl.Records)
			for _, rec := range tpl.Records {
				assert.Equal(rt, tpl.Name, rec.Name)
			}
			// Runs are maximal: neighboring templates never share a name.
			if i > 0 {
				assert.NotEqual(rt, templates[i-1].Name, tpl.Name)
			}
		}

		// Grouping already-grouped output changes nothing.
		assert.Equal(rt, templates, regroup(rt, flatten(templates)))
	})
}
