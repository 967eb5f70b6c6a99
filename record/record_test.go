package record_test

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luyoutao/sam-subsample/record"
)

func TestListRead(t *testing.T) {
	t.Parallel()

	l := record.NewList(
		record.Record{Name: "r1", Data: []byte("r1\tfirst")},
		record.Record{Name: "r1", Data: []byte("r1\tsecond")},
		record.Record{Name: "r2", Data: []byte("r2\tfirst")},
	)

	var got []record.Record
	for {
		r, err := l.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		got = append(got, r)
	}

	require.Len(t, got, 3)
	assert.Equal(t, "r1", got[0].Name)
	assert.Equal(t, []byte("r1\tsecond"), got[1].Data)
	assert.Equal(t, "r2", got[2].Name)

	// Reads past the end keep returning io.EOF.
	_, err := l.Read()
	assert.ErrorIs(t, err, io.EOF)
	_, err = l.Read()
	assert.ErrorIs(t, err, io.EOF)
}

func TestListEmpty(t *testing.T) {
	t.Parallel()

	_, err := record.NewList().Read()
	assert.ErrorIs(t, err, io.EOF)
}

func TestWriterFunc(t *testing.T) {
	t.Parallel()

	var names []string
	w := record.WriterFunc(func(r record.Record) error {
		names = append(names, r.Name)
		return nil
	})

	require.NoError(t, w.Write(record.Record{Name: "a"}))
	require.NoError(t, w.Write(record.Record{Name: "b"}))
	assert.Equal(t, []string{"a", "b"}, names)

	errWrite := errors.New("its a me errorio")
	failing := record.WriterFunc(func(record.Record) error { return errWrite })
	assert.ErrorIs(t, failing.Write(record.Record{}), errWrite)
}

func TestBuffer(t *testing.T) {
	t.Parallel()

	var b record.Buffer
	require.NoError(t, b.Write(record.Record{Name: "x", Data: []byte("x\t1")}))
	require.NoError(t, b.Write(record.Record{Name: "y", Data: []byte("y\t1")}))

	require.Len(t, b.Records, 2)
	assert.Equal(t, "x", b.Records[0].Name)
	assert.Equal(t, "y", b.Records[1].Name)
}
