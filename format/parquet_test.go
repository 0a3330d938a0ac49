package format

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/segmentio/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type measurement struct {
	ID    int64   `parquet:"id"`
	Name  string  `parquet:"name"`
	Value float64 `parquet:"value"`
}

func writeParquetFile(t *testing.T, rows []measurement) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "rows.parquet")

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := parquet.NewGenericWriter[measurement](f)
	_, err = w.Write(rows)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return path
}

func TestParquetReader(t *testing.T) {
	path := writeParquetFile(t, []measurement{
		{ID: 1, Name: "Alice", Value: 4.5},
		{ID: 2, Name: "Bob", Value: 7},
	})

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	recs := readAll(t, r)
	require.Len(t, recs, 2)

	// Field order comes from the file schema.
	assert.Equal(t, []string{"id", "name", "value"}, recs[0].Fields())

	v, _ := recs[0].Get("value")
	assert.Equal(t, "4.5", v)

	v, _ = recs[1].Get("id")
	assert.Equal(t, "2", v)
}

func TestParquetNotAParquetFile(t *testing.T) {
	path := writeFile(t, "rows.parquet", "this is not parquet")

	_, err := Open(path)
	require.ErrorIs(t, err, ErrMalformedDocument)
}
