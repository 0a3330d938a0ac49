package sortdata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTSVWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.tsv")

	w, err := newTSVWriter(path)
	require.NoError(t, err)

	require.NoError(t, w.WriteHeader([]string{"id", "name"}))
	require.NoError(t, w.WriteRow([]string{"1", "Alice"}))
	require.NoError(t, w.WriteRow([]string{"2", ""}))
	require.NoError(t, w.Close())

	assert.Equal(t, int64(2), w.Rows())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "id\tname\n1\tAlice\n2\t\n", string(b))
}

func TestTSVWriterEscapes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.tsv")

	w, err := newTSVWriter(path)
	require.NoError(t, err)

	// The escaping policy applies to header and data fields alike.
	require.NoError(t, w.WriteHeader([]string{"field\tone", "b"}))
	require.NoError(t, w.WriteRow([]string{"multi\nline", "tab\there\r"}))
	require.NoError(t, w.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "field one\tb\nmulti line\ttab here \n", string(b))
}

func TestTSVWriterDiscard(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.tsv")

	w, err := newTSVWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.WriteHeader([]string{"a"}))

	w.Discard()

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestTSVWriterOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.tsv")
	require.NoError(t, os.WriteFile(path, []byte("stale content\n"), 0644))

	w, err := newTSVWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.WriteHeader([]string{"a"}))
	require.NoError(t, w.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\n", string(b))
}
