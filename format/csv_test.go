package format

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jony-softdeveloper/Sorting-data-of-files/record"
)

func readAll(t *testing.T, r Reader) []*record.Record {
	t.Helper()

	var recs []*record.Record
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		recs = append(recs, rec)
	}

	return recs
}

func TestCSVReader(t *testing.T) {
	path := writeFile(t, "people.csv", "id,name\n1,Alice\n2,Bob\n")

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	recs := readAll(t, r)
	require.Len(t, recs, 2)

	assert.Equal(t, []string{"id", "name"}, recs[0].Fields())

	v, ok := recs[0].Get("name")
	require.True(t, ok)
	assert.Equal(t, "Alice", v)

	v, ok = recs[1].Get("id")
	require.True(t, ok)
	assert.Equal(t, "2", v)

	assert.Equal(t, 0, r.Skipped())
}

func TestCSVSkipsMismatchedRows(t *testing.T) {
	path := writeFile(t, "people.csv", "id,name,city\n1,Alice\n2,Bob,Lyon\n3,Eve,Paris,extra\n")

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	recs := readAll(t, r)
	require.Len(t, recs, 1)

	v, _ := recs[0].Get("name")
	assert.Equal(t, "Bob", v)
	assert.Equal(t, 2, r.Skipped())
}

func TestCSVSkipsBadQuoting(t *testing.T) {
	path := writeFile(t, "people.csv", "id,name\n1,al\"ice\n2,Bob\n")

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	recs := readAll(t, r)
	require.Len(t, recs, 1)
	assert.Equal(t, 1, r.Skipped())
}

func TestCSVEmptyFile(t *testing.T) {
	path := writeFile(t, "empty.csv", "")

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	assert.Empty(t, readAll(t, r))
}

func TestCSVWindowsLineEndings(t *testing.T) {
	path := writeFile(t, "people.csv", "\xef\xbb\xbfid,name\r\n1,Alice\r\n")

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	recs := readAll(t, r)
	require.Len(t, recs, 1)

	assert.Equal(t, []string{"id", "name"}, recs[0].Fields())

	v, _ := recs[0].Get("id")
	assert.Equal(t, "1", v)
}

func TestCSVHeaderKeepsCase(t *testing.T) {
	path := writeFile(t, "people.csv", "ID,Name\n1,Alice\n")

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	recs := readAll(t, r)
	require.Len(t, recs, 1)
	assert.Equal(t, []string{"ID", "Name"}, recs[0].Fields())
}
