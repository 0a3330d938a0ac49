package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordOrder(t *testing.T) {
	r := New()
	r.Set("b", "2")
	r.Set("a", "1")
	r.Set("b", "3")

	assert.Equal(t, []string{"b", "a"}, r.Fields())

	v, ok := r.Get("b")
	require.True(t, ok)
	assert.Equal(t, "3", v)

	_, ok = r.Get("c")
	assert.False(t, ok)
}

func TestSchemaFirstSeenOrder(t *testing.T) {
	s := NewSchema()
	for _, n := range []string{"id", "name", "id", "city", "name"} {
		s.Add(n)
	}

	assert.Equal(t, []string{"id", "name", "city"}, s.Names())
	assert.Equal(t, 3, s.Len())
}

func TestSchemaCaseSensitive(t *testing.T) {
	s := NewSchema()
	s.Add("Name")
	s.Add("name")
	s.Add("name ")

	// No implicit normalization: casing and whitespace are distinct fields.
	assert.Equal(t, []string{"Name", "name", "name "}, s.Names())
}

func TestNormalizeFillsMissing(t *testing.T) {
	s := NewSchema()
	s.Add("id")
	s.Add("name")
	s.Add("city")

	r := New()
	r.Set("city", "Lyon")
	r.Set("id", "3")

	row, err := Normalize(r, s)
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "", "Lyon"}, row)
}

func TestNormalizeDrift(t *testing.T) {
	s := NewSchema()
	s.Add("id")

	r := New()
	r.Set("id", "1")
	r.Set("extra", "x")

	_, err := Normalize(r, s)
	require.ErrorIs(t, err, ErrSchemaDrift)
}
