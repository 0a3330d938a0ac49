// Package record defines the common record shape produced by every
// file format and the unified field schema built across a run.
package record

import (
	"errors"
	"fmt"
)

// ErrSchemaDrift denotes a record carrying a field that was not present
// in the schema collected during the first pass. This signals either an
// internal bug or an input directory mutated between passes.
var ErrSchemaDrift = errors.New("field not present in collected schema")

// Record is a single source record as a field-name to value mapping,
// preserving the field order the file presented them in. It is owned
// by the reader that produced it and is never retained across records.
type Record struct {
	fields []string
	values map[string]string
}

func New() *Record {
	return &Record{
		values: make(map[string]string),
	}
}

// Set adds or updates a field. The first Set of a name fixes its
// position in the record's field order.
func (r *Record) Set(name, value string) {
	if _, ok := r.values[name]; !ok {
		r.fields = append(r.fields, name)
	}
	r.values[name] = value
}

// Get returns the value of a field and whether it is present.
func (r *Record) Get(name string) (string, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Fields returns the field names in source order.
func (r *Record) Fields() []string {
	return r.fields
}

func (r *Record) Len() int {
	return len(r.fields)
}

// Schema is the ordered union of field names observed across all input
// files in a run. It is append-only: a name keeps the position it had
// when first seen, duplicates are collapsed to the first occurrence.
// Names are compared exactly; differing case or whitespace means a
// distinct field.
type Schema struct {
	names []string
	seen  map[string]int
}

func NewSchema() *Schema {
	return &Schema{
		seen: make(map[string]int),
	}
}

// Add appends a field name unless it was already observed.
func (s *Schema) Add(name string) {
	if _, ok := s.seen[name]; ok {
		return
	}
	s.seen[name] = len(s.names)
	s.names = append(s.names, name)
}

func (s *Schema) Contains(name string) bool {
	_, ok := s.seen[name]
	return ok
}

// Names returns the field names in first-observed order.
func (s *Schema) Names() []string {
	return s.names
}

func (s *Schema) Len() int {
	return len(s.names)
}

// Normalize aligns a record to the schema: one value per schema field,
// in schema order, with the empty string for fields the record lacks.
// A record field missing from the schema is returned as ErrSchemaDrift
// rather than silently dropped.
func Normalize(rec *Record, schema *Schema) ([]string, error) {
	for _, name := range rec.Fields() {
		if !schema.Contains(name) {
			return nil, fmt.Errorf("%w: %q", ErrSchemaDrift, name)
		}
	}

	row := make([]string, schema.Len())
	for i, name := range schema.Names() {
		if v, ok := rec.Get(name); ok {
			row[i] = v
		}
	}

	return row, nil
}
