// Package format provides one record reader per supported file format
// (CSV, JSON, XML, Parquet), selected by file extension. Every reader
// yields records lazily in source order with memory bounded regardless
// of file size, and owns its file handle until Close.
package format

import (
	"errors"
	"fmt"

	"github.com/Jony-softdeveloper/Sorting-data-of-files/record"
	"github.com/Jony-softdeveloper/Sorting-data-of-files/reader"
)

var (
	// ErrUnsupportedFormat is returned by Open for file extensions with
	// no registered reader. Callers typically skip such files.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrMalformedDocument is returned when a file's structure is
	// invalid for its format (e.g. a JSON file whose top level is not
	// an array of objects, or an XML file with mismatched tags).
	ErrMalformedDocument = errors.New("malformed document")
)

// Reader produces a lazy, finite, single-pass sequence of records from
// one file. Read returns io.EOF when the sequence is exhausted.
// Re-reading a file requires a new Reader for the same path.
type Reader interface {
	Read() (*record.Record, error)

	// Skipped reports the number of malformed rows recovered from and
	// dropped so far. Only the CSV reader ever skips rows.
	Skipped() int

	Close() error
}

type openFunc func(path string) (Reader, error)

var formats = map[string]openFunc{
	"csv":     openCSV,
	"json":    openJSON,
	"xml":     openXML,
	"parquet": openParquet,
}

// Supported reports whether a reader is registered for the file's
// extension (ignoring any trailing compression extension).
func Supported(path string) bool {
	f, _ := reader.DetectType(path)
	_, ok := formats[f]
	return ok
}

// Open selects a reader by the file's extension and opens it.
func Open(path string) (Reader, error) {
	f, _ := reader.DetectType(path)

	open, ok := formats[f]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	return open(path)
}

func malformed(path string, err error) error {
	return fmt.Errorf("%s: %w: %v", path, ErrMalformedDocument, err)
}
