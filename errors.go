package sortdata

import (
	"errors"

	"github.com/Jony-softdeveloper/Sorting-data-of-files/format"
	"github.com/Jony-softdeveloper/Sorting-data-of-files/record"
)

// ErrEmptyInput is returned when no records were observed across all
// supported files of the source directory.
var ErrEmptyInput = errors.New("no records found in any supported input file")

// ErrorKind classifies a run failure for presentation to callers.
type ErrorKind uint8

const (
	KindIO ErrorKind = iota
	KindUnsupportedFormat
	KindMalformedDocument
	KindEmptyInput
	KindSchemaDrift
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnsupportedFormat:
		return "unsupported format"
	case KindMalformedDocument:
		return "malformed document"
	case KindEmptyInput:
		return "empty input"
	case KindSchemaDrift:
		return "schema drift"
	}

	return "i/o error"
}

// KindOf maps any error returned by Run to its taxonomy kind. Read and
// write failures not otherwise classified are I/O errors.
func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, format.ErrUnsupportedFormat):
		return KindUnsupportedFormat
	case errors.Is(err, format.ErrMalformedDocument):
		return KindMalformedDocument
	case errors.Is(err, ErrEmptyInput):
		return KindEmptyInput
	case errors.Is(err, record.ErrSchemaDrift):
		return KindSchemaDrift
	}

	return KindIO
}
