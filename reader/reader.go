// Package reader opens input files for the text-based formats,
// normalizing line endings and transparently decompressing gzip and
// bzip2 inputs detected from the trailing file extension.
package reader

import (
	"bytes"
	"compress/bzip2"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

var bom = []byte{0xef, 0xbb, 0xbf}

// UniversalReader wraps an io.Reader to replace carriage returns with newlines
// and strip a leading byte order mark. This is used so line-oriented parsing
// can delimit records the same way regardless of the producing platform.
type UniversalReader struct {
	r io.Reader
}

func (r *UniversalReader) Read(buf []byte) (int, error) {
	n, err := r.r.Read(buf)

	// Detect and remove BOM.
	if bytes.HasPrefix(buf, bom) {
		copy(buf, buf[len(bom):])
		n -= len(bom)
	}

	// Replace carriage returns with newlines.
	for i, b := range buf {
		if b == '\r' {
			buf[i] = '\n'
		}
	}

	return n, err
}

func (r *UniversalReader) Close() error {
	if rc, ok := r.r.(io.Closer); ok {
		return rc.Close()
	}
	return nil
}

func NewUniversalReader(r io.Reader) *UniversalReader {
	return &UniversalReader{r}
}

// DetectType splits the extensions of a file name and returns the data
// format and compression type, either of which may be empty.
// The format extension precedes the compression extension, e.g.
// "data.csv.gz" is a gzip-compressed CSV file.
func DetectType(name string) (string, string) {
	_, base := path.Split(filepath.ToSlash(name))

	exts := strings.Split(base, ".")[1:]

	var (
		compression string
		format      string
	)

	for _, ext := range exts {
		switch strings.ToLower(ext) {
		case "gz", "gzip":
			compression = "gzip"

		case "bz2", "bzip2":
			compression = "bzip2"

		case "csv":
			format = "csv"

		case "json":
			format = "json"

		case "xml":
			format = "xml"

		case "parquet":
			format = "parquet"
		}
	}

	return format, compression
}

// Reader is an open input file with decompression and line-ending
// normalization applied. It is single-pass; re-reading a file means
// calling Open again.
type Reader struct {
	Name        string
	Compression string

	reader io.Reader
	file   *os.File
}

// Read implements the io.Reader interface.
func (r *Reader) Read(buf []byte) (int, error) {
	return r.reader.Read(buf)
}

// Close releases the underlying file handle. Safe to call more than once.
func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// Open opens a file by name, layering a decompression reader when the
// name carries a known compression extension.
func Open(name string) (*Reader, error) {
	_, compression := DetectType(name)

	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}

	r := &Reader{
		Name:        name,
		Compression: compression,
		file:        file,
		reader:      file,
	}

	switch compression {
	case "gzip":
		gr, err := gzip.NewReader(r.reader)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("%s: opening gzip stream: %w", name, err)
		}
		r.reader = gr

	case "bzip2":
		r.reader = bzip2.NewReader(r.reader)
	}

	r.reader = &UniversalReader{r.reader}

	return r, nil
}
