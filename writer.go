package sortdata

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// TSV has no quoting convention, so tab, newline and carriage return
// characters inside a field are replaced with a single space. The same
// policy applies to header and data fields.
var tsvEscaper = strings.NewReplacer("\t", " ", "\n", " ", "\r", " ")

// tsvWriter serializes the header and normalized rows as tab-separated
// lines, writing incrementally. The target file is created fresh; an
// existing file is overwritten.
type tsvWriter struct {
	path string
	file *os.File
	bw   *bufio.Writer
	rows int64
}

func newTSVWriter(path string) (*tsvWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	return &tsvWriter{
		path: path,
		file: f,
		bw:   bufio.NewWriter(f),
	}, nil
}

func (w *tsvWriter) writeLine(fields []string) error {
	for i, f := range fields {
		if i > 0 {
			if err := w.bw.WriteByte('\t'); err != nil {
				return err
			}
		}
		if _, err := tsvEscaper.WriteString(w.bw, f); err != nil {
			return err
		}
	}

	return w.bw.WriteByte('\n')
}

// WriteHeader writes the field-name line.
func (w *tsvWriter) WriteHeader(fields []string) error {
	return w.writeLine(fields)
}

// WriteRow writes one data row. Rows are counted for the run outcome.
func (w *tsvWriter) WriteRow(values []string) error {
	if err := w.writeLine(values); err != nil {
		return err
	}
	w.rows++
	return nil
}

func (w *tsvWriter) Rows() int64 {
	return w.rows
}

// Close flushes and closes the output file.
func (w *tsvWriter) Close() error {
	if err := w.bw.Flush(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

// Discard closes and removes the output file. Used on failure so a
// partially written file is never left behind.
func (w *tsvWriter) Discard() {
	w.file.Close()
	os.Remove(w.path)
}

// tsvRows reads back lines written by tsvWriter. The writer never
// emits a tab or newline inside a field, so a plain line split is the
// correct parse; a csv-style reader would treat a leading double quote
// as the start of a quoted field and corrupt the row.
type tsvRows struct {
	sc *bufio.Scanner
}

func newTSVRows(in io.Reader) *tsvRows {
	return &tsvRows{sc: bufio.NewScanner(in)}
}

func (r *tsvRows) Read() ([]string, error) {
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}

	return strings.Split(r.sc.Text(), "\t"), nil
}
