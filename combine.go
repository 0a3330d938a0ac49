// Package sortdata combines a directory of heterogeneous data files
// (CSV, JSON, XML, Parquet) into a single tab-separated file.
//
// The run is two passes over every file: a first pass collecting only
// field names to build the unified header, and a second pass that
// re-reads each file, aligns every record to the header and writes
// rows incrementally. Reading a file twice is the deliberate price for
// keeping peak memory at the number of distinct field names rather
// than the number of records; it also means inputs must be re-readable
// plain files, not pipes.
package sortdata

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/Jony-softdeveloper/Sorting-data-of-files/format"
	"github.com/Jony-softdeveloper/Sorting-data-of-files/record"
)

// Request describes one combining run.
type Request struct {
	// Source directory containing the input files.
	Dir string `yaml:"dir"`

	// Base name of the output file, written to <Dir>/result/<OutName>.tsv.
	// Defaults to "result".
	OutName string `yaml:"out_name"`

	// Target database URL. When empty, no database load is performed.
	Database string `yaml:"db"`

	// Database schema and table for the loaded rows. The schema
	// defaults to "public" and the table to OutName.
	Schema string `yaml:"schema"`
	Table  string `yaml:"table"`

	// Append to the target table instead of replacing it.
	AppendTable bool `yaml:"append"`
}

// Phase identifies the stage of a run. A failed run reports the phase
// that produced the error.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseCollectingSchema
	PhaseWriting
	PhaseLoading
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseCollectingSchema:
		return "collecting schema"
	case PhaseWriting:
		return "writing"
	case PhaseLoading:
		return "loading"
	case PhaseDone:
		return "done"
	}

	return "idle"
}

// PhaseError wraps a run error with the phase it occurred in.
type PhaseError struct {
	Phase Phase
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}

func fail(p Phase, err error) error {
	return &PhaseError{Phase: p, Err: err}
}

// FileStat reports per-file results of the writing pass.
type FileStat struct {
	Name    string
	Records int64
	Skipped int
}

// Outcome is the result of a successful run.
type Outcome struct {
	// Path of the combined TSV file.
	OutputPath string

	// Data rows written, excluding the header.
	RowsWritten int64

	// Malformed CSV rows skipped during the writing pass.
	RowsSkipped int64

	// Unified header, in first-observed order.
	Fields []string

	// Per-file statistics, in processing order.
	Files []FileStat

	// Files in the source directory with unsupported extensions,
	// ignored by the run.
	SkippedFiles []string

	// Rows loaded into the database, when a database was requested.
	RowsLoaded int64
}

// Run combines every supported file of r.Dir into one TSV file. Files
// are processed in lexicographic name order, records in source order.
// On failure no output file is left behind, and the returned error
// classifies via KindOf.
func Run(r *Request) (*Outcome, error) {
	if r.Dir == "" {
		return nil, fail(PhaseIdle, errors.New("source directory is required"))
	}

	outName := r.OutName
	if outName == "" {
		outName = "result"
	}

	files, unsupported, err := listFiles(r.Dir)
	if err != nil {
		return nil, fail(PhaseIdle, err)
	}

	// First pass: fold field names of every record into the schema.
	schema := record.NewSchema()

	var observed int64
	for _, name := range files {
		n, err := collectFields(filepath.Join(r.Dir, name), schema)
		if err != nil {
			return nil, fail(PhaseCollectingSchema, err)
		}
		observed += n
	}

	if observed == 0 || schema.Len() == 0 {
		return nil, fail(PhaseCollectingSchema, ErrEmptyInput)
	}

	// Second pass: re-read each file in the same order, normalize and
	// write. The schema is sealed from here on.
	outDir := filepath.Join(r.Dir, "result")
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fail(PhaseWriting, err)
	}

	outPath := filepath.Join(outDir, outName+".tsv")

	w, err := newTSVWriter(outPath)
	if err != nil {
		return nil, fail(PhaseWriting, err)
	}

	if err := w.WriteHeader(schema.Names()); err != nil {
		w.Discard()
		return nil, fail(PhaseWriting, err)
	}

	out := &Outcome{
		OutputPath:   outPath,
		Fields:       schema.Names(),
		SkippedFiles: unsupported,
	}

	for _, name := range files {
		stat, err := writeFileRows(filepath.Join(r.Dir, name), schema, w)
		stat.Name = name

		if err != nil {
			w.Discard()
			return nil, fail(PhaseWriting, err)
		}

		out.Files = append(out.Files, stat)
		out.RowsSkipped += int64(stat.Skipped)
	}

	if err := w.Close(); err != nil {
		os.Remove(outPath)
		return nil, fail(PhaseWriting, err)
	}

	out.RowsWritten = w.Rows()

	if r.Database != "" {
		n, err := loadDatabase(r, outName, outPath, schema.Names())
		if err != nil {
			// The TSV is complete at this point; only the load failed.
			return nil, fail(PhaseLoading, err)
		}
		out.RowsLoaded = n
	}

	return out, nil
}

// listFiles enumerates the directory, splitting entries into supported
// input files (sorted for deterministic processing order) and ignored
// ones.
func listFiles(dir string) ([]string, []string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}

	var files, unsupported []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		if format.Supported(e.Name()) {
			files = append(files, e.Name())
		} else {
			unsupported = append(unsupported, e.Name())
		}
	}

	sort.Strings(files)

	return files, unsupported, nil
}

// collectFields streams one file, adding every observed field name to
// the schema, and returns the number of records observed.
func collectFields(path string, schema *record.Schema) (int64, error) {
	fr, err := format.Open(path)
	if err != nil {
		return 0, err
	}
	defer fr.Close()

	var n int64
	for {
		rec, err := fr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return n, err
		}

		for _, name := range rec.Fields() {
			schema.Add(name)
		}
		n++
	}

	return n, nil
}

// writeFileRows streams one file a second time, writing each record
// normalized against the sealed schema.
func writeFileRows(path string, schema *record.Schema, w *tsvWriter) (FileStat, error) {
	var stat FileStat

	fr, err := format.Open(path)
	if err != nil {
		return stat, err
	}
	defer fr.Close()

	for {
		rec, err := fr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stat, err
		}

		row, err := record.Normalize(rec, schema)
		if err != nil {
			return stat, err
		}

		if err := w.WriteRow(row); err != nil {
			return stat, err
		}

		stat.Records++
	}

	stat.Skipped = fr.Skipped()

	return stat, nil
}
