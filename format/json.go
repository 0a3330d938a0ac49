package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Jony-softdeveloper/Sorting-data-of-files/record"
	"github.com/Jony-softdeveloper/Sorting-data-of-files/reader"
)

// jsonReader yields one record per element of a top-level JSON array of
// objects, or of an array wrapped in a single-member object such as
// {"fields": [...]}. Elements are decoded one at a time off the token
// stream, so the array is never held in memory, and object keys keep
// their document order.
type jsonReader struct {
	in      *reader.Reader
	dec     *json.Decoder
	path    string
	wrapped bool
	done    bool
}

func openJSON(path string) (Reader, error) {
	in, err := reader.Open(path)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(in)

	wrapped, err := seekRecords(dec)
	if err != nil {
		in.Close()
		return nil, malformed(path, err)
	}

	return &jsonReader{
		in:      in,
		dec:     dec,
		path:    path,
		wrapped: wrapped,
	}, nil
}

// seekRecords advances the decoder to just inside the record array and
// reports whether the array sits inside an object wrapper.
func seekRecords(dec *json.Decoder) (bool, error) {
	tok, err := dec.Token()
	if err != nil {
		return false, err
	}

	switch tok {
	case json.Delim('['):
		return false, nil

	case json.Delim('{'):
		// Object wrapper: the member value must be the record array.
		if !dec.More() {
			return false, fmt.Errorf("expected an array member, got an empty object")
		}

		if _, err := dec.Token(); err != nil {
			return false, err
		}

		tok, err := dec.Token()
		if err != nil {
			return false, err
		}

		if tok != json.Delim('[') {
			return false, fmt.Errorf("expected an array of records, got %v", tok)
		}

		return true, nil
	}

	return false, fmt.Errorf("expected an array of records, got %v", tok)
}

func (j *jsonReader) Read() (*record.Record, error) {
	if j.done {
		return nil, io.EOF
	}

	if !j.dec.More() {
		if err := j.finish(); err != nil {
			return nil, err
		}
		j.done = true
		return nil, io.EOF
	}

	tok, err := j.dec.Token()
	if err != nil {
		return nil, malformed(j.path, err)
	}

	if tok != json.Delim('{') {
		return nil, malformed(j.path, fmt.Errorf("array element is not an object: %v", tok))
	}

	rec := record.New()

	for j.dec.More() {
		tok, err := j.dec.Token()
		if err != nil {
			return nil, malformed(j.path, err)
		}

		key, ok := tok.(string)
		if !ok {
			return nil, malformed(j.path, fmt.Errorf("unexpected token %v", tok))
		}

		var raw json.RawMessage
		if err := j.dec.Decode(&raw); err != nil {
			return nil, malformed(j.path, err)
		}

		rec.Set(key, renderValue(raw))
	}

	// Closing brace of the element.
	if _, err := j.dec.Token(); err != nil {
		return nil, malformed(j.path, err)
	}

	return rec, nil
}

// finish consumes the closing tokens of the document so a truncated
// array, an unclosed wrapper object or trailing content after the
// records is reported rather than silently ignored.
func (j *jsonReader) finish() error {
	// Closing bracket of the record array.
	if _, err := j.dec.Token(); err != nil {
		return malformed(j.path, err)
	}

	if j.wrapped {
		tok, err := j.dec.Token()
		if err != nil {
			return malformed(j.path, err)
		}
		if tok != json.Delim('}') {
			return malformed(j.path, fmt.Errorf("unexpected content after the record array: %v", tok))
		}
	}

	if _, err := j.dec.Token(); err != io.EOF {
		return malformed(j.path, fmt.Errorf("trailing data after the document"))
	}

	return nil
}

// renderValue converts one JSON value to its text form: strings are
// unquoted, null becomes the empty value, everything else keeps its
// source representation.
func renderValue(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))

	switch {
	case s == "null":
		return ""

	case len(s) > 0 && s[0] == '"':
		var v string
		if err := json.Unmarshal(raw, &v); err == nil {
			return v
		}
	}

	return s
}

func (j *jsonReader) Skipped() int {
	return 0
}

func (j *jsonReader) Close() error {
	return j.in.Close()
}
