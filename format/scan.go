package format

import (
	"bufio"
	"errors"
	"io"
)

// Row-level parse errors. Rows failing with one of these are recoverable:
// the scanner resynchronizes on the next line.
var (
	errUnquotedField     = errors.New("unquoted field")
	errUnescapedQuote    = errors.New("bare quote")
	errUnterminatedField = errors.New("unterminated field")
)

func isRowError(err error) bool {
	return errors.Is(err, errUnquotedField) ||
		errors.Is(err, errUnescapedQuote) ||
		errors.Is(err, errUnterminatedField)
}

// scanner reads delimiter-separated values compatible with rfc4180,
// extended with the option of a separator other than ",". Successive
// calls to scan step through the fields of the input; endOfRecord
// tells when a field was terminated by a line break rather than a
// separator. Parse errors end the current record and scanning resumes
// at the next line.
type scanner struct {
	sc *bufio.Scanner

	sep byte // values separator
	eor bool // most recent field was terminated by a newline, not a separator

	eof bool
	err error

	line  string
	token []byte
	data  []byte

	trail bool
}

func newScanner(r io.Reader, sep byte) *scanner {
	return &scanner{
		sc:  bufio.NewScanner(r),
		sep: sep,
		eor: true,
	}
}

// Err returns the error state of the scanner, io.EOF once the input is
// exhausted.
func (s *scanner) Err() error {
	if err := s.sc.Err(); err != nil {
		return err
	}

	if s.err != nil {
		return s.err
	}

	if s.eof {
		return io.EOF
	}

	return nil
}

// Read scans all fields of one record. A row-level parse error applies
// to the whole returned record; the next Read starts on a fresh line.
func (s *scanner) Read() ([]string, error) {
	var (
		err error
		r   []string
	)

	for s.scan() {
		if err = s.Err(); err != nil {
			return nil, err
		}

		r = append(r, string(s.token))

		if s.eor {
			break
		}
	}

	if len(r) == 0 {
		return nil, s.Err()
	}

	return r, nil
}

func (s *scanner) scan() bool {
	// EOF
	if s.eof && len(s.data) == 0 {
		return false
	}

	// If the end of the record has been reached, scan for the next line.
	if s.eor {
		s.line = ""
		s.data = nil
		s.token = nil

		// Scan until there is a non-empty line to parse.
		for {
			if !s.sc.Scan() {
				if err := s.sc.Err(); err != nil {
					return false
				}

				s.eof = true
				break
			}

			s.line = s.sc.Text()

			// Skip empty lines.
			if s.line != "" {
				s.data = s.sc.Bytes()
				break
			}
		}
	}

	adv, token, trail, err := s.scanField(s.data)

	// Advance the section of the line for the next field.
	s.data = s.data[adv:]
	s.err = err

	if trail && len(s.data) == 0 {
		s.trail = trail
	}

	// Set the token if no error occurred, otherwise mark the end of the
	// record so the next scan resynchronizes on a new line.
	if err == nil {
		s.token = token
	} else {
		s.token = s.data
		s.eor = true
	}

	if !s.trail && s.eof && len(s.data) == 0 {
		return false
	}

	return true
}

func (s *scanner) scanField(data []byte) (int, []byte, bool, error) {
	// A trailing separator ended the previous field: one empty field remains.
	if s.trail {
		s.eor = true
		s.trail = false
		return 0, data, false, nil
	}

	if len(data) == 0 {
		return 0, nil, false, nil
	}

	s.eor = false

	// Quoted field.
	if data[0] == '"' {
		var (
			eq    int
			oq    bool
			c, pc byte
		)

		// Scan until the end quote is found.
		for i := 1; i < len(data); i++ {
			c = data[i]

			// Successive quotes denote an escaped quote. Clear the
			// previous byte so escaped quotes are not overlapped.
			if c == '"' {
				if pc == '"' {
					pc = 0
					oq = false
					eq++
					continue
				}

				if oq {
					return 0, nil, false, errUnescapedQuote
				}

				oq = true
			}

			// End of field with a trailing separator.
			if pc == '"' && c == s.sep {
				return i + 1, unescapeQuotes(data[1:i-1], eq), true, nil
			}

			pc = c
		}

		// Ran out of bytes.
		s.eor = true

		// Final character in the line is the closing quote of the last field.
		if c == '"' {
			return len(data), unescapeQuotes(data[1:len(data)-1], eq), false, nil
		}

		return 0, nil, false, errUnterminatedField
	}

	// Unquoted field. Only fails if a double quote is found.
	for i, c := range data {
		if c == s.sep {
			s.eor = false
			return i + 1, data[0:i], true, nil
		}

		if c == '"' {
			return 0, nil, false, errUnquotedField
		}
	}

	// Ran out of bytes.
	s.eor = true

	return len(data), data, false, nil
}

// unescapeQuotes removes escaped quotes in place.
func unescapeQuotes(b []byte, count int) []byte {
	if count == 0 {
		return b
	}

	for i, j := 0, 0; i < len(b); i, j = i+1, j+1 {
		b[j] = b[i]

		if b[i] == '"' && (i < len(b)-1 && b[i+1] == '"') {
			i++
		}
	}

	return b[:len(b)-count]
}
