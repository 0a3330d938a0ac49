package format

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/Jony-softdeveloper/Sorting-data-of-files/record"
	"github.com/Jony-softdeveloper/Sorting-data-of-files/reader"
)

// xmlReader yields one record per child element of the document root.
// Each child element of a record element contributes one field: the
// name comes from a "name" attribute when present, otherwise from the
// tag itself; the value is the element's character data. This covers
// both plain layouts (<row><id>1</id></row>) and attribute-named ones
// (<objects><object name="M1"><value>1</value></object></objects>).
// Parsing is a token walk, so the document is never loaded whole, and
// mismatched or unclosed tags surface as malformed-document errors.
type xmlReader struct {
	in     *reader.Reader
	dec    *xml.Decoder
	path   string
	inRoot bool
}

func openXML(path string) (Reader, error) {
	in, err := reader.Open(path)
	if err != nil {
		return nil, err
	}

	return &xmlReader{
		in:   in,
		dec:  xml.NewDecoder(in),
		path: path,
	}, nil
}

func (x *xmlReader) Read() (*record.Record, error) {
	for {
		tok, err := x.dec.Token()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			return nil, malformed(x.path, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		if !x.inRoot {
			// Document root.
			x.inRoot = true
			continue
		}

		return x.readRecord(start)
	}
}

// readRecord consumes tokens up to the record element's closing tag.
func (x *xmlReader) readRecord(start xml.StartElement) (*record.Record, error) {
	rec := record.New()

	for {
		tok, err := x.dec.Token()
		if err != nil {
			// EOF before the closing tag is a structural error.
			return nil, malformed(x.path, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			for _, a := range t.Attr {
				if a.Name.Local == "name" {
					name = a.Value
					break
				}
			}

			value, err := x.collectText()
			if err != nil {
				return nil, err
			}

			rec.Set(name, value)

		case xml.EndElement:
			return rec, nil
		}
	}
}

// collectText gathers the character data of the current element,
// including nested value tags, until its closing tag.
func (x *xmlReader) collectText() (string, error) {
	var (
		sb    strings.Builder
		depth = 1
	)

	for depth > 0 {
		tok, err := x.dec.Token()
		if err != nil {
			return "", malformed(x.path, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			sb.Write(t)
		}
	}

	return strings.TrimSpace(sb.String()), nil
}

func (x *xmlReader) Skipped() int {
	return 0
}

func (x *xmlReader) Close() error {
	return x.in.Close()
}
