package format

import (
	"fmt"
	"io"

	"github.com/Jony-softdeveloper/Sorting-data-of-files/record"
	"github.com/Jony-softdeveloper/Sorting-data-of-files/reader"
)

// csvReader reads one record per line, keyed by the field names on the
// first line. Rows whose field count does not match the header, and
// rows with quoting errors, are skipped and counted rather than
// failing the file.
type csvReader struct {
	in      *reader.Reader
	sc      *scanner
	header  []string
	skipped int
}

func openCSV(path string) (Reader, error) {
	in, err := reader.Open(path)
	if err != nil {
		return nil, err
	}

	sc := newScanner(in, ',')

	header, err := sc.Read()
	if err != nil {
		in.Close()
		if err == io.EOF {
			// An empty file yields an empty record sequence.
			return &csvReader{in: in, sc: sc}, nil
		}
		return nil, malformed(path, fmt.Errorf("reading header: %v", err))
	}

	return &csvReader{
		in:     in,
		sc:     sc,
		header: header,
	}, nil
}

func (c *csvReader) Read() (*record.Record, error) {
	if c.header == nil {
		return nil, io.EOF
	}

	for {
		row, err := c.sc.Read()
		if err == io.EOF {
			return nil, io.EOF
		}

		if err != nil {
			if isRowError(err) {
				c.skipped++
				continue
			}
			return nil, err
		}

		if len(row) != len(c.header) {
			c.skipped++
			continue
		}

		rec := record.New()
		for i, name := range c.header {
			rec.Set(name, row[i])
		}

		return rec, nil
	}
}

func (c *csvReader) Skipped() int {
	return c.skipped
}

func (c *csvReader) Close() error {
	return c.in.Close()
}
