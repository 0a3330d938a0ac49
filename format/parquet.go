package format

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/segmentio/parquet-go"

	"github.com/Jony-softdeveloper/Sorting-data-of-files/record"
)

// parquetReader yields parquet rows one at a time, with field order
// taken from the file schema rather than the decoded row map.
type parquetReader struct {
	file    *os.File
	rows    *parquet.Reader
	columns []string
}

func openParquet(path string) (Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}

	pqFile, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		file.Close()
		return nil, malformed(path, err)
	}

	fields := pqFile.Schema().Fields()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Name()
	}

	return &parquetReader{
		file:    file,
		rows:    parquet.NewReader(pqFile),
		columns: columns,
	}, nil
}

func (p *parquetReader) Read() (*record.Record, error) {
	row := make(map[string]interface{})

	if err := p.rows.Read(&row); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, malformed(p.file.Name(), err)
	}

	rec := record.New()
	for _, name := range p.columns {
		rec.Set(name, formatValue(row[name]))
	}

	return rec, nil
}

// formatValue converts a decoded parquet value to its text form.
func formatValue(v interface{}) string {
	if v == nil {
		return ""
	}

	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	case int, int8, int16, int32, int64:
		return fmt.Sprintf("%d", val)
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", val)
	case float32, float64:
		return fmt.Sprintf("%g", val)
	case bool:
		return fmt.Sprintf("%t", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func (p *parquetReader) Skipped() int {
	return 0
}

func (p *parquetReader) Close() error {
	if err := p.rows.Close(); err != nil {
		p.file.Close()
		return err
	}
	return p.file.Close()
}
