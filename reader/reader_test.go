package reader

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
)

func TestUniversalReader(t *testing.T) {
	s := "\xef\xbb\xbfhello world!\r"

	r := bytes.NewBufferString(s)
	ur := &UniversalReader{r}

	buf := make([]byte, 20)
	n, err := ur.Read(buf)

	if err != nil {
		t.Fatalf("problem reading: %s", err)
	}

	if cap(buf) != 20 {
		t.Fatalf("expected 20 cap, got %d", cap(buf))
	}

	if len(s)-3 != n {
		t.Errorf("expected %d bytes, got %d", len(s)-3, n)
	}

	exp := "hello world!\n"

	if string(buf[:n]) != exp {
		t.Errorf("expected '%v', got '%v'", exp, string(buf[:n]))
	}
}

func TestDetectType(t *testing.T) {
	tests := []struct {
		name        string
		format      string
		compression string
	}{
		{"data.csv", "csv", ""},
		{"data.CSV", "csv", ""},
		{"data.csv.gz", "csv", "gzip"},
		{"data.json.bz2", "json", "bzip2"},
		{"objects.xml", "xml", ""},
		{"rows.parquet", "parquet", ""},
		{"notes.txt", "", ""},
		{"archive.gz", "", "gzip"},
	}

	for _, test := range tests {
		format, compression := DetectType(test.name)

		if format != test.format {
			t.Errorf("%s: expected format %q, got %q", test.name, test.format, format)
		}

		if compression != test.compression {
			t.Errorf("%s: expected compression %q, got %q", test.name, test.compression, compression)
		}
	}
}

func TestOpenGzip(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "data.csv.gz")

	f, err := os.Create(name)
	if err != nil {
		t.Fatal(err)
	}

	gw := gzip.NewWriter(f)
	if _, err := gw.Write([]byte("id,name\r1,Alice\r")); err != nil {
		t.Fatal(err)
	}
	if err := gw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := Open(name)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if r.Compression != "gzip" {
		t.Errorf("expected gzip compression, got %q", r.Compression)
	}

	b, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}

	exp := "id,name\n1,Alice\n"
	if string(b) != exp {
		t.Errorf("expected %q, got %q", exp, string(b))
	}
}
