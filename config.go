package sortdata

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads run defaults from a YAML file. Fields left empty in
// the file keep their zero value and fall back to the usual defaults;
// callers typically overlay command-line flags on the result.
func LoadConfig(path string) (*Request, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var r Request
	if err := yaml.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("%s: parsing config: %w", path, err)
	}

	return &r, nil
}
