package commons

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.yaml.in/yaml/v3"

	"shopledger/internal/config"
)

// LoadConfig reads an optional YAML file on top of the built-in defaults and
// then applies environment overrides. A missing file is not an error.
func LoadConfig(path string) (*config.Config, error) {
	base := config.Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return config.LoadWithBase(base)
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &base); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return config.LoadWithBase(base)
}
