package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// BrowsersFile is the shape of config/browsers.json.
type BrowsersFile struct {
	Browsers []string `json:"browsers"`
}

// BrowsersLoader ...
type BrowsersLoader interface {
	Load(pth string) ([]string, error)
}

type browsersLoader struct{}

// NewBrowsersLoader ...
func NewBrowsersLoader() BrowsersLoader {
	return browsersLoader{}
}

// Load reads the list of browser identifiers the pairing step looks for.
func (browsersLoader) Load(pth string) ([]string, error) {
	data, err := os.ReadFile(pth)
	if err != nil {
		return nil, fmt.Errorf("failed to read browsers config (%s): %w", pth, err)
	}

	var file BrowsersFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse browsers config (%s): %w", pth, err)
	}
	if file.Browsers == nil {
		return nil, fmt.Errorf("browsers config (%s) has no browsers list", pth)
	}

	return file.Browsers, nil
}

// LoadDotEnv loads the given .env files into the process environment.
// Files that do not exist are skipped, variables already set are kept.
func LoadDotEnv(pths ...string) error {
	for _, pth := range pths {
		if _, err := os.Stat(pth); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(pth); err != nil {
			return fmt.Errorf("failed to load environment from (%s): %w", pth, err)
		}
	}
	return nil
}
