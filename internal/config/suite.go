package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"vrt/internal/domain"
)

// DefaultSuite returns the demos checked when no suite file exists
func DefaultSuite() domain.Suite {
	return domain.Suite{
		Cases: []domain.TestCase{
			{
				Name:       "Hello Triangle",
				Folder:     "../Hello Triangle",
				Executable: "../x64/Debug - Graphic Tests/Hello Triangle.exe",
				Process:    "Hello Triangle.exe",
				Window:     "Hello Triangle",
			},
			{
				Name:       "Compute Pass",
				Folder:     "../Compute Pass",
				Executable: "../x64/Debug - Graphic Tests/Compute Pass.exe",
				Process:    "Compute Pass.exe",
				Window:     "Compute Pass",
			},
			{
				Name:       "Variable Rate Shading",
				Folder:     "../Variable Rate Shading",
				Executable: "../x64/Debug - Graphic Tests/Variable Rate Shading.exe",
				Process:    "Variable Rate Shading.exe",
				Window:     "Variable Rate Shading",
			},
		},
	}
}

// LoadSuite reads a suite file, falling back to DefaultSuite when the file does not exist
func LoadSuite(path string) (domain.Suite, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultSuite(), nil
	}
	if err != nil {
		return domain.Suite{}, fmt.Errorf("read suite: %w", err)
	}
	return ParseSuite(data)
}

// ParseSuite decodes and validates a YAML suite definition
func ParseSuite(data []byte) (domain.Suite, error) {
	var suite domain.Suite
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return domain.Suite{}, fmt.Errorf("parse suite: %w", err)
	}
	if err := ValidateSuite(suite); err != nil {
		return domain.Suite{}, err
	}
	for i := range suite.Cases {
		suite.Cases[i].Process = suite.Cases[i].ProcessName()
	}
	return suite, nil
}

// ValidateSuite checks that every case is runnable and names are unique
func ValidateSuite(suite domain.Suite) error {
	if len(suite.Cases) == 0 {
		return fmt.Errorf("suite has no cases")
	}
	seen := make(map[string]bool)
	for i, tc := range suite.Cases {
		if tc.Name == "" {
			return fmt.Errorf("case %d: name is required", i+1)
		}
		if seen[tc.Name] {
			return fmt.Errorf("case %q: duplicate name", tc.Name)
		}
		seen[tc.Name] = true
		if tc.Folder == "" {
			return fmt.Errorf("case %q: folder is required", tc.Name)
		}
		if tc.Executable == "" {
			return fmt.Errorf("case %q: executable is required", tc.Name)
		}
		if tc.Window == "" {
			return fmt.Errorf("case %q: window title is required", tc.Name)
		}
	}
	return nil
}

// MarshalSuite encodes a suite as YAML, in the format LoadSuite reads
func MarshalSuite(suite domain.Suite) ([]byte, error) {
	data, err := yaml.Marshal(suite)
	if err != nil {
		return nil, fmt.Errorf("marshal suite: %w", err)
	}
	return data, nil
}
