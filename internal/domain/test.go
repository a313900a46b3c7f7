package domain

import "path/filepath"

// TestCase describes one demo whose window is captured and compared
type TestCase struct {
	Name       string   `yaml:"name" json:"name"`                     // Display name, unique within a suite
	Folder     string   `yaml:"folder" json:"folder"`                 // Working directory holding the reference image
	Executable string   `yaml:"executable" json:"executable"`         // Path to the demo, relative to Folder unless absolute
	Process    string   `yaml:"process,omitempty" json:"process"`     // Process name used to kill the demo
	Window     string   `yaml:"window" json:"window"`                 // Exact window title
	Args       []string `yaml:"args,omitempty" json:"args,omitempty"` // Extra command-line arguments
}

// ProcessName returns the configured process name, or the executable's base name
func (tc TestCase) ProcessName() string {
	if tc.Process != "" {
		return tc.Process
	}
	return filepath.Base(tc.Executable)
}

// Suite is the declarative list of test cases, run in order
type Suite struct {
	Cases []TestCase `yaml:"cases"`
}
