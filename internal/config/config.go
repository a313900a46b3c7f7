package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string
	SuiteFile   string

	// Output settings
	OutputJSONFile string
	OutputJSONDir  string

	// Image file names inside each case folder
	CaptureFile   string
	ReferenceFile string

	// Timing
	WindowTimeout time.Duration
	PollInterval  time.Duration
	SettleDelay   time.Duration
	FocusDelay    time.Duration
	ExitTimeout   time.Duration

	// Trigger endpoint
	ServerAddr        string
	TriggerFolder     string
	TriggerExecutable string
	TriggerArg        string

	// Run history; disabled while HistoryDSN is empty
	HistoryDriver string
	HistoryDSN    string

	// Paths to ignore when scanning
	PathsToIgnore []string

	// Command flags
	Flags Flags
}

// Flags holds command-line flags
type Flags struct {
	SuiteFile     string
	NameFilter    string
	KeepGoing     bool
	OpenFails     bool
	Discover      bool
	WindowTimeout time.Duration
	SettleDelay   time.Duration
	ServerAddr    string
	HistoryLimit  int
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		ProjectPath:       DefaultProjectPath,
		SuiteFile:         DefaultSuiteFile,
		OutputJSONFile:    DefaultOutputJSONFile,
		OutputJSONDir:     DefaultOutputJSONDir,
		CaptureFile:       DefaultCaptureFile,
		ReferenceFile:     DefaultReferenceFile,
		WindowTimeout:     DefaultWindowTimeout,
		PollInterval:      DefaultPollInterval,
		SettleDelay:       DefaultSettleDelay,
		FocusDelay:        DefaultFocusDelay,
		ExitTimeout:       DefaultExitTimeout,
		ServerAddr:        DefaultServerAddr,
		TriggerFolder:     DefaultTriggerFolder,
		TriggerExecutable: DefaultTriggerExecutable,
		TriggerArg:        DefaultTriggerArg,
		HistoryDriver:     DefaultHistoryDriver,
	}
	// Copy default paths to ignore
	cfg.PathsToIgnore = make([]string, len(DefaultPathsToIgnore))
	copy(cfg.PathsToIgnore, DefaultPathsToIgnore)
	return cfg
}

// Load creates a config, reads .env and VRT_* variables, then applies flags
func Load(flags Flags) *Config {
	cfg := New()
	cfg.LoadEnv()
	cfg.ApplyFlags(flags)
	return cfg
}

// LoadEnv reads the project's .env file (if any) and applies VRT_* overrides.
// Variables already set in the process environment win over the file.
func (c *Config) LoadEnv() {
	if root := os.Getenv("VRT_PROJECT_PATH"); root != "" {
		c.ProjectPath = root
	}
	// .env file might not exist, that's okay - use environment variables
	_ = godotenv.Load(filepath.Join(c.ProjectPath, ".env"))

	setString(&c.ProjectPath, "VRT_PROJECT_PATH")
	setString(&c.SuiteFile, "VRT_SUITE")
	setString(&c.OutputJSONDir, "VRT_OUTPUT_DIR")
	setString(&c.CaptureFile, "VRT_CAPTURE_FILE")
	setString(&c.ReferenceFile, "VRT_REFERENCE_FILE")
	setString(&c.ServerAddr, "VRT_ADDR")
	setString(&c.TriggerFolder, "VRT_TRIGGER_FOLDER")
	setString(&c.TriggerExecutable, "VRT_TRIGGER_EXECUTABLE")
	setString(&c.TriggerArg, "VRT_TRIGGER_ARG")
	setString(&c.HistoryDriver, "VRT_HISTORY_DRIVER")
	setString(&c.HistoryDSN, "VRT_HISTORY_DSN")
	setDuration(&c.WindowTimeout, "VRT_WINDOW_TIMEOUT")
	setDuration(&c.PollInterval, "VRT_POLL_INTERVAL")
	setDuration(&c.SettleDelay, "VRT_SETTLE_DELAY")
	setDuration(&c.FocusDelay, "VRT_FOCUS_DELAY")
	setDuration(&c.ExitTimeout, "VRT_EXIT_TIMEOUT")
	if ignore := os.Getenv("VRT_IGNORE"); ignore != "" {
		c.PathsToIgnore = strings.Split(ignore, ",")
	}
}

// ApplyFlags copies flags into the config; zero-valued flags leave the current value alone
func (c *Config) ApplyFlags(flags Flags) {
	c.Flags = flags
	if flags.SuiteFile != "" {
		c.SuiteFile = flags.SuiteFile
	}
	if flags.WindowTimeout > 0 {
		c.WindowTimeout = flags.WindowTimeout
	}
	if flags.SettleDelay > 0 {
		c.SettleDelay = flags.SettleDelay
	}
	if flags.ServerAddr != "" {
		c.ServerAddr = flags.ServerAddr
	}
}

// GetSuitePath returns the suite file path, relative to the project path unless absolute
func (c *Config) GetSuitePath() string {
	if filepath.IsAbs(c.SuiteFile) {
		return c.SuiteFile
	}
	return filepath.Join(c.ProjectPath, c.SuiteFile)
}

// ResolveFolder returns the folder of a test case, relative to the project path unless absolute
func (c *Config) ResolveFolder(folder string) string {
	if filepath.IsAbs(folder) {
		return folder
	}
	return filepath.Join(c.ProjectPath, folder)
}

// GetOutputPath returns the full path to the output JSON file.
// Resolves to an absolute path so run and fails always read/write the same file regardless of cwd.
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.ProjectPath, c.OutputJSONDir, c.OutputJSONFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		*dst = d
	}
}
