package config

import "time"

const (
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultSuiteFile is the suite definition looked up under the project path
	DefaultSuiteFile = "graphictests.yaml"
	// DefaultOutputJSONFile is the default output JSON file name
	DefaultOutputJSONFile = "graphic-test-results.json"
	// DefaultOutputJSONDir is the default output directory
	DefaultOutputJSONDir = "storage"

	// DefaultCaptureFile is written into each case folder and removed when it matches
	DefaultCaptureFile = "graphicTestExecution.jpg"
	// DefaultReferenceFile is the known-good image in each case folder
	DefaultReferenceFile = "referenceGraphicTest.jpg"

	// DefaultWindowTimeout bounds how long a case waits for its window
	DefaultWindowTimeout = 10 * time.Second
	// DefaultPollInterval is how often the window lookup is retried
	DefaultPollInterval = 100 * time.Millisecond
	// DefaultSettleDelay lets the demo render its first frames after the window shows up
	DefaultSettleDelay = 2 * time.Second
	// DefaultFocusDelay is the pause between raising the window and capturing it
	DefaultFocusDelay = 100 * time.Millisecond
	// DefaultExitTimeout bounds the wait for a killed demo to exit
	DefaultExitTimeout = 5 * time.Second

	// DefaultServerAddr matches the port the trigger endpoint has always used
	DefaultServerAddr = ":5000"
	// DefaultTriggerFolder is where the trigger endpoint runs its executable
	DefaultTriggerFolder = "../Hello Triangle"
	// DefaultTriggerExecutable is run by GET /graphictests
	DefaultTriggerExecutable = "../x64/Debug/Hello Triangle.exe"
	// DefaultTriggerArg tells the demo to run its built-in checks and exit
	DefaultTriggerArg = "graphictests"

	// DefaultHistoryDriver is used when a history DSN is set without a driver
	DefaultHistoryDriver = "sqlite"
)

// DefaultPathsToIgnore are the default directories to ignore when scanning for reference images
var DefaultPathsToIgnore = []string{
	"x64",
	"Debug",
	"Release",
	"storage",
	"node_modules",
	"third_party",
}
