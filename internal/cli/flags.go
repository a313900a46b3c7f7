package cli

import (
	"time"

	"vrt/internal/config"
)

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

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		SuiteFile:     f.SuiteFile,
		NameFilter:    f.NameFilter,
		KeepGoing:     f.KeepGoing,
		OpenFails:     f.OpenFails,
		Discover:      f.Discover,
		WindowTimeout: f.WindowTimeout,
		SettleDelay:   f.SettleDelay,
		ServerAddr:    f.ServerAddr,
		HistoryLimit:  f.HistoryLimit,
	}
}
