package execution

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/shirou/gopsutil/v3/process"

	"vrt/internal/domain"
)

// Handle is a running demo process
type Handle interface {
	Pid() int
	// Done is closed once the process has exited
	Done() <-chan struct{}
	// ExitCode is valid after Done; -1 when the process was killed or never ran
	ExitCode() int
	Kill() error
}

// Launcher starts demo executables
type Launcher interface {
	Launch(ctx context.Context, dir, executable string, args []string) (Handle, error)
}

// Killer terminates processes by name
type Killer interface {
	KillByName(name string) (int, error)
}

// ExecLauncher starts processes with os/exec
type ExecLauncher struct{}

// NewExecLauncher creates a new ExecLauncher
func NewExecLauncher() *ExecLauncher {
	return &ExecLauncher{}
}

// ResolveExecutable makes a relative executable path absolute against dir.
// Bare names without a separator are left for PATH lookup.
func ResolveExecutable(dir, executable string) string {
	if filepath.IsAbs(executable) || !strings.ContainsAny(executable, `/\`) {
		return executable
	}
	return filepath.Join(dir, executable)
}

// Launch starts executable in dir. The process is not tied to ctx beyond
// start-up: it runs until it exits or is killed.
func (l *ExecLauncher) Launch(ctx context.Context, dir, executable string, args []string) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProcessLaunch, err)
	}

	path := ResolveExecutable(dir, executable)
	cmd := exec.Command(path, args...)
	cmd.Dir = dir

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrProcessLaunch, path, err)
	}

	p := &execHandle{cmd: cmd, done: make(chan struct{}), exitCode: -1}
	go p.wait()
	return p, nil
}

type execHandle struct {
	cmd  *exec.Cmd
	done chan struct{}

	mu       sync.Mutex
	exitCode int
}

func (p *execHandle) wait() {
	err := p.cmd.Wait()
	p.mu.Lock()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		p.exitCode = 0
	case errors.As(err, &exitErr):
		p.exitCode = exitErr.ExitCode()
	}
	p.mu.Unlock()
	close(p.done)
}

func (p *execHandle) Pid() int { return p.cmd.Process.Pid }

func (p *execHandle) Done() <-chan struct{} { return p.done }

func (p *execHandle) ExitCode() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exitCode
}

func (p *execHandle) Kill() error {
	select {
	case <-p.done:
		return nil
	default:
	}
	return p.cmd.Process.Kill()
}

// RunToExit runs executable in dir and waits for it to finish, returning its exit code.
// A process that starts but fails returns its code with a nil error.
func RunToExit(ctx context.Context, l Launcher, dir, executable string, args []string) (int, error) {
	h, err := l.Launch(ctx, dir, executable, args)
	if err != nil {
		return -1, err
	}
	select {
	case <-h.Done():
		return h.ExitCode(), nil
	case <-ctx.Done():
		_ = h.Kill()
		<-h.Done()
		return -1, ctx.Err()
	}
}

// ProcessKiller kills processes found in the system process table
type ProcessKiller struct{}

// NewProcessKiller creates a new ProcessKiller
func NewProcessKiller() *ProcessKiller {
	return &ProcessKiller{}
}

// KillByName kills every process whose executable name is name and returns how many were killed
func (k *ProcessKiller) KillByName(name string) (int, error) {
	procs, err := process.Processes()
	if err != nil {
		return 0, fmt.Errorf("list processes: %w", err)
	}

	var killed int
	var errs []error
	for _, p := range procs {
		pname, err := p.Name()
		if err != nil || !sameProcessName(pname, name) {
			continue
		}
		if err := p.Kill(); err != nil {
			errs = append(errs, fmt.Errorf("kill %s (pid %d): %w", pname, p.Pid, err))
			continue
		}
		killed++
	}
	return killed, errors.Join(errs...)
}

func sameProcessName(a, b string) bool {
	if runtime.GOOS == "windows" {
		return strings.EqualFold(a, b)
	}
	return a == b
}
