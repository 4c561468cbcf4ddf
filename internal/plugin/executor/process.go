package executor

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-ps"
)

// ProcessRunner defines an interface for running external processes.
// This abstraction allows for dependency injection and easier testing.
type ProcessRunner interface {
	// Run executes a command with the given context, arguments, stdin, and returns stdout/stderr.
	Run(ctx context.Context, path string, args []string, stdin io.Reader) (stdout, stderr []byte, err error)
}

// RealProcessRunner implements ProcessRunner using actual os/exec commands.
type RealProcessRunner struct{}

// Run executes a real external process.
func (r *RealProcessRunner) Run(ctx context.Context, path string, args []string, stdin io.Reader) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = stdin

	stdout, err := cmd.Output()
	if err != nil {
		exitErr := &exec.ExitError{}
		if errors.As(err, &exitErr) {
			return stdout, exitErr.Stderr, err
		}
		return stdout, nil, err
	}

	return stdout, nil, nil
}

// NewRealProcessRunner creates a new real process runner.
func NewRealProcessRunner() *RealProcessRunner {
	return &RealProcessRunner{}
}

// ProcessLister reports running processes.
type ProcessLister interface {
	Processes() ([]ps.Process, error)
}

// SystemProcessLister lists processes through go-ps.
type SystemProcessLister struct{}

// Processes returns the processes running on this machine.
func (SystemProcessLister) Processes() ([]ps.Process, error) {
	return ps.Processes()
}

// commLen is the length Linux truncates process names to.
const commLen = 15

// findRunning returns the pid of a process, other than this one, running the
// executable at path, or 0 when there is none.
func findRunning(lister ProcessLister, path string) (int, error) {
	processes, err := lister.Processes()
	if err != nil {
		return 0, err
	}

	name := filepath.Base(path)
	self := os.Getpid()
	for _, p := range processes {
		if p.Pid() == self {
			continue
		}
		if matchesExecutable(p.Executable(), name) {
			return p.Pid(), nil
		}
	}
	return 0, nil
}

func matchesExecutable(executable, name string) bool {
	if executable == name {
		return true
	}
	return len(executable) == commLen && len(name) > commLen && strings.HasPrefix(name, executable)
}
