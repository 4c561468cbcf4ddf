package executor

import (
	"context"
	"io"
	"sync"

	"github.com/mitchellh/go-ps"
)

// MockProcessRunner is a mock implementation of ProcessRunner for testing.
type MockProcessRunner struct {
	mu sync.Mutex

	// RunFunc allows tests to provide custom behavior
	RunFunc func(ctx context.Context, path string, args []string, stdin io.Reader) (stdout, stderr []byte, err error)

	// CallCount tracks how many times Run was called
	CallCount int

	// LastArgs stores the last args passed to Run
	LastArgs []string
}

// Run executes the mock behavior.
func (m *MockProcessRunner) Run(ctx context.Context, path string, args []string, stdin io.Reader) ([]byte, []byte, error) {
	m.mu.Lock()
	m.CallCount++
	m.LastArgs = args
	m.mu.Unlock()

	if m.RunFunc != nil {
		return m.RunFunc(ctx, path, args, stdin)
	}
	return []byte("{}"), nil, nil
}

// NewInfoMockProcessRunner creates a mock that answers --plugin-info with info.
func NewInfoMockProcessRunner(info string) *MockProcessRunner {
	return &MockProcessRunner{
		RunFunc: func(context.Context, string, []string, io.Reader) ([]byte, []byte, error) {
			return []byte(info), nil, nil
		},
	}
}

// MockProcess is a fixed ps.Process.
type MockProcess struct {
	PID  int
	PPID int
	Name string
}

// Pid implements ps.Process.
func (p MockProcess) Pid() int { return p.PID }

// PPid implements ps.Process.
func (p MockProcess) PPid() int { return p.PPID }

// Executable implements ps.Process.
func (p MockProcess) Executable() string { return p.Name }

// MockProcessLister returns a fixed process table.
type MockProcessLister struct {
	Procs []ps.Process
	Err   error
}

// Processes implements ProcessLister.
func (m *MockProcessLister) Processes() ([]ps.Process, error) {
	return m.Procs, m.Err
}
