package reap

import (
	"context"
	"errors"
	"syscall"
	"time"

	"github.com/tychoish/reap/options"
)

const (
	// EnvironID is the environment variable that carries a child
	// process' ID.
	EnvironID = "REAP_PROCESS_ID"
	// RegistryEnvironID is the environment variable that carries the
	// ID of the registry that created a child process.
	RegistryEnvironID = "REAP_REGISTRY_ID"
)

// ErrProcessComplete is returned when an operation requires a running
// process but the process has already exited.
var ErrProcessComplete = errors.New("process has already completed")

// Process is a handle on a single child process. Handles are safe for
// concurrent use.
type Process interface {
	// ID returns a unique identifier for the process.
	ID() string
	// Info returns a snapshot of the process' state.
	Info(context.Context) ProcessInfo
	Running(context.Context) bool
	Complete(context.Context) bool
	// Signal delivers sig to the process. It returns an error wrapping
	// ErrProcessComplete if the process has already exited.
	Signal(context.Context, syscall.Signal) error
	// Wait blocks until the process exits or the context is
	// canceled, and returns the exit code and the error reported by
	// the operating system.
	Wait(context.Context) (int, error)
	// RegisterTrigger adds a function to run once when the process
	// exits. Registration fails if the process has already exited.
	RegisterTrigger(context.Context, ProcessTrigger) error
}

// ProcessConstructor creates and starts a Process.
type ProcessConstructor func(context.Context, *options.Create) (Process, error)

// ProcessInfo describes the state of a process at a point in time.
type ProcessInfo struct {
	ID         string         `json:"id"`
	Host       string         `json:"host"`
	PID        int            `json:"pid"`
	ExitCode   int            `json:"exit_code"`
	IsRunning  bool           `json:"is_running"`
	Successful bool           `json:"successful"`
	Complete   bool           `json:"complete"`
	StartAt    time.Time      `json:"start_at"`
	EndAt      time.Time      `json:"end_at"`
	Options    options.Create `json:"options"`
}

// NewProcess starts a local process described by opts.
func NewProcess(ctx context.Context, opts *options.Create) (Process, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return NewBasicProcess(ctx, opts)
}
