// Package executor wraps the operating system's process API behind a
// small interface so that processes can be started, signaled, and
// awaited without callers depending on os/exec directly.
package executor

import (
	"io"
	"syscall"
)

// Executor is the lowest level handle on a single child process.
// Implementations are not required to be reusable: once Wait has
// returned the executor should be closed and discarded.
type Executor interface {
	// Args returns the command and arguments.
	Args() []string
	// SetEnv replaces the environment, as a list of KEY=VALUE strings.
	SetEnv([]string)
	// Env returns the environment that the process runs with.
	Env() []string
	// SetDir sets the working directory.
	SetDir(string)
	// Dir returns the working directory.
	Dir() string
	SetStdin(io.Reader)
	SetStdout(io.Writer)
	SetStderr(io.Writer)
	// Start launches the process and returns without waiting.
	Start() error
	// Wait blocks until the process exits and its output has been
	// copied.
	Wait() error
	// Signal delivers sig to the process. Signaling a process that
	// has already exited returns an error wrapping os.ErrProcessDone.
	Signal(syscall.Signal) error
	// PID returns the process ID, or -1 if the process has not
	// started.
	PID() int
	// ExitCode returns the exit code, or -1 if the process has not
	// exited or was terminated by a signal.
	ExitCode() int
	// Success reports whether the process exited with code zero.
	Success() bool
	// SignalInfo reports the signal that terminated the process, if
	// any.
	SignalInfo() (sig syscall.Signal, signaled bool)
	Status() Status
	// Close releases resources. It does not terminate the process.
	Close() error
}
