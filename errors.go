package reap

import "fmt"

// Result holds the captured output of a command run to completion.
type Result struct {
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
}

// ExecutionError reports a command that could not be launched or that
// exited unsuccessfully. Err is the operating system's error, usually
// an *exec.ExitError.
type ExecutionError struct {
	Command  string
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

func (e *ExecutionError) Error() string {
	if e.ExitCode >= 0 {
		return fmt.Sprintf("command %q failed with exit code %d: %v", e.Command, e.ExitCode, e.Err)
	}
	return fmt.Sprintf("command %q failed: %v", e.Command, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }
