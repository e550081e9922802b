package executor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"sync"
	"syscall"
)

type local struct {
	cmd    *exec.Cmd
	status Status
	mu     sync.RWMutex
}

// NewLocal returns an Executor that runs args on the local host. The
// first element of args is the command. The process is not bound to a
// context: it runs until it exits or is signaled.
func NewLocal(args []string) Executor {
	var cmd *exec.Cmd
	switch len(args) {
	case 0:
		cmd = &exec.Cmd{}
	case 1:
		cmd = exec.Command(args[0])
	default:
		cmd = exec.Command(args[0], args[1:]...)
	}

	return &local{cmd: cmd, status: Unstarted}
}

func (e *local) Args() []string        { return e.cmd.Args }
func (e *local) SetEnv(env []string)   { e.cmd.Env = env }
func (e *local) Env() []string         { return e.cmd.Env }
func (e *local) SetDir(dir string)     { e.cmd.Dir = dir }
func (e *local) Dir() string           { return e.cmd.Dir }
func (e *local) SetStdin(r io.Reader)  { e.cmd.Stdin = r }
func (e *local) SetStdout(w io.Writer) { e.cmd.Stdout = w }
func (e *local) SetStderr(w io.Writer) { e.cmd.Stderr = w }

func (e *local) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.status
}

func (e *local) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status != Unstarted {
		return fmt.Errorf("cannot start executor in state '%s'", e.status)
	}
	if len(e.cmd.Args) == 0 {
		return errors.New("cannot start executor without a command")
	}

	if err := e.cmd.Start(); err != nil {
		return err
	}
	e.status = Running
	return nil
}

func (e *local) Wait() error {
	if e.Status() != Running {
		return fmt.Errorf("cannot wait on executor in state '%s'", e.Status())
	}

	err := e.cmd.Wait()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status == Running {
		e.status = Exited
	}
	return err
}

func (e *local) Signal(sig syscall.Signal) error {
	if e.Status().Before(Running) {
		return errors.New("cannot signal a process that has not started")
	}

	// Windows cannot deliver POSIX signals; termination is the only
	// portable outcome.
	if runtime.GOOS == "windows" && (sig == syscall.SIGTERM || sig == syscall.SIGKILL || sig == syscall.SIGINT) {
		return e.cmd.Process.Kill()
	}

	return e.cmd.Process.Signal(sig)
}

func (e *local) PID() int {
	if e.cmd.Process == nil {
		return -1
	}
	return e.cmd.Process.Pid
}

func (e *local) ExitCode() int {
	if e.cmd.ProcessState == nil {
		return -1
	}
	return e.cmd.ProcessState.ExitCode()
}

func (e *local) Success() bool {
	if e.cmd.ProcessState == nil {
		return false
	}
	return e.cmd.ProcessState.Success()
}

func (e *local) SignalInfo() (syscall.Signal, bool) {
	if e.cmd.ProcessState == nil {
		return syscall.Signal(-1), false
	}
	status, ok := e.cmd.ProcessState.Sys().(syscall.WaitStatus)
	if !ok || !status.Signaled() {
		return syscall.Signal(-1), false
	}
	return status.Signal(), true
}

func (e *local) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status == Running && e.cmd.Process != nil {
		// the process was never waited on; release the handle so
		// the descriptor does not leak.
		if err := e.cmd.Process.Release(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			return err
		}
	}
	e.status = Closed
	return nil
}
