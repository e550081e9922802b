package reap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"
	"syscall"

	"github.com/tychoish/emt"
	"github.com/tychoish/grip"
	"github.com/tychoish/grip/message"
	"github.com/tychoish/reap/options"
	"github.com/tychoish/reap/util"
)

// Registry records the child processes a host application creates so
// that all of them can be terminated together when the host shuts
// down. Processes remove themselves from the registry when they exit.
//
// A Registry is safe for concurrent use.
type Registry struct {
	id      string
	tracker ProcessTracker
	env     map[string]string

	mu      sync.Mutex
	members []Process
}

// NewRegistry constructs an empty registry.
func NewRegistry(opts ...RegistryOptionProvider) (*Registry, error) {
	conf := &RegistryOptions{}
	for _, opt := range opts {
		if err := opt(conf); err != nil {
			return nil, fmt.Errorf("invalid registry option: %w", err)
		}
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}

	return &Registry{
		id:      conf.ID,
		tracker: conf.Tracker,
		env:     conf.EnvVars,
		members: []Process{},
	}, nil
}

func (r *Registry) ID() string { return r.id }

// Len returns the number of processes currently tracked.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.members)
}

// Track adds proc to the registry and arranges for it to be removed
// when it exits. The same handle is returned so that Track can wrap a
// constructor call. Tracking a handle that is already a member has no
// effect.
func (r *Registry) Track(ctx context.Context, proc Process) Process {
	if proc == nil {
		return nil
	}

	if !r.add(proc) {
		return proc
	}

	if r.tracker != nil {
		if err := r.tracker.Add(proc.Info(ctx)); err != nil {
			grip.Warning(message.WrapError(err, message.Fields{
				"message":  "problem adding process to tracker",
				"process":  proc.ID(),
				"registry": r.id,
			}))
		}
	}

	if err := proc.RegisterTrigger(ctx, func(info ProcessInfo) { r.untrack(proc, info) }); err != nil {
		// the process exited before the trigger could be attached,
		// so nothing else will remove it.
		grip.Debug(message.WrapError(err, message.Fields{
			"message":  "process exited before it was tracked",
			"process":  proc.ID(),
			"registry": r.id,
		}))
		r.untrack(proc, proc.Info(ctx))
	}

	return proc
}

// untrack drops an exited process from the registry and the tracker.
func (r *Registry) untrack(proc Process, info ProcessInfo) {
	r.remove(proc)
	if r.tracker != nil {
		r.tracker.Remove(info)
	}
}

// KillAll terminates every tracked process, emptying the registry.
// Members are removed one at a time from the front, so handles that
// exit or are added while KillAll runs are handled safely. A failure
// terminating one process does not stop the others from being
// terminated; all failures are returned together. Processes that have
// already exited are not failures.
func (r *Registry) KillAll(ctx context.Context) error {
	grip.Info(message.Fields{
		"message":  "killing child processes",
		"count":    r.Len(),
		"registry": r.id,
	})

	catcher := emt.NewBasicCatcher()
	for {
		proc, ok := r.pop()
		if !ok {
			break
		}

		if err := terminate(ctx, proc); err != nil {
			catcher.Errorf("problem terminating process '%s': %w", proc.ID(), err)
		}
	}

	if r.tracker != nil {
		if err := r.tracker.Cleanup(); err != nil {
			catcher.Errorf("process tracker did not clean up all processes: %w", err)
		}
	}

	return catcher.Resolve()
}

// RunToCompletion runs cmdline through the platform shell, waits for it
// to exit, and returns its output. The child is tracked while it runs.
// Failure to launch or a non-zero exit produces an *ExecutionError.
// If ctx ends first, the context's error is returned and the child
// remains tracked.
func (r *Registry) RunToCompletion(ctx context.Context, cmdline string) (Result, error) {
	stdout := util.NewLocalBuffer()
	stderr := util.NewLocalBuffer()

	opts := options.ShellCreation(cmdline)
	opts.Output.Output = stdout
	opts.Output.Error = stderr

	proc, err := r.create(ctx, opts)
	if err != nil {
		return Result{}, &ExecutionError{Command: cmdline, ExitCode: -1, Err: err}
	}

	exitCode, err := proc.Wait(ctx)
	if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return Result{}, err
	}

	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		return res, &ExecutionError{
			Command:  cmdline,
			ExitCode: exitCode,
			Stdout:   res.Stdout,
			Stderr:   res.Stderr,
			Err:      err,
		}
	}

	return res, nil
}

// SpawnDetached starts command with args and returns without waiting.
// The child is tracked until it exits or KillAll terminates it; it is
// not bound to ctx. opts may be nil and is not modified.
func (r *Registry) SpawnDetached(ctx context.Context, command string, args []string, opts *options.Create) (Process, error) {
	if opts == nil {
		opts = &options.Create{}
	} else {
		opts = opts.Copy()
	}

	opts.Args = append([]string{command}, args...)

	proc, err := r.create(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("problem spawning %q: %w", command, err)
	}

	return proc, nil
}

func (r *Registry) create(ctx context.Context, opts *options.Create) (Process, error) {
	for k, v := range r.env {
		opts.AddEnvVar(k, v)
	}

	proc, err := NewProcess(ctx, opts)
	if err != nil {
		return nil, err
	}

	return r.Track(ctx, proc), nil
}

// add appends proc unless it is already a member.
func (r *Registry) add(proc Process) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if slices.Contains(r.members, proc) {
		return false
	}

	r.members = append(r.members, proc)
	return true
}

// remove deletes the first occurrence of proc and is a no-op when proc
// is not a member.
func (r *Registry) remove(proc Process) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := slices.Index(r.members, proc)
	if idx < 0 {
		return false
	}

	r.members = slices.Delete(r.members, idx, idx+1)
	return true
}

// pop removes and returns the first member.
func (r *Registry) pop() (Process, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.members) == 0 {
		return nil, false
	}

	proc := r.members[0]
	r.members = slices.Delete(r.members, 0, 1)
	return proc, true
}

func terminate(ctx context.Context, proc Process) error {
	err := proc.Signal(ctx, syscall.SIGTERM)
	if err == nil || errors.Is(err, ErrProcessComplete) || errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	return err
}
