package reap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"
	"syscall"

	"github.com/containerd/cgroups"
	specs "github.com/opencontainers/runtime-spec/specs-go"
	"github.com/shirou/gopsutil/v3/process"
	"github.com/tychoish/emt"
	"github.com/tychoish/grip"
	"github.com/tychoish/grip/message"
)

// linuxProcessTracker reaps the process trees of registry children.
//
// When the host permits it (v1 cgroups, usually root), children are
// moved into a cgroup named after the tracker and their descendants are
// created there as well; the kernel keeps that membership current.
// Otherwise processes are found by their environment: every child
// carries EnvironID=<its id>, and it and its descendants carry
// RegistryEnvironID=<tracker name>. PIDs alone are never trusted, since
// an exited child's PID may belong to an unrelated process by the time
// Cleanup runs.
type linuxProcessTracker struct {
	*processTrackerBase

	mu       sync.Mutex
	group    cgroups.Cgroup
	children map[string]int
}

// NewProcessTracker creates a tracker for processes marked with name,
// backed by a cgroup when the host allows it.
func NewProcessTracker(name string) (ProcessTracker, error) {
	t := &linuxProcessTracker{
		processTrackerBase: &processTrackerBase{Name: name},
		children:           map[string]int{},
	}

	if err := t.ensureGroup(); err != nil {
		grip.Debug(message.WrapError(err, message.Fields{
			"message": "process tracker will find processes by environment",
			"tracker": name,
		}))
	}

	return t, nil
}

func (t *linuxProcessTracker) hasGroup() bool {
	return t.group != nil && t.group.State() != cgroups.Deleted
}

func (t *linuxProcessTracker) ensureGroup() error {
	if t.hasGroup() {
		return nil
	}

	group, err := cgroups.New(cgroups.V1, cgroups.StaticPath("/"+t.Name), &specs.LinuxResources{})
	if err != nil {
		return fmt.Errorf("creating cgroup %q: %w", t.Name, err)
	}
	t.group = group
	return nil
}

// Add records a running child and moves it into the tracker's cgroup
// when there is one. Processes that have already exited are ignored.
func (t *linuxProcessTracker) Add(info ProcessInfo) error {
	if info.PID <= 0 || info.Complete {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.children[info.ID] = info.PID

	if t.ensureGroup() != nil {
		return nil
	}

	if err := t.group.Add(cgroups.Process{Subsystem: cgroups.Freezer, Pid: info.PID}); err != nil {
		return fmt.Errorf("moving pid %d into cgroup %q: %w", info.PID, t.Name, err)
	}
	return nil
}

func (t *linuxProcessTracker) Remove(info ProcessInfo) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.children, info.ID)
}

// Cleanup terminates every live process in the group and forgets all
// recorded children. The cgroup is deleted and recreated by the next
// Add.
func (t *linuxProcessTracker) Cleanup() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	ctx := context.Background()
	catcher := emt.NewBasicCatcher()

	pids, err := t.targets(ctx)
	catcher.Add(err)

	for _, pid := range pids {
		if err := terminatePID(ctx, pid); err != nil {
			catcher.Errorf("terminating pid %d: %w", pid, err)
		}
	}

	if t.hasGroup() {
		catcher.Add(t.group.Delete())
	}

	t.children = map[string]int{}

	return catcher.Resolve()
}

// targets lists the live processes Cleanup should terminate, never
// including the calling process.
func (t *linuxProcessTracker) targets(ctx context.Context) ([]int, error) {
	catcher := emt.NewBasicCatcher()
	out := []int{}

	if t.hasGroup() {
		procs, err := t.group.Processes(cgroups.Freezer, false)
		if err != nil {
			catcher.Errorf("listing cgroup %q: %w", t.Name, err)
		}
		for _, proc := range procs {
			out = append(out, proc.Pid)
		}
	}

	for id, pid := range t.children {
		if hasEnvMarker(ctx, pid, EnvironID, id) {
			out = append(out, pid)
		}
	}

	marked, err := markedPIDs(ctx, RegistryEnvironID, t.Name)
	catcher.Add(err)
	out = append(out, marked...)

	self := os.Getpid()
	slices.Sort(out)
	out = slices.Compact(out)
	out = slices.DeleteFunc(out, func(pid int) bool { return pid <= 0 || pid == self })

	return out, catcher.Resolve()
}

func processEnviron(ctx context.Context, pid int) []string {
	proc, err := process.NewProcessWithContext(ctx, int32(pid))
	if err != nil {
		return nil
	}

	env, err := proc.EnvironWithContext(ctx)
	if err != nil {
		return nil
	}
	return env
}

// hasEnvMarker reports whether the live process pid was started with
// key=value in its environment. Unreadable processes are not ours.
func hasEnvMarker(ctx context.Context, pid int, key, value string) bool {
	if pid <= 0 {
		return false
	}
	return slices.Contains(processEnviron(ctx, pid), key+"="+value)
}

func markedPIDs(ctx context.Context, key, value string) ([]int, error) {
	pids, err := process.PidsWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing processes: %w", err)
	}

	out := []int{}
	for _, pid := range pids {
		if hasEnvMarker(ctx, int(pid), key, value) {
			out = append(out, int(pid))
		}
	}
	return out, nil
}

// terminatePID sends SIGTERM, escalating to SIGKILL when SIGTERM cannot
// be delivered. A process that is already gone is not an error.
func terminatePID(ctx context.Context, pid int) error {
	proc, err := process.NewProcessWithContext(ctx, int32(pid))
	if err != nil {
		return nil
	}

	termErr := proc.TerminateWithContext(ctx)
	if termErr == nil || processGone(termErr) {
		return nil
	}

	if err := proc.KillWithContext(ctx); err != nil && !processGone(err) {
		return fmt.Errorf("sigterm: %v; sigkill: %w", termErr, err)
	}
	return nil
}

func processGone(err error) bool {
	return errors.Is(err, syscall.ESRCH) || errors.Is(err, os.ErrProcessDone)
}
