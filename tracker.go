package reap

// ProcessTracker groups processes at the operating system level so that
// descendants a tracked child starts on its own are also reaped. The
// Registry tracks the children it creates directly; a ProcessTracker
// extends that to the rest of their process tree where the platform
// allows it.
type ProcessTracker interface {
	// Add begins tracking a running process.
	Add(ProcessInfo) error
	// Remove forgets a process that has exited. Its PID may be
	// reused, so the tracker must not signal it afterwards.
	Remove(ProcessInfo)
	// Cleanup terminates every live process in the group.
	Cleanup() error
}

// processTrackerBase provides no-op implementations of the
// ProcessTracker interface.
type processTrackerBase struct{ Name string }

func (*processTrackerBase) Add(ProcessInfo) error { return nil }
func (*processTrackerBase) Remove(ProcessInfo)    {}
func (*processTrackerBase) Cleanup() error        { return nil }
