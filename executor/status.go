package executor

// Status reports where an Executor is in its lifecycle. Values are
// ordered, so comparisons such as Before and After are meaningful.
type Status int

const (
	// Unknown is the zero value and indicates an invalid executor.
	Unknown Status = iota
	// Unstarted executors have been constructed but Start has not
	// been called.
	Unstarted
	// Running executors have a live operating system process.
	Running
	// Exited executors have observed the process exit through Wait.
	Exited
	// Closed executors have released their resources.
	Closed
)

func (s Status) String() string {
	switch s {
	case Unstarted:
		return "unstarted"
	case Running:
		return "running"
	case Exited:
		return "exited"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Before returns true when s precedes other in the lifecycle.
func (s Status) Before(other Status) bool { return s < other }

// After returns true when s follows other in the lifecycle.
func (s Status) After(other Status) bool { return s > other }
