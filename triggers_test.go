package reap

import (
	"testing"

	"github.com/tychoish/fun/assert/check"
)

func TestProcessTriggerSequence(t *testing.T) {
	t.Run("RunsInOrder", func(t *testing.T) {
		order := []int{}
		seq := ProcessTriggerSequence{
			func(ProcessInfo) { order = append(order, 1) },
			func(ProcessInfo) { order = append(order, 2) },
			func(ProcessInfo) { order = append(order, 3) },
		}
		seq.Run(ProcessInfo{ID: "foo"})
		check.EqualItems(t, order, []int{1, 2, 3})
	})
	t.Run("PassesInfo", func(t *testing.T) {
		var seen ProcessInfo
		ProcessTriggerSequence{func(info ProcessInfo) { seen = info }}.Run(ProcessInfo{ID: "foo", ExitCode: 2})
		check.Equal(t, seen.ID, "foo")
		check.Equal(t, seen.ExitCode, 2)
	})
	t.Run("PanicsAreContained", func(t *testing.T) {
		count := 0
		seq := ProcessTriggerSequence{
			func(ProcessInfo) { count++ },
			func(ProcessInfo) { panic("whoops") },
			func(ProcessInfo) { count++ },
		}
		seq.Run(ProcessInfo{ID: "foo"})
		check.Equal(t, count, 2)
	})
	t.Run("EmptySequenceIsNoop", func(t *testing.T) {
		ProcessTriggerSequence{}.Run(ProcessInfo{})
	})
}
