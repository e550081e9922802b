package reap

import (
	"fmt"

	"github.com/tychoish/grip"
	"github.com/tychoish/grip/message"
	"github.com/tychoish/grip/recovery"
)

// ProcessTrigger is run once, after a process exits.
type ProcessTrigger func(ProcessInfo)

// ProcessTriggerSequence runs a group of triggers in registration
// order.
type ProcessTriggerSequence []ProcessTrigger

// Run calls every trigger with info. A panicking trigger is logged and
// does not prevent the remaining triggers from running.
func (s ProcessTriggerSequence) Run(info ProcessInfo) {
	for idx, trigger := range s {
		runTrigger(idx, trigger, info)
	}
}

func runTrigger(idx int, trigger ProcessTrigger, info ProcessInfo) {
	defer recovery.LogStackTraceAndContinue(fmt.Sprintf("exit trigger %d for process '%s'", idx, info.ID))
	trigger(info)
	grip.Debug(message.Fields{
		"message": "ran exit trigger",
		"process": info.ID,
		"trigger": idx,
	})
}
