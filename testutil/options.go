// Package testutil holds fixtures shared by the tests of several
// packages.
package testutil

import (
	"fmt"
	"time"

	"github.com/tychoish/reap/options"
)

const (
	// ProcessTestTimeout bounds tests that start real processes.
	ProcessTestTimeout = 5 * time.Second
	// RegistryTestTimeout bounds tests that start many processes.
	RegistryTestTimeout = 10 * time.Second
)

// TrueCreateOpts creates the options to run the "true" command.
func TrueCreateOpts() *options.Create {
	return &options.Create{Args: []string{"true"}}
}

// FalseCreateOpts creates the options to run the "false" command.
func FalseCreateOpts() *options.Create {
	return &options.Create{Args: []string{"false"}}
}

// SleepCreateOpts creates the options to run the "sleep" command for
// the given number of seconds.
func SleepCreateOpts(num int) *options.Create {
	return &options.Create{Args: []string{"sleep", fmt.Sprint(num)}}
}

// EchoCreateOpts creates the options to print msg to standard output.
func EchoCreateOpts(msg string) *options.Create {
	return &options.Create{Args: []string{"echo", msg}}
}
