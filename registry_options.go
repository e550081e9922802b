package reap

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// RegistryOptions configure a Registry.
type RegistryOptions struct {
	// ID names the registry. Every child carries it in the
	// RegistryEnvironID environment variable. Defaults to a random
	// UUID.
	ID string
	// Tracker, when set, is told about every tracked process and is
	// cleaned up at the end of KillAll.
	Tracker ProcessTracker
	// UseTracker creates a platform ProcessTracker named after the
	// registry when Tracker is not set.
	UseTracker bool
	// EnvVars are added to the environment of every child.
	EnvVars map[string]string
}

// Validate fills in defaults. It is called by NewRegistry.
func (conf *RegistryOptions) Validate() error {
	if conf.ID == "" {
		conf.ID = uuid.New().String()
	}

	if conf.EnvVars == nil {
		conf.EnvVars = map[string]string{}
	}
	if val, ok := conf.EnvVars[RegistryEnvironID]; ok && val != conf.ID {
		return fmt.Errorf("environment variable %s=%q conflicts with registry id %q", RegistryEnvironID, val, conf.ID)
	}
	conf.EnvVars[RegistryEnvironID] = conf.ID

	if conf.Tracker == nil && conf.UseTracker {
		tracker, err := NewProcessTracker(conf.ID)
		if err != nil {
			return fmt.Errorf("problem creating process tracker: %w", err)
		}
		conf.Tracker = tracker
	}

	return nil
}

// RegistryOptionProvider mutates RegistryOptions during construction.
type RegistryOptionProvider func(*RegistryOptions) error

// RegistryOptionSet replaces the options wholesale.
func RegistryOptionSet(opts RegistryOptions) RegistryOptionProvider {
	return func(conf *RegistryOptions) error { *conf = opts; return nil }
}

func RegistryOptionID(id string) RegistryOptionProvider {
	return func(conf *RegistryOptions) error {
		if id == "" {
			return errors.New("registry id must not be empty")
		}
		conf.ID = id
		return nil
	}
}

func RegistryOptionWithTracker(tracker ProcessTracker) RegistryOptionProvider {
	return func(conf *RegistryOptions) error { conf.Tracker = tracker; return nil }
}

// RegistryOptionTracked asks for a platform ProcessTracker.
func RegistryOptionTracked() RegistryOptionProvider {
	return func(conf *RegistryOptions) error { conf.UseTracker = true; return nil }
}

func RegistryOptionWithEnvVar(name, value string) RegistryOptionProvider {
	return func(conf *RegistryOptions) error {
		if conf.EnvVars == nil {
			conf.EnvVars = map[string]string{}
		}
		conf.EnvVars[name] = value
		return nil
	}
}
