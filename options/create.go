package options

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"

	"github.com/google/shlex"
	"github.com/tychoish/emt"
	"github.com/tychoish/reap/executor"
	"github.com/tychoish/reap/util"
)

// Create contains the launch options for a child process. Aside from
// Args, every field is passed through to the operating system as-is.
type Create struct {
	Args             []string          `json:"args"`
	Environment      map[string]string `json:"environment,omitempty"`
	WorkingDirectory string            `json:"working_directory,omitempty"`
	// OverrideEnviron, when true, starts the process with only the
	// variables in Environment rather than the parent's environment
	// plus Environment.
	OverrideEnviron bool `json:"override_env,omitempty"`

	// StandardInputBytes takes precedence over StandardInput when
	// both are set.
	StandardInput      io.Reader `json:"-"`
	StandardInputBytes []byte    `json:"stdin_bytes,omitempty"`

	Output Output `json:"output"`
}

// MakeCreation lexes a command line into a Create. Comments and
// shell-style quoting are honored; the command is not run through a
// shell.
func MakeCreation(cmdline string) (*Create, error) {
	args, err := shlex.Split(cmdline)
	if err != nil {
		return nil, fmt.Errorf("problem parsing shell command %q: %w", cmdline, err)
	}

	if len(args) == 0 {
		return nil, fmt.Errorf("%q did not contain a command", cmdline)
	}

	return &Create{Args: args}, nil
}

// ShellCreation produces a Create that runs cmdline through the
// platform's command interpreter.
func ShellCreation(cmdline string) *Create {
	if runtime.GOOS == "windows" {
		return &Create{Args: []string{"cmd", "/C", cmdline}}
	}
	return &Create{Args: []string{"sh", "-c", cmdline}}
}

// Validate checks the options and normalizes the standard input and
// working directory.
func (opts *Create) Validate() error {
	catcher := emt.NewBasicCatcher()

	if len(opts.Args) == 0 || opts.Args[0] == "" {
		catcher.Add(errors.New("must specify a command"))
	}

	if opts.WorkingDirectory != "" {
		opts.WorkingDirectory = util.TryExpandHomedir(opts.WorkingDirectory)
		info, err := os.Stat(opts.WorkingDirectory)
		switch {
		case err != nil:
			catcher.Errorf("cannot use %q as working directory: %w", opts.WorkingDirectory, err)
		case !info.IsDir():
			catcher.Errorf("working directory %q is not a directory", opts.WorkingDirectory)
		}
	}

	catcher.Add(opts.Output.Validate())

	if len(opts.StandardInputBytes) != 0 {
		opts.StandardInput = bytes.NewBuffer(opts.StandardInputBytes)
	}

	return catcher.Resolve()
}

// AddEnvVar sets an environment variable for the process.
func (opts *Create) AddEnvVar(k, v string) {
	if opts.Environment == nil {
		opts.Environment = make(map[string]string)
	}
	opts.Environment[k] = v
}

// Copy returns a copy of the options. The environment map and argument
// list are duplicated; readers and writers are shared.
func (opts *Create) Copy() *Create {
	out := *opts

	out.Args = make([]string, len(opts.Args))
	copy(out.Args, opts.Args)

	if opts.Environment != nil {
		out.Environment = make(map[string]string, len(opts.Environment))
		for k, v := range opts.Environment {
			out.Environment[k] = v
		}
	}

	if opts.StandardInputBytes != nil {
		out.StandardInputBytes = make([]byte, len(opts.StandardInputBytes))
		copy(out.StandardInputBytes, opts.StandardInputBytes)
	}

	return &out
}

// Resolve validates the options and builds an unstarted executor from
// them.
func (opts *Create) Resolve() (executor.Executor, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	exec := executor.NewLocal(opts.Args)
	exec.SetEnv(opts.getEnv())
	exec.SetDir(opts.WorkingDirectory)
	if opts.StandardInput != nil {
		exec.SetStdin(opts.StandardInput)
	}
	exec.SetStdout(opts.Output.GetOutput())
	exec.SetStderr(opts.Output.GetError())

	return exec, nil
}

func (opts *Create) getEnv() []string {
	env := []string{}
	if !opts.OverrideEnviron {
		env = os.Environ()
	}

	keys := make([]string, 0, len(opts.Environment))
	for k := range opts.Environment {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		env = append(env, fmt.Sprintf("%s=%s", k, opts.Environment[k]))
	}

	return env
}
