package options

import (
	"bytes"
	"io"
	"os"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tychoish/fun/assert/check"
)

func TestCreateConstructor(t *testing.T) {
	t.Parallel()

	for _, test := range []struct {
		id         string
		shouldFail bool
		cmd        string
		args       []string
	}{
		{
			id:         "EmptyString",
			shouldFail: true,
		},
		{
			id:   "BasicCmd",
			args: []string{"ls", "-lha"},
			cmd:  "ls -lha",
		},
		{
			id:   "QuotedArguments",
			args: []string{"sh", "-c", "echo hello world"},
			cmd:  `sh -c "echo hello world"`,
		},
		{
			id:         "SkipsCommentsAtBeginning",
			shouldFail: true,
			cmd:        "# wat",
		},
		{
			id:   "SkipsCommentsAtEnd",
			cmd:  "ls #what",
			args: []string{"ls"},
		},
		{
			id:         "UnbalancedShellLex",
			cmd:        "' foo",
			shouldFail: true,
		},
	} {
		t.Run(test.id, func(t *testing.T) {
			opt, err := MakeCreation(test.cmd)
			if test.shouldFail {
				check.Error(t, err)
				check.True(t, opt == nil)
				return
			}

			check.NotError(t, err)
			check.True(t, opt != nil)
			check.EqualItems(t, test.args, opt.Args)
		})
	}
}

func TestShellCreation(t *testing.T) {
	opts := ShellCreation("echo foo | wc -l")
	require.Len(t, opts.Args, 3)
	check.Equal(t, opts.Args[2], "echo foo | wc -l")
	if runtime.GOOS == "windows" {
		check.Equal(t, opts.Args[0], "cmd")
	} else {
		check.Equal(t, opts.Args[0], "sh")
		check.Equal(t, opts.Args[1], "-c")
	}
}

func TestCreate(t *testing.T) {
	t.Parallel()

	for name, test := range map[string]func(t *testing.T, opts *Create){
		"DefaultConfigForTestsValidate": func(t *testing.T, opts *Create) {
			check.NotError(t, opts.Validate())
		},
		"EmptyArgsShouldNotValidate": func(t *testing.T, opts *Create) {
			opts.Args = []string{}
			check.Error(t, opts.Validate())
		},
		"EmptyCommandShouldNotValidate": func(t *testing.T, opts *Create) {
			opts.Args = []string{"", "foo"}
			check.Error(t, opts.Validate())
		},
		"StandardInputBytesSetsStandardInput": func(t *testing.T, opts *Create) {
			opts.StandardInputBytes = []byte("foo")

			require.NoError(t, opts.Validate())

			out, err := io.ReadAll(opts.StandardInput)
			require.NoError(t, err)
			check.Equal(t, "foo", string(out))
		},
		"StandardInputBytesTakePrecedenceOverStandardInput": func(t *testing.T, opts *Create) {
			opts.StandardInput = bytes.NewBufferString("foo")
			opts.StandardInputBytes = []byte("bar")

			require.NoError(t, opts.Validate())

			out, err := io.ReadAll(opts.StandardInput)
			require.NoError(t, err)
			check.Equal(t, "bar", string(out))
		},
		"NonExistingWorkingDirectoryShouldNotValidate": func(t *testing.T, opts *Create) {
			opts.WorkingDirectory = "foo"
			check.Error(t, opts.Validate())
		},
		"ExtantWorkingDirectoryShouldPass": func(t *testing.T, opts *Create) {
			wd, err := os.Getwd()
			check.NotError(t, err)
			check.NotZero(t, wd)

			opts.WorkingDirectory = wd
			check.NotError(t, opts.Validate())
		},
		"WorkingDirectoryShouldErrorForFiles": func(t *testing.T, opts *Create) {
			wd, err := os.Getwd()
			require.NoError(t, err)

			opts.WorkingDirectory = wd + string(os.PathSeparator) + "create.go"
			check.Error(t, opts.Validate())
		},
		"MustSpecifyValidOutput": func(t *testing.T, opts *Create) {
			opts.Output.SendErrorToOutput = true
			opts.Output.SendOutputToError = true
			check.Error(t, opts.Validate())
		},
		"ResolveFailsIfOptionsAreFatal": func(t *testing.T, opts *Create) {
			opts.Args = []string{}
			cmd, err := opts.Resolve()
			check.Error(t, err)
			check.True(t, cmd == nil)
		},
		"ResolvePropagatesWorkingDirectory": func(t *testing.T, opts *Create) {
			wd, err := os.Getwd()
			require.NoError(t, err)
			opts.WorkingDirectory = wd

			cmd, err := opts.Resolve()
			require.NoError(t, err)
			check.Equal(t, cmd.Dir(), wd)
		},
		"WithoutOverrideEnvironmentEnvIsPopulated": func(t *testing.T, opts *Create) {
			cmd, err := opts.Resolve()
			check.NotError(t, err)
			check.True(t, len(cmd.Env()) != 0)
		},
		"WithOverrideEnvironmentEnvIsEmpty": func(t *testing.T, opts *Create) {
			opts.OverrideEnviron = true
			cmd, err := opts.Resolve()
			check.NotError(t, err)
			check.Equal(t, len(cmd.Env()), 0)
		},
		"EnvironmentVariablesArePropagated": func(t *testing.T, opts *Create) {
			opts.AddEnvVar("foo", "bar")

			cmd, err := opts.Resolve()
			check.NotError(t, err)
			check.Contains(t, cmd.Env(), "foo=bar")
			check.NotContains(t, cmd.Env(), "bar=foo")
		},
		"MultipleArgsArePropagated": func(t *testing.T, opts *Create) {
			opts.Args = append(opts.Args, "-lha")
			cmd, err := opts.Resolve()
			check.NotError(t, err)
			require.Equal(t, len(cmd.Args()), 2)
			check.Equal(t, cmd.Args()[0], "ls")
			check.Equal(t, cmd.Args()[1], "-lha")
		},
		"ResolveDoesNotStart": func(t *testing.T, opts *Create) {
			cmd, err := opts.Resolve()
			require.NoError(t, err)
			check.Equal(t, cmd.PID(), -1)
		},
		"CopyIsIndependent": func(t *testing.T, opts *Create) {
			opts.AddEnvVar("foo", "bar")
			opts.StandardInputBytes = []byte("in")

			cp := opts.Copy()
			cp.Args[0] = "cat"
			cp.AddEnvVar("foo", "baz")
			cp.StandardInputBytes[0] = 'x'

			check.Equal(t, opts.Args[0], "ls")
			check.Equal(t, opts.Environment["foo"], "bar")
			check.Equal(t, string(opts.StandardInputBytes), "in")
		},
		"OutputRedirection": func(t *testing.T, opts *Create) {
			out := &bytes.Buffer{}
			opts.Output.Output = out
			opts.Output.SendErrorToOutput = true
			check.True(t, opts.Output.GetError() == io.Writer(out))
			check.True(t, opts.Output.GetOutput() == io.Writer(out))
		},
	} {
		t.Run(name, func(t *testing.T) {
			test(t, &Create{Args: []string{"ls"}})
		})
	}
}
