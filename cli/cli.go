// Package cli provides the commands of the reap command line tool.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/tychoish/reap"
	"github.com/tychoish/reap/options"
	"github.com/urfave/cli"
)

const (
	commandFlagName = "command"
	dirFlagName     = "dir"
	cgroupFlagName  = "cgroup"
	idFlagName      = "id"
)

func registryFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  idFlagName,
			Usage: "the registry id exported to children as " + reap.RegistryEnvironID,
		},
		cli.BoolFlag{
			Name:  cgroupFlagName,
			Usage: "also track descendants of children in a cgroup (requires root)",
		},
	}
}

func makeRegistry(c *cli.Context) (*reap.Registry, error) {
	opts := []reap.RegistryOptionProvider{}
	if id := c.String(idFlagName); id != "" {
		opts = append(opts, reap.RegistryOptionID(id))
	}
	if c.Bool(cgroupFlagName) {
		opts = append(opts, reap.RegistryOptionTracked())
	}
	return reap.NewRegistry(opts...)
}

// Run executes a command line through the shell, prints its output, and
// exits with the command's exit code when it fails.
func Run() cli.Command {
	return cli.Command{
		Name:  "run",
		Usage: "run a command line to completion and print its output",
		Flags: append(registryFlags(),
			cli.StringFlag{
				Name:  commandFlagName,
				Usage: "the command line to run",
			},
		),
		Before: requireStringFlag(commandFlagName),
		Action: func(c *cli.Context) error {
			registry, err := makeRegistry(c)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(context.Background())
			done := registry.KillOnShutdown(ctx)
			defer func() { cancel(); <-done }()

			res, err := registry.RunToCompletion(ctx, c.String(commandFlagName))
			fmt.Fprint(os.Stdout, res.Stdout)
			fmt.Fprint(os.Stderr, res.Stderr)

			var execErr *reap.ExecutionError
			if errors.As(err, &execErr) && execErr.ExitCode > 0 {
				return cli.NewExitError(execErr.Error(), execErr.ExitCode)
			}
			return err
		},
	}
}

// Spawn starts one or more long-running commands and terminates all of
// them when the tool receives SIGINT or SIGTERM.
func Spawn() cli.Command {
	return cli.Command{
		Name:  "spawn",
		Usage: "start commands in the background and kill them all on interrupt",
		Flags: append(registryFlags(),
			cli.StringSliceFlag{
				Name:  commandFlagName,
				Usage: "a command line to start; may be repeated",
			},
			cli.StringFlag{
				Name:  dirFlagName,
				Usage: "working directory for the commands",
			},
		),
		Before: requireStringSliceFlag(commandFlagName),
		Action: func(c *cli.Context) error {
			registry, err := makeRegistry(c)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			launch := &options.Create{
				WorkingDirectory: c.String(dirFlagName),
				Output: options.Output{
					Output: os.Stdout,
					Error:  os.Stderr,
				},
			}

			done := registry.KillOnShutdown(ctx)
			for _, cmdline := range c.StringSlice(commandFlagName) {
				parsed, err := options.MakeCreation(cmdline)
				if err != nil {
					cancel()
					<-done
					return err
				}

				if _, err := registry.SpawnDetached(ctx, parsed.Args[0], parsed.Args[1:], launch); err != nil {
					cancel()
					<-done
					return err
				}
			}

			<-done
			return nil
		},
	}
}

func requireStringFlag(name string) cli.BeforeFunc {
	return func(c *cli.Context) error {
		if c.String(name) == "" {
			return fmt.Errorf("must specify --%s", name)
		}
		return nil
	}
}

func requireStringSliceFlag(name string) cli.BeforeFunc {
	return func(c *cli.Context) error {
		if len(c.StringSlice(name)) == 0 {
			return fmt.Errorf("must specify at least one --%s", name)
		}
		return nil
	}
}
