package reap

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tychoish/grip"
	"github.com/tychoish/grip/message"
)

// KillOnShutdown kills every tracked process once the host receives one
// of sigs (SIGINT and SIGTERM when none are given) or ctx is canceled,
// whichever comes first. The returned channel is closed after KillAll
// has finished.
func (r *Registry) KillOnShutdown(ctx context.Context, sigs ...os.Signal) <-chan struct{} {
	if len(sigs) == 0 {
		sigs = []os.Signal{os.Interrupt, syscall.SIGTERM}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, sigs...)

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer signal.Stop(sigCh)

		select {
		case sig := <-sigCh:
			grip.Notice(message.Fields{
				"message":  "received shutdown signal",
				"signal":   sig.String(),
				"registry": r.id,
			})
		case <-ctx.Done():
		}

		// ctx may already be canceled; termination must still run.
		grip.Warning(message.WrapError(r.KillAll(context.Background()), message.Fields{
			"message":  "problem killing child processes at shutdown",
			"registry": r.id,
		}))
	}()

	return done
}
