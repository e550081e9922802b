package reap

import (
	"context"
	"testing"
	"time"

	"github.com/tychoish/fun/assert/check"
	"github.com/tychoish/reap/testutil"
)

func TestKillOnShutdown(t *testing.T) {
	t.Run("ContextCancellationKillsAll", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		r := makeTestRegistry(t)
		a, b := newMockProcess("a"), newMockProcess("b")
		r.Track(ctx, a)
		r.Track(ctx, b)

		done := r.KillOnShutdown(ctx)
		check.Equal(t, r.Len(), 2)
		cancel()

		select {
		case <-done:
		case <-time.After(testutil.ProcessTestTimeout):
			t.Fatal("shutdown did not complete")
		}

		check.Equal(t, r.Len(), 0)
		check.Equal(t, a.signalCount(), 1)
		check.Equal(t, b.signalCount(), 1)
	})
}
