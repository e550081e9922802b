package reap

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tychoish/fun/assert/check"
	"github.com/tychoish/fun/ers"
)

func TestContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := makeTestRegistry(t)

	check.True(t, !HasRegistry(ctx))
	check.Panic(t, func() { Context(ctx) })

	ctx = WithRegistry(ctx, r)
	check.True(t, HasRegistry(ctx))

	if r != Context(ctx) {
		t.Fatal("should be the same registry")
	}

	check.True(t, !HasContextRegistry(ctx, "novel-key"))
	ctx = WithContextRegistry(ctx, makeTestRegistry(t), "novel-key")
	check.True(t, HasContextRegistry(ctx, "novel-key"))
	check.True(t, ContextRegistry(ctx, "novel-key") != r)
	check.True(t, Context(ctx) == r)

	check.Panic(t, func() { ContextRegistry(WithContextRegistry(ctx, nil, "nil-key"), "nil-key") })
}

func TestContextMissingRegistryIsInvariantViolation(t *testing.T) {
	defer func() {
		err, ok := recover().(error)
		check.True(t, ok)
		check.True(t, errors.Is(err, ers.ErrInvariantViolation))
		check.True(t, strings.Contains(err.Error(), "missing-key"))
	}()

	ContextRegistry(context.Background(), "missing-key")
}
