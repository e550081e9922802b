package reap

import (
	"context"

	"github.com/tychoish/fun/erc"
)

type ctxKey string

const defaultContextKey ctxKey = "__REAP_STD_REGISTRY"

// WithRegistry attaches a Registry to the context.
func WithRegistry(ctx context.Context, r *Registry) context.Context {
	return WithContextRegistry(ctx, r, string(defaultContextKey))
}

// Context returns the Registry attached with WithRegistry. It panics if
// there is none; use HasRegistry to check first.
func Context(ctx context.Context) *Registry {
	return ContextRegistry(ctx, string(defaultContextKey))
}

// WithContextRegistry attaches a Registry to the context under a
// specific name.
func WithContextRegistry(ctx context.Context, r *Registry, name string) context.Context {
	return context.WithValue(ctx, ctxKey(name), r)
}

// ContextRegistry returns the Registry stored under name, panicking if
// there is none.
func ContextRegistry(ctx context.Context, name string) *Registry {
	val := ctx.Value(ctxKey(name))
	erc.InvariantOk(val != nil, "reap registry", name, "must be stored")

	r, ok := val.(*Registry)
	erc.InvariantOk(ok && r != nil, "stored reap registry", name, "must be of the correct type")

	return r
}

// HasContextRegistry reports whether a Registry is stored under name.
func HasContextRegistry(ctx context.Context, name string) bool {
	r, ok := ctx.Value(ctxKey(name)).(*Registry)
	return ok && r != nil
}

// HasRegistry reports whether the default Registry is attached.
func HasRegistry(ctx context.Context) bool {
	return HasContextRegistry(ctx, string(defaultContextKey))
}
