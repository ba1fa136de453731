// Package retrofit declares events over pre-existing methods of a type
// without editing the type itself. A Builder scopes a set of event names to
// one owner type and optionally registers every produced descriptor in an
// event.Registry, so retrofitted events stay discoverable by name.
package retrofit

import (
	"context"
	"fmt"

	"github.com/obkit/go-obkit/event"
)

// Builder collects retrofitted events for one owner type O. Registration
// failures are sticky: the first one is kept and reported by Err, so a chain
// of Method calls does not need per-call error handling.
type Builder[O any] struct {
	scope string
	reg   *event.Registry
	err   error
}

// Option configures a Builder.
type Option[O any] func(*Builder[O])

// WithRegistry makes the builder register every produced descriptor.
func WithRegistry[O any](r *event.Registry) Option[O] {
	return func(b *Builder[O]) {
		b.reg = r
	}
}

// For creates a builder whose event names are prefixed with scope
// ("counter" produces "counter.tick" and so on).
func For[O any](scope string, opts ...Option[O]) *Builder[O] {
	b := &Builder[O]{scope: scope}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Err returns the first registration failure, if any.
func (b *Builder[O]) Err() error {
	return b.err
}

func (b *Builder[O]) qualify(name string) string {
	if b.scope == "" {
		return name
	}
	return b.scope + "." + name
}

func (b *Builder[O]) register(d event.Named) {
	if b.reg == nil {
		return
	}
	if err := b.reg.Register(d); err != nil && b.err == nil {
		b.err = err
	}
}

// Method declares an event named scope.name over an existing method body.
// The method keeps running exactly as before; attaching handlers to the
// returned descriptor observes its invocations.
func Method[O, A, R any](b *Builder[O], name string, base event.BaseFunc[O, A, R]) *event.Descriptor[O, A, R] {
	d := event.Declare(b.qualify(name), base)
	b.register(d)
	return d
}

// Notify declares a pure signal (no base behavior, no result) named
// scope.name.
func Notify[O, A any](b *Builder[O], name string) *event.Descriptor[O, A, struct{}] {
	d := event.Signal[O, A](b.qualify(name))
	b.register(d)
	return d
}

// NoError adapts a method that cannot fail into a base behavior.
func NoError[O, A, R any](fn func(owner *O, args A) R) event.BaseFunc[O, A, R] {
	return func(_ context.Context, owner *O, args A) (R, error) {
		return fn(owner, args), nil
	}
}

// NoResult adapts a method that only reports errors into a base behavior.
func NoResult[O, A any](fn func(ctx context.Context, owner *O, args A) error) event.BaseFunc[O, A, struct{}] {
	return func(ctx context.Context, owner *O, args A) (struct{}, error) {
		return struct{}{}, fn(ctx, owner, args)
	}
}

// Guard adapts a method while rejecting nil owners explicitly, for bases
// that dereference the owner unconditionally.
func Guard[O, A, R any](fn event.BaseFunc[O, A, R]) event.BaseFunc[O, A, R] {
	return func(ctx context.Context, owner *O, args A) (R, error) {
		if owner == nil {
			var zero R
			return zero, fmt.Errorf("retrofit: %w: nil owner", event.ErrArgument)
		}
		return fn(ctx, owner, args)
	}
}
