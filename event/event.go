// Package event turns ordinary methods into observable extension points.
// An event is declared once per owner type with Declare (or Derive, for
// hierarchies); reading it for a concrete owner with Bind yields a Binding
// through which handlers are attached, detached and the event is invoked.
// Invoking runs the declared base behavior first, then notifies handlers in
// registration order with the same arguments.
package event

import "context"

// BaseFunc is the base behavior of an event: the method body that runs
// before any handler is notified. A nil BaseFunc is a pure signal (zero R).
type BaseFunc[O, A, R any] func(ctx context.Context, owner *O, args A) (R, error)

// Handler observes one invocation of an event.
// When a handler returns an error, dispatch stops and the error is returned
// to the invoker untouched. Returning ErrStopPropagation stops the remaining
// fan-out without the invocation being reported as failed.
type Handler[O, A any] func(ctx context.Context, owner *O, args A) error

// Next continues the dispatch chain from inside an interceptor.
type Next[O, A any] func(ctx context.Context, owner *O, args A) error

// Interceptor wraps the handler fan-out of an event.
// It runs after the base behavior and may observe, short-circuit or decorate
// the fan-out. Useful for logging, timing and filtering.
type Interceptor[O, A any] func(ctx context.Context, owner *O, args A, next Next[O, A]) error

// Registration identifies one attached handler. Attaching the same handler
// function twice yields two distinct registrations, each detachable on its
// own.
type Registration struct {
	id uint64
}

// Valid reports whether the registration was produced by an Attach call.
func (r Registration) Valid() bool {
	return r.id != 0
}
