package event

import "errors"

// ErrStopPropagation stops the remaining handler fan-out (not considered an error).
// When a handler returns it, subsequent handlers in that dispatch do not run,
// but Invoke still returns the base behavior's result and a nil error.
var ErrStopPropagation = errors.New("stop propagation")

// ErrArgument reports a call that cannot possibly be served: a nil owner
// passed to an unbound invocation, or a nil handler.
var ErrArgument = errors.New("invalid argument")

// ErrNotFound reports a Detach for a registration that is not (or no longer)
// attached.
var ErrNotFound = errors.New("handler not registered")

// ErrDanglingOwner reports an invocation through a weak binding whose owner
// has already been reclaimed. This is a usage error: hold a regular (pinned)
// binding while you intend to invoke.
var ErrDanglingOwner = errors.New("event owner no longer alive")

// ErrDuplicateEvent reports a Register of a name the registry already holds.
var ErrDuplicateEvent = errors.New("event already registered")
