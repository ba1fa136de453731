package event

import (
	"context"
	"fmt"
	"weak"
)

// Binding is the live, per-owner handle of one event: the object through
// which handlers are attached, detached and the event is invoked for a
// single instance.
//
// A binding obtained from Descriptor.Bind pins its owner: the instance stays
// reachable while the binding is held, so Invoke cannot observe a vanished
// owner. Weak returns an unpinned copy for callers that want a handle
// without extending the owner's lifetime; invoking through it after the
// owner has been reclaimed fails with ErrDanglingOwner.
type Binding[O, A, R any] struct {
	desc  *Descriptor[O, A, R]
	owner weak.Pointer[O]
	pin   *O // nil for weak bindings
	list  *handlerList[O, A]
}

// Attach appends h to this owner's handler list and returns its
// registration. Duplicate attachments of the same function are independent:
// each fires, each is detached on its own.
//
// Attach panics with ErrArgument on a nil handler.
func (b *Binding[O, A, R]) Attach(h Handler[O, A]) Registration {
	if h == nil {
		panic(fmt.Errorf("event %q: %w: nil handler", b.desc.name, ErrArgument))
	}
	id := b.desc.nextID.Add(1)
	b.list.append(id, h)
	return Registration{id: id}
}

// Detach removes the registration from this owner's handler list. It fails
// with ErrNotFound when the registration is unknown, already detached, or
// belongs to another binding.
func (b *Binding[O, A, R]) Detach(reg Registration) error {
	if !b.list.remove(reg.id) {
		return fmt.Errorf("event %q: %w", b.desc.name, ErrNotFound)
	}
	return nil
}

// Invoke fires the event for this binding's owner: the base behavior runs
// first and its result is returned; then the instance handlers and the
// class-wide lineage run in order over a snapshot taken now, with the same
// arguments. The first handler error aborts the remaining fan-out and is
// returned in place of the result.
//
// Invoking a weak binding whose owner has been reclaimed fails with
// ErrDanglingOwner.
func (b *Binding[O, A, R]) Invoke(ctx context.Context, args A) (R, error) {
	owner := b.owner.Value()
	if owner == nil {
		var zero R
		return zero, fmt.Errorf("event %q: %w", b.desc.name, ErrDanglingOwner)
	}
	return b.desc.dispatch(ctx, owner, args, b.list)
}

// Weak returns a copy of the binding that does not keep the owner alive.
// The handler list is shared with the original.
func (b *Binding[O, A, R]) Weak() *Binding[O, A, R] {
	return &Binding[O, A, R]{desc: b.desc, owner: b.owner, list: b.list}
}

// Owner returns the bound instance, or nil when a weak binding's owner has
// been reclaimed.
func (b *Binding[O, A, R]) Owner() *O {
	return b.owner.Value()
}

// HandlerCount returns the number of instance handlers currently attached.
func (b *Binding[O, A, R]) HandlerCount() int {
	return b.list.len()
}

// Equal reports whether both bindings are handles of the same event on the
// same instance, regardless of which Bind call produced them.
func (b *Binding[O, A, R]) Equal(other *Binding[O, A, R]) bool {
	return other != nil && b.desc == other.desc && b.owner == other.owner
}
