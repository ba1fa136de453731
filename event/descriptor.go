package event

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"weak"
)

// classLevel dispatches the class-wide handlers of one level of an event
// hierarchy, with the owner already converted to that level's owner type.
type classLevel[O, A any] func(ctx context.Context, owner *O, args A) error

// Descriptor declares one event on an owner type. It is created once per
// event (Declare or Derive) and shared by every instance of the owner type.
// Name and base behavior are immutable after creation.
//
// Per-owner handler lists live in a side table keyed by weak pointers, so a
// descriptor never keeps an owner alive and never leaks entries for owners
// that have been reclaimed.
type Descriptor[O, A, R any] struct {
	name string
	base BaseFunc[O, A, R]

	mu           sync.RWMutex
	bindings     map[weak.Pointer[O]]*handlerList[O, A]
	interceptors []Interceptor[O, A]

	// class-wide handlers for this level, plus the flattened hierarchy
	// (this level first, then ancestors), computed once at Derive time.
	class   handlerList[O, A]
	lineage []classLevel[O, A]

	nextID atomic.Uint64
}

// Declare creates the descriptor for an event named name with the given base
// behavior. A nil base declares a pure signal: invoking it runs handlers only
// and returns the zero R.
//
// Event names follow the dotted convention ("counter.tick"); the name is
// used for diagnostics and registry lookup, never for dispatch.
func Declare[O, A, R any](name string, base BaseFunc[O, A, R]) *Descriptor[O, A, R] {
	d := &Descriptor[O, A, R]{
		name:     name,
		base:     base,
		bindings: make(map[weak.Pointer[O]]*handlerList[O, A]),
	}
	d.lineage = []classLevel[O, A]{d.runClassHandlers}
	return d
}

// Signal declares an event with no base behavior and no result.
func Signal[O, A any](name string) *Descriptor[O, A, struct{}] {
	return Declare[O, A, struct{}](name, nil)
}

// Derive declares an event on a derived owner type C whose class-wide
// fan-out extends parent's. On invocation, C's own class-wide handlers run
// first, then each ancestor level's in order, every level receiving the
// owner converted through upcast (for embedded parents this is typically
// func(c *C) *P { return &c.P }).
//
// The hierarchy is flattened here, once, so dispatch never walks parents.
func Derive[C, P, A, R any](parent *Descriptor[P, A, R], name string, base BaseFunc[C, A, R], upcast func(*C) *P) *Descriptor[C, A, R] {
	d := Declare[C, A, R](name, base)
	for _, level := range parent.lineage {
		level := level
		d.lineage = append(d.lineage, func(ctx context.Context, owner *C, args A) error {
			return level(ctx, upcast(owner), args)
		})
	}
	return d
}

// Name returns the declared event name.
func (d *Descriptor[O, A, R]) Name() string {
	return d.name
}

// Bind resolves the binding of this event for owner, creating its handler
// list on first access. Every call returns a fresh wrapper, but all wrappers
// for one owner share the same handler list.
//
// The returned binding pins owner: the instance stays reachable for as long
// as the caller holds the binding. Use Binding.Weak for a non-owning handle.
//
// Bind panics with ErrArgument on a nil owner.
func (d *Descriptor[O, A, R]) Bind(owner *O) *Binding[O, A, R] {
	if owner == nil {
		panic(fmt.Errorf("event %q: %w: nil owner", d.name, ErrArgument))
	}
	return &Binding[O, A, R]{
		desc:  d,
		owner: weak.Make(owner),
		pin:   owner,
		list:  d.resolveList(owner),
	}
}

// resolveList returns the handler list for owner, creating and registering
// it exactly once per (owner, descriptor) pair. A cleanup tied to the owner
// drops the table entry when the owner is reclaimed.
func (d *Descriptor[O, A, R]) resolveList(owner *O) *handlerList[O, A] {
	key := weak.Make(owner)

	d.mu.RLock()
	list, ok := d.bindings[key]
	d.mu.RUnlock()
	if ok {
		return list
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	// double-check: another goroutine may have resolved first
	if list, ok = d.bindings[key]; ok {
		return list
	}
	list = &handlerList[O, A]{}
	d.bindings[key] = list
	runtime.AddCleanup(owner, func(k weak.Pointer[O]) {
		d.mu.Lock()
		delete(d.bindings, k)
		d.mu.Unlock()
	}, key)
	return list
}

// Attach registers a class-wide handler: it fires on every owner's
// invocation of this event (and of events derived from it), receiving the
// owner as its leading argument, after that owner's instance handlers.
//
// Attach panics with ErrArgument on a nil handler.
func (d *Descriptor[O, A, R]) Attach(h Handler[O, A]) Registration {
	if h == nil {
		panic(fmt.Errorf("event %q: %w: nil handler", d.name, ErrArgument))
	}
	id := d.nextID.Add(1)
	d.class.append(id, h)
	return Registration{id: id}
}

// Detach removes a class-wide registration. It fails with ErrNotFound when
// the registration is unknown or was already detached.
func (d *Descriptor[O, A, R]) Detach(reg Registration) error {
	if !d.class.remove(reg.id) {
		return fmt.Errorf("event %q: %w", d.name, ErrNotFound)
	}
	return nil
}

// Use appends an interceptor around the handler fan-out. Interceptors run in
// the order they were added, outermost first, after the base behavior and
// around instance plus class-wide handlers.
func (d *Descriptor[O, A, R]) Use(ic Interceptor[O, A]) {
	d.mu.Lock()
	d.interceptors = append(d.interceptors, ic)
	d.mu.Unlock()
}

// Invoke is the unbound form of the event: the owner is passed explicitly,
// like calling a method through its type. It fails with ErrArgument on a nil
// owner, before the base behavior or any handler runs.
func (d *Descriptor[O, A, R]) Invoke(ctx context.Context, owner *O, args A) (R, error) {
	var zero R
	if owner == nil {
		return zero, fmt.Errorf("event %q: %w: nil owner", d.name, ErrArgument)
	}
	return d.dispatch(ctx, owner, args, d.resolveList(owner))
}

// HandlerCount returns the number of instance handlers currently attached
// for owner (for tests and diagnostics).
func (d *Descriptor[O, A, R]) HandlerCount(owner *O) int {
	if owner == nil {
		return 0
	}
	key := weak.Make(owner)
	d.mu.RLock()
	list, ok := d.bindings[key]
	d.mu.RUnlock()
	if !ok {
		return 0
	}
	return list.len()
}

// ClassHandlerCount returns the number of class-wide handlers attached at
// this level of the hierarchy.
func (d *Descriptor[O, A, R]) ClassHandlerCount() int {
	return d.class.len()
}

// runClassHandlers is this descriptor's own level in the lineage.
func (d *Descriptor[O, A, R]) runClassHandlers(ctx context.Context, owner *O, args A) error {
	return d.class.dispatch(ctx, owner, args)
}

// dispatch runs one invocation: base behavior first, then - over snapshots
// taken now - the instance handlers and the class-wide lineage, most-derived
// level first, failing fast on the first handler error. Interceptors wrap
// the fan-out only; the base behavior always runs.
func (d *Descriptor[O, A, R]) dispatch(ctx context.Context, owner *O, args A, list *handlerList[O, A]) (R, error) {
	var zero R
	result := zero
	if d.base != nil {
		var err error
		result, err = d.base(ctx, owner, args)
		if err != nil {
			return zero, err
		}
	}

	d.mu.RLock()
	interceptors := make([]Interceptor[O, A], len(d.interceptors))
	copy(interceptors, d.interceptors)
	d.mu.RUnlock()

	fan := Next[O, A](func(ctx context.Context, owner *O, args A) error {
		if err := list.dispatch(ctx, owner, args); err != nil {
			return err
		}
		for _, level := range d.lineage {
			if err := level(ctx, owner, args); err != nil {
				return err
			}
		}
		return nil
	})

	// wrap interceptors backwards so the first added runs outermost
	for i := len(interceptors) - 1; i >= 0; i-- {
		ic, next := interceptors[i], fan
		fan = func(ctx context.Context, owner *O, args A) error {
			return ic(ctx, owner, args, next)
		}
	}

	if err := fan(ctx, owner, args); err != nil {
		if errors.Is(err, ErrStopPropagation) {
			return result, nil
		}
		return zero, err
	}
	return result, nil
}
