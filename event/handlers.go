package event

import (
	"context"
	"sync"
)

// handlerEntry is one attached handler. Entries are never deduplicated:
// attaching the same function twice produces two entries with distinct ids.
type handlerEntry[O, A any] struct {
	id uint64
	fn Handler[O, A]
}

// handlerList is the ordered set of handlers for one (owner, event) pair or
// for one class level. The mutex covers the slice only; it is never held
// while a handler runs, so handlers may attach, detach and invoke reentrantly.
type handlerList[O, A any] struct {
	mu      sync.Mutex
	entries []handlerEntry[O, A]
}

func (l *handlerList[O, A]) append(id uint64, fn Handler[O, A]) {
	l.mu.Lock()
	l.entries = append(l.entries, handlerEntry[O, A]{id: id, fn: fn})
	l.mu.Unlock()
}

// remove drops the entry with the given id, reporting whether it was present.
func (l *handlerList[O, A]) remove(id uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, e := range l.entries {
		if e.id == id {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return true
		}
	}
	return false
}

// snapshot returns a point-in-time copy safe to iterate while the list is
// mutated concurrently or by the handlers themselves.
func (l *handlerList[O, A]) snapshot() []handlerEntry[O, A] {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) == 0 {
		return nil
	}
	out := make([]handlerEntry[O, A], len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *handlerList[O, A]) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *handlerList[O, A]) contains(id uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.id == id {
			return true
		}
	}
	return false
}

// dispatch calls the handlers in registration order over a snapshot taken
// now, failing fast on the first error. Handlers attached after this point
// are not part of the snapshot and wait for the next invocation; handlers
// detached while the dispatch is in flight are skipped when their turn
// comes (an already-running handler always finishes). The lock is never
// held across a handler call, so handlers may attach, detach and invoke
// reentrantly.
func (l *handlerList[O, A]) dispatch(ctx context.Context, owner *O, args A) error {
	for _, e := range l.snapshot() {
		if !l.contains(e.id) {
			continue
		}
		if err := e.fn(ctx, owner, args); err != nil {
			return err
		}
	}
	return nil
}
