package event

import (
	"context"
	"runtime"
	"testing"
	"time"
	"weak"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinding_PinsOwnerWhileHeld(t *testing.T) {
	tick := newTick()
	c := &Counter{}
	b := tick.Bind(c)

	wp := weak.Make(c)
	c = nil
	runtime.GC()

	require.NotNil(t, wp.Value(), "a held binding keeps its owner alive")

	total, err := b.Invoke(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
}

func TestBinding_Weak_DoesNotExtendOwnerLifetime(t *testing.T) {
	tick := newTick()
	c := &Counter{}
	b := tick.Bind(c)
	w := b.Weak()
	assert.True(t, b.Equal(w))

	wp := weak.Make(c)
	c = nil
	b = nil
	runtime.GC()

	assert.Nil(t, wp.Value(), "dropping the pinned binding releases the owner")
	assert.Nil(t, w.Owner())

	_, err := w.Invoke(context.Background(), 1)
	assert.ErrorIs(t, err, ErrDanglingOwner)
}

func TestBinding_Weak_WorksWhileOwnerAlive(t *testing.T) {
	tick := newTick()
	c := &Counter{}
	w := tick.Bind(c).Weak()

	var log []int
	w.Attach(recorder(&log))

	total, err := w.Invoke(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Equal(t, []int{4}, log)
	assert.Same(t, c, w.Owner())
}

func TestDescriptor_SideTableDropsCollectedOwners(t *testing.T) {
	tick := newTick()
	c := &Counter{}
	tick.Bind(c).Attach(recorder(new([]int)))

	tick.mu.RLock()
	entries := len(tick.bindings)
	tick.mu.RUnlock()
	require.Equal(t, 1, entries)

	c = nil

	// cleanups run on their own goroutine after the collection that frees
	// the owner, so poll rather than assert once
	assert.Eventually(t, func() bool {
		runtime.GC()
		tick.mu.RLock()
		defer tick.mu.RUnlock()
		return len(tick.bindings) == 0
	}, 5*time.Second, 10*time.Millisecond)
}
