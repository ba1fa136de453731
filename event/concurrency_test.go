package event

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/obkit/go-obkit/testutil"
)

// Gauge uses an atomic total so concurrent invocations do not race in the
// base behavior.
type Gauge struct {
	total atomic.Int64
}

func newAdd() *Descriptor[Gauge, int64, int64] {
	return Declare("gauge.add", func(_ context.Context, g *Gauge, delta int64) (int64, error) {
		return g.total.Add(delta), nil
	})
}

func TestDescriptor_ConcurrentFirstResolveSharesOneList(t *testing.T) {
	add := newAdd()
	g := &Gauge{}

	lists := make([]*handlerList[Gauge, int64], 32)
	var eg errgroup.Group
	for i := range lists {
		i := i
		eg.Go(func() error {
			lists[i] = add.Bind(g).list
			return nil
		})
	}
	require.NoError(t, eg.Wait())
	for _, l := range lists[1:] {
		assert.Same(t, lists[0], l)
	}
}

func TestBinding_ConcurrentAttachDetachInvoke(t *testing.T) {
	add := newAdd()
	g := &Gauge{}
	b := add.Bind(g)

	var fired atomic.Int64
	observe := func(_ context.Context, _ *Gauge, _ int64) error {
		fired.Add(1)
		return nil
	}

	const ops = 600
	var invocations atomic.Int64
	err := testutil.Parallel(16, ops, func(i int) error {
		switch i % 3 {
		case 0:
			reg := b.Attach(observe)
			return b.Detach(reg)
		case 1:
			invocations.Add(1)
			_, err := b.Invoke(context.Background(), 1)
			return err
		default:
			reg := add.Attach(observe)
			return add.Detach(reg)
		}
	})
	require.NoError(t, err)

	assert.Equal(t, invocations.Load(), g.total.Load(), "every invocation ran the base behavior exactly once")
	assert.Equal(t, 0, b.HandlerCount(), "every attach was matched by a detach")
	assert.Equal(t, 0, add.ClassHandlerCount())
}

func TestBinding_ConcurrentAttachCountsEveryRegistration(t *testing.T) {
	add := newAdd()
	b := add.Bind(&Gauge{})

	const n = 128
	err := testutil.Parallel(8, n, func(int) error {
		b.Attach(func(_ context.Context, _ *Gauge, _ int64) error { return nil })
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, n, b.HandlerCount())
}

func TestBinding_ConcurrentInvokeSeesConsistentSnapshots(t *testing.T) {
	add := newAdd()
	g := &Gauge{}
	b := add.Bind(g)

	var handled atomic.Int64
	b.Attach(func(_ context.Context, _ *Gauge, delta int64) error {
		handled.Add(delta)
		return nil
	})

	const n = 400
	err := testutil.Parallel(16, n, func(int) error {
		_, err := b.Invoke(context.Background(), 1)
		return err
	})
	require.NoError(t, err)

	assert.Equal(t, int64(n), g.total.Load())
	assert.Equal(t, int64(n), handled.Load(), "the lone handler observed every invocation")
}
