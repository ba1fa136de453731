package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/obkit/go-obkit/logger"
)

func observedLogger(t *testing.T) (*logger.Logger, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	return logger.FromZap("event", zap.New(core)), logs
}

func loggingConfig() Config {
	cfg := DefaultConfig()
	cfg.LogInvocations = true
	return cfg
}

func TestLogging_DebugLinePerDispatch(t *testing.T) {
	lg, logs := observedLogger(t)

	tick := newTick()
	tick.Use(Logging[Counter, int](lg, loggingConfig(), tick.Name()))

	_, err := tick.Bind(&Counter{}).Invoke(context.Background(), 1)
	require.NoError(t, err)

	entries := logs.FilterMessage("event dispatched").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "counter.tick", fields["event"])
	assert.NotEmpty(t, fields["invocation_id"])
}

func TestLogging_ErrorLineOnHandlerFailure(t *testing.T) {
	lg, logs := observedLogger(t)

	tick := newTick()
	tick.Use(Logging[Counter, int](lg, loggingConfig(), tick.Name()))

	errBoom := errors.New("boom")
	b := tick.Bind(&Counter{})
	b.Attach(func(_ context.Context, _ *Counter, _ int) error {
		return errBoom
	})

	_, err := b.Invoke(context.Background(), 1)
	assert.ErrorIs(t, err, errBoom, "logging never alters the outcome")
	assert.Len(t, logs.FilterMessage("event handler failed").All(), 1)
}

func TestLogging_WarnOnSlowFanOut(t *testing.T) {
	lg, logs := observedLogger(t)

	cfg := loggingConfig()
	cfg.SlowHandlerThreshold = time.Nanosecond

	tick := newTick()
	tick.Use(Logging[Counter, int](lg, cfg, tick.Name()))

	b := tick.Bind(&Counter{})
	b.Attach(func(_ context.Context, _ *Counter, _ int) error {
		time.Sleep(time.Millisecond)
		return nil
	})

	_, err := b.Invoke(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, logs.FilterMessage("slow event fan-out").All(), 1)
}

func TestLogging_DisabledIsSilent(t *testing.T) {
	lg, logs := observedLogger(t)

	cfg := DefaultConfig() // LogInvocations off
	tick := newTick()
	tick.Use(Logging[Counter, int](lg, cfg, tick.Name()))

	_, err := tick.Bind(&Counter{}).Invoke(context.Background(), 1)
	require.NoError(t, err)
	assert.Zero(t, logs.Len())
}

func TestLogging_StopPropagationIsNotAFailure(t *testing.T) {
	lg, logs := observedLogger(t)

	tick := newTick()
	tick.Use(Logging[Counter, int](lg, loggingConfig(), tick.Name()))

	b := tick.Bind(&Counter{})
	b.Attach(func(_ context.Context, _ *Counter, _ int) error {
		return ErrStopPropagation
	})

	_, err := b.Invoke(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, logs.FilterMessage("event handler failed").All())
	assert.Len(t, logs.FilterMessage("event dispatched").All(), 1)
}
