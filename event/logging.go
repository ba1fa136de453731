package event

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/obkit/go-obkit/logger"
)

// Logging returns an interceptor that records every fan-out of the named
// event: a debug line per dispatch (tagged with a fresh invocation id), a
// warning when the fan-out exceeds cfg.SlowHandlerThreshold and an error
// line when a handler fails. It never suppresses or alters the dispatch
// outcome.
//
// Install it per descriptor:
//
//	tick.Use(event.Logging[Counter, int](lg, cfg, tick.Name()))
func Logging[O, A any](lg *logger.Logger, cfg Config, name string) Interceptor[O, A] {
	return func(ctx context.Context, owner *O, args A, next Next[O, A]) error {
		if !cfg.LogInvocations {
			return next(ctx, owner, args)
		}

		invocationID := uuid.NewString()
		start := time.Now()
		err := next(ctx, owner, args)
		elapsed := time.Since(start)

		fields := []zap.Field{
			zap.String("event", name),
			zap.String("invocation_id", invocationID),
			zap.Duration("elapsed", elapsed),
		}
		switch {
		case err != nil && !errors.Is(err, ErrStopPropagation):
			lg.ErrorCtx(ctx, "event handler failed", append(fields, zap.Error(err))...)
		case cfg.SlowHandlerThreshold > 0 && elapsed > cfg.SlowHandlerThreshold:
			lg.WarnCtx(ctx, "slow event fan-out", fields...)
		default:
			lg.DebugCtx(ctx, "event dispatched", fields...)
		}
		return err
	}
}
