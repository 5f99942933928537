package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/voyage/pkg/domain"
)

// LoggingHooks logs every lifecycle event through logger.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStateEnter: func(ctx context.Context, e *domain.StateEvent) {
			logger.DebugContext(ctx, "state_enter", "session_id", e.SessionID, "state", e.State)
		},
		OnStateLeave: func(ctx context.Context, e *domain.StateEvent) {
			logger.DebugContext(ctx, "state_leave", "session_id", e.SessionID, "state", e.State)
		},
		OnGenerate: func(ctx context.Context, e *domain.GenerationEvent) {
			attrs := []any{
				"session_id", e.SessionID,
				"kind", e.Kind,
				"duration", e.Duration,
			}
			if e.Err != nil {
				attrs = append(attrs, "err", e.Err, "fallback", e.Fallback)
				logger.WarnContext(ctx, "generation_failed", attrs...)
				return
			}
			logger.InfoContext(ctx, "generation", attrs...)
		},
	}
}

// CombineHooks fans each event out to every set of hooks, in order.
func CombineHooks(all ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStateEnter: func(ctx context.Context, e *domain.StateEvent) {
			for _, h := range all {
				if h.OnStateEnter != nil {
					h.OnStateEnter(ctx, e)
				}
			}
		},
		OnStateLeave: func(ctx context.Context, e *domain.StateEvent) {
			for _, h := range all {
				if h.OnStateLeave != nil {
					h.OnStateLeave(ctx, e)
				}
			}
		},
		OnGenerate: func(ctx context.Context, e *domain.GenerationEvent) {
			for _, h := range all {
				if h.OnGenerate != nil {
					h.OnGenerate(ctx, e)
				}
			}
		},
	}
}
