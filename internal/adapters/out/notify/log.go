package notify

import (
	"context"
	"log/slog"

	"dispatch/internal/core/ports"
)

// Log writes every event to the structured log. Useful in development.
type Log struct {
	logger *slog.Logger
}

func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger.With("component", "order-events")}
}

func (l *Log) Notify(ctx context.Context, event ports.OrderEvent) error {
	attrs := []any{
		slog.String("type", string(event.Type)),
		slog.String("order_id", event.OrderID.String()),
		slog.Time("occurred_at", event.OccurredAt),
	}
	if s := event.Order; s != nil {
		attrs = append(attrs,
			slog.String("manifest_number", s.ManifestNumber),
			slog.String("state", s.Status.String()+"/"+s.Stage.String()),
		)
		if s.Rank != nil {
			attrs = append(attrs, slog.Int("load_priority", *s.Rank))
		}
	}
	l.logger.InfoContext(ctx, "order changed", attrs...)
	return nil
}

func (l *Log) Close() error { return nil }

// Noop drops every event.
type Noop struct{}

func (Noop) Notify(context.Context, ports.OrderEvent) error { return nil }

func (Noop) Close() error { return nil }
