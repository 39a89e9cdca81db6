package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// saveAll updates every order once, in the order given.
func saveAll(ctx context.Context, repo ports.OrderRepository, orders []*order.Order) ([]*order.Order, error) {
	seen := make(map[kernel.UUID]struct{}, len(orders))
	saved := make([]*order.Order, 0, len(orders))
	for _, o := range orders {
		if _, ok := seen[o.ID()]; ok {
			continue
		}
		seen[o.ID()] = struct{}{}
		if err := repo.Update(ctx, o); err != nil {
			return nil, err
		}
		saved = append(saved, o)
	}
	return saved, nil
}

// broadcast announces committed changes. Delivery problems are the notifier's
// concern and never reach the caller.
func broadcast(ctx context.Context, n ports.Notifier, kind ports.EventType, now time.Time, orders ...*order.Order) {
	if n == nil {
		return
	}
	for _, o := range orders {
		snapshot := o.Snapshot()
		_ = n.Notify(ctx, ports.OrderEvent{
			Type:       kind,
			OrderID:    o.ID(),
			Order:      &snapshot,
			OccurredAt: now,
		})
	}
}

func broadcastDeleted(ctx context.Context, n ports.Notifier, id kernel.UUID, now time.Time) {
	if n == nil {
		return
	}
	_ = n.Notify(ctx, ports.OrderEvent{Type: ports.OrderDeleted, OrderID: id, OccurredAt: now})
}
