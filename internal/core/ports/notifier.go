package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// EventType names a change broadcast to watchers.
type EventType string

const (
	OrderCreated EventType = "order.created"
	OrderUpdated EventType = "order.updated"
	OrderDeleted EventType = "order.deleted"
)

// OrderEvent is emitted after a successful commit. Order is nil for deletions.
type OrderEvent struct {
	Type       EventType
	OrderID    kernel.UUID
	Order      *order.Snapshot
	OccurredAt time.Time
}

// Notifier broadcasts order changes. Implementations must not block the
// caller for long; failures are reported but never undo the change.
type Notifier interface {
	Notify(ctx context.Context, event OrderEvent) error
}
