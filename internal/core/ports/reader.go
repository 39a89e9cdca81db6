package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/reference"
)

// OrderSort selects the ordering of a listing.
type OrderSort int

const (
	SortNewestFirst OrderSort = iota
	SortOldestFirst
	SortRecentlyUpdated
	SortByRank
)

// OrderFilter narrows a listing. Zero values mean no restriction.
type OrderFilter struct {
	Status        *order.Status
	Ranked        *bool
	CreatedFrom   *time.Time
	CreatedBefore *time.Time
	Sort          OrderSort
}

// OrderReader serves read-only listings outside any unit of work.
type OrderReader interface {
	// GetOrder fails with errs.ObjectNotFoundError for unknown ids.
	GetOrder(ctx context.Context, id kernel.UUID) (*order.Order, error)

	ListOrders(ctx context.Context, filter OrderFilter) ([]*order.Order, error)
}

// ReferenceReader lists registry entries ordered by name.
type ReferenceReader interface {
	ListReferences(ctx context.Context, kind reference.Kind, activeOnly bool) ([]*reference.Reference, error)
}
