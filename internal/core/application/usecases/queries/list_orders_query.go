package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/guard"
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via one of the NewList*Query constructors",
)

// ListOrdersQuery covers every order listing. Each constructor fixes the
// filter and the ordering of one view of the board.
//
// Example:
//
//	query := NewListUnrankedQuery()
//	handler := NewListOrdersQueryHandler(reader)
//
//	pool, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to list unranked orders: %w", err)
//	}
type ListOrdersQuery struct {
	filter ports.OrderFilter

	guard guard.ConstructorGuard
}

// NewListOrdersQuery lists every order, newest first.
func NewListOrdersQuery() ListOrdersQuery {
	return newListOrdersQuery(ports.OrderFilter{Sort: ports.SortNewestFirst})
}

// NewListByStateQuery lists orders with status. DONE orders come most recently
// updated first, every other status oldest first.
func NewListByStateQuery(status order.Status) (ListOrdersQuery, error) {
	if err := status.Validate(); err != nil {
		return ListOrdersQuery{}, err
	}

	filter := ports.OrderFilter{Status: &status, Sort: ports.SortOldestFirst}
	if status == order.Done {
		filter.Sort = ports.SortRecentlyUpdated
	}
	return newListOrdersQuery(filter), nil
}

// NewListUnrankedQuery lists the pending orders waiting for a rank, oldest first.
func NewListUnrankedQuery() ListOrdersQuery {
	pending, ranked := order.Pending, false
	return newListOrdersQuery(ports.OrderFilter{Status: &pending, Ranked: &ranked, Sort: ports.SortOldestFirst})
}

// NewListRankedQuery lists the load queue by rank.
func NewListRankedQuery() ListOrdersQuery {
	pending, ranked := order.Pending, true
	return newListOrdersQuery(ports.OrderFilter{Status: &pending, Ranked: &ranked, Sort: ports.SortByRank})
}

func newListOrdersQuery(filter ports.OrderFilter) ListOrdersQuery {
	return ListOrdersQuery{filter: filter, guard: guard.NewConstructorGuard()}
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) Filter() ports.OrderFilter {
	return q.filter
}
