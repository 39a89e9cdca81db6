package queries

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/clock"
)

type ListReceivedTodayQueryHandler struct {
	reader ports.OrderReader
	clock  clock.Clock
}

// NewListReceivedTodayQueryHandler takes the day boundaries from clk's location.
func NewListReceivedTodayQueryHandler(reader ports.OrderReader, clk clock.Clock) ListReceivedTodayQueryHandler {
	return ListReceivedTodayQueryHandler{reader: reader, clock: clk}
}

// Handle returns today's orders, newest first.
func (h ListReceivedTodayQueryHandler) Handle(ctx context.Context, query ListReceivedTodayQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	from, before := kernel.StartOfDay(h.clock.Now())
	list, err := h.reader.ListOrders(ctx, ports.OrderFilter{
		CreatedFrom:   &from,
		CreatedBefore: &before,
		Sort:          ports.SortNewestFirst,
	})
	if err != nil {
		return nil, err
	}
	return newOrderViews(list), nil
}
