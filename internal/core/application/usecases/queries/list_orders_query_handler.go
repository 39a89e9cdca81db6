package queries

import (
	"context"

	"dispatch/internal/core/ports"
)

type ListOrdersQueryHandler struct {
	reader ports.OrderReader
}

func NewListOrdersQueryHandler(reader ports.OrderReader) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{reader: reader}
}

func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	list, err := h.reader.ListOrders(ctx, query.Filter())
	if err != nil {
		return nil, err
	}
	return newOrderViews(list), nil
}
