package queries

import (
	"context"
	"slices"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/reference"
	"dispatch/internal/core/ports"
)

type CarrierRouteSummaryQueryHandler struct {
	orders     ports.OrderReader
	references ports.ReferenceReader
}

func NewCarrierRouteSummaryQueryHandler(
	orders ports.OrderReader,
	references ports.ReferenceReader,
) CarrierRouteSummaryQueryHandler {
	return CarrierRouteSummaryQueryHandler{orders: orders, references: references}
}

// Handle returns one entry per active carrier ordered by name. Carriers
// without routed orders get an empty map.
func (h CarrierRouteSummaryQueryHandler) Handle(
	ctx context.Context,
	query CarrierRouteSummaryQuery,
) ([]CarrierRouteSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	carriers, err := h.references.ListReferences(ctx, reference.Carrier, true)
	if err != nil {
		return nil, err
	}
	all, err := h.orders.ListOrders(ctx, ports.OrderFilter{Sort: ports.SortOldestFirst})
	if err != nil {
		return nil, err
	}

	routes := make(map[kernel.UUID]map[string][]string)
	for _, o := range all {
		route := o.Route()
		if route == nil {
			continue
		}
		byDate, ok := routes[o.Carrier().ID]
		if !ok {
			byDate = make(map[string][]string)
			routes[o.Carrier().ID] = byDate
		}
		date := o.DeliveryDate().Format(time.DateOnly)
		if !slices.Contains(byDate[date], route.Name) {
			byDate[date] = append(byDate[date], route.Name)
		}
	}

	summary := make([]CarrierRouteSummary, 0, len(carriers))
	for _, c := range carriers {
		byDate := routes[c.ID()]
		if byDate == nil {
			byDate = make(map[string][]string)
		}
		for _, names := range byDate {
			slices.Sort(names)
		}
		summary = append(summary, CarrierRouteSummary{
			CarrierID:    c.ID(),
			CarrierName:  c.Name(),
			RoutesByDate: byDate,
		})
	}
	return summary, nil
}
