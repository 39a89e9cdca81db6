package queries

import (
	"context"

	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

type VerifyQueueQueryHandler struct {
	reader ports.OrderReader
	queue  services.LoadQueue
}

func NewVerifyQueueQueryHandler(reader ports.OrderReader, queue services.LoadQueue) VerifyQueueQueryHandler {
	return VerifyQueueQueryHandler{reader: reader, queue: queue}
}

// Handle only fails when the queue cannot be read. Density problems are
// reported in the QueueReport.
func (h VerifyQueueQueryHandler) Handle(ctx context.Context, query VerifyQueueQuery) (QueueReport, error) {
	if err := query.Validate(); err != nil {
		return QueueReport{}, err
	}

	ranked := true
	list, err := h.reader.ListOrders(ctx, ports.OrderFilter{Ranked: &ranked, Sort: ports.SortByRank})
	if err != nil {
		return QueueReport{}, err
	}

	return QueueReport{Length: len(list), Problem: h.queue.Verify(list)}, nil
}

