package commands

import (
	"context"

	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/clock"
)

type CompactQueueCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.Notifier
	clock      clock.Clock
	queue      services.LoadQueue
}

func NewCompactQueueCommandHandler(
	uowFactory OrderUoWFactory,
	notifier ports.Notifier,
	clk clock.Clock,
	queue services.LoadQueue,
) CompactQueueCommandHandler {
	return CompactQueueCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		clock:      clk,
		queue:      queue,
	}
}

// Handle reports how many orders received a new rank. A dense queue is left
// untouched and yields zero.
func (h *CompactQueueCommandHandler) Handle(ctx context.Context, cmd CompactQueueCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}
	now := h.clock.Now()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	ranked, err := orderRepo.GetRanked(ctx)
	if err != nil {
		return 0, err
	}
	changed, err := h.queue.Compact(ranked, now)
	if err != nil {
		return 0, err
	}
	if len(changed) == 0 {
		return 0, nil
	}
	saved, err := saveAll(ctx, orderRepo, changed)
	if err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	broadcast(ctx, h.notifier, ports.OrderUpdated, now, saved...)
	return len(saved), nil
}
