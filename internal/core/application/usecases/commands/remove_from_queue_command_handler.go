package commands

import (
	"context"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/clock"
)

type RemoveFromQueueCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.Notifier
	clock      clock.Clock
	queue      services.LoadQueue
}

func NewRemoveFromQueueCommandHandler(
	uowFactory OrderUoWFactory,
	notifier ports.Notifier,
	clk clock.Clock,
	queue services.LoadQueue,
) RemoveFromQueueCommandHandler {
	return RemoveFromQueueCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		clock:      clk,
		queue:      queue,
	}
}

// Handle is idempotent: an unranked order is returned as is and nothing is
// written.
func (h *RemoveFromQueueCommandHandler) Handle(ctx context.Context, cmd RemoveFromQueueCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	now := h.clock.Now()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	if err := orderRepo.LockQueue(ctx); err != nil {
		return nil, err
	}
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}
	if !o.IsRanked() {
		return o, nil
	}

	ranked, err := orderRepo.GetRanked(ctx)
	if err != nil {
		return nil, err
	}
	changed, err := h.queue.Remove(ranked, o, now)
	if err != nil {
		return nil, err
	}
	saved, err := saveAll(ctx, orderRepo, changed)
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	broadcast(ctx, h.notifier, ports.OrderUpdated, now, saved...)
	return o, nil
}
