package commands

import (
	"context"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/clock"
)

type AppendToQueueCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.Notifier
	clock      clock.Clock
	queue      services.LoadQueue
}

func NewAppendToQueueCommandHandler(
	uowFactory OrderUoWFactory,
	notifier ports.Notifier,
	clk clock.Clock,
	queue services.LoadQueue,
) AppendToQueueCommandHandler {
	return AppendToQueueCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		clock:      clk,
		queue:      queue,
	}
}

// Handle fails with an InvalidTransitionError for orders that are not PENDING
// and with a validation error for orders already ranked.
func (h *AppendToQueueCommandHandler) Handle(ctx context.Context, cmd AppendToQueueCommand) (*order.Order, error) {
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
	ranked, err := orderRepo.GetRanked(ctx)
	if err != nil {
		return nil, err
	}

	changed, err := h.queue.Append(withoutOrder(ranked, o), o, now)
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
