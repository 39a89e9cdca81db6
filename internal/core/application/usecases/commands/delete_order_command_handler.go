package commands

import (
	"context"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/clock"
)

// DeleteOrderCommandHandler removes orders permanently. The manifest number
// stays claimed in the ledger.
type DeleteOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.Notifier
	clock      clock.Clock
	queue      services.LoadQueue
}

func NewDeleteOrderCommandHandler(
	uowFactory OrderUoWFactory,
	notifier ports.Notifier,
	clk clock.Clock,
	queue services.LoadQueue,
) DeleteOrderCommandHandler {
	return DeleteOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		clock:      clk,
		queue:      queue,
	}
}

// Handle fails with an ObjectNotFoundError for unknown ids. Deleting a ranked
// order compacts the ranks behind it.
func (h *DeleteOrderCommandHandler) Handle(ctx context.Context, cmd DeleteOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	now := h.clock.Now()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	if err := orderRepo.LockQueue(ctx); err != nil {
		return err
	}
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	var shifted []*order.Order
	if o.IsRanked() {
		ranked, err := orderRepo.GetRanked(ctx)
		if err != nil {
			return err
		}
		changed, err := h.queue.Remove(ranked, o, now)
		if err != nil {
			return err
		}
		shifted = withoutOrder(changed, o)
	}

	if err = orderRepo.Delete(ctx, o.ID()); err != nil {
		return err
	}
	if shifted, err = saveAll(ctx, orderRepo, shifted); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	broadcastDeleted(ctx, h.notifier, o.ID(), now)
	broadcast(ctx, h.notifier, ports.OrderUpdated, now, shifted...)
	return nil
}
