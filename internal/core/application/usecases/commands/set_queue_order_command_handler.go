package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/clock"
	"dispatch/internal/pkg/errs"
)

// SetQueueOrderCommandHandler applies a manual ordering of the load queue
// atomically: either every listed order is ranked or nothing changes.
type SetQueueOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.Notifier
	clock      clock.Clock
	queue      services.LoadQueue
}

func NewSetQueueOrderCommandHandler(
	uowFactory OrderUoWFactory,
	notifier ports.Notifier,
	clk clock.Clock,
	queue services.LoadQueue,
) SetQueueOrderCommandHandler {
	return SetQueueOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		clock:      clk,
		queue:      queue,
	}
}

// Handle returns the new queue by rank. Unknown ids fail with a validation
// error and orders that are not PENDING with an InvalidTransitionError.
func (h *SetQueueOrderCommandHandler) Handle(ctx context.Context, cmd SetQueueOrderCommand) ([]*order.Order, error) {
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
	ranked, err := orderRepo.GetRanked(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[kernel.UUID]*order.Order, len(ranked))
	for _, o := range ranked {
		byID[o.ID()] = o
	}
	var missing []kernel.UUID
	for _, id := range cmd.OrderIDs() {
		if _, ok := byID[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		fetched, err := orderRepo.GetMany(ctx, missing)
		if err != nil {
			if errors.Is(err, errs.ErrObjectNotFound) {
				return nil, errs.NewValueIsInvalidErrorWithCause("order ids", err)
			}
			return nil, err
		}
		for _, o := range fetched {
			byID[o.ID()] = o
		}
	}

	selected := make([]*order.Order, 0, len(cmd.OrderIDs()))
	for _, id := range cmd.OrderIDs() {
		selected = append(selected, byID[id])
	}

	changed, err := h.queue.Reorder(ranked, selected, now)
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
	return selected, nil
}
