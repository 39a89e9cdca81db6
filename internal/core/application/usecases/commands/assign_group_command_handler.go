package commands

import (
	"context"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/reference"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/clock"
)

type AssignGroupCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.Notifier
	clock      clock.Clock
}

func NewAssignGroupCommandHandler(
	uowFactory UoWFactory,
	notifier ports.Notifier,
	clk clock.Clock,
) AssignGroupCommandHandler {
	return AssignGroupCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		clock:      clk,
	}
}

// Handle fails with an ObjectNotFoundError when either the order or the
// group does not exist.
func (h *AssignGroupCommandHandler) Handle(ctx context.Context, cmd AssignGroupCommand) (*order.Order, error) {
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

	group, err := uow.ReferenceRepository().Get(ctx, reference.Group, cmd.GroupID())
	if err != nil {
		return nil, err
	}

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}
	if err = o.AssignGroup(group.Link(), now); err != nil {
		return nil, err
	}
	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	broadcast(ctx, h.notifier, ports.OrderUpdated, now, o)
	return o, nil
}
