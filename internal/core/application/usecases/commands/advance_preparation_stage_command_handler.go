package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/clock"
)

// AdvancePreparationStageCommandHandler walks an order one stage forward.
// Orders outside IN_PREPARATION are rejected with an InvalidTransitionError.
type AdvancePreparationStageCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.Notifier
	clock      clock.Clock
	lifecycle  lifecycle
}

func NewAdvancePreparationStageCommandHandler(
	uowFactory UoWFactory,
	notifier ports.Notifier,
	clk clock.Clock,
	queue services.LoadQueue,
	groups GroupPolicy,
) AdvancePreparationStageCommandHandler {
	return AdvancePreparationStageCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		clock:      clk,
		lifecycle:  lifecycle{queue: queue, groups: groups},
	}
}

func (h *AdvancePreparationStageCommandHandler) Handle(
	ctx context.Context,
	cmd AdvancePreparationStageCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return changeState(ctx, h.uowFactory, h.notifier, h.clock, h.lifecycle, cmd.OrderID(),
		func(o *order.Order, now time.Time) (order.Transition, error) {
			return o.Advance(cmd.Actor(), now)
		},
		cmd.Actor(),
	)
}

// changeState is the shared unit of work of every lifecycle command.
func changeState(
	ctx context.Context,
	uowFactory UoWFactory,
	notifier ports.Notifier,
	clk clock.Clock,
	lc lifecycle,
	orderID kernel.UUID,
	move func(*order.Order, time.Time) (order.Transition, error),
	actor kernel.Actor,
) (*order.Order, error) {
	now := clk.Now()

	uow := uowFactory.Create()
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
	o, err := orderRepo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	tr, err := move(o, now)
	if err != nil {
		return nil, err
	}
	if tr.IsNoop() {
		return o, nil
	}

	changed, err := lc.settle(ctx, uow, o, tr, actor, now)
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

	broadcast(ctx, notifier, ports.OrderUpdated, now, saved...)
	return o, nil
}
