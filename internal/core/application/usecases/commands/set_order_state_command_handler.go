package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/clock"
)

// SetOrderStateCommandHandler applies forced state changes together with
// their queue and group side effects in one unit of work.
type SetOrderStateCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.Notifier
	clock      clock.Clock
	lifecycle  lifecycle
}

func NewSetOrderStateCommandHandler(
	uowFactory UoWFactory,
	notifier ports.Notifier,
	clk clock.Clock,
	queue services.LoadQueue,
	groups GroupPolicy,
) SetOrderStateCommandHandler {
	return SetOrderStateCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		clock:      clk,
		lifecycle:  lifecycle{queue: queue, groups: groups},
	}
}

// Handle returns the order in its new state. Setting the current state is a
// no-op and announces nothing.
func (h *SetOrderStateCommandHandler) Handle(ctx context.Context, cmd SetOrderStateCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return changeState(ctx, h.uowFactory, h.notifier, h.clock, h.lifecycle, cmd.OrderID(),
		func(o *order.Order, now time.Time) (order.Transition, error) {
			return o.SetState(cmd.Target(), cmd.Actor(), now)
		},
		cmd.Actor(),
	)
}
