package commands

import (
	"context"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/reference"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/clock"
	"dispatch/internal/pkg/errs"
)

// UpdateOrderCommandHandler edits manifest data. Lifecycle fields, the rank
// and the group are never touched here.
type UpdateOrderCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.Notifier
	clock      clock.Clock
}

func NewUpdateOrderCommandHandler(
	uowFactory UoWFactory,
	notifier ports.Notifier,
	clk clock.Clock,
) UpdateOrderCommandHandler {
	return UpdateOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		clock:      clk,
	}
}

// Handle rejects DONE orders with an InvalidTransitionError. A new manifest
// number is claimed in the ledger and a changed carrier, route or delivery
// date is checked against existing bookings.
func (h *UpdateOrderCommandHandler) Handle(ctx context.Context, cmd UpdateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	now := h.clock.Now()
	changes := cmd.Changes()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}
	if !o.IsEditable() {
		return nil, errs.NewInvalidTransitionError("update", "new field values", o.State().String())
	}

	rev := order.Revision{
		Quantity:     changes.Quantity,
		DeliveryDate: changes.DeliveryDate,
	}

	if changes.ManifestNumber != nil && *changes.ManifestNumber != o.ManifestNumber() {
		if err = uow.ManifestLedger().Claim(ctx, *changes.ManifestNumber, o.ID()); err != nil {
			return nil, err
		}
		rev.ManifestNumber = changes.ManifestNumber
	}

	refs := uow.ReferenceRepository()
	if changes.CarrierName != nil {
		carrier, err := resolveReference(ctx, refs, reference.Carrier, *changes.CarrierName)
		if err != nil {
			return nil, err
		}
		link := carrier.Link()
		rev.Carrier = &link
	}
	if rev.Zone, rev.ClearZone, err = resolveOptional(ctx, refs, reference.Zone, changes.ZoneName); err != nil {
		return nil, err
	}
	if rev.Route, rev.ClearRoute, err = resolveOptional(ctx, refs, reference.Route, changes.RouteName); err != nil {
		return nil, err
	}

	booked := o.BookingKey()
	if err = o.Revise(rev, now); err != nil {
		return nil, err
	}
	if o.BookingKey() != booked {
		if err = ensureBookingFree(ctx, orderRepo, o); err != nil {
			return nil, err
		}
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
