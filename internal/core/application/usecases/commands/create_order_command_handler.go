package commands

import (
	"context"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/reference"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/clock"
)

// CreateOrderCommandHandler registers new manifests.
// The manifest number is claimed in the permanent ledger and the
// (carrier, route, delivery date) booking is checked before the insert.
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.Notifier
	clock      clock.Clock
}

func NewCreateOrderCommandHandler(
	uowFactory UoWFactory,
	notifier ports.Notifier,
	clk clock.Clock,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		clock:      clk,
	}
}

// Handle creates a pending, unranked order and announces it once committed.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
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

	refs := uow.ReferenceRepository()
	carrier, err := resolveReference(ctx, refs, reference.Carrier, cmd.CarrierName())
	if err != nil {
		return nil, err
	}
	route, err := resolveReference(ctx, refs, reference.Route, cmd.RouteName())
	if err != nil {
		return nil, err
	}
	zoneName := cmd.ZoneName()
	zone, _, err := resolveOptional(ctx, refs, reference.Zone, &zoneName)
	if err != nil {
		return nil, err
	}

	routeLink := route.Link()
	created, err := order.NewOrder(
		cmd.OrderID(),
		cmd.ManifestNumber(),
		carrier.Link(),
		zone,
		&routeLink,
		cmd.Quantity(),
		cmd.DeliveryDate(),
		cmd.Actor(),
		now,
	)
	if err != nil {
		return nil, err
	}

	if err = uow.ManifestLedger().Claim(ctx, created.ManifestNumber(), created.ID()); err != nil {
		return nil, err
	}

	orderRepo := uow.OrderRepository()
	if err = ensureBookingFree(ctx, orderRepo, created); err != nil {
		return nil, err
	}
	if err = orderRepo.Add(ctx, created); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	broadcast(ctx, h.notifier, ports.OrderCreated, now, created)
	return created, nil
}
