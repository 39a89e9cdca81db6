package commands

import (
	"errors"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a request to register a new manifest.
// Carrier, zone and route are given by name and resolved through the registries.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), "P-1001", "Andreani", "", "Ruta 9", 12, nil, actor)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory, notifier, clock.System(time.Local))
//	created, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID        kernel.UUID
	manifestNumber string
	carrierName    string
	zoneName       string
	routeName      string
	quantity       int
	deliveryDate   *time.Time
	actor          kernel.Actor

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the raw input. zoneName may be blank;
// deliveryDate may be nil and then defaults to the creation date.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	manifestNumber, carrierName, zoneName, routeName string,
	quantity int,
	deliveryDate *time.Time,
	actor kernel.Actor,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		zoneName:     strings.TrimSpace(zoneName),
		deliveryDate: deliveryDate,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setManifestNumber(manifestNumber),
		cmd.setCarrierName(carrierName),
		cmd.setRouteName(routeName),
		cmd.setQuantity(quantity),
		cmd.setActor(actor),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CreateOrderCommand) ManifestNumber() string {
	return c.manifestNumber
}

func (c CreateOrderCommand) CarrierName() string {
	return c.carrierName
}

// ZoneName is empty when the order has no zone.
func (c CreateOrderCommand) ZoneName() string {
	return c.zoneName
}

func (c CreateOrderCommand) RouteName() string {
	return c.routeName
}

func (c CreateOrderCommand) Quantity() int {
	return c.quantity
}

func (c CreateOrderCommand) DeliveryDate() *time.Time {
	return c.deliveryDate
}

func (c CreateOrderCommand) Actor() kernel.Actor {
	return c.actor
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setManifestNumber(manifestNumber string) error {
	manifestNumber = strings.TrimSpace(manifestNumber)
	if manifestNumber == "" {
		return errs.NewValueIsRequiredError("manifest number")
	}
	c.manifestNumber = manifestNumber
	return nil
}

func (c *CreateOrderCommand) setCarrierName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("carrier")
	}
	c.carrierName = name
	return nil
}

func (c *CreateOrderCommand) setRouteName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("route")
	}
	c.routeName = name
	return nil
}

func (c *CreateOrderCommand) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, "unbounded")
	}
	c.quantity = quantity
	return nil
}

func (c *CreateOrderCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	c.actor = actor
	return nil
}
