package commands

import (
	"errors"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrUpdateOrderCommandIsNotConstructed = errors.New(
	"UpdateOrderCommand must be created via NewUpdateOrderCommand constructor",
)

// OrderChanges lists the editable fields of an order. Nil keeps the current
// value; an empty zone or route name clears the reference.
type OrderChanges struct {
	ManifestNumber *string
	CarrierName    *string
	ZoneName       *string
	RouteName      *string
	Quantity       *int
	DeliveryDate   *time.Time
}

// UpdateOrderCommand edits an order that is still PENDING or IN_PREPARATION.
type UpdateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	changes OrderChanges

	guard guard.ConstructorGuard
}

func NewUpdateOrderCommand(orderID kernel.UUID, changes OrderChanges) (UpdateOrderCommand, error) {
	var manifestErr, carrierErr, quantityErr error
	if changes.ManifestNumber != nil {
		trimmed := strings.TrimSpace(*changes.ManifestNumber)
		if trimmed == "" {
			manifestErr = errs.NewValueIsRequiredError("manifest number")
		}
		changes.ManifestNumber = &trimmed
	}
	if changes.CarrierName != nil && strings.TrimSpace(*changes.CarrierName) == "" {
		carrierErr = errs.NewValueIsRequiredError("carrier")
	}
	if changes.Quantity != nil && *changes.Quantity <= 0 {
		quantityErr = errs.NewValueIsOutOfRangeError("quantity", *changes.Quantity, 1, "unbounded")
	}

	if err := errors.Join(orderID.Validate(), manifestErr, carrierErr, quantityErr); err != nil {
		return UpdateOrderCommand{}, err
	}

	return UpdateOrderCommand{
		orderID: orderID,
		changes: changes,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateOrderCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderCommandIsNotConstructed)
}

func (c UpdateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c UpdateOrderCommand) Changes() OrderChanges {
	return c.changes
}
