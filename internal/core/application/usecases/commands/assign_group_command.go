package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrAssignGroupCommandIsNotConstructed = errors.New(
	"AssignGroupCommand must be created via NewAssignGroupCommand constructor",
)

// AssignGroupCommand attaches an existing preparation group to an order.
// Groups can be changed in any state.
type AssignGroupCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	groupID kernel.UUID

	guard guard.ConstructorGuard
}

func NewAssignGroupCommand(orderID, groupID kernel.UUID) (AssignGroupCommand, error) {
	if err := errors.Join(orderID.Validate(), groupID.Validate()); err != nil {
		return AssignGroupCommand{}, err
	}

	return AssignGroupCommand{
		orderID: orderID,
		groupID: groupID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c AssignGroupCommand) Validate() error {
	return c.guard.Validate(ErrAssignGroupCommandIsNotConstructed)
}

func (c AssignGroupCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c AssignGroupCommand) GroupID() kernel.UUID {
	return c.groupID
}
