package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrRemoveGroupCommandIsNotConstructed = errors.New(
	"RemoveGroupCommand must be created via NewRemoveGroupCommand constructor",
)

type RemoveGroupCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewRemoveGroupCommand(orderID kernel.UUID) (RemoveGroupCommand, error) {
	if err := orderID.Validate(); err != nil {
		return RemoveGroupCommand{}, err
	}
	return RemoveGroupCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c RemoveGroupCommand) Validate() error {
	return c.guard.Validate(ErrRemoveGroupCommandIsNotConstructed)
}

func (c RemoveGroupCommand) OrderID() kernel.UUID {
	return c.orderID
}
