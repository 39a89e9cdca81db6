package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrRemoveFromQueueCommandIsNotConstructed = errors.New(
	"RemoveFromQueueCommand must be created via NewRemoveFromQueueCommand constructor",
)

// RemoveFromQueueCommand returns an order to the unranked pool.
type RemoveFromQueueCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewRemoveFromQueueCommand(orderID kernel.UUID) (RemoveFromQueueCommand, error) {
	if err := orderID.Validate(); err != nil {
		return RemoveFromQueueCommand{}, err
	}
	return RemoveFromQueueCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c RemoveFromQueueCommand) Validate() error {
	return c.guard.Validate(ErrRemoveFromQueueCommandIsNotConstructed)
}

func (c RemoveFromQueueCommand) OrderID() kernel.UUID {
	return c.orderID
}
