package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrAppendToQueueCommandIsNotConstructed = errors.New(
	"AppendToQueueCommand must be created via NewAppendToQueueCommand constructor",
)

// AppendToQueueCommand ranks a pending order after every ranked order.
type AppendToQueueCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewAppendToQueueCommand(orderID kernel.UUID) (AppendToQueueCommand, error) {
	if err := orderID.Validate(); err != nil {
		return AppendToQueueCommand{}, err
	}
	return AppendToQueueCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c AppendToQueueCommand) Validate() error {
	return c.guard.Validate(ErrAppendToQueueCommandIsNotConstructed)
}

func (c AppendToQueueCommand) OrderID() kernel.UUID {
	return c.orderID
}
