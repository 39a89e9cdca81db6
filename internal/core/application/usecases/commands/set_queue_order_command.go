package commands

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrSetQueueOrderCommandIsNotConstructed = errors.New(
	"SetQueueOrderCommand must be created via NewSetQueueOrderCommand constructor",
)

// SetQueueOrderCommand replaces the whole load queue. The listed orders are
// ranked 1..N in the given order; ranked orders left out return to the
// unranked pool. An empty list empties the queue.
type SetQueueOrderCommand struct { //nolint:recvcheck //using for validation
	orderIDs []kernel.UUID

	guard guard.ConstructorGuard
}

func NewSetQueueOrderCommand(orderIDs []kernel.UUID) (SetQueueOrderCommand, error) {
	seen := make(map[kernel.UUID]struct{}, len(orderIDs))
	for _, id := range orderIDs {
		if err := id.Validate(); err != nil {
			return SetQueueOrderCommand{}, errs.NewValueIsInvalidErrorWithCause("order ids", err)
		}
		if _, dup := seen[id]; dup {
			return SetQueueOrderCommand{}, errs.NewValueIsInvalidErrorWithCause(
				"order ids",
				fmt.Errorf("order %s is listed twice", id),
			)
		}
		seen[id] = struct{}{}
	}

	return SetQueueOrderCommand{
		orderIDs: append([]kernel.UUID(nil), orderIDs...),
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c SetQueueOrderCommand) Validate() error {
	return c.guard.Validate(ErrSetQueueOrderCommandIsNotConstructed)
}

func (c SetQueueOrderCommand) OrderIDs() []kernel.UUID {
	return append([]kernel.UUID(nil), c.orderIDs...)
}
