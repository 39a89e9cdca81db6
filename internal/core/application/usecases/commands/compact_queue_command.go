package commands

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrCompactQueueCommandIsNotConstructed = errors.New(
	"CompactQueueCommand must be created via NewCompactQueueCommand constructor",
)

// CompactQueueCommand renumbers the load queue to 1..N, repairing gaps and
// duplicate ranks while keeping the relative order.
type CompactQueueCommand struct {
	guard guard.ConstructorGuard
}

func NewCompactQueueCommand() CompactQueueCommand {
	return CompactQueueCommand{guard: guard.NewConstructorGuard()}
}

func (c CompactQueueCommand) Validate() error {
	return c.guard.Validate(ErrCompactQueueCommandIsNotConstructed)
}
