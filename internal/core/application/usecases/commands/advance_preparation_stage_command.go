package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrAdvancePreparationStageCommandIsNotConstructed = errors.New(
	"AdvancePreparationStageCommand must be created via NewAdvancePreparationStageCommand constructor",
)

// AdvancePreparationStageCommand moves an order in preparation one step:
// none → CONTROL → READY_TO_LOAD → DONE.
type AdvancePreparationStageCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   kernel.Actor

	guard guard.ConstructorGuard
}

func NewAdvancePreparationStageCommand(orderID kernel.UUID, actor kernel.Actor) (AdvancePreparationStageCommand, error) {
	if err := errors.Join(orderID.Validate(), actor.Validate()); err != nil {
		return AdvancePreparationStageCommand{}, err
	}

	return AdvancePreparationStageCommand{
		orderID: orderID,
		actor:   actor,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c AdvancePreparationStageCommand) Validate() error {
	return c.guard.Validate(ErrAdvancePreparationStageCommandIsNotConstructed)
}

func (c AdvancePreparationStageCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c AdvancePreparationStageCommand) Actor() kernel.Actor {
	return c.actor
}
