package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var ErrSetOrderStateCommandIsNotConstructed = errors.New(
	"SetOrderStateCommand must be created via NewSetOrderStateCommand constructor",
)

// SetOrderStateCommand force-sets an order to any state of the chain, forward
// or backward. The result is the same as walking the guided steps.
type SetOrderStateCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	target  order.State
	actor   kernel.Actor

	guard guard.ConstructorGuard
}

// NewSetOrderStateCommand builds the command. stage must be StageNone unless
// status is InPreparation.
func NewSetOrderStateCommand(
	orderID kernel.UUID,
	status order.Status,
	stage order.Stage,
	actor kernel.Actor,
) (SetOrderStateCommand, error) {
	cmd := SetOrderStateCommand{guard: guard.NewConstructorGuard()}

	target := order.State{Status: status, Stage: stage}
	if err := errors.Join(
		orderID.Validate(),
		target.Validate(),
		actor.Validate(),
	); err != nil {
		return SetOrderStateCommand{}, err
	}

	cmd.orderID, cmd.target, cmd.actor = orderID, target, actor
	return cmd, nil
}

func (c SetOrderStateCommand) Validate() error {
	return c.guard.Validate(ErrSetOrderStateCommandIsNotConstructed)
}

func (c SetOrderStateCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c SetOrderStateCommand) Target() order.State {
	return c.target
}

func (c SetOrderStateCommand) Actor() kernel.Actor {
	return c.actor
}
