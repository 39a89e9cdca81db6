package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/reference"
	"dispatch/internal/pkg/guard"
)

var ErrDeactivateReferenceCommandIsNotConstructed = errors.New(
	"DeactivateReferenceCommand must be created via NewDeactivateReferenceCommand constructor",
)

// DeactivateReferenceCommand hides an entry from new selections. Orders that
// already point at it keep their link.
type DeactivateReferenceCommand struct { //nolint:recvcheck //using for validation
	kind reference.Kind
	id   kernel.UUID

	guard guard.ConstructorGuard
}

func NewDeactivateReferenceCommand(kind reference.Kind, id kernel.UUID) (DeactivateReferenceCommand, error) {
	if err := errors.Join(kind.Validate(), id.Validate()); err != nil {
		return DeactivateReferenceCommand{}, err
	}
	return DeactivateReferenceCommand{kind: kind, id: id, guard: guard.NewConstructorGuard()}, nil
}

func (c DeactivateReferenceCommand) Validate() error {
	return c.guard.Validate(ErrDeactivateReferenceCommandIsNotConstructed)
}

func (c DeactivateReferenceCommand) Kind() reference.Kind {
	return c.kind
}

func (c DeactivateReferenceCommand) ID() kernel.UUID {
	return c.id
}
