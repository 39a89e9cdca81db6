package commands

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/reference"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrResolveReferenceCommandIsNotConstructed = errors.New(
	"ResolveReferenceCommand must be created via NewResolveReferenceCommand constructor",
)

// ResolveReferenceCommand finds a registry entry by name, creating it when
// missing and reactivating it when deactivated.
type ResolveReferenceCommand struct { //nolint:recvcheck //using for validation
	kind reference.Kind
	name string

	guard guard.ConstructorGuard
}

func NewResolveReferenceCommand(kind reference.Kind, name string) (ResolveReferenceCommand, error) {
	var nameErr error
	name = strings.TrimSpace(name)
	if name == "" {
		nameErr = errs.NewValueIsRequiredError("name")
	}
	if err := errors.Join(kind.Validate(), nameErr); err != nil {
		return ResolveReferenceCommand{}, err
	}

	return ResolveReferenceCommand{kind: kind, name: name, guard: guard.NewConstructorGuard()}, nil
}

func (c ResolveReferenceCommand) Validate() error {
	return c.guard.Validate(ErrResolveReferenceCommandIsNotConstructed)
}

func (c ResolveReferenceCommand) Kind() reference.Kind {
	return c.kind
}

func (c ResolveReferenceCommand) Name() string {
	return c.name
}
