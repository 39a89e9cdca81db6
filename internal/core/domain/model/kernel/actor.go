package kernel

import (
	"errors"
	"strings"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrActorIsNotConstructed = errors.New("Actor must be created via NewActor constructor")

// Role is the warehouse role of an already authenticated caller.
type Role string

const (
	RoleAdminPrincipal Role = "ADMIN_PRINCIPAL"
	RoleAdminDeposito  Role = "ADMIN_DEPOSITO"
	RolePreparer       Role = "PLANILLERO"
	RoleControl        Role = "CONTROL"
)

// Actor is the identity attached to every mutating call. Authentication and
// authorization happen upstream; the core only records who acted.
type Actor struct {
	id    string
	name  string
	role  Role
	guard guard.ConstructorGuard
}

func NewActor(id, name string, role Role) (Actor, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Actor{}, errs.NewValueIsRequiredError("actor id")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = id
	}

	return Actor{
		id:    id,
		name:  name,
		role:  Role(strings.ToUpper(strings.TrimSpace(string(role)))),
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (a Actor) Validate() error {
	return a.guard.Validate(ErrActorIsNotConstructed)
}

func (a Actor) ID() string {
	return a.id
}

// Name is the display name recorded in audit fields such as controlledBy.
func (a Actor) Name() string {
	return a.name
}

func (a Actor) Role() Role {
	return a.role
}

func (a Actor) HasRole(role Role) bool {
	return role != "" && a.role == role
}
