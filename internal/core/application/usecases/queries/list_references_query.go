package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/reference"
	"dispatch/internal/pkg/guard"
)

var ErrListReferencesQueryIsNotConstructed = errors.New(
	"ListReferencesQuery must be created via NewListReferencesQuery constructor",
)

type ListReferencesQuery struct {
	kind       reference.Kind
	activeOnly bool

	guard guard.ConstructorGuard
}

func NewListReferencesQuery(kind reference.Kind, activeOnly bool) (ListReferencesQuery, error) {
	if err := kind.Validate(); err != nil {
		return ListReferencesQuery{}, err
	}
	return ListReferencesQuery{kind: kind, activeOnly: activeOnly, guard: guard.NewConstructorGuard()}, nil
}

func (q ListReferencesQuery) Validate() error {
	return q.guard.Validate(ErrListReferencesQueryIsNotConstructed)
}

func (q ListReferencesQuery) Kind() reference.Kind {
	return q.kind
}

func (q ListReferencesQuery) ActiveOnly() bool {
	return q.activeOnly
}

// ReferenceView is the read model of a registry entry.
type ReferenceView struct {
	ID     kernel.UUID
	Kind   string
	Name   string
	Active bool
}

func NewReferenceView(r *reference.Reference) ReferenceView {
	return ReferenceView{
		ID:     r.ID(),
		Kind:   r.Kind().String(),
		Name:   r.Name(),
		Active: r.IsActive(),
	}
}
