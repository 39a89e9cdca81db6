package reference

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var ErrReferenceIsNotConstructed = errors.New("Reference must be created via NewReference constructor")

// Reference is one entry of a registry. Names are unique per kind ignoring case.
type Reference struct {
	id     kernel.UUID
	kind   Kind
	name   string
	active bool

	isConstructed bool
}

// NewReference builds an active entry. The name is trimmed; blank names are rejected.
func NewReference(id kernel.UUID, kind Kind, name string) (*Reference, error) {
	r := &Reference{
		active:        true,
		isConstructed: true,
	}

	if err := errors.Join(
		r.setID(id),
		r.setKind(kind),
		r.setName(name),
	); err != nil {
		return nil, err
	}

	return r, nil
}

// RestoreReference rehydrates an entry from storage.
func RestoreReference(id kernel.UUID, kind Kind, name string, active bool) (*Reference, error) {
	r, err := NewReference(id, kind, name)
	if err != nil {
		return nil, err
	}
	r.active = active
	return r, nil
}

// NormalizeName is the form used for case-insensitive lookups.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (r *Reference) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrReferenceIsNotConstructed
	}
	return nil
}

func (r *Reference) ID() kernel.UUID {
	return r.id
}

func (r *Reference) Kind() Kind {
	return r.kind
}

func (r *Reference) Name() string {
	return r.name
}

func (r *Reference) IsActive() bool {
	return r.active
}

// Deactivate hides the entry from new selections.
func (r *Reference) Deactivate() {
	r.active = false
}

// Reactivate reports whether the entry changed.
func (r *Reference) Reactivate() bool {
	if r.active {
		return false
	}
	r.active = true
	return true
}

// Link is the denormalized pointer an order keeps to an entry.
func (r *Reference) Link() Link {
	return Link{ID: r.id, Name: r.name}
}

func (r *Reference) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *Reference) setKind(kind Kind) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	r.kind = kind
	return nil
}

func (r *Reference) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	r.name = name
	return nil
}

// Link identifies a registry entry from the order side.
type Link struct {
	ID   kernel.UUID
	Name string
}

func (l Link) IsEqual(other Link) bool {
	return l.ID.IsEqual(other.ID)
}
