// Package referencerepo persists the carrier, zone, route and group registry.
package referencerepo

import (
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/reference"

	"github.com/google/uuid"
)

// ReferenceDTO is a row of reference_entries. Names are unique per kind
// ignoring case.
type ReferenceDTO struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	Kind   string
	Name   string
	Active bool
}

func (ReferenceDTO) TableName() string {
	return "reference_entries"
}

func fromDomain(r *reference.Reference) ReferenceDTO {
	return ReferenceDTO{
		ID:     r.ID().Bytes(),
		Kind:   r.Kind().String(),
		Name:   r.Name(),
		Active: r.IsActive(),
	}
}

func toDomain(dto ReferenceDTO) (*reference.Reference, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	kind, err := reference.ParseKind(dto.Kind)
	if err != nil {
		return nil, err
	}
	return reference.RestoreReference(id, kind, dto.Name, dto.Active)
}
