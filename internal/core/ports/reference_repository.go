package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/reference"
)

// ReferenceRepository persists registry entries inside a unit of work.
type ReferenceRepository interface {
	// Add inserts a new entry. When an entry with the same kind and name
	// (ignoring case) exists it fails with errs.ObjectAlreadyExistError without
	// aborting the surrounding transaction.
	Add(ctx context.Context, aggregate *reference.Reference) error

	Update(ctx context.Context, aggregate *reference.Reference) error

	Get(ctx context.Context, kind reference.Kind, id kernel.UUID) (*reference.Reference, error)

	// FindByName matches names case-insensitively after trimming.
	FindByName(ctx context.Context, kind reference.Kind, name string) (*reference.Reference, error)
}
