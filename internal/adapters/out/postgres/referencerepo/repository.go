package referencerepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/reference"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ ports.ReferenceRepository = (*GormReferenceRepository)(nil)

type GormReferenceRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormReferenceRepository(db *gorm.DB, tracker aggregateTracker) *GormReferenceRepository {
	return &GormReferenceRepository{db: db, tracker: tracker}
}

// Add relies on ON CONFLICT DO NOTHING: a concurrent insert of the same name
// is reported as ObjectAlreadyExistError and the transaction stays usable.
func (r *GormReferenceRepository) Add(ctx context.Context, aggregate *reference.Reference) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectAlreadyExistError(aggregate.Kind().String(), aggregate.Name())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormReferenceRepository) Update(ctx context.Context, aggregate *reference.Reference) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&ReferenceDTO{}).Where("id = ?", dto.ID).Select("*").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError(aggregate.Kind().String(), aggregate.ID())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormReferenceRepository) Get(ctx context.Context, kind reference.Kind, id kernel.UUID) (*reference.Reference, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ReferenceDTO
	err := r.db.WithContext(ctx).First(&dto, "id = ? AND kind = ?", id.Bytes(), kind.String()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError(kind.String(), id)
		}
		return nil, err
	}
	return toDomain(dto)
}

func (r *GormReferenceRepository) FindByName(ctx context.Context, kind reference.Kind, name string) (*reference.Reference, error) {
	var dto ReferenceDTO
	err := r.db.WithContext(ctx).
		First(&dto, "kind = ? AND lower(name) = ?", kind.String(), reference.NormalizeName(name)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError(kind.String(), name)
		}
		return nil, err
	}
	return toDomain(dto)
}
