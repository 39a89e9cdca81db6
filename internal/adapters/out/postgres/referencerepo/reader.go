package referencerepo

import (
	"context"

	"dispatch/internal/core/domain/model/reference"
	"dispatch/internal/core/ports"

	"gorm.io/gorm"
)

var _ ports.ReferenceReader = (*GormReferenceReader)(nil)

type GormReferenceReader struct {
	db *gorm.DB
}

func NewGormReferenceReader(db *gorm.DB) *GormReferenceReader {
	return &GormReferenceReader{db: db}
}

func (r *GormReferenceReader) ListReferences(
	ctx context.Context,
	kind reference.Kind,
	activeOnly bool,
) ([]*reference.Reference, error) {
	query := r.db.WithContext(ctx).Where("kind = ?", kind.String())
	if activeOnly {
		query = query.Where("active")
	}

	var dtos []ReferenceDTO
	if err := query.Order("lower(name), id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	list := make([]*reference.Reference, 0, len(dtos))
	for _, dto := range dtos {
		ref, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		list = append(list, ref)
	}
	return list, nil
}
