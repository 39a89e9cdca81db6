package orderrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

var _ ports.OrderReader = (*GormOrderReader)(nil)

// GormOrderReader serves listings straight from the pool, without locks.
type GormOrderReader struct {
	db *gorm.DB
}

func NewGormOrderReader(db *gorm.DB) *GormOrderReader {
	return &GormOrderReader{db: db}
}

func (r *GormOrderReader) GetOrder(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id)
		}
		return nil, err
	}
	return toDomain(dto)
}

func (r *GormOrderReader) ListOrders(ctx context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	query := r.db.WithContext(ctx).Model(&OrderDTO{})

	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.Ranked != nil {
		if *filter.Ranked {
			query = query.Where("load_priority IS NOT NULL")
		} else {
			query = query.Where("load_priority IS NULL")
		}
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}

	var dtos []OrderDTO
	if err := query.Order(orderBy(filter.Sort)).Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toDomainList(dtos)
}

func orderBy(sort ports.OrderSort) string {
	switch sort {
	case ports.SortOldestFirst:
		return "created_at ASC, id"
	case ports.SortRecentlyUpdated:
		return "updated_at DESC, id"
	case ports.SortByRank:
		return "load_priority ASC NULLS FIRST, created_at ASC, id"
	default:
		return "created_at DESC, id"
	}
}
