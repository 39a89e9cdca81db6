package orderrepo

import (
	"context"
	"errors"
	"fmt"

	"dispatch/internal/adapters/out/postgres/pgerrs"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// queueLockKey is the advisory lock serializing every change to the load queue.
const queueLockKey = 0x6c6f6164

var _ ports.OrderRepository = (*GormOrderRepository)(nil)

// GormOrderRepository implements ports.OrderRepository using GORM. Every read
// locks the returned rows with SELECT ... FOR UPDATE.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts the order at version 1.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = 1
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return translate(err, aggregate)
	}

	aggregate.MarkPersisted(dto.Version)
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes every column guarded by the version the aggregate was loaded with.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = aggregate.Version() + 1
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return translate(result.Error, aggregate)
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", dto.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("order", aggregate.ID())
		}
		return errs.NewVersionIsInvalidError("order", aggregate.Version())
	}

	aggregate.MarkPersisted(dto.Version)
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormOrderRepository) Delete(ctx context.Context, id kernel.UUID) error {
	result := r.db.WithContext(ctx).Delete(&OrderDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", id)
	}
	return nil
}

func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.locked(ctx).First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id)
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormOrderRepository) GetMany(ctx context.Context, ids []kernel.UUID) ([]*order.Order, error) {
	if len(ids) == 0 {
		return []*order.Order{}, nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Bytes())
	}

	var dtos []OrderDTO
	if err := r.locked(ctx).Where("id IN ?", raw).Find(&dtos).Error; err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]OrderDTO, len(dtos))
	for _, dto := range dtos {
		byID[dto.ID] = dto
	}

	orders := make([]*order.Order, 0, len(ids))
	for _, id := range ids {
		dto, ok := byID[id.Bytes()]
		if !ok {
			return nil, errs.NewObjectNotFoundError("order", id)
		}
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// LockQueue takes the transaction scoped queue advisory lock, so concurrent
// queue changes run one after another and each sees the ranks the previous
// one committed. The lock is reentrant within the transaction.
func (r *GormOrderRepository) LockQueue(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Exec("SELECT pg_advisory_xact_lock(?)", queueLockKey).Error; err != nil {
		return fmt.Errorf("lock load queue: %w", err)
	}
	return nil
}

// GetRanked takes the queue lock itself when the caller has not.
func (r *GormOrderRepository) GetRanked(ctx context.Context) ([]*order.Order, error) {
	if err := r.LockQueue(ctx); err != nil {
		return nil, err
	}

	var dtos []OrderDTO
	err := r.locked(ctx).
		Where("status = ? AND load_priority IS NOT NULL", order.Pending.String()).
		Order("load_priority, created_at, id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

func (r *GormOrderRepository) BookingTaken(ctx context.Context, key order.BookingKey, except kernel.UUID) (bool, error) {
	if !key.IsComplete() {
		return false, nil
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("carrier_id = ? AND route_id = ? AND delivery_date = ? AND id <> ?",
			key.CarrierID, key.RouteID, key.DeliveryDate, except.Bytes()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormOrderRepository) locked(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
}

func translate(err error, aggregate *order.Order) error {
	if !pgerrs.IsUniqueViolation(err) {
		return err
	}
	switch pgerrs.Constraint(err) {
	case "orders_booking_key":
		return errs.NewObjectAlreadyExistErrorWithCause("booking", aggregate.BookingKey().String(), err)
	case "orders_pkey":
		return errs.NewObjectAlreadyExistErrorWithCause("order", aggregate.ID(), err)
	default:
		return errs.NewObjectAlreadyExistErrorWithCause("manifest number", aggregate.ManifestNumber(), err)
	}
}
