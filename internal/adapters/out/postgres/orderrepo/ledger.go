package orderrepo

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ ports.ManifestLedger = (*GormManifestLedger)(nil)

// ManifestNumberDTO is a row of the append-only manifest ledger.
type ManifestNumberDTO struct {
	Number  string    `gorm:"primaryKey"`
	OrderID uuid.UUID `gorm:"type:uuid"`
}

func (ManifestNumberDTO) TableName() string {
	return "manifest_numbers"
}

// GormManifestLedger never deletes rows, so a number stays claimed after its
// order is gone.
type GormManifestLedger struct {
	db *gorm.DB
}

func NewGormManifestLedger(db *gorm.DB) *GormManifestLedger {
	return &GormManifestLedger{db: db}
}

// Claim inserts with ON CONFLICT DO NOTHING and inspects the holder, so a
// conflict does not abort the surrounding transaction.
func (l *GormManifestLedger) Claim(ctx context.Context, number string, orderID kernel.UUID) error {
	row := ManifestNumberDTO{Number: number, OrderID: orderID.Bytes()}
	result := l.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		return nil
	}

	var holder ManifestNumberDTO
	if err := l.db.WithContext(ctx).First(&holder, "number = ?", number).Error; err != nil {
		return err
	}
	if holder.OrderID != orderID.Bytes() {
		return errs.NewObjectAlreadyExistError("manifest number", number)
	}
	return nil
}
