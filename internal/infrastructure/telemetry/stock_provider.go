package telemetry

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStockProvider implements StockProvider with aggregate queries over
// the tanks and lots tables.
type GormStockProvider struct {
	db *gorm.DB
}

// NewGormStockProvider creates a new GormStockProvider.
func NewGormStockProvider(db *gorm.DB) *GormStockProvider {
	return &GormStockProvider{db: db}
}

// TenantIDs returns every tenant that owns at least one tank.
func (p *GormStockProvider) TenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := p.db.WithContext(ctx).
		Table("tanks").
		Distinct("tenant_id").
		Pluck("tenant_id", &ids).Error
	return ids, err
}

// ActiveStock returns the active lot count and their summed current quantity.
func (p *GormStockProvider) ActiveStock(ctx context.Context, tenantID uuid.UUID) (int64, int64, error) {
	var result struct {
		Lots int64 `gorm:"column:lots"`
		Fish int64 `gorm:"column:fish"`
	}
	err := p.db.WithContext(ctx).
		Table("lots").
		Select("COUNT(*) AS lots, COALESCE(SUM(current_quantity), 0) AS fish").
		Where("tenant_id = ? AND status = ?", tenantID, "Ativo").
		Scan(&result).Error
	if err != nil {
		return 0, 0, err
	}
	return result.Lots, result.Fish, nil
}
