package persistence

import (
	"context"
	"strings"

	"github.com/aquafarm/backend/internal/domain/farm"
	"github.com/aquafarm/backend/internal/domain/shared"
	"github.com/aquafarm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// activeLotExists matches tanks holding an active lot
const activeLotExists = "EXISTS (SELECT 1 FROM lots WHERE lots.tank_id = tanks.id AND lots.tenant_id = tanks.tenant_id AND lots.status = ?)"

// GormTankRepository implements farm.TankRepository using GORM
type GormTankRepository struct {
	db *gorm.DB
}

// NewGormTankRepository creates a new GormTankRepository
func NewGormTankRepository(db *gorm.DB) *GormTankRepository {
	return &GormTankRepository{db: db}
}

// FindByIDForTenant finds a tank by ID within a tenant
func (r *GormTankRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*farm.Tank, error) {
	var model models.TankModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// LockForUpdate reads the tank with SELECT ... FOR UPDATE.
// The lock is released when the surrounding transaction ends.
func (r *GormTankRepository) LockForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*farm.Tank, error) {
	var model models.TankModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all tanks for a tenant with filtering
func (r *GormTankRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]farm.Tank, error) {
	var tankModels []models.TankModel
	query := r.db.WithContext(ctx).Model(&models.TankModel{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)

	if err := query.Find(&tankModels).Error; err != nil {
		return nil, translateError(err)
	}
	tanks := make([]farm.Tank, len(tankModels))
	for i, model := range tankModels {
		tanks[i] = *model.ToDomain()
	}
	return tanks, nil
}

// CountForTenant counts tanks for a tenant with optional filters
func (r *GormTankRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.TankModel{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

// Save creates or updates a tank
func (r *GormTankRepository) Save(ctx context.Context, tank *farm.Tank) error {
	model := models.TankModelFromDomain(tank)
	return translateError(r.db.WithContext(ctx).Save(model).Error)
}

// DeleteForTenant deletes a tank within a tenant
func (r *GormTankRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.TankModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormTankRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	sortField := ValidateSortField(filter.OrderBy, TankSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	return query.Order(sortField + " " + sortOrder).Order("id ASC")
}

// applyFilterWithoutPagination applies search and filters.
// The status filter is answered from the lots table, not the stored flag.
func (r *GormTankRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(type) LIKE ?)", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			switch value {
			case farm.TankStatusOccupied.String():
				query = query.Where(activeLotExists, farm.LotStatusActive.String())
			case farm.TankStatusEmpty.String():
				query = query.Where("NOT "+activeLotExists, farm.LotStatusActive.String())
			}
		case "type":
			query = query.Where("type = ?", value)
		}
	}
	return query
}

// Ensure GormTankRepository implements farm.TankRepository
var _ farm.TankRepository = (*GormTankRepository)(nil)
