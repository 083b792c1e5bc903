package persistence

import (
	"context"
	"errors"

	"github.com/aquafarm/backend/internal/domain/farm"
	"github.com/aquafarm/backend/internal/domain/shared"
	"github.com/aquafarm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLotRepository implements farm.LotRepository using GORM
type GormLotRepository struct {
	db *gorm.DB
}

// NewGormLotRepository creates a new GormLotRepository
func NewGormLotRepository(db *gorm.DB) *GormLotRepository {
	return &GormLotRepository{db: db}
}

// FindByIDForTenant finds a lot by ID within a tenant
func (r *GormLotRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*farm.Lot, error) {
	return r.findOne(r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id))
}

// FindByIDForUpdate reads the lot with SELECT ... FOR UPDATE
func (r *GormLotRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*farm.Lot, error) {
	return r.findOne(r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND id = ?", tenantID, id))
}

// FindActiveByTank returns the tank's active lot, or nil when the tank is empty
func (r *GormLotRepository) FindActiveByTank(ctx context.Context, tenantID, tankID uuid.UUID) (*farm.Lot, error) {
	lot, err := r.findOne(r.db.WithContext(ctx).
		Where("tenant_id = ? AND tank_id = ? AND status = ?", tenantID, tankID, farm.LotStatusActive.String()))
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	return lot, err
}

// FindActiveByTanks maps each given tank with an active lot to that lot
func (r *GormLotRepository) FindActiveByTanks(ctx context.Context, tenantID uuid.UUID, tankIDs []uuid.UUID) (map[uuid.UUID]*farm.Lot, error) {
	result := make(map[uuid.UUID]*farm.Lot, len(tankIDs))
	if len(tankIDs) == 0 {
		return result, nil
	}
	var lotModels []models.LotModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND tank_id IN ? AND status = ?", tenantID, tankIDs, farm.LotStatusActive.String()).
		Find(&lotModels).Error; err != nil {
		return nil, translateError(err)
	}
	for i := range lotModels {
		lot, err := lotModels[i].ToDomain()
		if err != nil {
			return nil, err
		}
		result[lot.TankID] = lot
	}
	return result, nil
}

// FindAllForTenant finds all lots for a tenant with filtering
func (r *GormLotRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]farm.Lot, error) {
	var lotModels []models.LotModel
	query := r.db.WithContext(ctx).Model(&models.LotModel{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)

	if err := query.Find(&lotModels).Error; err != nil {
		return nil, translateError(err)
	}
	lots := make([]farm.Lot, 0, len(lotModels))
	for i := range lotModels {
		lot, err := lotModels[i].ToDomain()
		if err != nil {
			return nil, err
		}
		lots = append(lots, *lot)
	}
	return lots, nil
}

// CountForTenant counts lots for a tenant with optional filters
func (r *GormLotRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.LotModel{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

// Save creates or updates a lot.
// A second active lot for the same tank fails on idx_lots_active_tank and surfaces as a conflict.
func (r *GormLotRepository) Save(ctx context.Context, lot *farm.Lot) error {
	model := models.LotModelFromDomain(lot)
	err := r.db.WithContext(ctx).Save(model).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.NewConflictError("TANK_OCCUPIED", "Tank "+lot.TankID.String()+" already holds an active lot").WithCause(err)
	}
	return translateError(err)
}

func (r *GormLotRepository) findOne(query *gorm.DB) (*farm.Lot, error) {
	var model models.LotModel
	if err := query.First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain()
}

func (r *GormLotRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	sortField := ValidateSortField(filter.OrderBy, LotSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	return query.Order(sortField + " " + sortOrder).Order("id ASC")
}

func (r *GormLotRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "tank_id":
			query = query.Where("tank_id = ?", value)
		case "species":
			query = query.Where("species = ?", value)
		case "intake_batch_id":
			query = query.Where("intake_batch_id = ?", value)
		case "origin_lot_id":
			query = query.Where("origin_lot_id = ?", value)
		}
	}
	return query
}

// Ensure GormLotRepository implements farm.LotRepository
var _ farm.LotRepository = (*GormLotRepository)(nil)
