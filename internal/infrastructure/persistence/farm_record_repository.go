package persistence

import (
	"context"

	"github.com/aquafarm/backend/internal/domain/farm"
	"github.com/aquafarm/backend/internal/domain/shared"
	"github.com/aquafarm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormIntakeBatchRepository implements farm.IntakeBatchRepository using GORM
type GormIntakeBatchRepository struct {
	db *gorm.DB
}

// NewGormIntakeBatchRepository creates a new GormIntakeBatchRepository
func NewGormIntakeBatchRepository(db *gorm.DB) *GormIntakeBatchRepository {
	return &GormIntakeBatchRepository{db: db}
}

// FindByIDForTenant finds an intake batch by ID within a tenant
func (r *GormIntakeBatchRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*farm.IntakeBatch, error) {
	var model models.IntakeBatchModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Save creates or updates an intake batch
func (r *GormIntakeBatchRepository) Save(ctx context.Context, batch *farm.IntakeBatch) error {
	return translateError(r.db.WithContext(ctx).Save(models.IntakeBatchModelFromDomain(batch)).Error)
}

// GormBiometryRepository implements farm.BiometryRepository using GORM
type GormBiometryRepository struct {
	db *gorm.DB
}

// NewGormBiometryRepository creates a new GormBiometryRepository
func NewGormBiometryRepository(db *gorm.DB) *GormBiometryRepository {
	return &GormBiometryRepository{db: db}
}

// FindByLot returns a lot's biometry samples, newest first
func (r *GormBiometryRepository) FindByLot(ctx context.Context, tenantID, lotID uuid.UUID) ([]farm.BiometryRecord, error) {
	var rows []models.BiometryRecordModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND lot_id = ?", tenantID, lotID).
		Order("measured_at DESC").Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	records := make([]farm.BiometryRecord, len(rows))
	for i := range rows {
		records[i] = rows[i].ToDomain()
	}
	return records, nil
}

// Save persists a biometry sample
func (r *GormBiometryRepository) Save(ctx context.Context, record *farm.BiometryRecord) error {
	return translateError(r.db.WithContext(ctx).Save(models.BiometryRecordModelFromDomain(record)).Error)
}

// GormFeedRepository implements farm.FeedRepository using GORM
type GormFeedRepository struct {
	db *gorm.DB
}

// NewGormFeedRepository creates a new GormFeedRepository
func NewGormFeedRepository(db *gorm.DB) *GormFeedRepository {
	return &GormFeedRepository{db: db}
}

// FindByLot returns a lot's feeding events, newest first
func (r *GormFeedRepository) FindByLot(ctx context.Context, tenantID, lotID uuid.UUID) ([]farm.FeedRecord, error) {
	var rows []models.FeedRecordModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND lot_id = ?", tenantID, lotID).
		Order("fed_at DESC").Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	records := make([]farm.FeedRecord, len(rows))
	for i := range rows {
		records[i] = rows[i].ToDomain()
	}
	return records, nil
}

// Save persists a feeding event
func (r *GormFeedRepository) Save(ctx context.Context, record *farm.FeedRecord) error {
	return translateError(r.db.WithContext(ctx).Save(models.FeedRecordModelFromDomain(record)).Error)
}

// GormActivityLogRepository implements farm.ActivityLogRepository using GORM
type GormActivityLogRepository struct {
	db *gorm.DB
}

// NewGormActivityLogRepository creates a new GormActivityLogRepository
func NewGormActivityLogRepository(db *gorm.DB) *GormActivityLogRepository {
	return &GormActivityLogRepository{db: db}
}

// FindAllForTenant returns a page of a tenant's activity log
func (r *GormActivityLogRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]farm.ActivityLog, error) {
	var rows []models.ActivityLogModel
	query := r.db.WithContext(ctx).Model(&models.ActivityLogModel{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilterWithoutPagination(query, filter)
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	sortField := ValidateSortField(filter.OrderBy, ActivityLogSortFields, "created_at")
	query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir)).Order("id ASC")

	if err := query.Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	entries := make([]farm.ActivityLog, len(rows))
	for i := range rows {
		entries[i] = rows[i].ToDomain()
	}
	return entries, nil
}

// CountForTenant counts a tenant's activity log entries
func (r *GormActivityLogRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.ActivityLogModel{}).Where("tenant_id = ?", tenantID)
	if err := r.applyFilterWithoutPagination(query, filter).Count(&count).Error; err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

// Save persists an activity log entry.
// Entries are keyed by event ID, so a redelivered event is stored once.
func (r *GormActivityLogRepository) Save(ctx context.Context, entry *farm.ActivityLog) error {
	err := translateError(r.db.WithContext(ctx).Create(models.ActivityLogModelFromDomain(entry)).Error)
	if entry.EventID != nil && shared.IsKind(err, shared.KindConflict) {
		return nil
	}
	return err
}

func (r *GormActivityLogRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if userID, ok := filter.Filters["user_id"]; ok {
		query = query.Where("user_id = ?", userID)
	}
	return query
}

var (
	_ farm.IntakeBatchRepository = (*GormIntakeBatchRepository)(nil)
	_ farm.BiometryRepository    = (*GormBiometryRepository)(nil)
	_ farm.FeedRepository        = (*GormFeedRepository)(nil)
	_ farm.ActivityLogRepository = (*GormActivityLogRepository)(nil)
)
