package models

import (
	"time"

	"github.com/aquafarm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BaseModel holds the columns of shared.BaseEntity
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts the row identity back to a BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}

// FromDomainBaseEntity copies identity and timestamps from e
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// TenantAggregateModel holds the columns every tenant-owned aggregate table has.
// Version backs optimistic locking on tanks and lots.
type TenantAggregateModel struct {
	BaseModel
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	Version   int        `gorm:"not null;default:1"`
	CreatedBy *uuid.UUID `gorm:"type:uuid"`
}

// FromDomainTenantAggregateRoot copies the aggregate header from a
func (m *TenantAggregateModel) FromDomainTenantAggregateRoot(a shared.TenantAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.TenantID = a.TenantID
	m.Version = a.Version
	m.CreatedBy = a.CreatedBy
}

// PopulateTenantAggregateRoot writes the stored header into a
func (m *TenantAggregateModel) PopulateTenantAggregateRoot(a *shared.TenantAggregateRoot) {
	a.BaseEntity = m.BaseModel.ToDomain()
	a.Version = m.Version
	a.TenantID = m.TenantID
	a.CreatedBy = m.CreatedBy
}
