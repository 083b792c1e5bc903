package models

import (
	"time"

	"github.com/aquafarm/backend/internal/domain/farm"
	"github.com/aquafarm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TankModel is the persistence model for the Tank aggregate root.
type TankModel struct {
	TenantAggregateModel
	Name     string          `gorm:"type:varchar(100);not null"`
	Type     string          `gorm:"type:varchar(50)"`
	Capacity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status   string          `gorm:"type:varchar(20);not null;default:'Vazio'"`
}

// TableName returns the table name for GORM
func (TankModel) TableName() string {
	return "tanks"
}

// ToDomain converts the persistence model to a domain Tank.
func (m *TankModel) ToDomain() *farm.Tank {
	t := &farm.Tank{
		Name:     m.Name,
		Type:     m.Type,
		Capacity: m.Capacity,
		Status:   farm.TankStatus(m.Status),
	}
	m.PopulateTenantAggregateRoot(&t.TenantAggregateRoot)
	return t
}

// FromDomain populates the persistence model from a domain Tank.
func (m *TankModel) FromDomain(t *farm.Tank) {
	m.FromDomainTenantAggregateRoot(t.TenantAggregateRoot)
	m.Name = t.Name
	m.Type = t.Type
	m.Capacity = t.Capacity
	m.Status = string(t.Status)
}

// TankModelFromDomain creates a new persistence model from a domain Tank.
func TankModelFromDomain(t *farm.Tank) *TankModel {
	m := &TankModel{}
	m.FromDomain(t)
	return m
}

// LotModel is the persistence model for the Lot aggregate root.
// The partial unique index allows one active lot per tank.
type LotModel struct {
	TenantAggregateModel
	TankID            uuid.UUID        `gorm:"type:uuid;not null;index;uniqueIndex:idx_lots_active_tank,where:status = 'Ativo'"`
	Species           string           `gorm:"type:varchar(100);not null"`
	InitialQuantity   int64            `gorm:"not null"`
	InitialAvgWeightG decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	CurrentQuantity   int64            `gorm:"not null;check:chk_lots_current_quantity,current_quantity >= 0"`
	CurrentAvgWeightG *decimal.Decimal `gorm:"type:decimal(18,4)"`
	EntryDate         time.Time        `gorm:"not null"`
	ExitDate          *time.Time       `gorm:"index"`
	Status            string           `gorm:"type:varchar(30);not null;index"`
	Notes             string           `gorm:"type:text"`
	OriginLotID       *uuid.UUID       `gorm:"type:uuid;index"`
	IntakeBatchID     *uuid.UUID       `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (LotModel) TableName() string {
	return "lots"
}

// ToDomain converts the persistence model to a domain Lot.
// Statuses outside the closed set are rejected rather than trusted.
func (m *LotModel) ToDomain() (*farm.Lot, error) {
	status, err := farm.ParseLotStatus(m.Status)
	if err != nil {
		return nil, shared.NewInvariantViolation("CORRUPT_LOT_STATUS",
			"Lot "+m.ID.String()+" has unknown status "+m.Status)
	}
	l := &farm.Lot{
		TankID:            m.TankID,
		Species:           m.Species,
		InitialQuantity:   m.InitialQuantity,
		InitialAvgWeightG: m.InitialAvgWeightG,
		CurrentQuantity:   m.CurrentQuantity,
		CurrentAvgWeightG: m.CurrentAvgWeightG,
		EntryDate:         m.EntryDate,
		ExitDate:          m.ExitDate,
		Status:            status,
		Notes:             m.Notes,
		OriginLotID:       m.OriginLotID,
		IntakeBatchID:     m.IntakeBatchID,
	}
	m.PopulateTenantAggregateRoot(&l.TenantAggregateRoot)
	return l, nil
}

// FromDomain populates the persistence model from a domain Lot.
func (m *LotModel) FromDomain(l *farm.Lot) {
	m.FromDomainTenantAggregateRoot(l.TenantAggregateRoot)
	m.TankID = l.TankID
	m.Species = l.Species
	m.InitialQuantity = l.InitialQuantity
	m.InitialAvgWeightG = l.InitialAvgWeightG
	m.CurrentQuantity = l.CurrentQuantity
	m.CurrentAvgWeightG = l.CurrentAvgWeightG
	m.EntryDate = l.EntryDate
	m.ExitDate = l.ExitDate
	m.Status = string(l.Status)
	m.Notes = l.Notes
	m.OriginLotID = l.OriginLotID
	m.IntakeBatchID = l.IntakeBatchID
}

// LotModelFromDomain creates a new persistence model from a domain Lot.
func LotModelFromDomain(l *farm.Lot) *LotModel {
	m := &LotModel{}
	m.FromDomain(l)
	return m
}

// IntakeBatchModel is the persistence model for intake batches.
type IntakeBatchModel struct {
	TenantAggregateModel
	InvoiceNumber string          `gorm:"type:varchar(50);not null;index"`
	Supplier      string          `gorm:"type:varchar(200);not null"`
	Date          time.Time       `gorm:"not null"`
	TotalValue    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Notes         string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (IntakeBatchModel) TableName() string {
	return "intake_batches"
}

// ToDomain converts the persistence model to a domain IntakeBatch.
func (m *IntakeBatchModel) ToDomain() *farm.IntakeBatch {
	b := &farm.IntakeBatch{
		InvoiceNumber: m.InvoiceNumber,
		Supplier:      m.Supplier,
		Date:          m.Date,
		TotalValue:    m.TotalValue,
		Notes:         m.Notes,
	}
	m.PopulateTenantAggregateRoot(&b.TenantAggregateRoot)
	return b
}

// IntakeBatchModelFromDomain creates a new persistence model from a domain IntakeBatch.
func IntakeBatchModelFromDomain(b *farm.IntakeBatch) *IntakeBatchModel {
	m := &IntakeBatchModel{
		InvoiceNumber: b.InvoiceNumber,
		Supplier:      b.Supplier,
		Date:          b.Date,
		TotalValue:    b.TotalValue,
		Notes:         b.Notes,
	}
	m.FromDomainTenantAggregateRoot(b.TenantAggregateRoot)
	return m
}

// BiometryRecordModel is the persistence model for biometry samples.
type BiometryRecordModel struct {
	BaseModel
	TenantID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	LotID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	AvgWeightG decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SampleSize int             `gorm:"not null"`
	Notes      string          `gorm:"type:text"`
	MeasuredAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BiometryRecordModel) TableName() string {
	return "biometry_records"
}

// ToDomain converts the persistence model to a domain BiometryRecord.
func (m *BiometryRecordModel) ToDomain() farm.BiometryRecord {
	return farm.BiometryRecord{
		BaseEntity: m.BaseModel.ToDomain(),
		TenantID:   m.TenantID,
		LotID:      m.LotID,
		AvgWeightG: m.AvgWeightG,
		SampleSize: m.SampleSize,
		Notes:      m.Notes,
		MeasuredAt: m.MeasuredAt,
	}
}

// BiometryRecordModelFromDomain creates a new persistence model from a domain BiometryRecord.
func BiometryRecordModelFromDomain(r *farm.BiometryRecord) *BiometryRecordModel {
	m := &BiometryRecordModel{
		TenantID:   r.TenantID,
		LotID:      r.LotID,
		AvgWeightG: r.AvgWeightG,
		SampleSize: r.SampleSize,
		Notes:      r.Notes,
		MeasuredAt: r.MeasuredAt,
	}
	m.FromDomainBaseEntity(r.BaseEntity)
	return m
}

// FeedRecordModel is the persistence model for feeding events.
type FeedRecordModel struct {
	BaseModel
	TenantID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	LotID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	RationType string          `gorm:"type:varchar(100);not null"`
	QuantityKg decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Cost       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	FedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (FeedRecordModel) TableName() string {
	return "feed_records"
}

// ToDomain converts the persistence model to a domain FeedRecord.
func (m *FeedRecordModel) ToDomain() farm.FeedRecord {
	return farm.FeedRecord{
		BaseEntity: m.BaseModel.ToDomain(),
		TenantID:   m.TenantID,
		LotID:      m.LotID,
		RationType: m.RationType,
		QuantityKg: m.QuantityKg,
		Cost:       m.Cost,
		FedAt:      m.FedAt,
	}
}

// FeedRecordModelFromDomain creates a new persistence model from a domain FeedRecord.
func FeedRecordModelFromDomain(r *farm.FeedRecord) *FeedRecordModel {
	m := &FeedRecordModel{
		TenantID:   r.TenantID,
		LotID:      r.LotID,
		RationType: r.RationType,
		QuantityKg: r.QuantityKg,
		Cost:       r.Cost,
		FedAt:      r.FedAt,
	}
	m.FromDomainBaseEntity(r.BaseEntity)
	return m
}

// ActivityLogModel is the persistence model for activity log entries.
type ActivityLogModel struct {
	BaseModel
	TenantID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	UserID      uuid.UUID  `gorm:"type:uuid;index"`
	UserName    string     `gorm:"type:varchar(200)"`
	Description string     `gorm:"type:text;not null"`
	EventID     *uuid.UUID `gorm:"type:uuid;uniqueIndex"`
}

// TableName returns the table name for GORM
func (ActivityLogModel) TableName() string {
	return "activity_logs"
}

// ToDomain converts the persistence model to a domain ActivityLog.
func (m *ActivityLogModel) ToDomain() farm.ActivityLog {
	return farm.ActivityLog{
		BaseEntity:  m.BaseModel.ToDomain(),
		TenantID:    m.TenantID,
		UserID:      m.UserID,
		UserName:    m.UserName,
		Description: m.Description,
		EventID:     m.EventID,
	}
}

// ActivityLogModelFromDomain creates a new persistence model from a domain ActivityLog.
func ActivityLogModelFromDomain(a *farm.ActivityLog) *ActivityLogModel {
	m := &ActivityLogModel{
		TenantID:    a.TenantID,
		UserID:      a.UserID,
		UserName:    a.UserName,
		Description: a.Description,
		EventID:     a.EventID,
	}
	m.FromDomainBaseEntity(a.BaseEntity)
	return m
}

// FarmModels lists every farm model, in dependency order, for AutoMigrate in tests.
func FarmModels() []any {
	return []any{
		&TankModel{},
		&IntakeBatchModel{},
		&LotModel{},
		&BiometryRecordModel{},
		&FeedRecordModel{},
		&ActivityLogModel{},
	}
}
