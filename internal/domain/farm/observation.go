package farm

import (
	"strings"
	"time"

	"github.com/aquafarm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BiometryRecord is a weight sample taken from a lot
type BiometryRecord struct {
	shared.BaseEntity
	TenantID   uuid.UUID
	LotID      uuid.UUID
	AvgWeightG decimal.Decimal
	SampleSize int
	Notes      string
	MeasuredAt time.Time
}

// NewBiometryRecord validates and creates a biometry sample
func NewBiometryRecord(tenantID, lotID uuid.UUID, avgWeightG decimal.Decimal, sampleSize int, notes string, measuredAt time.Time) (*BiometryRecord, error) {
	if !avgWeightG.IsPositive() {
		return nil, shared.NewValidationError("INVALID_WEIGHT", "Average weight must be positive")
	}
	if sampleSize <= 0 {
		return nil, shared.NewValidationError("INVALID_SAMPLE_SIZE", "Sample size must be positive")
	}
	if measuredAt.IsZero() {
		measuredAt = time.Now()
	}
	return &BiometryRecord{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		LotID:      lotID,
		AvgWeightG: avgWeightG,
		SampleSize: sampleSize,
		Notes:      strings.TrimSpace(notes),
		MeasuredAt: measuredAt,
	}, nil
}

// FeedRecord is a feeding event for a lot
type FeedRecord struct {
	shared.BaseEntity
	TenantID   uuid.UUID
	LotID      uuid.UUID
	RationType string
	QuantityKg decimal.Decimal
	Cost       decimal.Decimal
	FedAt      time.Time
}

// NewFeedRecord validates and creates a feeding event
func NewFeedRecord(tenantID, lotID uuid.UUID, rationType string, quantityKg, cost decimal.Decimal, fedAt time.Time) (*FeedRecord, error) {
	rationType = strings.TrimSpace(rationType)
	if rationType == "" {
		return nil, shared.NewValidationError("INVALID_RATION_TYPE", "Ration type is required")
	}
	if !quantityKg.IsPositive() {
		return nil, shared.NewValidationError("INVALID_QUANTITY", "Feed quantity must be positive")
	}
	if cost.IsNegative() {
		return nil, shared.NewValidationError("INVALID_COST", "Feed cost cannot be negative")
	}
	if fedAt.IsZero() {
		fedAt = time.Now()
	}
	return &FeedRecord{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		LotID:      lotID,
		RationType: rationType,
		QuantityKg: quantityKg,
		Cost:       cost,
		FedAt:      fedAt,
	}, nil
}

// ActivityLog is an audit line describing an operation performed by a user
type ActivityLog struct {
	shared.BaseEntity
	TenantID    uuid.UUID
	UserID      uuid.UUID
	UserName    string
	Description string
	EventID     *uuid.UUID
}

// NewActivityLog creates an activity log entry
func NewActivityLog(tenantID, userID uuid.UUID, userName, description string) *ActivityLog {
	return &ActivityLog{
		BaseEntity:  shared.NewBaseEntity(),
		TenantID:    tenantID,
		UserID:      userID,
		UserName:    userName,
		Description: description,
	}
}
