package farm

import (
	"time"

	"github.com/aquafarm/backend/internal/domain/farm"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateTankRequest represents a request to register a tank
type CreateTankRequest struct {
	Name     string          `validate:"required,max=100"`
	Type     string          `validate:"max=50"`
	Capacity decimal.Decimal `validate:"-"`
}

// UpdateTankRequest represents a request to change tank metadata
type UpdateTankRequest struct {
	Name     string          `validate:"required,max=100"`
	Type     string          `validate:"max=50"`
	Capacity decimal.Decimal `validate:"-"`
}

// TankListFilter represents filter options for tank lists
type TankListFilter struct {
	Search   string
	Status   string `validate:"omitempty,oneof=Vazio Ocupado"`
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string `validate:"omitempty,oneof=asc desc"`
}

// TankResponse represents a tank in API responses. Occupancy is derived from the active lot.
type TankResponse struct {
	ID          uuid.UUID       `json:"id"`
	TenantID    uuid.UUID       `json:"tenant_id"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Capacity    decimal.Decimal `json:"capacity"`
	Status      string          `json:"status"`
	Occupied    bool            `json:"occupied"`
	ActiveLotID *uuid.UUID      `json:"active_lot_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Version     int             `json:"version"`
}

// ToTankResponse converts a tank plus its active lot (may be nil) to a response
func ToTankResponse(t *farm.Tank, active *farm.Lot) TankResponse {
	resp := TankResponse{
		ID:        t.ID,
		TenantID:  t.TenantID,
		Name:      t.Name,
		Type:      t.Type,
		Capacity:  t.Capacity,
		Status:    string(farm.TankStatusEmpty),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
		Version:   t.Version,
	}
	if active != nil {
		id := active.ID
		resp.Occupied = true
		resp.ActiveLotID = &id
		resp.Status = string(farm.TankStatusOccupied)
	}
	return resp
}

// LotListFilter represents filter options for lot lists
type LotListFilter struct {
	Status   string     `validate:"omitempty"`
	TankID   *uuid.UUID `validate:"-"`
	Species  string
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string `validate:"omitempty,oneof=asc desc"`
}

// LotResponse represents a lot in API responses
type LotResponse struct {
	ID                uuid.UUID        `json:"id"`
	TenantID          uuid.UUID        `json:"tenant_id"`
	TankID            uuid.UUID        `json:"tank_id"`
	Species           string           `json:"species"`
	InitialQuantity   int64            `json:"initial_quantity"`
	InitialAvgWeightG decimal.Decimal  `json:"initial_avg_weight_g"`
	CurrentQuantity   int64            `json:"current_quantity"`
	CurrentAvgWeightG *decimal.Decimal `json:"current_avg_weight_g,omitempty"`
	AvgWeightG        decimal.Decimal  `json:"avg_weight_g"`
	BiomassKg         decimal.Decimal  `json:"biomass_kg"`
	EntryDate         time.Time        `json:"entry_date"`
	ExitDate          *time.Time       `json:"exit_date,omitempty"`
	Status            farm.LotStatus   `json:"status"`
	Notes             string           `json:"notes,omitempty"`
	OriginLotID       *uuid.UUID       `json:"origin_lot_id,omitempty"`
	IntakeBatchID     *uuid.UUID       `json:"intake_batch_id,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
	Version           int              `json:"version"`
}

// ToLotResponse converts a domain lot to a response
func ToLotResponse(l *farm.Lot) LotResponse {
	return LotResponse{
		ID:                l.ID,
		TenantID:          l.TenantID,
		TankID:            l.TankID,
		Species:           l.Species,
		InitialQuantity:   l.InitialQuantity,
		InitialAvgWeightG: l.InitialAvgWeightG,
		CurrentQuantity:   l.CurrentQuantity,
		CurrentAvgWeightG: l.CurrentAvgWeightG,
		AvgWeightG:        l.EffectiveAvgWeightG(),
		BiomassKg:         l.BiomassKg(),
		EntryDate:         l.EntryDate,
		ExitDate:          l.ExitDate,
		Status:            l.Status,
		Notes:             l.Notes,
		OriginLotID:       l.OriginLotID,
		IntakeBatchID:     l.IntakeBatchID,
		CreatedAt:         l.CreatedAt,
		UpdatedAt:         l.UpdatedAt,
		Version:           l.Version,
	}
}

// ToLotResponses converts a slice of lots
func ToLotResponses(lots []farm.Lot) []LotResponse {
	out := make([]LotResponse, len(lots))
	for i := range lots {
		out[i] = ToLotResponse(&lots[i])
	}
	return out
}

// CloseLotRequest represents a manual closure of a lot
type CloseLotRequest struct {
	Status   string    `validate:"required"`
	ExitDate time.Time `validate:"-"`
	Notes    string    `validate:"max=2000"`
}

// IntakeRequest represents a fish arrival: invoice header plus placements
type IntakeRequest struct {
	InvoiceNumber string            `validate:"required,max=50"`
	Supplier      string            `validate:"required,max=200"`
	Date          time.Time         `validate:"required"`
	TotalValue    decimal.Decimal   `validate:"-"`
	Notes         string            `validate:"max=2000"`
	Placements    []IntakePlacement `validate:"required,min=1,dive"`
}

// IntakePlacement places fish into one tank
type IntakePlacement struct {
	TankID         uuid.UUID       `validate:"required"`
	Species        string          `validate:"required,max=100"`
	Quantity       int64           `validate:"gt=0,max=1000000000"`
	AvgWeightG     decimal.Decimal `validate:"-"`
	ConflictPolicy string          `validate:"omitempty,oneof=merge replace"`
}

// IntakeResponse represents the outcome of an intake
type IntakeResponse struct {
	BatchID       uuid.UUID          `json:"batch_id"`
	InvoiceNumber string             `json:"invoice_number"`
	Supplier      string             `json:"supplier"`
	Date          time.Time          `json:"date"`
	TotalValue    decimal.Decimal    `json:"total_value"`
	Notes         string             `json:"notes,omitempty"`
	Placements    []PlacementOutcome `json:"placements"`
}

// PlacementOutcome describes what an intake placement did to its tank
type PlacementOutcome struct {
	TankID        uuid.UUID   `json:"tank_id"`
	Action        string      `json:"action"` // created, merged, replaced
	Lot           LotResponse `json:"lot"`
	ArchivedLotID *uuid.UUID  `json:"archived_lot_id,omitempty"`
}

// Placement actions
const (
	PlacementCreated  = "created"
	PlacementMerged   = "merged"
	PlacementReplaced = "replaced"
)

// IntakeBatchResponse represents a stored intake batch
type IntakeBatchResponse struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	Supplier      string          `json:"supplier"`
	Date          time.Time       `json:"date"`
	TotalValue    decimal.Decimal `json:"total_value"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	Lots          []LotResponse   `json:"lots"`
}

// TransferRequest represents a manejo: moving fish out of one lot into other tanks
type TransferRequest struct {
	OriginLotID   uuid.UUID             `validate:"required"`
	Destinations  []TransferDestination `validate:"required,min=1,dive"`
	ZeroOutOrigin bool
	Date          time.Time `validate:"-"`
	Observations  string    `validate:"max=2000"`
}

// TransferDestination is one target tank of a transfer
type TransferDestination struct {
	TankID     uuid.UUID       `validate:"required"`
	Quantity   int64           `validate:"gt=0,max=1000000000"`
	AvgWeightG decimal.Decimal `validate:"-"`
}

// TransferResponse represents the outcome of a transfer
type TransferResponse struct {
	Origin       LotResponse   `json:"origin"`
	Transferred  int64         `json:"transferred"`
	Remaining    int64         `json:"remaining"`
	Loss         int64         `json:"loss"`
	Destinations []LotResponse `json:"destinations"`
}

// SaleRequest represents confirmed sale items that consume lot stock
type SaleRequest struct {
	SaleID *uuid.UUID `validate:"-"`
	Items  []SaleItem `validate:"required,min=1,dive"`
}

// SaleItem is one line of a sale, expressed in kilograms
type SaleItem struct {
	LotID         uuid.UUID       `validate:"required"`
	KgSold        decimal.Decimal `validate:"-"`
	WeightAtSaleG decimal.Decimal `validate:"-"`
}

// SaleResponse represents the outcome of a sale
type SaleResponse struct {
	SaleID uuid.UUID         `json:"sale_id"`
	Items  []SaleItemOutcome `json:"items"`
}

// SaleItemOutcome describes the stock effect of one sale item
type SaleItemOutcome struct {
	LotID     uuid.UUID       `json:"lot_id"`
	KgSold    decimal.Decimal `json:"kg_sold"`
	FishCount int64           `json:"fish_count"`
	Lot       LotResponse     `json:"lot"`
}

// BiometryRequest represents a weight sample of a lot
type BiometryRequest struct {
	AvgWeightG decimal.Decimal `validate:"-"`
	SampleSize int             `validate:"gt=0"`
	Notes      string          `validate:"max=2000"`
	MeasuredAt time.Time       `validate:"-"`
}

// BiometryResponse represents a stored biometry sample
type BiometryResponse struct {
	ID         uuid.UUID       `json:"id"`
	LotID      uuid.UUID       `json:"lot_id"`
	AvgWeightG decimal.Decimal `json:"avg_weight_g"`
	SampleSize int             `json:"sample_size"`
	Notes      string          `json:"notes,omitempty"`
	MeasuredAt time.Time       `json:"measured_at"`
}

// ToBiometryResponse converts a domain record
func ToBiometryResponse(r *farm.BiometryRecord) BiometryResponse {
	return BiometryResponse{
		ID:         r.ID,
		LotID:      r.LotID,
		AvgWeightG: r.AvgWeightG,
		SampleSize: r.SampleSize,
		Notes:      r.Notes,
		MeasuredAt: r.MeasuredAt,
	}
}

// FeedRequest represents a feeding event of a lot
type FeedRequest struct {
	RationType string          `validate:"required,max=100"`
	QuantityKg decimal.Decimal `validate:"-"`
	Cost       decimal.Decimal `validate:"-"`
	FedAt      time.Time       `validate:"-"`
}

// FeedResponse represents a stored feeding event
type FeedResponse struct {
	ID         uuid.UUID       `json:"id"`
	LotID      uuid.UUID       `json:"lot_id"`
	RationType string          `json:"ration_type"`
	QuantityKg decimal.Decimal `json:"quantity_kg"`
	Cost       decimal.Decimal `json:"cost"`
	FedAt      time.Time       `json:"fed_at"`
}

// ToFeedResponse converts a domain record
func ToFeedResponse(r *farm.FeedRecord) FeedResponse {
	return FeedResponse{
		ID:         r.ID,
		LotID:      r.LotID,
		RationType: r.RationType,
		QuantityKg: r.QuantityKg,
		Cost:       r.Cost,
		FedAt:      r.FedAt,
	}
}

// ActivityLogResponse represents an activity log entry
type ActivityLogResponse struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	UserName    string    `json:"user_name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// ActivityLogFilter represents filter options for the activity log
type ActivityLogFilter struct {
	UserID   *uuid.UUID
	Page     int
	PageSize int
}
