package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	farmapp "github.com/aquafarm/backend/internal/application/farm"
	"github.com/aquafarm/backend/internal/interfaces/http/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Date accepts a calendar date ("2024-03-15") or an RFC 3339 timestamp
type Date struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("invalid date %q, expected YYYY-MM-DD or RFC 3339", s)
}

func (d *Date) value() time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.Time
}

// CreateTankRequest is the body of POST /tanks
type CreateTankRequest struct {
	Name     string          `json:"name" binding:"required,max=100"`
	Type     string          `json:"type" binding:"max=50"`
	Capacity decimal.Decimal `json:"capacity"`
}

// UpdateTankRequest is the body of PUT /tanks/:id
type UpdateTankRequest struct {
	Name     string          `json:"name" binding:"required,max=100"`
	Type     string          `json:"type" binding:"max=50"`
	Capacity decimal.Decimal `json:"capacity"`
}

// TankListQuery holds the query parameters of GET /tanks
type TankListQuery struct {
	dto.ListRequest
	Search string `form:"search" binding:"max=100"`
	Status string `form:"status" binding:"omitempty,oneof=Vazio Ocupado"`
}

func (q TankListQuery) toFilter() farmapp.TankListFilter {
	return farmapp.TankListFilter{
		Search:   q.Search,
		Status:   q.Status,
		Page:     q.Page,
		PageSize: q.PageSize,
		OrderBy:  q.OrderBy,
		OrderDir: q.OrderDir,
	}
}

// LotListQuery holds the query parameters of GET /lots
type LotListQuery struct {
	dto.ListRequest
	Status  string `form:"status" binding:"max=30"`
	TankID  string `form:"tank_id" binding:"omitempty,uuid"`
	Species string `form:"species" binding:"max=100"`
}

func (q LotListQuery) toFilter() farmapp.LotListFilter {
	f := farmapp.LotListFilter{
		Status:   q.Status,
		Species:  q.Species,
		Page:     q.Page,
		PageSize: q.PageSize,
		OrderBy:  q.OrderBy,
		OrderDir: q.OrderDir,
	}
	if id, err := uuid.Parse(q.TankID); err == nil {
		f.TankID = &id
	}
	return f
}

// CloseLotRequest is the body of POST /lots/:id/close
type CloseLotRequest struct {
	Status   string `json:"status" binding:"required"`
	ExitDate *Date  `json:"exit_date"`
	Notes    string `json:"notes" binding:"max=2000"`
}

// IntakeRequest is the body of POST /intakes
type IntakeRequest struct {
	InvoiceNumber string                   `json:"invoice_number" binding:"required,max=50"`
	Supplier      string                   `json:"supplier" binding:"required,max=200"`
	Date          *Date                    `json:"date"`
	TotalValue    decimal.Decimal          `json:"total_value"`
	Notes         string                   `json:"notes" binding:"max=2000"`
	Placements    []IntakePlacementRequest `json:"placements" binding:"required,min=1,dive"`
}

// IntakePlacementRequest places fish of one species into one tank
type IntakePlacementRequest struct {
	TankID         uuid.UUID       `json:"tank_id" binding:"required"`
	Species        string          `json:"species" binding:"required,max=100"`
	Quantity       int64           `json:"quantity" binding:"gt=0,max=1000000000"`
	AvgWeightG     decimal.Decimal `json:"avg_weight_g"`
	ConflictPolicy string          `json:"conflict_policy" binding:"omitempty,oneof=merge replace"`
}

func (r IntakeRequest) toApp() farmapp.IntakeRequest {
	placements := make([]farmapp.IntakePlacement, len(r.Placements))
	for i, p := range r.Placements {
		placements[i] = farmapp.IntakePlacement{
			TankID:         p.TankID,
			Species:        p.Species,
			Quantity:       p.Quantity,
			AvgWeightG:     p.AvgWeightG,
			ConflictPolicy: p.ConflictPolicy,
		}
	}
	return farmapp.IntakeRequest{
		InvoiceNumber: r.InvoiceNumber,
		Supplier:      r.Supplier,
		Date:          r.Date.value(),
		TotalValue:    r.TotalValue,
		Notes:         r.Notes,
		Placements:    placements,
	}
}

// TransferRequest is the body of POST /transfers
type TransferRequest struct {
	OriginLotID   uuid.UUID                    `json:"origin_lot_id" binding:"required"`
	Destinations  []TransferDestinationRequest `json:"destinations" binding:"required,min=1,dive"`
	ZeroOutOrigin bool                         `json:"zero_out_origin"`
	Date          *Date                        `json:"date"`
	Observations  string                       `json:"observations" binding:"max=2000"`
}

// TransferDestinationRequest is one target tank of a transfer
type TransferDestinationRequest struct {
	TankID     uuid.UUID       `json:"tank_id" binding:"required"`
	Quantity   int64           `json:"quantity" binding:"gt=0,max=1000000000"`
	AvgWeightG decimal.Decimal `json:"avg_weight_g"`
}

func (r TransferRequest) toApp() farmapp.TransferRequest {
	dests := make([]farmapp.TransferDestination, len(r.Destinations))
	for i, d := range r.Destinations {
		dests[i] = farmapp.TransferDestination{
			TankID:     d.TankID,
			Quantity:   d.Quantity,
			AvgWeightG: d.AvgWeightG,
		}
	}
	return farmapp.TransferRequest{
		OriginLotID:   r.OriginLotID,
		Destinations:  dests,
		ZeroOutOrigin: r.ZeroOutOrigin,
		Date:          r.Date.value(),
		Observations:  r.Observations,
	}
}

// SaleRequest is the body of POST /sales
type SaleRequest struct {
	SaleID *uuid.UUID        `json:"sale_id"`
	Items  []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
}

// SaleItemRequest is one sold line, in kilograms
type SaleItemRequest struct {
	LotID         uuid.UUID       `json:"lot_id" binding:"required"`
	KgSold        decimal.Decimal `json:"kg_sold"`
	WeightAtSaleG decimal.Decimal `json:"weight_at_sale_g"`
}

func (r SaleRequest) toApp() farmapp.SaleRequest {
	items := make([]farmapp.SaleItem, len(r.Items))
	for i, it := range r.Items {
		items[i] = farmapp.SaleItem{
			LotID:         it.LotID,
			KgSold:        it.KgSold,
			WeightAtSaleG: it.WeightAtSaleG,
		}
	}
	return farmapp.SaleRequest{SaleID: r.SaleID, Items: items}
}

// BiometryRequest is the body of POST /lots/:id/biometries
type BiometryRequest struct {
	AvgWeightG decimal.Decimal `json:"avg_weight_g"`
	SampleSize int             `json:"sample_size" binding:"gt=0"`
	Notes      string          `json:"notes" binding:"max=2000"`
	MeasuredAt *Date           `json:"measured_at"`
}

// FeedRequest is the body of POST /lots/:id/feedings
type FeedRequest struct {
	RationType string          `json:"ration_type" binding:"required,max=100"`
	QuantityKg decimal.Decimal `json:"quantity_kg"`
	Cost       decimal.Decimal `json:"cost"`
	FedAt      *Date           `json:"fed_at"`
}

// ActivityLogQuery holds the query parameters of GET /activity-logs
type ActivityLogQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	UserID   string `form:"user_id" binding:"omitempty,uuid"`
}
