package farm

import (
	"fmt"

	"github.com/aquafarm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeSale is the aggregate type name used for sale events
const AggregateTypeSale = "Sale"

// Event type constants
const (
	EventTypeLotCreated         = "LotCreated"
	EventTypeLotQuantityChanged = "LotQuantityChanged"
	EventTypeLotClosed          = "LotClosed"
	EventTypeIntakeRecorded     = "IntakeRecorded"
	EventTypeTransferRecorded   = "TransferRecorded"
	EventTypeSaleRecorded       = "SaleRecorded"
	EventTypeBiometryRecorded   = "BiometryRecorded"
)

// Actor identifies who triggered an operation-level event
type Actor struct {
	UserID   uuid.UUID `json:"user_id"`
	UserName string    `json:"user_name"`
}

// ActorFrom extracts the actor of a request context
func ActorFrom(rc shared.RequestContext) Actor {
	return Actor{UserID: rc.UserID, UserName: rc.UserName}
}

// ActivityEvent is implemented by events that produce an activity log line
type ActivityEvent interface {
	shared.DomainEvent
	GetActor() Actor
	Describe() string
}

// LotCreatedEvent is raised when a new lot is stocked into a tank
type LotCreatedEvent struct {
	shared.BaseDomainEvent
	LotID       uuid.UUID       `json:"lot_id"`
	TankID      uuid.UUID       `json:"tank_id"`
	Species     string          `json:"species"`
	Quantity    int64           `json:"quantity"`
	AvgWeightG  decimal.Decimal `json:"avg_weight_g"`
	OriginLotID *uuid.UUID      `json:"origin_lot_id,omitempty"`
}

// NewLotCreatedEvent creates a new LotCreatedEvent
func NewLotCreatedEvent(lot *Lot) *LotCreatedEvent {
	return &LotCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLotCreated, AggregateTypeLot, lot.ID, lot.TenantID),
		LotID:           lot.ID,
		TankID:          lot.TankID,
		Species:         lot.Species,
		Quantity:        lot.CurrentQuantity,
		AvgWeightG:      lot.InitialAvgWeightG,
		OriginLotID:     lot.OriginLotID,
	}
}

// LotQuantityChangedEvent is raised on every quantity or weight mutation
type LotQuantityChangedEvent struct {
	shared.BaseDomainEvent
	LotID         uuid.UUID       `json:"lot_id"`
	OldQuantity   int64           `json:"old_quantity"`
	NewQuantity   int64           `json:"new_quantity"`
	OldAvgWeightG decimal.Decimal `json:"old_avg_weight_g"`
	NewAvgWeightG decimal.Decimal `json:"new_avg_weight_g"`
	Reason        string          `json:"reason,omitempty"`
}

// NewLotQuantityChangedEvent creates a new LotQuantityChangedEvent
func NewLotQuantityChangedEvent(lot *Lot, oldQuantity int64, oldWeight decimal.Decimal, reason string) *LotQuantityChangedEvent {
	return &LotQuantityChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLotQuantityChanged, AggregateTypeLot, lot.ID, lot.TenantID),
		LotID:           lot.ID,
		OldQuantity:     oldQuantity,
		NewQuantity:     lot.CurrentQuantity,
		OldAvgWeightG:   oldWeight,
		NewAvgWeightG:   lot.EffectiveAvgWeightG(),
		Reason:          reason,
	}
}

// LotClosedEvent is raised when a lot reaches a terminal status
type LotClosedEvent struct {
	shared.BaseDomainEvent
	LotID             uuid.UUID `json:"lot_id"`
	TankID            uuid.UUID `json:"tank_id"`
	Status            LotStatus `json:"status"`
	QuantityAtClosure int64     `json:"quantity_at_closure"`
}

// NewLotClosedEvent creates a new LotClosedEvent
func NewLotClosedEvent(lot *Lot, quantityAtClosure int64) *LotClosedEvent {
	return &LotClosedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeLotClosed, AggregateTypeLot, lot.ID, lot.TenantID),
		LotID:             lot.ID,
		TankID:            lot.TankID,
		Status:            lot.Status,
		QuantityAtClosure: quantityAtClosure,
	}
}

// IntakeRecordedEvent is raised after a fish arrival is committed
type IntakeRecordedEvent struct {
	shared.BaseDomainEvent
	Actor
	BatchID       uuid.UUID `json:"batch_id"`
	InvoiceNumber string    `json:"invoice_number"`
	Supplier      string    `json:"supplier"`
	Placements    int       `json:"placements"`
	TotalFish     int64     `json:"total_fish"`
}

// NewIntakeRecordedEvent creates a new IntakeRecordedEvent
func NewIntakeRecordedEvent(batch *IntakeBatch, actor Actor, placements int, totalFish int64) *IntakeRecordedEvent {
	return &IntakeRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeIntakeRecorded, AggregateTypeIntakeBatch, batch.ID, batch.TenantID),
		Actor:           actor,
		BatchID:         batch.ID,
		InvoiceNumber:   batch.InvoiceNumber,
		Supplier:        batch.Supplier,
		Placements:      placements,
		TotalFish:       totalFish,
	}
}

// GetActor returns who recorded the intake
func (e *IntakeRecordedEvent) GetActor() Actor { return e.Actor }

// Describe renders the activity log line
func (e *IntakeRecordedEvent) Describe() string {
	return fmt.Sprintf("Entrada de peixes registrada: NF %s (%s), %d peixes em %d tanque(s)",
		e.InvoiceNumber, e.Supplier, e.TotalFish, e.Placements)
}

// TransferRecordedEvent is raised after a manejo (transfer/split) is committed
type TransferRecordedEvent struct {
	shared.BaseDomainEvent
	Actor
	OriginLotID  uuid.UUID `json:"origin_lot_id"`
	OriginStatus LotStatus `json:"origin_status"`
	Transferred  int64     `json:"transferred"`
	Loss         int64     `json:"loss"`
	Destinations int       `json:"destinations"`
}

// NewTransferRecordedEvent creates a new TransferRecordedEvent
func NewTransferRecordedEvent(origin *Lot, actor Actor, transferred, loss int64, destinations int) *TransferRecordedEvent {
	return &TransferRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransferRecorded, AggregateTypeLot, origin.ID, origin.TenantID),
		Actor:           actor,
		OriginLotID:     origin.ID,
		OriginStatus:    origin.Status,
		Transferred:     transferred,
		Loss:            loss,
		Destinations:    destinations,
	}
}

// GetActor returns who recorded the transfer
func (e *TransferRecordedEvent) GetActor() Actor { return e.Actor }

// Describe renders the activity log line
func (e *TransferRecordedEvent) Describe() string {
	desc := fmt.Sprintf("Manejo registrado no lote %s: %d peixes transferidos para %d tanque(s)",
		e.OriginLotID, e.Transferred, e.Destinations)
	if e.Loss > 0 {
		desc += fmt.Sprintf(", perda de %d peixes", e.Loss)
	}
	return desc
}

// SaleRecordedEvent is raised after sale items decrement lot stock
type SaleRecordedEvent struct {
	shared.BaseDomainEvent
	Actor
	SaleID    uuid.UUID       `json:"sale_id"`
	Items     int             `json:"items"`
	FishCount int64           `json:"fish_count"`
	Kg        decimal.Decimal `json:"kg"`
}

// NewSaleRecordedEvent creates a new SaleRecordedEvent
func NewSaleRecordedEvent(tenantID, saleID uuid.UUID, actor Actor, items int, fishCount int64, kg decimal.Decimal) *SaleRecordedEvent {
	return &SaleRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleRecorded, AggregateTypeSale, saleID, tenantID),
		Actor:           actor,
		SaleID:          saleID,
		Items:           items,
		FishCount:       fishCount,
		Kg:              kg,
	}
}

// GetActor returns who recorded the sale
func (e *SaleRecordedEvent) GetActor() Actor { return e.Actor }

// Describe renders the activity log line
func (e *SaleRecordedEvent) Describe() string {
	return fmt.Sprintf("Venda registrada: %s kg (%d peixes)", e.Kg.String(), e.FishCount)
}

// BiometryRecordedEvent is raised after a biometry sample updates a lot's weight
type BiometryRecordedEvent struct {
	shared.BaseDomainEvent
	Actor
	LotID      uuid.UUID       `json:"lot_id"`
	AvgWeightG decimal.Decimal `json:"avg_weight_g"`
	SampleSize int             `json:"sample_size"`
}

// NewBiometryRecordedEvent creates a new BiometryRecordedEvent
func NewBiometryRecordedEvent(record *BiometryRecord, actor Actor) *BiometryRecordedEvent {
	return &BiometryRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBiometryRecorded, AggregateTypeLot, record.LotID, record.TenantID),
		Actor:           actor,
		LotID:           record.LotID,
		AvgWeightG:      record.AvgWeightG,
		SampleSize:      record.SampleSize,
	}
}

// GetActor returns who recorded the sample
func (e *BiometryRecordedEvent) GetActor() Actor { return e.Actor }

// Describe renders the activity log line
func (e *BiometryRecordedEvent) Describe() string {
	return fmt.Sprintf("Biometria registrada no lote %s: peso médio %s g", e.LotID, e.AvgWeightG.String())
}

var (
	_ ActivityEvent = (*IntakeRecordedEvent)(nil)
	_ ActivityEvent = (*TransferRecordedEvent)(nil)
	_ ActivityEvent = (*SaleRecordedEvent)(nil)
	_ ActivityEvent = (*BiometryRecordedEvent)(nil)
)
