package farm

import (
	"fmt"
	"strings"
	"time"

	"github.com/aquafarm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// AggregateTypeLot is the aggregate type name for lots
const AggregateTypeLot = "Lot"

// MaxLotQuantity is the largest fish count a single lot can hold
const MaxLotQuantity int64 = 1_000_000_000

// Lot is a population of fish of one species living in one tank.
// Quantities are fish counts; weights are average grams per fish.
type Lot struct {
	shared.TenantAggregateRoot
	TankID            uuid.UUID
	Species           string
	InitialQuantity   int64
	InitialAvgWeightG decimal.Decimal
	CurrentQuantity   int64
	CurrentAvgWeightG *decimal.Decimal
	EntryDate         time.Time
	ExitDate          *time.Time
	Status            LotStatus
	Notes             string
	OriginLotID       *uuid.UUID
	IntakeBatchID     *uuid.UUID
}

// NewLotParams holds the inputs for creating a lot
type NewLotParams struct {
	TenantID      uuid.UUID
	TankID        uuid.UUID
	Species       string
	Quantity      int64
	AvgWeightG    decimal.Decimal
	EntryDate     time.Time
	OriginLotID   *uuid.UUID
	IntakeBatchID *uuid.UUID
	CreatedBy     *uuid.UUID
	Notes         string
}

// NewLot creates an active lot holding p.Quantity fish
func NewLot(p NewLotParams) (*Lot, error) {
	if p.TankID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_TANK", "Tank ID cannot be empty")
	}
	if err := validateQuantityAndWeight(p.Quantity, p.AvgWeightG); err != nil {
		return nil, err
	}
	species := NormalizeSpecies(p.Species)
	if species == "" {
		return nil, shared.NewValidationError("INVALID_SPECIES", "Species cannot be empty")
	}
	entry := p.EntryDate
	if entry.IsZero() {
		entry = time.Now()
	}

	lot := &Lot{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(p.TenantID),
		TankID:              p.TankID,
		Species:             species,
		InitialQuantity:     p.Quantity,
		InitialAvgWeightG:   p.AvgWeightG,
		CurrentQuantity:     p.Quantity,
		EntryDate:           entry,
		Status:              LotStatusActive,
		Notes:               strings.TrimSpace(p.Notes),
		OriginLotID:         p.OriginLotID,
		IntakeBatchID:       p.IntakeBatchID,
	}
	if p.CreatedBy != nil {
		lot.SetCreatedBy(*p.CreatedBy)
	}
	lot.AddDomainEvent(NewLotCreatedEvent(lot))
	return lot, nil
}

func validateQuantityAndWeight(qty int64, weightG decimal.Decimal) error {
	if qty <= 0 {
		return shared.NewValidationError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if qty > MaxLotQuantity {
		return shared.NewValidationError("QUANTITY_OUT_OF_RANGE",
			fmt.Sprintf("Quantity %d exceeds the lot limit of %d fish", qty, MaxLotQuantity))
	}
	if !weightG.IsPositive() {
		return shared.NewValidationError("INVALID_WEIGHT", "Average weight must be positive")
	}
	return nil
}

// NormalizeSpecies trims, collapses whitespace and title-cases a species name (pt-BR rules)
func NormalizeSpecies(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return cases.Title(language.BrazilianPortuguese).String(strings.Join(fields, " "))
}

// IsActive reports whether the lot still holds live stock
func (l *Lot) IsActive() bool {
	return l.Status == LotStatusActive
}

// EffectiveAvgWeightG returns the current average weight, falling back to the initial one
func (l *Lot) EffectiveAvgWeightG() decimal.Decimal {
	if l.CurrentAvgWeightG != nil {
		return *l.CurrentAvgWeightG
	}
	return l.InitialAvgWeightG
}

// BiomassKg returns current quantity times effective weight, in kilograms
func (l *Lot) BiomassKg() decimal.Decimal {
	return l.EffectiveAvgWeightG().
		Mul(decimal.NewFromInt(l.CurrentQuantity)).
		Div(decimal.NewFromInt(1000))
}

func (l *Lot) ensureMutable() error {
	if l.Status.IsTerminal() {
		return shared.NewConflictError("LOT_NOT_ACTIVE",
			fmt.Sprintf("Lot %s is %s and can no longer be changed", l.ID, l.Status))
	}
	return nil
}

// MutateQuantityAndWeight is the single write path for live quantity changes.
// A nil weight leaves the current average weight untouched.
func (l *Lot) MutateQuantityAndWeight(newQuantity int64, newAvgWeightG *decimal.Decimal, reason string) error {
	if err := l.ensureMutable(); err != nil {
		return err
	}
	if newQuantity < 0 {
		return shared.NewInvariantViolation("NEGATIVE_QUANTITY",
			fmt.Sprintf("Lot %s quantity cannot become negative (%d)", l.ID, newQuantity))
	}
	if newAvgWeightG != nil && !newAvgWeightG.IsPositive() {
		return shared.NewValidationError("INVALID_WEIGHT", "Average weight must be positive")
	}

	oldQuantity := l.CurrentQuantity
	oldWeight := l.EffectiveAvgWeightG()

	l.CurrentQuantity = newQuantity
	if newAvgWeightG != nil {
		w := *newAvgWeightG
		l.CurrentAvgWeightG = &w
	}
	l.MarkChanged()

	l.AddDomainEvent(NewLotQuantityChangedEvent(l, oldQuantity, oldWeight, reason))
	return nil
}

// Merge adds incoming fish of the same species to the lot.
// The incoming average weight replaces the current one.
func (l *Lot) Merge(species string, quantity int64, avgWeightG decimal.Decimal, reason string) error {
	if err := validateQuantityAndWeight(quantity, avgWeightG); err != nil {
		return err
	}
	if incoming := NormalizeSpecies(species); incoming != l.Species {
		return shared.NewConflictError("SPECIES_MISMATCH",
			fmt.Sprintf("Lot %s holds %s; cannot merge %s into it", l.ID, l.Species, incoming))
	}
	if quantity > MaxLotQuantity-l.CurrentQuantity {
		return shared.NewValidationError("QUANTITY_OUT_OF_RANGE",
			fmt.Sprintf("Merging %d fish into lot %s (%d) exceeds the lot limit of %d", quantity, l.ID, l.CurrentQuantity, MaxLotQuantity))
	}
	return l.MutateQuantityAndWeight(l.CurrentQuantity+quantity, &avgWeightG, reason)
}

// Withdraw removes fish from the lot without closing it
func (l *Lot) Withdraw(quantity int64, avgWeightG *decimal.Decimal, reason string) error {
	if quantity <= 0 {
		return shared.NewValidationError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if err := l.ensureMutable(); err != nil {
		return err
	}
	if quantity > l.CurrentQuantity {
		return shared.ErrInsufficientStock.WithCause(
			fmt.Errorf("requested %d fish, lot %s holds %d", quantity, l.ID, l.CurrentQuantity))
	}
	return l.MutateQuantityAndWeight(l.CurrentQuantity-quantity, avgWeightG, reason)
}

// Close moves the lot into a terminal status
func (l *Lot) Close(status LotStatus, exitDate time.Time, notesAppend string) error {
	if !status.IsTerminal() {
		return shared.NewValidationError("INVALID_TERMINAL_STATUS",
			fmt.Sprintf("Status %q is not a terminal lot status", status))
	}
	if err := l.ensureMutable(); err != nil {
		return err
	}
	if exitDate.IsZero() {
		exitDate = time.Now()
	}

	remaining := l.CurrentQuantity
	if status.ZeroesQuantity() {
		l.CurrentQuantity = 0
	}
	l.Status = status
	l.ExitDate = &exitDate
	l.AppendNotes(notesAppend)
	l.MarkChanged()

	l.AddDomainEvent(NewLotClosedEvent(l, remaining))
	return nil
}

// AppendNotes adds a line to the free-text notes
func (l *Lot) AppendNotes(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if l.Notes == "" {
		l.Notes = text
		return
	}
	l.Notes = l.Notes + "\n" + text
}
