package farm

import (
	"strings"

	"github.com/aquafarm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeTank is the aggregate type name for tanks
const AggregateTypeTank = "Tank"

// Tank is a tenant-owned rearing unit (pond, raceway, cage) that holds at most one active lot.
// Status is a convenience flag; occupancy reads are derived from the lot table.
type Tank struct {
	shared.TenantAggregateRoot
	Name     string
	Type     string
	Capacity decimal.Decimal
	Status   TankStatus
}

// NewTank creates a new empty tank
func NewTank(tenantID uuid.UUID, name, tankType string, capacity decimal.Decimal) (*Tank, error) {
	t := &Tank{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Status:              TankStatusEmpty,
	}
	if err := t.apply(name, tankType, capacity); err != nil {
		return nil, err
	}
	return t, nil
}

// Update changes the tank metadata
func (t *Tank) Update(name, tankType string, capacity decimal.Decimal) error {
	if err := t.apply(name, tankType, capacity); err != nil {
		return err
	}
	t.MarkChanged()
	return nil
}

func (t *Tank) apply(name, tankType string, capacity decimal.Decimal) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("INVALID_TANK_NAME", "Tank name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewValidationError("INVALID_TANK_NAME", "Tank name cannot exceed 100 characters")
	}
	if capacity.IsNegative() {
		return shared.NewValidationError("INVALID_CAPACITY", "Tank capacity cannot be negative")
	}
	t.Name = name
	t.Type = strings.TrimSpace(tankType)
	t.Capacity = capacity
	return nil
}

// MarkOccupied flags the tank as holding an active lot
func (t *Tank) MarkOccupied() {
	if t.Status == TankStatusOccupied {
		return
	}
	t.Status = TankStatusOccupied
	t.MarkChanged()
}

// MarkEmpty flags the tank as empty
func (t *Tank) MarkEmpty() {
	if t.Status == TankStatusEmpty {
		return
	}
	t.Status = TankStatusEmpty
	t.MarkChanged()
}
