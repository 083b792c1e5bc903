package farm

import (
	"encoding/json"
	"fmt"

	"github.com/aquafarm/backend/internal/domain/shared"
)

// LotStatus is the lifecycle state of a fish lot.
// The set is closed: values outside the constants below are rejected on parse.
type LotStatus string

const (
	LotStatusActive         LotStatus = "Ativo"
	LotStatusTransferred    LotStatus = "Transferido"
	LotStatusClosedWithLoss LotStatus = "Finalizado com Perda"
	LotStatusSold           LotStatus = "Vendido"
	LotStatusArchived       LotStatus = "Arquivado"
)

// AllLotStatuses lists every valid lot status
var AllLotStatuses = []LotStatus{
	LotStatusActive,
	LotStatusTransferred,
	LotStatusClosedWithLoss,
	LotStatusSold,
	LotStatusArchived,
}

// ParseLotStatus converts a raw string into a LotStatus
func ParseLotStatus(s string) (LotStatus, error) {
	status := LotStatus(s)
	if !status.IsValid() {
		return "", shared.NewValidationError("INVALID_LOT_STATUS", fmt.Sprintf("Unknown lot status %q", s))
	}
	return status, nil
}

// IsValid reports whether the status belongs to the closed set
func (s LotStatus) IsValid() bool {
	switch s {
	case LotStatusActive, LotStatusTransferred, LotStatusClosedWithLoss, LotStatusSold, LotStatusArchived:
		return true
	}
	return false
}

// IsTerminal reports whether no further mutation is allowed
func (s LotStatus) IsTerminal() bool {
	return s.IsValid() && s != LotStatusActive
}

// ZeroesQuantity reports whether closing into this status drops the live quantity to zero.
// Archived lots keep their last quantity as a historical snapshot.
func (s LotStatus) ZeroesQuantity() bool {
	switch s {
	case LotStatusTransferred, LotStatusClosedWithLoss, LotStatusSold:
		return true
	}
	return false
}

// String returns the status value
func (s LotStatus) String() string {
	return string(s)
}

// UnmarshalJSON rejects unknown statuses
func (s *LotStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseLotStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// TankStatus is the stored occupancy flag of a tank
type TankStatus string

const (
	TankStatusEmpty    TankStatus = "Vazio"
	TankStatusOccupied TankStatus = "Ocupado"
)

// ParseTankStatus converts a raw string into a TankStatus
func ParseTankStatus(s string) (TankStatus, error) {
	switch TankStatus(s) {
	case TankStatusEmpty, TankStatusOccupied:
		return TankStatus(s), nil
	}
	return "", shared.NewValidationError("INVALID_TANK_STATUS", fmt.Sprintf("Unknown tank status %q", s))
}

// String returns the status value
func (s TankStatus) String() string {
	return string(s)
}

// ConflictPolicy decides how an intake placement treats a tank that already holds an active lot
type ConflictPolicy string

const (
	ConflictPolicyMerge   ConflictPolicy = "merge"
	ConflictPolicyReplace ConflictPolicy = "replace"
)

// ParseConflictPolicy converts a raw string into a ConflictPolicy
func ParseConflictPolicy(s string) (ConflictPolicy, error) {
	switch ConflictPolicy(s) {
	case ConflictPolicyMerge, ConflictPolicyReplace:
		return ConflictPolicy(s), nil
	}
	return "", shared.NewValidationError("INVALID_CONFLICT_POLICY", fmt.Sprintf("Unknown conflict policy %q, expected merge or replace", s))
}
