package farm

import (
	"context"
	"time"

	"github.com/aquafarm/backend/internal/domain/farm"
	"github.com/aquafarm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LotLedger holds the quantity and status primitives every farm operation is built from.
// All methods run against the repositories of an open unit of work; callers own the transaction.
type LotLedger struct{}

// NewLotLedger creates a LotLedger
func NewLotLedger() *LotLedger {
	return &LotLedger{}
}

// CreateLotParams holds the inputs of CreateLot
type CreateLotParams struct {
	TankID        uuid.UUID
	Species       string
	Quantity      int64
	AvgWeightG    decimal.Decimal
	EntryDate     time.Time
	OriginLotID   *uuid.UUID
	IntakeBatchID *uuid.UUID
	Notes         string
}

// FindActiveLotForTank locks the tank and returns its active lot, or nil when the tank is empty.
// The tank row stays locked until the surrounding transaction ends.
func (l *LotLedger) FindActiveLotForTank(ctx context.Context, repos TransactionalRepositories, rc shared.RequestContext, tankID uuid.UUID) (*farm.Lot, *farm.Tank, error) {
	tank, err := repos.TankRepo().LockForUpdate(ctx, rc.TenantID, tankID)
	if err != nil {
		return nil, nil, tankLookupError(err, tankID)
	}
	active, err := repos.LotRepo().FindActiveByTank(ctx, rc.TenantID, tankID)
	if err != nil {
		return nil, nil, err
	}
	return active, tank, nil
}

// CreateLot stocks a new active lot into an empty tank
func (l *LotLedger) CreateLot(ctx context.Context, repos TransactionalRepositories, rc shared.RequestContext, p CreateLotParams) (*farm.Lot, error) {
	active, tank, err := l.FindActiveLotForTank(ctx, repos, rc, p.TankID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, shared.NewConflictError("TANK_OCCUPIED",
			"Tank "+tank.Name+" already holds active lot "+active.ID.String())
	}
	return l.stockLot(ctx, repos, rc, tank, p)
}

// stockLot creates the lot in a tank the caller has already locked and found empty
func (l *LotLedger) stockLot(ctx context.Context, repos TransactionalRepositories, rc shared.RequestContext, tank *farm.Tank, p CreateLotParams) (*farm.Lot, error) {
	var createdBy *uuid.UUID
	if rc.UserID != uuid.Nil {
		uid := rc.UserID
		createdBy = &uid
	}
	lot, err := farm.NewLot(farm.NewLotParams{
		TenantID:      rc.TenantID,
		TankID:        tank.ID,
		Species:       p.Species,
		Quantity:      p.Quantity,
		AvgWeightG:    p.AvgWeightG,
		EntryDate:     p.EntryDate,
		OriginLotID:   p.OriginLotID,
		IntakeBatchID: p.IntakeBatchID,
		CreatedBy:     createdBy,
		Notes:         p.Notes,
	})
	if err != nil {
		return nil, err
	}
	if err := repos.LotRepo().Save(ctx, lot); err != nil {
		return nil, err
	}
	if tank.Status != farm.TankStatusOccupied {
		tank.MarkOccupied()
		if err := repos.TankRepo().Save(ctx, tank); err != nil {
			return nil, err
		}
	}
	return lot, nil
}

// MutateQuantityAndWeight is the write path for quantity changes outside creation.
// A nil weight keeps the current average weight.
func (l *LotLedger) MutateQuantityAndWeight(ctx context.Context, repos TransactionalRepositories, rc shared.RequestContext, lotID uuid.UUID, newQuantity int64, newAvgWeightG *decimal.Decimal, reason string) (*farm.Lot, error) {
	lot, _, err := l.lockLot(ctx, repos, rc, lotID)
	if err != nil {
		return nil, err
	}
	if err := lot.MutateQuantityAndWeight(newQuantity, newAvgWeightG, reason); err != nil {
		return nil, err
	}
	if err := repos.LotRepo().Save(ctx, lot); err != nil {
		return nil, err
	}
	return lot, nil
}

// CloseLot moves a lot into a terminal status and empties its tank
func (l *LotLedger) CloseLot(ctx context.Context, repos TransactionalRepositories, rc shared.RequestContext, lotID uuid.UUID, status farm.LotStatus, exitDate time.Time, notesAppend string) (*farm.Lot, error) {
	lot, tank, err := l.lockLot(ctx, repos, rc, lotID)
	if err != nil {
		return nil, err
	}
	if err := l.closeLocked(ctx, repos, lot, tank, status, exitDate, notesAppend); err != nil {
		return nil, err
	}
	return lot, nil
}

// closeLocked closes a lot whose tank the caller already holds locked
func (l *LotLedger) closeLocked(ctx context.Context, repos TransactionalRepositories, lot *farm.Lot, tank *farm.Tank, status farm.LotStatus, exitDate time.Time, notesAppend string) error {
	wasActive := lot.IsActive()
	if err := lot.Close(status, exitDate, notesAppend); err != nil {
		return err
	}
	if err := repos.LotRepo().Save(ctx, lot); err != nil {
		return err
	}
	if wasActive && tank != nil && tank.ID == lot.TankID {
		tank.MarkEmpty()
		if err := repos.TankRepo().Save(ctx, tank); err != nil {
			return err
		}
	}
	return nil
}

// lockLot takes the tank lock first, then the lot lock, matching the order used by every other operation
func (l *LotLedger) lockLot(ctx context.Context, repos TransactionalRepositories, rc shared.RequestContext, lotID uuid.UUID) (*farm.Lot, *farm.Tank, error) {
	unlocked, err := repos.LotRepo().FindByIDForTenant(ctx, rc.TenantID, lotID)
	if err != nil {
		return nil, nil, lotLookupError(err, lotID)
	}
	tank, err := repos.TankRepo().LockForUpdate(ctx, rc.TenantID, unlocked.TankID)
	if err != nil {
		return nil, nil, tankLookupError(err, unlocked.TankID)
	}
	lot, err := repos.LotRepo().FindByIDForUpdate(ctx, rc.TenantID, lotID)
	if err != nil {
		return nil, nil, lotLookupError(err, lotID)
	}
	return lot, tank, nil
}

// requireActive rejects lots that already reached a terminal status
func requireActive(lot *farm.Lot) error {
	if !lot.IsActive() {
		return shared.NewConflictError("LOT_NOT_ACTIVE",
			"Lot "+lot.ID.String()+" is "+lot.Status.String()+", only active lots can be used")
	}
	return nil
}
