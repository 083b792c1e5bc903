package farm

import (
	"context"

	"github.com/aquafarm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TankRepository persists tanks
type TankRepository interface {
	// FindByIDForTenant returns shared.ErrNotFound when the tank is not in the tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Tank, error)
	// LockForUpdate reads the tank with a row lock held until the surrounding transaction ends.
	// Every read-then-write on a tank's active lot goes through this first.
	LockForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Tank, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Tank, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, tank *Tank) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// LotRepository persists lots
type LotRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Lot, error)
	// FindByIDForUpdate reads the lot with a row lock held until the surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Lot, error)
	// FindActiveByTank returns (nil, nil) when the tank has no active lot
	FindActiveByTank(ctx context.Context, tenantID, tankID uuid.UUID) (*Lot, error)
	// FindActiveByTanks maps tank ID to its active lot for the given tanks
	FindActiveByTanks(ctx context.Context, tenantID uuid.UUID, tankIDs []uuid.UUID) (map[uuid.UUID]*Lot, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Lot, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, lot *Lot) error
}

// IntakeBatchRepository persists intake batches
type IntakeBatchRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*IntakeBatch, error)
	Save(ctx context.Context, batch *IntakeBatch) error
}

// BiometryRepository persists biometry samples
type BiometryRepository interface {
	FindByLot(ctx context.Context, tenantID, lotID uuid.UUID) ([]BiometryRecord, error)
	Save(ctx context.Context, record *BiometryRecord) error
}

// FeedRepository persists feeding events
type FeedRepository interface {
	FindByLot(ctx context.Context, tenantID, lotID uuid.UUID) ([]FeedRecord, error)
	Save(ctx context.Context, record *FeedRecord) error
}

// ActivityLogRepository persists activity log entries
type ActivityLogRepository interface {
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ActivityLog, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, entry *ActivityLog) error
}
