package farm

import (
	"context"

	"github.com/aquafarm/backend/internal/domain/farm"
	"github.com/aquafarm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TankService handles tank registry operations
type TankService struct {
	repos TransactionalRepositories
	scope TransactionScope
}

// NewTankService creates a new TankService
func NewTankService(repos TransactionalRepositories, scope TransactionScope) *TankService {
	return &TankService{repos: repos, scope: scope}
}

// Create registers a new, empty tank
func (s *TankService) Create(ctx context.Context, rc shared.RequestContext, req CreateTankRequest) (*TankResponse, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	tank, err := farm.NewTank(rc.TenantID, req.Name, req.Type, req.Capacity)
	if err != nil {
		return nil, err
	}
	if rc.UserID != uuid.Nil {
		tank.SetCreatedBy(rc.UserID)
	}
	if err := s.repos.TankRepo().Save(ctx, tank); err != nil {
		return nil, err
	}
	resp := ToTankResponse(tank, nil)
	return &resp, nil
}

// GetByID returns a tank with occupancy derived from its active lot
func (s *TankService) GetByID(ctx context.Context, rc shared.RequestContext, id uuid.UUID) (*TankResponse, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	tank, err := s.repos.TankRepo().FindByIDForTenant(ctx, rc.TenantID, id)
	if err != nil {
		return nil, tankLookupError(err, id)
	}
	active, err := s.repos.LotRepo().FindActiveByTank(ctx, rc.TenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToTankResponse(tank, active)
	return &resp, nil
}

// List returns a page of tanks with derived occupancy
func (s *TankService) List(ctx context.Context, rc shared.RequestContext, filter TankListFilter) ([]TankResponse, int64, error) {
	if err := rc.Validate(); err != nil {
		return nil, 0, err
	}
	if err := validateRequest(filter); err != nil {
		return nil, 0, err
	}
	f := buildFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir)
	f.Search = filter.Search
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}

	tanks, err := s.repos.TankRepo().FindAllForTenant(ctx, rc.TenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repos.TankRepo().CountForTenant(ctx, rc.TenantID, f)
	if err != nil {
		return nil, 0, err
	}
	ids := make([]uuid.UUID, len(tanks))
	for i := range tanks {
		ids[i] = tanks[i].ID
	}
	active, err := s.repos.LotRepo().FindActiveByTanks(ctx, rc.TenantID, ids)
	if err != nil {
		return nil, 0, err
	}
	out := make([]TankResponse, len(tanks))
	for i := range tanks {
		out[i] = ToTankResponse(&tanks[i], active[tanks[i].ID])
	}
	return out, total, nil
}

// Update changes tank metadata. Occupancy is never set here.
func (s *TankService) Update(ctx context.Context, rc shared.RequestContext, id uuid.UUID, req UpdateTankRequest) (*TankResponse, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	var resp TankResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		tank, err := repos.TankRepo().LockForUpdate(ctx, rc.TenantID, id)
		if err != nil {
			return tankLookupError(err, id)
		}
		if err := tank.Update(req.Name, req.Type, req.Capacity); err != nil {
			return err
		}
		if err := repos.TankRepo().Save(ctx, tank); err != nil {
			return err
		}
		active, err := repos.LotRepo().FindActiveByTank(ctx, rc.TenantID, id)
		if err != nil {
			return err
		}
		resp = ToTankResponse(tank, active)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Delete removes an empty tank
func (s *TankService) Delete(ctx context.Context, rc shared.RequestContext, id uuid.UUID) error {
	if err := rc.Validate(); err != nil {
		return err
	}
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.TankRepo().LockForUpdate(ctx, rc.TenantID, id); err != nil {
			return tankLookupError(err, id)
		}
		active, err := repos.LotRepo().FindActiveByTank(ctx, rc.TenantID, id)
		if err != nil {
			return err
		}
		if active != nil {
			return shared.NewConflictError("TANK_OCCUPIED",
				"Tank holds active lot "+active.ID.String()+" and cannot be deleted")
		}
		return repos.TankRepo().DeleteForTenant(ctx, rc.TenantID, id)
	})
}

// GetActiveLot returns the tank's active lot, or nil when the tank is empty
func (s *TankService) GetActiveLot(ctx context.Context, rc shared.RequestContext, id uuid.UUID) (*LotResponse, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	var resp *LotResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		lot, _, err := NewLotLedger().FindActiveLotForTank(ctx, repos, rc, id)
		if err != nil {
			return err
		}
		if lot != nil {
			r := ToLotResponse(lot)
			resp = &r
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
