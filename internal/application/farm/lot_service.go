package farm

import (
	"context"
	"time"

	"github.com/aquafarm/backend/internal/domain/farm"
	"github.com/aquafarm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// LotService exposes lot queries and manual closure
type LotService struct {
	eventSupport
	repos  TransactionalRepositories
	scope  TransactionScope
	ledger *LotLedger
}

// NewLotService creates a new LotService
func NewLotService(repos TransactionalRepositories, scope TransactionScope) *LotService {
	return &LotService{
		repos:  repos,
		scope:  scope,
		ledger: NewLotLedger(),
	}
}

// GetByID returns a lot of the tenant
func (s *LotService) GetByID(ctx context.Context, rc shared.RequestContext, id uuid.UUID) (*LotResponse, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	lot, err := s.repos.LotRepo().FindByIDForTenant(ctx, rc.TenantID, id)
	if err != nil {
		return nil, lotLookupError(err, id)
	}
	resp := ToLotResponse(lot)
	return &resp, nil
}

// List returns a page of lots
func (s *LotService) List(ctx context.Context, rc shared.RequestContext, filter LotListFilter) ([]LotResponse, int64, error) {
	if err := rc.Validate(); err != nil {
		return nil, 0, err
	}
	if err := validateRequest(filter); err != nil {
		return nil, 0, err
	}
	f := buildFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir)
	if filter.Status != "" {
		status, err := farm.ParseLotStatus(filter.Status)
		if err != nil {
			return nil, 0, err
		}
		f.Filters["status"] = status.String()
	}
	if filter.TankID != nil {
		f.Filters["tank_id"] = *filter.TankID
	}
	if filter.Species != "" {
		f.Filters["species"] = farm.NormalizeSpecies(filter.Species)
	}

	lots, err := s.repos.LotRepo().FindAllForTenant(ctx, rc.TenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repos.LotRepo().CountForTenant(ctx, rc.TenantID, f)
	if err != nil {
		return nil, 0, err
	}
	return ToLotResponses(lots), total, nil
}

// Close moves a lot into a terminal status by hand, emptying its tank
func (s *LotService) Close(ctx context.Context, rc shared.RequestContext, id uuid.UUID, req CloseLotRequest) (*LotResponse, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	status, err := farm.ParseLotStatus(req.Status)
	if err != nil {
		return nil, err
	}
	exit := req.ExitDate
	if exit.IsZero() {
		exit = time.Now()
	}

	var resp LotResponse
	var events []shared.DomainEvent
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		collector := &eventCollector{}
		lot, err := s.ledger.CloseLot(ctx, repos, rc, id, status, exit, req.Notes)
		if err != nil {
			return err
		}
		collector.collect(lot)
		events = collector.events
		resp = ToLotResponse(lot)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events)
	return &resp, nil
}
