package farm

import (
	"context"
	"fmt"
	"math"

	"github.com/aquafarm/backend/internal/domain/farm"
	"github.com/aquafarm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// IntakeService records fish arrivals: one invoice header plus lot placements, applied atomically
type IntakeService struct {
	eventSupport
	repos  TransactionalRepositories
	scope  TransactionScope
	ledger *LotLedger
}

// NewIntakeService creates a new IntakeService.
// repos serves reads outside a transaction; scope runs every write.
func NewIntakeService(repos TransactionalRepositories, scope TransactionScope) *IntakeService {
	return &IntakeService{
		repos:  repos,
		scope:  scope,
		ledger: NewLotLedger(),
	}
}

type resolvedPlacement struct {
	IntakePlacement
	policy farm.ConflictPolicy
}

// RecordIntake creates the intake batch and resolves every placement against its tank.
// Any failing placement aborts the whole batch.
func (s *IntakeService) RecordIntake(ctx context.Context, rc shared.RequestContext, req IntakeRequest) (*IntakeResponse, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	placements := make([]resolvedPlacement, len(req.Placements))
	tankIDs := make([]uuid.UUID, len(req.Placements))
	var totalFish int64
	for i, p := range req.Placements {
		if err := requirePositive(fmt.Sprintf("Placements[%d].AvgWeightG", i), p.AvgWeightG); err != nil {
			return nil, err
		}
		var policy farm.ConflictPolicy
		if p.ConflictPolicy != "" {
			parsed, err := farm.ParseConflictPolicy(p.ConflictPolicy)
			if err != nil {
				return nil, err
			}
			policy = parsed
		}
		placements[i] = resolvedPlacement{IntakePlacement: p, policy: policy}
		tankIDs[i] = p.TankID
		var err error
		if totalFish, err = addFishCount(fmt.Sprintf("Placements[%d].Quantity", i), totalFish, p.Quantity, math.MaxInt64); err != nil {
			return nil, err
		}
	}

	var resp *IntakeResponse
	var events []shared.DomainEvent
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		collector := &eventCollector{}
		resp = nil

		batch, err := farm.NewIntakeBatch(rc.TenantID, req.InvoiceNumber, req.Supplier, req.Date, req.TotalValue, req.Notes)
		if err != nil {
			return err
		}
		if rc.UserID != uuid.Nil {
			batch.SetCreatedBy(rc.UserID)
		}
		if err := repos.IntakeBatchRepo().Save(ctx, batch); err != nil {
			return err
		}

		tanks, err := lockTanks(ctx, repos, rc.TenantID, tankIDs)
		if err != nil {
			return err
		}

		outcomes := make([]PlacementOutcome, 0, len(placements))
		for _, p := range placements {
			outcome, err := s.place(ctx, repos, rc, batch, tanks[p.TankID], p, collector)
			if err != nil {
				return err
			}
			outcomes = append(outcomes, *outcome)
		}

		collector.add(farm.NewIntakeRecordedEvent(batch, farm.ActorFrom(rc), len(placements), totalFish))
		collector.collect(batch)
		events = collector.events
		resp = &IntakeResponse{
			BatchID:       batch.ID,
			InvoiceNumber: batch.InvoiceNumber,
			Supplier:      batch.Supplier,
			Date:          batch.Date,
			TotalValue:    batch.TotalValue,
			Notes:         batch.Notes,
			Placements:    outcomes,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.meter().FishReceived(ctx, rc.TenantID, totalFish)
	s.publish(ctx, events)
	return resp, nil
}

func (s *IntakeService) place(ctx context.Context, repos TransactionalRepositories, rc shared.RequestContext, batch *farm.IntakeBatch, tank *farm.Tank, p resolvedPlacement, collector *eventCollector) (*PlacementOutcome, error) {
	active, err := repos.LotRepo().FindActiveByTank(ctx, rc.TenantID, tank.ID)
	if err != nil {
		return nil, err
	}
	batchID := batch.ID
	params := CreateLotParams{
		TankID:        tank.ID,
		Species:       p.Species,
		Quantity:      p.Quantity,
		AvgWeightG:    p.AvgWeightG,
		EntryDate:     batch.Date,
		IntakeBatchID: &batchID,
	}

	if active == nil {
		lot, err := s.ledger.stockLot(ctx, repos, rc, tank, params)
		if err != nil {
			return nil, err
		}
		collector.collect(lot)
		return &PlacementOutcome{TankID: tank.ID, Action: PlacementCreated, Lot: ToLotResponse(lot)}, nil
	}

	switch p.policy {
	case farm.ConflictPolicyReplace:
		archived, err := repos.LotRepo().FindByIDForUpdate(ctx, rc.TenantID, active.ID)
		if err != nil {
			return nil, lotLookupError(err, active.ID)
		}
		note := fmt.Sprintf("Arquivado pela entrada NF %s", batch.InvoiceNumber)
		if err := s.ledger.closeLocked(ctx, repos, archived, tank, farm.LotStatusArchived, batch.Date, note); err != nil {
			return nil, err
		}
		lot, err := s.ledger.stockLot(ctx, repos, rc, tank, params)
		if err != nil {
			return nil, err
		}
		collector.collect(archived, lot)
		archivedID := archived.ID
		return &PlacementOutcome{TankID: tank.ID, Action: PlacementReplaced, Lot: ToLotResponse(lot), ArchivedLotID: &archivedID}, nil

	case farm.ConflictPolicyMerge:
		lot, err := repos.LotRepo().FindByIDForUpdate(ctx, rc.TenantID, active.ID)
		if err != nil {
			return nil, lotLookupError(err, active.ID)
		}
		if err := lot.Merge(p.Species, p.Quantity, p.AvgWeightG, "intake "+batch.InvoiceNumber); err != nil {
			return nil, err
		}
		if err := repos.LotRepo().Save(ctx, lot); err != nil {
			return nil, err
		}
		collector.collect(lot)
		return &PlacementOutcome{TankID: tank.ID, Action: PlacementMerged, Lot: ToLotResponse(lot)}, nil

	default:
		return nil, shared.NewConflictError("TANK_OCCUPIED",
			fmt.Sprintf("Tank %s already holds active lot %s; choose merge or replace", tank.Name, active.ID))
	}
}

// GetIntakeBatch returns a batch with the lots it produced
func (s *IntakeService) GetIntakeBatch(ctx context.Context, rc shared.RequestContext, id uuid.UUID) (*IntakeBatchResponse, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	batch, err := s.repos.IntakeBatchRepo().FindByIDForTenant(ctx, rc.TenantID, id)
	if err != nil {
		if shared.IsKind(err, shared.KindNotFound) {
			return nil, shared.NewNotFoundError("INTAKE_NOT_FOUND", "Intake batch "+id.String()+" not found")
		}
		return nil, err
	}
	// zero page size lists every lot of the batch
	filter := shared.DefaultFilter()
	filter.Page, filter.PageSize = 0, 0
	filter.OrderDir = "asc"
	filter.Filters["intake_batch_id"] = batch.ID
	lots, err := s.repos.LotRepo().FindAllForTenant(ctx, rc.TenantID, filter)
	if err != nil {
		return nil, err
	}
	return &IntakeBatchResponse{
		ID:            batch.ID,
		InvoiceNumber: batch.InvoiceNumber,
		Supplier:      batch.Supplier,
		Date:          batch.Date,
		TotalValue:    batch.TotalValue,
		Notes:         batch.Notes,
		CreatedAt:     batch.CreatedAt,
		Lots:          ToLotResponses(lots),
	}, nil
}
