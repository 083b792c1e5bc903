package farm

import (
	"context"

	"github.com/aquafarm/backend/internal/domain/farm"
	"github.com/aquafarm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ObservationService records biometry samples and feeding events.
// A biometry sample re-anchors the lot's average weight; feedings have no effect on lot state.
type ObservationService struct {
	eventSupport
	repos  TransactionalRepositories
	scope  TransactionScope
	ledger *LotLedger
}

// NewObservationService creates a new ObservationService
func NewObservationService(repos TransactionalRepositories, scope TransactionScope) *ObservationService {
	return &ObservationService{
		repos:  repos,
		scope:  scope,
		ledger: NewLotLedger(),
	}
}

// RecordBiometry stores the sample and makes its weight the lot's current average weight
func (s *ObservationService) RecordBiometry(ctx context.Context, rc shared.RequestContext, lotID uuid.UUID, req BiometryRequest) (*BiometryResponse, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := requirePositive("AvgWeightG", req.AvgWeightG); err != nil {
		return nil, err
	}

	var resp *BiometryResponse
	var events []shared.DomainEvent
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		collector := &eventCollector{}

		lot, _, err := s.ledger.lockLot(ctx, repos, rc, lotID)
		if err != nil {
			return err
		}
		if err := requireActive(lot); err != nil {
			return err
		}
		record, err := farm.NewBiometryRecord(rc.TenantID, lot.ID, req.AvgWeightG, req.SampleSize, req.Notes, req.MeasuredAt)
		if err != nil {
			return err
		}
		if err := repos.BiometryRepo().Save(ctx, record); err != nil {
			return err
		}
		weight := record.AvgWeightG
		if err := lot.MutateQuantityAndWeight(lot.CurrentQuantity, &weight, "biometry"); err != nil {
			return err
		}
		if err := repos.LotRepo().Save(ctx, lot); err != nil {
			return err
		}

		collector.collect(lot)
		collector.add(farm.NewBiometryRecordedEvent(record, farm.ActorFrom(rc)))
		events = collector.events
		r := ToBiometryResponse(record)
		resp = &r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	return resp, nil
}

// ListBiometries returns the samples of a lot, newest first
func (s *ObservationService) ListBiometries(ctx context.Context, rc shared.RequestContext, lotID uuid.UUID) ([]BiometryResponse, error) {
	if err := s.requireLot(ctx, rc, lotID); err != nil {
		return nil, err
	}
	records, err := s.repos.BiometryRepo().FindByLot(ctx, rc.TenantID, lotID)
	if err != nil {
		return nil, err
	}
	out := make([]BiometryResponse, len(records))
	for i := range records {
		out[i] = ToBiometryResponse(&records[i])
	}
	return out, nil
}

// RecordFeeding stores a feeding event. Historical lots accept feedings too.
func (s *ObservationService) RecordFeeding(ctx context.Context, rc shared.RequestContext, lotID uuid.UUID, req FeedRequest) (*FeedResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := requirePositive("QuantityKg", req.QuantityKg); err != nil {
		return nil, err
	}
	if err := requireNonNegative("Cost", req.Cost); err != nil {
		return nil, err
	}
	if err := s.requireLot(ctx, rc, lotID); err != nil {
		return nil, err
	}
	record, err := farm.NewFeedRecord(rc.TenantID, lotID, req.RationType, req.QuantityKg, req.Cost, req.FedAt)
	if err != nil {
		return nil, err
	}
	if err := s.repos.FeedRepo().Save(ctx, record); err != nil {
		return nil, err
	}
	resp := ToFeedResponse(record)
	return &resp, nil
}

// ListFeedings returns the feeding events of a lot, newest first
func (s *ObservationService) ListFeedings(ctx context.Context, rc shared.RequestContext, lotID uuid.UUID) ([]FeedResponse, error) {
	if err := s.requireLot(ctx, rc, lotID); err != nil {
		return nil, err
	}
	records, err := s.repos.FeedRepo().FindByLot(ctx, rc.TenantID, lotID)
	if err != nil {
		return nil, err
	}
	out := make([]FeedResponse, len(records))
	for i := range records {
		out[i] = ToFeedResponse(&records[i])
	}
	return out, nil
}

func (s *ObservationService) requireLot(ctx context.Context, rc shared.RequestContext, lotID uuid.UUID) error {
	if err := rc.Validate(); err != nil {
		return err
	}
	if _, err := s.repos.LotRepo().FindByIDForTenant(ctx, rc.TenantID, lotID); err != nil {
		return lotLookupError(err, lotID)
	}
	return nil
}
