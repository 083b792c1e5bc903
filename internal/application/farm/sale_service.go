package farm

import (
	"context"
	"fmt"
	"time"

	"github.com/aquafarm/backend/internal/domain/farm"
	"github.com/aquafarm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var gramsPerKg = decimal.NewFromInt(1000)

// SaleService decrements lot stock for confirmed sale items
type SaleService struct {
	eventSupport
	repos  TransactionalRepositories
	scope  TransactionScope
	ledger *LotLedger
}

// NewSaleService creates a new SaleService
func NewSaleService(repos TransactionalRepositories, scope TransactionScope) *SaleService {
	return &SaleService{
		repos:  repos,
		scope:  scope,
		ledger: NewLotLedger(),
	}
}

var maxFishCount = decimal.NewFromInt(farm.MaxLotQuantity)

// FishCountForKg converts sold kilograms into a fish count, rounding half away from zero.
// Counts no lot could hold fail with INSUFFICIENT_STOCK.
func FishCountForKg(kgSold, weightAtSaleG decimal.Decimal) (int64, error) {
	count := kgSold.Mul(gramsPerKg).Div(weightAtSaleG).Round(0)
	if count.GreaterThan(maxFishCount) {
		return 0, shared.NewConflictError("INSUFFICIENT_STOCK",
			fmt.Sprintf("%s kg at %s g per fish is %s fish, more than a lot can hold", kgSold, weightAtSaleG, count))
	}
	return count.IntPart(), nil
}

// RecordSale applies every item of a sale in one transaction
func (s *SaleService) RecordSale(ctx context.Context, rc shared.RequestContext, req SaleRequest) (*SaleResponse, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	counts := make([]int64, len(req.Items))
	for i, item := range req.Items {
		if err := requirePositive(fmt.Sprintf("Items[%d].KgSold", i), item.KgSold); err != nil {
			return nil, err
		}
		if err := requirePositive(fmt.Sprintf("Items[%d].WeightAtSaleG", i), item.WeightAtSaleG); err != nil {
			return nil, err
		}
		count, err := FishCountForKg(item.KgSold, item.WeightAtSaleG)
		if err != nil {
			return nil, err
		}
		counts[i] = count
		if counts[i] <= 0 {
			return nil, shared.NewValidationError("SALE_TOO_SMALL",
				fmt.Sprintf("Items[%d]: %s kg at %s g per fish is less than one fish", i, item.KgSold, item.WeightAtSaleG))
		}
	}
	saleID := uuid.New()
	if req.SaleID != nil && *req.SaleID != uuid.Nil {
		saleID = *req.SaleID
	}

	var resp *SaleResponse
	var events []shared.DomainEvent
	var soldFish int64
	soldKg := decimal.Zero
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		collector := &eventCollector{}
		soldFish, soldKg = 0, decimal.Zero

		tankIDs := make([]uuid.UUID, 0, len(req.Items))
		for _, item := range req.Items {
			unlocked, err := repos.LotRepo().FindByIDForTenant(ctx, rc.TenantID, item.LotID)
			if err != nil {
				return lotLookupError(err, item.LotID)
			}
			tankIDs = append(tankIDs, unlocked.TankID)
		}
		tanks, err := lockTanks(ctx, repos, rc.TenantID, tankIDs)
		if err != nil {
			return err
		}

		outcomes := make([]SaleItemOutcome, 0, len(req.Items))
		for i, item := range req.Items {
			lot, err := s.sellItem(ctx, repos, rc, tanks, item, counts[i], saleID)
			if err != nil {
				return err
			}
			collector.collect(lot)
			soldFish += counts[i]
			soldKg = soldKg.Add(item.KgSold)
			outcomes = append(outcomes, SaleItemOutcome{
				LotID:     lot.ID,
				KgSold:    item.KgSold,
				FishCount: counts[i],
				Lot:       ToLotResponse(lot),
			})
		}

		collector.add(farm.NewSaleRecordedEvent(rc.TenantID, saleID, farm.ActorFrom(rc), len(req.Items), soldFish, soldKg))
		events = collector.events
		resp = &SaleResponse{SaleID: saleID, Items: outcomes}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.meter().FishSold(ctx, rc.TenantID, soldFish, soldKg)
	s.publish(ctx, events)
	return resp, nil
}

func (s *SaleService) sellItem(ctx context.Context, repos TransactionalRepositories, rc shared.RequestContext, tanks map[uuid.UUID]*farm.Tank, item SaleItem, fishCount int64, saleID uuid.UUID) (*farm.Lot, error) {
	lot, err := repos.LotRepo().FindByIDForUpdate(ctx, rc.TenantID, item.LotID)
	if err != nil {
		return nil, lotLookupError(err, item.LotID)
	}
	if err := requireActive(lot); err != nil {
		return nil, err
	}
	if fishCount > lot.CurrentQuantity {
		return nil, shared.NewConflictError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Lot %s holds %d fish, sale requires %d", lot.ID, lot.CurrentQuantity, fishCount))
	}

	weight := item.WeightAtSaleG
	reason := "sale " + saleID.String()
	newQuantity := lot.CurrentQuantity - fishCount
	if err := lot.MutateQuantityAndWeight(newQuantity, &weight, reason); err != nil {
		return nil, err
	}
	if newQuantity > 0 {
		if err := repos.LotRepo().Save(ctx, lot); err != nil {
			return nil, err
		}
		return lot, nil
	}
	if err := s.ledger.closeLocked(ctx, repos, lot, tanks[lot.TankID], farm.LotStatusSold, time.Now(), "Vendido na venda "+saleID.String()); err != nil {
		return nil, err
	}
	return lot, nil
}
