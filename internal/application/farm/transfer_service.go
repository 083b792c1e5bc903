package farm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aquafarm/backend/internal/domain/farm"
	"github.com/aquafarm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TransferService moves fish from one active lot into other tanks (manejo)
type TransferService struct {
	eventSupport
	repos  TransactionalRepositories
	scope  TransactionScope
	ledger *LotLedger
}

// NewTransferService creates a new TransferService
func NewTransferService(repos TransactionalRepositories, scope TransactionScope) *TransferService {
	return &TransferService{
		repos:  repos,
		scope:  scope,
		ledger: NewLotLedger(),
	}
}

// Transfer applies a manejo in one transaction.
//
// The origin ends in one of three states:
//   - zeroOutOrigin set: Finalizado com Perda, the untransferred remainder recorded as loss
//   - nothing remains: Transferido
//   - otherwise: still Ativo holding the remainder
//
// Each destination tank receives a new lot, or merges into the lot it already holds.
func (s *TransferService) Transfer(ctx context.Context, rc shared.RequestContext, req TransferRequest) (*TransferResponse, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	var transferred int64
	tankIDs := make([]uuid.UUID, 0, len(req.Destinations)+1)
	for i, d := range req.Destinations {
		if err := requirePositive(fmt.Sprintf("Destinations[%d].AvgWeightG", i), d.AvgWeightG); err != nil {
			return nil, err
		}
		var err error
		if transferred, err = addFishCount(fmt.Sprintf("Destinations[%d].Quantity", i), transferred, d.Quantity, farm.MaxLotQuantity); err != nil {
			return nil, err
		}
		tankIDs = append(tankIDs, d.TankID)
	}
	date := req.Date
	if date.IsZero() {
		date = time.Now()
	}

	var resp *TransferResponse
	var events []shared.DomainEvent
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		collector := &eventCollector{}

		unlocked, err := repos.LotRepo().FindByIDForTenant(ctx, rc.TenantID, req.OriginLotID)
		if err != nil {
			return lotLookupError(err, req.OriginLotID)
		}
		for _, d := range req.Destinations {
			if d.TankID == unlocked.TankID {
				return shared.NewValidationError("SAME_TANK_TRANSFER",
					"Destination tank must differ from the origin lot's tank")
			}
		}
		tanks, err := lockTanks(ctx, repos, rc.TenantID, append(tankIDs, unlocked.TankID))
		if err != nil {
			return err
		}
		origin, err := repos.LotRepo().FindByIDForUpdate(ctx, rc.TenantID, req.OriginLotID)
		if err != nil {
			return lotLookupError(err, req.OriginLotID)
		}
		if err := requireActive(origin); err != nil {
			return err
		}

		before := origin.CurrentQuantity
		remaining := before - transferred
		if remaining < 0 {
			return shared.NewValidationError("TRANSFER_EXCEEDS_STOCK",
				fmt.Sprintf("Destination total %d exceeds origin stock %d", transferred, before))
		}

		var loss int64
		originTank := tanks[origin.TankID]
		switch {
		case req.ZeroOutOrigin:
			loss = remaining
			note := transferNote(date, req.Observations, transferred, &loss)
			if err := s.ledger.closeLocked(ctx, repos, origin, originTank, farm.LotStatusClosedWithLoss, date, note); err != nil {
				return err
			}
			remaining = 0
		case remaining == 0:
			note := transferNote(date, req.Observations, transferred, nil)
			if err := s.ledger.closeLocked(ctx, repos, origin, originTank, farm.LotStatusTransferred, date, note); err != nil {
				return err
			}
		default:
			if err := origin.MutateQuantityAndWeight(remaining, nil, "transfer out"); err != nil {
				return err
			}
			origin.AppendNotes(transferNote(date, req.Observations, transferred, nil))
			if err := repos.LotRepo().Save(ctx, origin); err != nil {
				return err
			}
		}
		collector.collect(origin)

		originID := origin.ID
		destinations := make([]LotResponse, 0, len(req.Destinations))
		for _, d := range req.Destinations {
			tank := tanks[d.TankID]
			active, err := repos.LotRepo().FindActiveByTank(ctx, rc.TenantID, tank.ID)
			if err != nil {
				return err
			}
			var lot *farm.Lot
			if active == nil {
				lot, err = s.ledger.stockLot(ctx, repos, rc, tank, CreateLotParams{
					TankID:      tank.ID,
					Species:     origin.Species,
					Quantity:    d.Quantity,
					AvgWeightG:  d.AvgWeightG,
					EntryDate:   date,
					OriginLotID: &originID,
				})
				if err != nil {
					return err
				}
			} else {
				lot, err = repos.LotRepo().FindByIDForUpdate(ctx, rc.TenantID, active.ID)
				if err != nil {
					return lotLookupError(err, active.ID)
				}
				if err := lot.Merge(origin.Species, d.Quantity, d.AvgWeightG, "transfer in from "+originID.String()); err != nil {
					return err
				}
				if err := repos.LotRepo().Save(ctx, lot); err != nil {
					return err
				}
			}
			collector.collect(lot)
			destinations = append(destinations, ToLotResponse(lot))
		}

		if transferred+remaining+loss != before {
			return shared.NewInvariantViolation("QUANTITY_NOT_CONSERVED",
				fmt.Sprintf("transfer of lot %s moved %d, kept %d, lost %d out of %d", originID, transferred, remaining, loss, before))
		}

		collector.add(farm.NewTransferRecordedEvent(origin, farm.ActorFrom(rc), transferred, loss, len(req.Destinations)))
		events = collector.events
		resp = &TransferResponse{
			Origin:       ToLotResponse(origin),
			Transferred:  transferred,
			Remaining:    remaining,
			Loss:         loss,
			Destinations: destinations,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.meter().FishTransferred(ctx, rc.TenantID, resp.Transferred, resp.Loss)
	s.publish(ctx, events)
	return resp, nil
}

// transferNote renders the line appended to the origin lot's notes.
// A nil loss means the origin was not zeroed out.
func transferNote(date time.Time, observations string, transferred int64, loss *int64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Manejo em %s: %d peixes transferidos", date.Format("02/01/2006"), transferred)
	if loss != nil {
		fmt.Fprintf(&b, "; perda registrada de %d peixes", *loss)
	}
	if obs := strings.TrimSpace(observations); obs != "" {
		b.WriteString(". Obs: ")
		b.WriteString(obs)
	}
	return b.String()
}
