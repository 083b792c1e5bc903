package farm

import (
	"bytes"
	"context"
	"sort"

	"github.com/aquafarm/backend/internal/domain/farm"
	"github.com/aquafarm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Metrics records business counters for farm operations
type Metrics interface {
	FishReceived(ctx context.Context, tenantID uuid.UUID, fish int64)
	FishTransferred(ctx context.Context, tenantID uuid.UUID, fish, loss int64)
	FishSold(ctx context.Context, tenantID uuid.UUID, fish int64, kg decimal.Decimal)
}

type noopMetrics struct{}

func (noopMetrics) FishReceived(context.Context, uuid.UUID, int64) {}
func (noopMetrics) FishTransferred(context.Context, uuid.UUID, int64, int64) {}
func (noopMetrics) FishSold(context.Context, uuid.UUID, int64, decimal.Decimal) {}

// eventSupport is embedded by services that publish domain events after commit
type eventSupport struct {
	eventPublisher shared.EventPublisher
	metrics        Metrics
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *eventSupport) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetMetrics sets the business metrics recorder
func (s *eventSupport) SetMetrics(m Metrics) {
	s.metrics = m
}

func (s *eventSupport) meter() Metrics {
	if s.metrics == nil {
		return noopMetrics{}
	}
	return s.metrics
}

// publish hands committed events to the bus. Handler failures are logged by the bus, not returned.
func (s *eventSupport) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}

// eventCollector gathers aggregate events during a unit of work so they can be published after commit
type eventCollector struct {
	events []shared.DomainEvent
}

func (c *eventCollector) collect(aggregates ...shared.AggregateRoot) {
	for _, a := range aggregates {
		c.events = append(c.events, a.GetDomainEvents()...)
		a.ClearDomainEvents()
	}
}

func (c *eventCollector) add(events ...shared.DomainEvent) {
	c.events = append(c.events, events...)
}

// sortedUniqueIDs returns ids deduplicated and in byte order, the order tank locks are taken in
func sortedUniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i][:], out[j][:]) < 0
	})
	return out
}

// lockTanks row-locks every tank in a fixed order so concurrent operations touching
// overlapping tanks cannot deadlock each other
func lockTanks(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*farm.Tank, error) {
	tanks := make(map[uuid.UUID]*farm.Tank, len(ids))
	for _, id := range sortedUniqueIDs(ids) {
		tank, err := repos.TankRepo().LockForUpdate(ctx, tenantID, id)
		if err != nil {
			return nil, tankLookupError(err, id)
		}
		tanks[id] = tank
	}
	return tanks, nil
}

func tankLookupError(err error, id uuid.UUID) error {
	if shared.IsKind(err, shared.KindNotFound) {
		return shared.NewNotFoundError("TANK_NOT_FOUND", "Tank "+id.String()+" not found")
	}
	return err
}

func lotLookupError(err error, id uuid.UUID) error {
	if shared.IsKind(err, shared.KindNotFound) {
		return shared.NewNotFoundError("LOT_NOT_FOUND", "Lot "+id.String()+" not found")
	}
	return err
}

func buildFilter(page, pageSize int, orderBy, orderDir string) shared.Filter {
	f := shared.DefaultFilter()
	if page > 0 {
		f.Page = page
	}
	if pageSize > 0 {
		f.PageSize = pageSize
	}
	if pageSize > 100 {
		f.PageSize = 100
	}
	if orderBy != "" {
		f.OrderBy = orderBy
	}
	if orderDir != "" {
		f.OrderDir = orderDir
	}
	return f
}
