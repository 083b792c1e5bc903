package farm

import (
	"context"
	"sort"
	"sync"

	"github.com/aquafarm/backend/internal/domain/farm"
	"github.com/aquafarm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// memStore is an in-memory farm store. Its scope serializes units of work and
// restores a snapshot when fn fails, standing in for a row-locking database.
type memStore struct {
	txMu       sync.Mutex
	mu         sync.Mutex
	tanks      map[uuid.UUID]farm.Tank
	lots       map[uuid.UUID]farm.Lot
	batches    map[uuid.UUID]farm.IntakeBatch
	biometries map[uuid.UUID]farm.BiometryRecord
	feeds      map[uuid.UUID]farm.FeedRecord
	activities map[uuid.UUID]farm.ActivityLog
	locks      []uuid.UUID
	executions int
	failNext   error
}

func newMemStore() *memStore {
	return &memStore{
		tanks:      map[uuid.UUID]farm.Tank{},
		lots:       map[uuid.UUID]farm.Lot{},
		batches:    map[uuid.UUID]farm.IntakeBatch{},
		biometries: map[uuid.UUID]farm.BiometryRecord{},
		feeds:      map[uuid.UUID]farm.FeedRecord{},
		activities: map[uuid.UUID]farm.ActivityLog{},
	}
}

type memSnapshot struct {
	tanks      map[uuid.UUID]farm.Tank
	lots       map[uuid.UUID]farm.Lot
	batches    map[uuid.UUID]farm.IntakeBatch
	biometries map[uuid.UUID]farm.BiometryRecord
	feeds      map[uuid.UUID]farm.FeedRecord
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return memSnapshot{
		tanks:      copyMap(s.tanks),
		lots:       copyMap(s.lots),
		batches:    copyMap(s.batches),
		biometries: copyMap(s.biometries),
		feeds:      copyMap(s.feeds),
	}
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tanks = snap.tanks
	s.lots = snap.lots
	s.batches = snap.batches
	s.biometries = snap.biometries
	s.feeds = snap.feeds
}

// Execute implements TransactionScope
func (s *memStore) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.executions++
	snap := s.snapshot()
	if s.failNext != nil {
		err := s.failNext
		s.failNext = nil
		return err
	}
	if err := fn(s); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *memStore) TankRepo() farm.TankRepository { return memTankRepo{s} }
func (s *memStore) LotRepo() farm.LotRepository { return memLotRepo{s} }
func (s *memStore) IntakeBatchRepo() farm.IntakeBatchRepository { return memBatchRepo{s} }
func (s *memStore) BiometryRepo() farm.BiometryRepository { return memBiometryRepo{s} }
func (s *memStore) FeedRepo() farm.FeedRepository { return memFeedRepo{s} }
func (s *memStore) ActivityRepo() farm.ActivityLogRepository { return memActivityRepo{s} }
func (s *memStore) lockOrder() []uuid.UUID { return append([]uuid.UUID(nil), s.locks...) }

func (s *memStore) addTank(t *farm.Tank) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	cp.ClearDomainEvents()
	s.tanks[t.ID] = cp
}

func (s *memStore) addLot(l *farm.Lot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *l
	cp.ClearDomainEvents()
	s.lots[l.ID] = cp
}

func (s *memStore) tank(id uuid.UUID) farm.Tank {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tanks[id]
}

func (s *memStore) lot(id uuid.UUID) farm.Lot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lots[id]
}

func (s *memStore) activeLots(tenantID, tankID uuid.UUID) []farm.Lot {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []farm.Lot
	for _, l := range s.lots {
		if l.TenantID == tenantID && l.TankID == tankID && l.Status == farm.LotStatusActive {
			out = append(out, l)
		}
	}
	return out
}

type memTankRepo struct{ s *memStore }

func (r memTankRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*farm.Tank, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tanks[id]
	if !ok || t.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return &t, nil
}

func (r memTankRepo) LockForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*farm.Tank, error) {
	t, err := r.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	r.s.locks = append(r.s.locks, id)
	r.s.mu.Unlock()
	return t, nil
}

func (r memTankRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, filter shared.Filter) ([]farm.Tank, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []farm.Tank
	for _, t := range r.s.tanks {
		if t.TenantID != tenantID {
			continue
		}
		if st, ok := filter.Filters["status"]; ok && string(t.Status) != st {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memTankRepo) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	all, _ := r.FindAllForTenant(ctx, tenantID, filter)
	return int64(len(all)), nil
}

func (r memTankRepo) Save(_ context.Context, t *farm.Tank) error {
	r.s.addTank(t)
	return nil
}

func (r memTankRepo) DeleteForTenant(_ context.Context, tenantID, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tanks[id]
	if !ok || t.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.s.tanks, id)
	return nil
}

type memLotRepo struct{ s *memStore }

func (r memLotRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*farm.Lot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.lots[id]
	if !ok || l.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return &l, nil
}

func (r memLotRepo) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*farm.Lot, error) {
	return r.FindByIDForTenant(ctx, tenantID, id)
}

func (r memLotRepo) FindActiveByTank(_ context.Context, tenantID, tankID uuid.UUID) (*farm.Lot, error) {
	active := r.s.activeLots(tenantID, tankID)
	if len(active) == 0 {
		return nil, nil
	}
	return &active[0], nil
}

func (r memLotRepo) FindActiveByTanks(ctx context.Context, tenantID uuid.UUID, tankIDs []uuid.UUID) (map[uuid.UUID]*farm.Lot, error) {
	out := make(map[uuid.UUID]*farm.Lot)
	for _, id := range tankIDs {
		l, _ := r.FindActiveByTank(ctx, tenantID, id)
		if l != nil {
			out[id] = l
		}
	}
	return out, nil
}

func (r memLotRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, filter shared.Filter) ([]farm.Lot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []farm.Lot
	for _, l := range r.s.lots {
		if l.TenantID != tenantID {
			continue
		}
		if st, ok := filter.Filters["status"]; ok && string(l.Status) != st {
			continue
		}
		if tid, ok := filter.Filters["tank_id"]; ok && l.TankID != tid {
			continue
		}
		if bid, ok := filter.Filters["intake_batch_id"]; ok && (l.IntakeBatchID == nil || *l.IntakeBatchID != bid) {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r memLotRepo) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	all, _ := r.FindAllForTenant(ctx, tenantID, filter)
	return int64(len(all)), nil
}

func (r memLotRepo) Save(_ context.Context, l *farm.Lot) error {
	r.s.addLot(l)
	return nil
}

type memBatchRepo struct{ s *memStore }

func (r memBatchRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*farm.IntakeBatch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.batches[id]
	if !ok || b.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return &b, nil
}

func (r memBatchRepo) Save(_ context.Context, b *farm.IntakeBatch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *b
	cp.ClearDomainEvents()
	r.s.batches[b.ID] = cp
	return nil
}

type memBiometryRepo struct{ s *memStore }

func (r memBiometryRepo) FindByLot(_ context.Context, tenantID, lotID uuid.UUID) ([]farm.BiometryRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []farm.BiometryRecord
	for _, b := range r.s.biometries {
		if b.TenantID == tenantID && b.LotID == lotID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MeasuredAt.After(out[j].MeasuredAt) })
	return out, nil
}

func (r memBiometryRepo) Save(_ context.Context, rec *farm.BiometryRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.biometries[rec.ID] = *rec
	return nil
}

type memFeedRepo struct{ s *memStore }

func (r memFeedRepo) FindByLot(_ context.Context, tenantID, lotID uuid.UUID) ([]farm.FeedRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []farm.FeedRecord
	for _, f := range r.s.feeds {
		if f.TenantID == tenantID && f.LotID == lotID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FedAt.After(out[j].FedAt) })
	return out, nil
}

func (r memFeedRepo) Save(_ context.Context, rec *farm.FeedRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.feeds[rec.ID] = *rec
	return nil
}

type memActivityRepo struct{ s *memStore }

func (r memActivityRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, filter shared.Filter) ([]farm.ActivityLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []farm.ActivityLog
	for _, a := range r.s.activities {
		if a.TenantID != tenantID {
			continue
		}
		if uid, ok := filter.Filters["user_id"]; ok && a.UserID != uid {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memActivityRepo) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	all, _ := r.FindAllForTenant(ctx, tenantID, filter)
	return int64(len(all)), nil
}

func (r memActivityRepo) Save(_ context.Context, a *farm.ActivityLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.activities[a.ID] = *a
	return nil
}

// recordingPublisher captures published events
type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) ofType(eventType string) []shared.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []shared.DomainEvent
	for _, e := range p.events {
		if e.EventType() == eventType {
			out = append(out, e)
		}
	}
	return out
}

var (
	_ TransactionScope          = (*memStore)(nil)
	_ TransactionalRepositories = (*memStore)(nil)
)
