package farm

import (
	"context"

	"github.com/aquafarm/backend/internal/domain/farm"
)

// TransactionScope provides transactional access to farm repositories.
// Every repository handed to fn shares one database transaction: it commits when fn
// returns nil and rolls back on any error or panic. Implementations may run fn more
// than once when the failure is transient, so fn must not keep state across calls.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all farm repositories within a transaction.
type TransactionalRepositories interface {
	TankRepo() farm.TankRepository
	LotRepo() farm.LotRepository
	IntakeBatchRepo() farm.IntakeBatchRepository
	BiometryRepo() farm.BiometryRepository
	FeedRepo() farm.FeedRepository
}

// NoOpTransactionScope runs fn directly against the given repositories.
// Useful for tests that do not need rollback semantics.
type NoOpTransactionScope struct {
	tankRepo     farm.TankRepository
	lotRepo      farm.LotRepository
	batchRepo    farm.IntakeBatchRepository
	biometryRepo farm.BiometryRepository
	feedRepo     farm.FeedRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	tankRepo farm.TankRepository,
	lotRepo farm.LotRepository,
	batchRepo farm.IntakeBatchRepository,
	biometryRepo farm.BiometryRepository,
	feedRepo farm.FeedRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		tankRepo:     tankRepo,
		lotRepo:      lotRepo,
		batchRepo:    batchRepo,
		biometryRepo: biometryRepo,
		feedRepo:     feedRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// TankRepo returns the tank repository.
func (s *NoOpTransactionScope) TankRepo() farm.TankRepository { return s.tankRepo }

// LotRepo returns the lot repository.
func (s *NoOpTransactionScope) LotRepo() farm.LotRepository { return s.lotRepo }

// IntakeBatchRepo returns the intake batch repository.
func (s *NoOpTransactionScope) IntakeBatchRepo() farm.IntakeBatchRepository { return s.batchRepo }

// BiometryRepo returns the biometry repository.
func (s *NoOpTransactionScope) BiometryRepo() farm.BiometryRepository { return s.biometryRepo }

// FeedRepo returns the feed repository.
func (s *NoOpTransactionScope) FeedRepo() farm.FeedRepository { return s.feedRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
