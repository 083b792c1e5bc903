package persistence

import (
	"context"
	"time"

	"github.com/aquafarm/backend/internal/application/farm"
	domain "github.com/aquafarm/backend/internal/domain/farm"
	"github.com/aquafarm/backend/internal/domain/shared"
	"github.com/aquafarm/backend/internal/infrastructure/logger"
	"github.com/aquafarm/backend/internal/infrastructure/telemetry"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RetryPolicy bounds how a transaction is re-run after a transient failure.
type RetryPolicy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxElapsed      time.Duration
}

// DefaultRetryPolicy matches the farm config defaults.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     3,
		InitialInterval: 50 * time.Millisecond,
		MaxElapsed:      2 * time.Second,
	}
}

// TxObserver receives one observation per Execute call.
type TxObserver interface {
	RecordTransaction(ctx context.Context, outcome string, attempts int, d time.Duration)
}

// GormFarmTransactionScope runs farm units of work in a GORM transaction.
// A transient failure rolls back and re-runs the whole unit of work with
// exponential backoff; any other error is returned after the first attempt.
type GormFarmTransactionScope struct {
	db       *gorm.DB
	policy   RetryPolicy
	observer TxObserver
}

// NewGormFarmTransactionScope creates a new GormFarmTransactionScope.
func NewGormFarmTransactionScope(db *gorm.DB, policy RetryPolicy) *GormFarmTransactionScope {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	return &GormFarmTransactionScope{db: db, policy: policy}
}

// SetObserver sets the transaction metrics recorder.
func (s *GormFarmTransactionScope) SetObserver(o TxObserver) {
	s.observer = o
}

// Execute runs fn inside a transaction, retrying transient failures.
func (s *GormFarmTransactionScope) Execute(ctx context.Context, fn func(repos farm.TransactionalRepositories) error) error {
	ctx, span := telemetry.StartSpan(ctx, "farm.transaction")
	defer span.End()

	start := time.Now()
	attempts := 0

	operation := func() error {
		attempts++
		err := translateError(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(&gormFarmRepositories{tx: tx})
		}))
		if err != nil && !shared.IsTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		logger.L(ctx).Warn("Retrying farm transaction after transient failure",
			zap.Int("attempt", attempts),
			zap.Duration("backoff", wait),
			zap.Error(err),
		)
	}

	err := backoff.RetryNotify(operation, s.backOff(ctx), notify)

	telemetry.SetAttributes(span, telemetry.SpanAttrTxAttempts, attempts)
	outcome := "commit"
	if err != nil {
		outcome = "error"
		if kind, ok := shared.KindOf(err); ok {
			outcome = string(kind)
		}
		telemetry.SetAttributes(span, telemetry.SpanAttrErrorKind, outcome)
		telemetry.RecordError(span, err)
	}
	if s.observer != nil {
		s.observer.RecordTransaction(ctx, outcome, attempts, time.Since(start))
	}
	return err
}

func (s *GormFarmTransactionScope) backOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = s.policy.InitialInterval
	exp.MaxElapsedTime = s.policy.MaxElapsed
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(s.policy.MaxAttempts-1)), ctx)
}

// gormFarmRepositories scopes every repository to one transaction.
type gormFarmRepositories struct {
	tx *gorm.DB
}

func (r *gormFarmRepositories) TankRepo() domain.TankRepository {
	return NewGormTankRepository(r.tx)
}

func (r *gormFarmRepositories) LotRepo() domain.LotRepository {
	return NewGormLotRepository(r.tx)
}

func (r *gormFarmRepositories) IntakeBatchRepo() domain.IntakeBatchRepository {
	return NewGormIntakeBatchRepository(r.tx)
}

func (r *gormFarmRepositories) BiometryRepo() domain.BiometryRepository {
	return NewGormBiometryRepository(r.tx)
}

func (r *gormFarmRepositories) FeedRepo() domain.FeedRepository {
	return NewGormFeedRepository(r.tx)
}

var _ farm.TransactionScope = (*GormFarmTransactionScope)(nil)
var _ farm.TransactionalRepositories = (*gormFarmRepositories)(nil)

// NewFarmRepositories returns repositories bound to db outside any transaction,
// for read paths that need no unit of work.
func NewFarmRepositories(db *gorm.DB) farm.TransactionalRepositories {
	return &gormFarmRepositories{tx: db}
}
