package persistence

import (
	"context"
	"database/sql/driver"
	"errors"

	"github.com/aquafarm/backend/internal/domain/shared"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// SQLSTATE codes that indicate a retryable failure
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgQueryCanceled        = "57014"
	pgLockNotAvailable     = "55P03"
)

// translateError maps storage errors onto domain error kinds.
// Errors that already carry a kind pass through unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := shared.KindOf(err); ok {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.NewConflictError("DUPLICATE_KEY", "Record conflicts with existing data").WithCause(err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return shared.NewConflictError("RECORD_IN_USE", "Record is referenced by other data").WithCause(err)
	case isTransientStorageError(err):
		return shared.NewTransientError("Storage temporarily unavailable", err)
	}
	return err
}

// isTransientStorageError reports whether err is worth retrying on a fresh transaction
func isTransientStorageError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected, pgQueryCanceled, pgLockNotAvailable:
			return true
		}
		// class 08: connection exception
		return len(pgErr.Code) == 5 && pgErr.Code[:2] == "08"
	}
	var connErr *pgconn.ConnectError
	return errors.As(err, &connErr)
}
