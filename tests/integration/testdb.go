// Package integration runs the farm services against a real PostgreSQL
// started with testcontainers and migrated with the embedded SQL files.
package integration

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/aquafarm/backend/internal/infrastructure/migration"
	"github.com/aquafarm/backend/internal/infrastructure/persistence"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	// Shared container for all tests in the package
	sharedContainer    testcontainers.Container
	sharedContainerMu  sync.Mutex
	sharedContainerDSN string
)

// TestDB is a migrated database handle for one test
type TestDB struct {
	DB    *gorm.DB
	SqlDB *sql.DB
	DSN   string
	t     *testing.T
}

// NewSharedTestDB connects to the package's shared PostgreSQL container,
// starting and migrating it on first use. Tests isolate themselves by tenant.
func NewSharedTestDB(t *testing.T) *TestDB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	sharedContainerMu.Lock()
	defer sharedContainerMu.Unlock()

	ctx := context.Background()
	if sharedContainer == nil {
		container, err := tcpostgres.Run(ctx,
			"postgres:16-alpine",
			tcpostgres.WithDatabase("aquafarm_test"),
			tcpostgres.WithUsername("postgres"),
			tcpostgres.WithPassword("postgres"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second)),
		)
		require.NoError(t, err, "Failed to start PostgreSQL container")

		dsn, err := container.ConnectionString(ctx, "sslmode=disable")
		require.NoError(t, err, "Failed to get connection string")

		sqlDB, err := sql.Open("postgres", dsn)
		require.NoError(t, err)
		m, err := migration.New(sqlDB, nil)
		require.NoError(t, err, "Failed to create migrator")
		require.NoError(t, m.Up(), "Failed to run migrations")
		_ = sqlDB.Close()

		sharedContainer = container
		sharedContainerDSN = dsn
	}

	db, err := persistence.Open(gormpostgres.Open(sharedContainerDSN))
	require.NoError(t, err, "Failed to connect to database")
	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return &TestDB{DB: db.DB, SqlDB: sqlDB, DSN: sharedContainerDSN, t: t}
}

// CleanupSharedContainer terminates the shared container. Call it from TestMain.
func CleanupSharedContainer() {
	sharedContainerMu.Lock()
	defer sharedContainerMu.Unlock()

	if sharedContainer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = sharedContainer.Terminate(ctx)
		sharedContainer = nil
		sharedContainerDSN = ""
	}
}
