package persistence

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aquafarm/backend/internal/domain/farm"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newSQLiteDB opens a private in-memory database with the farm schema.
// One connection keeps every statement on the same in-memory database.
func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(sqlite.Open(":memory:"))
	require.NoError(t, err)
	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate())
	return db.DB
}

// newMockDB returns a postgres-dialect gorm handle backed by sqlmock.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	db, err := Open(postgres.New(postgres.Config{Conn: mockDB, DriverName: "postgres"}))
	require.NoError(t, err)
	return db.DB, mock
}

func mockSQLDB(t *testing.T, db *gorm.DB) *sql.DB {
	t.Helper()
	sqlDB, err := db.DB()
	require.NoError(t, err)
	return sqlDB
}

func seedTank(t *testing.T, db *gorm.DB, tenantID uuid.UUID, name string) *farm.Tank {
	t.Helper()
	tank, err := farm.NewTank(tenantID, name, "Viveiro", decimal.NewFromInt(500))
	require.NoError(t, err)
	require.NoError(t, NewGormTankRepository(db).Save(t.Context(), tank))
	return tank
}

func seedLot(t *testing.T, db *gorm.DB, tank *farm.Tank, species string, qty int64) *farm.Lot {
	t.Helper()
	lot, err := farm.NewLot(farm.NewLotParams{
		TenantID:   tank.TenantID,
		TankID:     tank.ID,
		Species:    species,
		Quantity:   qty,
		AvgWeightG: decimal.NewFromInt(25),
	})
	require.NoError(t, err)
	require.NoError(t, NewGormLotRepository(db).Save(t.Context(), lot))
	return lot
}
