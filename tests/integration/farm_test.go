package integration

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	farmapp "github.com/aquafarm/backend/internal/application/farm"
	"github.com/aquafarm/backend/internal/domain/farm"
	"github.com/aquafarm/backend/internal/domain/shared"
	"github.com/aquafarm/backend/internal/infrastructure/persistence"
	"github.com/aquafarm/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	code := m.Run()
	CleanupSharedContainer()
	os.Exit(code)
}

type farmEnv struct {
	ctx       context.Context
	rc        shared.RequestContext
	db        *TestDB
	tanks     *farmapp.TankService
	lots      *farmapp.LotService
	intakes   *farmapp.IntakeService
	transfers *farmapp.TransferService
	sales     *farmapp.SaleService
}

// newFarmEnv gives each test its own tenant on the shared database
func newFarmEnv(t *testing.T) *farmEnv {
	t.Helper()
	db := NewSharedTestDB(t)
	repos := persistence.NewFarmRepositories(db.DB)
	scope := persistence.NewGormFarmTransactionScope(db.DB, persistence.RetryPolicy{
		MaxAttempts:     5,
		InitialInterval: 5 * time.Millisecond,
		MaxElapsed:      5 * time.Second,
	})
	return &farmEnv{
		ctx:       context.Background(),
		rc:        testutil.NewRequestContext(t.Name()),
		db:        db,
		tanks:     farmapp.NewTankService(repos, scope),
		lots:      farmapp.NewLotService(repos, scope),
		intakes:   farmapp.NewIntakeService(repos, scope),
		transfers: farmapp.NewTransferService(repos, scope),
		sales:     farmapp.NewSaleService(repos, scope),
	}
}

func (e *farmEnv) newTank(t *testing.T, name string) uuid.UUID {
	t.Helper()
	resp, err := e.tanks.Create(e.ctx, e.rc, farmapp.CreateTankRequest{Name: name, Type: "Viveiro", Capacity: decimal.NewFromInt(1000)})
	require.NoError(t, err)
	return resp.ID
}

func (e *farmEnv) intake(tankID uuid.UUID, qty int64, policy string) (*farmapp.IntakeResponse, error) {
	return e.intakes.RecordIntake(e.ctx, e.rc, farmapp.IntakeRequest{
		InvoiceNumber: "NF-" + uuid.NewString()[:8],
		Supplier:      "Piscicultura Norte",
		Date:          time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		TotalValue:    decimal.NewFromInt(100),
		Placements: []farmapp.IntakePlacement{
			{TankID: tankID, Species: "Tilápia", Quantity: qty, AvgWeightG: decimal.NewFromInt(5), ConflictPolicy: policy},
		},
	})
}

func (e *farmEnv) activeLots(t *testing.T, tankID uuid.UUID) []farmapp.LotResponse {
	t.Helper()
	lots, _, err := e.lots.List(e.ctx, e.rc, farmapp.LotListFilter{TankID: &tankID, Status: string(farm.LotStatusActive)})
	require.NoError(t, err)
	return lots
}

func TestConcurrentIntakesIntoEmptyTank(t *testing.T) {
	e := newFarmEnv(t)
	tankID := e.newTank(t, "Viveiro 01")

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.intake(tankID, 100, "")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case shared.IsKind(err, shared.KindConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, conflicts)
	assert.Len(t, e.activeLots(t, tankID), 1)
}

func TestConcurrentMergesKeepEveryFish(t *testing.T) {
	e := newFarmEnv(t)
	tankID := e.newTank(t, "Viveiro 02")
	_, err := e.intake(tankID, 100, "")
	require.NoError(t, err)

	const workers = 6
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.intake(tankID, 10, "merge")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	active := e.activeLots(t, tankID)
	require.Len(t, active, 1)
	assert.Equal(t, int64(100+workers*10), active[0].CurrentQuantity)
}

func TestConcurrentSalesNeverOversell(t *testing.T) {
	e := newFarmEnv(t)
	resp, err := e.intake(e.newTank(t, "Viveiro 03"), 100, "")
	require.NoError(t, err)
	lotID := resp.Placements[0].Lot.ID

	// each sale takes 20 fish, so at most 5 of 8 can succeed
	const workers = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		sold int64
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := e.sales.RecordSale(e.ctx, e.rc, farmapp.SaleRequest{Items: []farmapp.SaleItem{
				{LotID: lotID, KgSold: decimal.NewFromInt(10), WeightAtSaleG: decimal.NewFromInt(500)},
			}})
			if err != nil {
				assert.True(t, shared.IsKind(err, shared.KindConflict), "unexpected error: %v", err)
				return
			}
			mu.Lock()
			sold += out.Items[0].FishCount
			mu.Unlock()
		}()
	}
	wg.Wait()

	lot, err := e.lots.GetByID(e.ctx, e.rc, lotID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), sold)
	assert.Equal(t, int64(0), lot.CurrentQuantity)
	assert.Equal(t, farm.LotStatusSold, lot.Status)
}

func TestTransferConservesFish(t *testing.T) {
	e := newFarmEnv(t)
	resp, err := e.intake(e.newTank(t, "Origem"), 100, "")
	require.NoError(t, err)
	origin := resp.Placements[0].Lot
	free := e.newTank(t, "Livre")
	busy := e.newTank(t, "Ocupado")
	_, err = e.intake(busy, 5, "")
	require.NoError(t, err)

	out, err := e.transfers.Transfer(e.ctx, e.rc, farmapp.TransferRequest{
		OriginLotID: origin.ID,
		Destinations: []farmapp.TransferDestination{
			{TankID: free, Quantity: 30, AvgWeightG: decimal.NewFromInt(6)},
			{TankID: busy, Quantity: 30, AvgWeightG: decimal.NewFromInt(6)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(40), out.Remaining)

	require.Len(t, e.activeLots(t, free), 1)
	merged := e.activeLots(t, busy)
	require.Len(t, merged, 1)
	assert.Equal(t, int64(35), merged[0].CurrentQuantity)
}

func TestFailedUnitOfWorkRollsBack(t *testing.T) {
	e := newFarmEnv(t)
	scope := persistence.NewGormFarmTransactionScope(e.db.DB, persistence.DefaultRetryPolicy())
	tank, err := farm.NewTank(e.rc.TenantID, "Descartado", "Viveiro", decimal.NewFromInt(10))
	require.NoError(t, err)

	boom := shared.NewValidationError("BOOM", "aborted after write")
	err = scope.Execute(e.ctx, func(repos farmapp.TransactionalRepositories) error {
		require.NoError(t, repos.TankRepo().Save(e.ctx, tank))
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = e.tanks.GetByID(e.ctx, e.rc, tank.ID)
	assert.True(t, shared.IsKind(err, shared.KindNotFound))
}

func TestActiveLotIndexRejectsSecondActiveLot(t *testing.T) {
	e := newFarmEnv(t)
	tankID := e.newTank(t, "Viveiro 04")
	_, err := e.intake(tankID, 50, "")
	require.NoError(t, err)

	lot, err := farm.NewLot(farm.NewLotParams{
		TenantID:   e.rc.TenantID,
		TankID:     tankID,
		Species:    "Tambaqui",
		Quantity:   10,
		AvgWeightG: decimal.NewFromInt(5),
	})
	require.NoError(t, err)
	err = persistence.NewGormLotRepository(e.db.DB).Save(e.ctx, lot)
	assert.True(t, shared.IsKind(err, shared.KindConflict), "got %v", err)
}

func TestTenantsAreIsolated(t *testing.T) {
	e := newFarmEnv(t)
	tankID := e.newTank(t, "Viveiro 05")

	other := *e
	other.rc = testutil.NewRequestContext(t.Name() + "/outra")
	_, err := other.tanks.GetByID(other.ctx, other.rc, tankID)
	assert.True(t, shared.IsKind(err, shared.KindNotFound))

	_, err = other.intake(tankID, 10, "")
	assert.True(t, shared.IsKind(err, shared.KindNotFound))
}
