package handler

import (
	"math"
	"net/http"
	"testing"

	farmapp "github.com/aquafarm/backend/internal/application/farm"
	"github.com/aquafarm/backend/internal/domain/farm"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intakeBody(tankID uuid.UUID, qty int64, policy string) gin.H {
	return gin.H{
		"invoice_number": "NF-1001",
		"supplier":       "Piscicultura Norte",
		"date":           "2024-03-15",
		"total_value":    "900.00",
		"placements": []gin.H{
			{"tank_id": tankID, "species": "Tilápia", "quantity": qty, "avg_weight_g": "5", "conflict_policy": policy},
		},
	}
}

func TestMovementHandler_IntakeAndLookup(t *testing.T) {
	s := newTestServer(t)
	tankID := s.createTank(t, "T1")

	env := decode[farmapp.IntakeResponse](t, s.do(t, http.MethodPost, "/api/v1/intakes", intakeBody(tankID, 100, "")), http.StatusCreated)
	require.Len(t, env.Data.Placements, 1)
	assert.Equal(t, "created", env.Data.Placements[0].Action)
	assert.Equal(t, int64(100), env.Data.Placements[0].Lot.CurrentQuantity)
	assert.Equal(t, farm.LotStatusActive, env.Data.Placements[0].Lot.Status)

	batch := decode[farmapp.IntakeBatchResponse](t, s.do(t, http.MethodGet, "/api/v1/intakes/"+env.Data.BatchID.String(), nil), http.StatusOK)
	assert.Equal(t, "NF-1001", batch.Data.InvoiceNumber)
	require.Len(t, batch.Data.Lots, 1)

	missing := decode[any](t, s.do(t, http.MethodGet, "/api/v1/intakes/"+uuid.NewString(), nil), http.StatusNotFound)
	assert.Equal(t, "INTAKE_NOT_FOUND", missing.Error.Code)
}

func TestMovementHandler_IntakeIntoOccupiedTank(t *testing.T) {
	s := newTestServer(t)
	tankID := s.createTank(t, "T1")
	s.stock(t, tankID, 100)

	conflict := decode[any](t, s.do(t, http.MethodPost, "/api/v1/intakes", intakeBody(tankID, 50, "")), http.StatusConflict)
	assert.Equal(t, "TANK_OCCUPIED", conflict.Error.Code)

	merged := decode[farmapp.IntakeResponse](t, s.do(t, http.MethodPost, "/api/v1/intakes", intakeBody(tankID, 50, "merge")), http.StatusCreated)
	assert.Equal(t, "merged", merged.Data.Placements[0].Action)
	assert.Equal(t, int64(150), merged.Data.Placements[0].Lot.CurrentQuantity)

	bad := decode[any](t, s.do(t, http.MethodPost, "/api/v1/intakes", intakeBody(tankID, 50, "overwrite")), http.StatusBadRequest)
	assert.Equal(t, "ERR_BAD_REQUEST", bad.Error.Code)
}

func TestMovementHandler_IntakeRejectsBadDate(t *testing.T) {
	s := newTestServer(t)
	body := intakeBody(s.createTank(t, "T1"), 10, "")
	body["date"] = "15/03/2024"

	env := decode[any](t, s.do(t, http.MethodPost, "/api/v1/intakes", body), http.StatusBadRequest)
	assert.Equal(t, "ERR_BAD_REQUEST", env.Error.Code)
	assert.Contains(t, env.Error.Details, "invalid date")
}

func TestMovementHandler_Transfer(t *testing.T) {
	s := newTestServer(t)
	origin := s.stock(t, s.createTank(t, "T1"), 100)
	destTank := s.createTank(t, "T2")

	env := decode[farmapp.TransferResponse](t, s.do(t, http.MethodPost, "/api/v1/transfers", gin.H{
		"origin_lot_id": origin.ID,
		"destinations":  []gin.H{{"tank_id": destTank, "quantity": 40, "avg_weight_g": "6"}},
		"date":          "2024-04-01",
		"observations":  "Repicagem",
	}), http.StatusCreated)
	assert.Equal(t, int64(40), env.Data.Transferred)
	assert.Equal(t, int64(60), env.Data.Remaining)
	assert.Equal(t, int64(60), env.Data.Origin.CurrentQuantity)
	require.Len(t, env.Data.Destinations, 1)
	assert.Equal(t, destTank, env.Data.Destinations[0].TankID)

	tooMany := decode[any](t, s.do(t, http.MethodPost, "/api/v1/transfers", gin.H{
		"origin_lot_id": origin.ID,
		"destinations":  []gin.H{{"tank_id": s.createTank(t, "T3"), "quantity": 500, "avg_weight_g": "6"}},
	}), http.StatusBadRequest)
	assert.Equal(t, "TRANSFER_EXCEEDS_STOCK", tooMany.Error.Code)

	huge := decode[any](t, s.do(t, http.MethodPost, "/api/v1/transfers", gin.H{
		"origin_lot_id": origin.ID,
		"destinations": []gin.H{
			{"tank_id": s.createTank(t, "T4"), "quantity": int64(math.MaxInt64), "avg_weight_g": "6"},
			{"tank_id": s.createTank(t, "T5"), "quantity": int64(math.MaxInt64), "avg_weight_g": "6"},
		},
	}), http.StatusBadRequest)
	assert.Equal(t, "ERR_BAD_REQUEST", huge.Error.Code)
	stored := decode[farmapp.LotResponse](t, s.do(t, http.MethodGet, "/api/v1/lots/"+origin.ID.String(), nil), http.StatusOK)
	assert.Equal(t, int64(60), stored.Data.CurrentQuantity)
}

func TestMovementHandler_Sale(t *testing.T) {
	s := newTestServer(t)
	lot := s.stock(t, s.createTank(t, "T1"), 100)

	env := decode[farmapp.SaleResponse](t, s.do(t, http.MethodPost, "/api/v1/sales", gin.H{
		"items": []gin.H{{"lot_id": lot.ID, "kg_sold": "1", "weight_at_sale_g": "500"}},
	}), http.StatusCreated)
	require.Len(t, env.Data.Items, 1)
	assert.Equal(t, int64(2), env.Data.Items[0].FishCount)
	assert.Equal(t, int64(98), env.Data.Items[0].Lot.CurrentQuantity)

	short := decode[any](t, s.do(t, http.MethodPost, "/api/v1/sales", gin.H{
		"items": []gin.H{{"lot_id": lot.ID, "kg_sold": "1000", "weight_at_sale_g": "500"}},
	}), http.StatusConflict)
	assert.Equal(t, "INSUFFICIENT_STOCK", short.Error.Code)

	empty := decode[any](t, s.do(t, http.MethodPost, "/api/v1/sales", gin.H{"items": []gin.H{}}), http.StatusBadRequest)
	assert.Equal(t, "ERR_BAD_REQUEST", empty.Error.Code)
}
