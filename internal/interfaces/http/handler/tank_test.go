package handler

import (
	"net/http"
	"testing"

	farmapp "github.com/aquafarm/backend/internal/application/farm"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTankHandler_Lifecycle(t *testing.T) {
	s := newTestServer(t)

	created := decode[farmapp.TankResponse](t, s.do(t, http.MethodPost, "/api/v1/tanks",
		gin.H{"name": "Viveiro 01", "type": "Viveiro", "capacity": "800"}), http.StatusCreated)
	require.True(t, created.Success)
	assert.Equal(t, "Viveiro 01", created.Data.Name)
	assert.Equal(t, s.tenantID, created.Data.TenantID)
	assert.False(t, created.Data.Occupied)
	id := created.Data.ID

	got := decode[farmapp.TankResponse](t, s.do(t, http.MethodGet, "/api/v1/tanks/"+id.String(), nil), http.StatusOK)
	assert.Equal(t, id, got.Data.ID)

	updated := decode[farmapp.TankResponse](t, s.do(t, http.MethodPut, "/api/v1/tanks/"+id.String(),
		gin.H{"name": "Viveiro 1A", "type": "Rede", "capacity": "900"}), http.StatusOK)
	assert.Equal(t, "Viveiro 1A", updated.Data.Name)
	assert.Equal(t, "Rede", updated.Data.Type)

	w := s.do(t, http.MethodDelete, "/api/v1/tanks/"+id.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	missing := decode[any](t, s.do(t, http.MethodGet, "/api/v1/tanks/"+id.String(), nil), http.StatusNotFound)
	require.NotNil(t, missing.Error)
	assert.Equal(t, "TANK_NOT_FOUND", missing.Error.Code)
	assert.Equal(t, "Tanque não encontrado", missing.Error.Message)
}

func TestTankHandler_ListDerivesOccupancy(t *testing.T) {
	s := newTestServer(t)
	occupied := s.createTank(t, "T1")
	s.createTank(t, "T2")
	lot := s.stock(t, occupied, 100)

	all := decode[[]farmapp.TankResponse](t, s.do(t, http.MethodGet, "/api/v1/tanks", nil), http.StatusOK)
	require.NotNil(t, all.Meta)
	assert.Equal(t, int64(2), all.Meta.Total)
	assert.Equal(t, 1, all.Meta.Page)
	assert.Equal(t, 20, all.Meta.PageSize)

	busy := decode[[]farmapp.TankResponse](t, s.do(t, http.MethodGet, "/api/v1/tanks?status=Ocupado", nil), http.StatusOK)
	require.Len(t, busy.Data, 1)
	assert.Equal(t, occupied, busy.Data[0].ID)
	require.NotNil(t, busy.Data[0].ActiveLotID)
	assert.Equal(t, lot.ID, *busy.Data[0].ActiveLotID)

	bad := decode[any](t, s.do(t, http.MethodGet, "/api/v1/tanks?status=Cheio", nil), http.StatusBadRequest)
	assert.Equal(t, "ERR_BAD_REQUEST", bad.Error.Code)
}

func TestTankHandler_ActiveLot(t *testing.T) {
	s := newTestServer(t)
	tankID := s.createTank(t, "T1")

	empty := decode[*farmapp.LotResponse](t, s.do(t, http.MethodGet, "/api/v1/tanks/"+tankID.String()+"/active-lot", nil), http.StatusOK)
	assert.True(t, empty.Success)
	assert.Nil(t, empty.Data)

	lot := s.stock(t, tankID, 250)
	active := decode[*farmapp.LotResponse](t, s.do(t, http.MethodGet, "/api/v1/tanks/"+tankID.String()+"/active-lot", nil), http.StatusOK)
	require.NotNil(t, active.Data)
	assert.Equal(t, lot.ID, active.Data.ID)
	assert.Equal(t, int64(250), active.Data.CurrentQuantity)
}

func TestTankHandler_DeleteOccupiedConflicts(t *testing.T) {
	s := newTestServer(t)
	tankID := s.createTank(t, "T1")
	s.stock(t, tankID, 10)

	env := decode[any](t, s.do(t, http.MethodDelete, "/api/v1/tanks/"+tankID.String(), nil), http.StatusConflict)
	assert.Equal(t, "TANK_OCCUPIED", env.Error.Code)
	assert.NotEmpty(t, env.Error.Details)
	assert.False(t, env.Error.Retryable)
}

func TestTankHandler_RequestErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"malformed id", http.MethodGet, "/api/v1/tanks/nope", nil, http.StatusBadRequest, "ERR_INVALID_ID"},
		{"missing name", http.MethodPost, "/api/v1/tanks", gin.H{"type": "Viveiro"}, http.StatusBadRequest, "ERR_BAD_REQUEST"},
		{"empty body", http.MethodPost, "/api/v1/tanks", nil, http.StatusBadRequest, "ERR_INVALID_JSON"},
		{"negative capacity", http.MethodPost, "/api/v1/tanks", gin.H{"name": "T", "capacity": "-1"}, http.StatusBadRequest, "INVALID_CAPACITY"},
		{"unknown tank", http.MethodGet, "/api/v1/tanks/" + uuid.NewString(), nil, http.StatusNotFound, "TANK_NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := decode[any](t, s.do(t, tt.method, tt.path, tt.body), tt.status)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
			assert.NotEmpty(t, env.Error.RequestID)
		})
	}
}

func TestTankHandler_TenantIsolation(t *testing.T) {
	s := newTestServer(t)
	tankID := s.createTank(t, "T1")
	other := s.tokenFor(t, uuid.New(), uuid.New())

	decode[any](t, s.doAs(t, other, http.MethodGet, "/api/v1/tanks/"+tankID.String(), nil), http.StatusNotFound)
	list := decode[[]farmapp.TankResponse](t, s.doAs(t, other, http.MethodGet, "/api/v1/tanks", nil), http.StatusOK)
	assert.Empty(t, list.Data)
}

func TestTankHandler_RequiresToken(t *testing.T) {
	s := newTestServer(t)

	env := decode[any](t, s.doAs(t, "", http.MethodGet, "/api/v1/tanks", nil), http.StatusUnauthorized)
	assert.Equal(t, "ERR_UNAUTHORIZED", env.Error.Code)
}
