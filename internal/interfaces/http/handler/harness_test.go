package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	farmapp "github.com/aquafarm/backend/internal/application/farm"
	"github.com/aquafarm/backend/internal/domain/shared"
	"github.com/aquafarm/backend/internal/infrastructure/auth"
	"github.com/aquafarm/backend/internal/infrastructure/config"
	"github.com/aquafarm/backend/internal/infrastructure/event"
	"github.com/aquafarm/backend/internal/infrastructure/persistence"
	"github.com/aquafarm/backend/internal/interfaces/http/dto"
	"github.com/aquafarm/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	engine   *gin.Engine
	verifier *auth.JWTVerifier
	tenantID uuid.UUID
	userID   uuid.UUID
	token    string
}

// newTestServer wires the real services over an in-memory sqlite database
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := persistence.Open(sqlite.Open(":memory:"))
	require.NoError(t, err)
	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate())

	repos := persistence.NewFarmRepositories(db.DB)
	scope := persistence.NewGormFarmTransactionScope(db.DB, persistence.DefaultRetryPolicy())
	activityRepo := persistence.NewGormActivityLogRepository(db.DB)

	bus := event.NewInMemoryEventBus(nil)
	bus.Subscribe(farmapp.NewActivityLogHandler(activityRepo, nil))

	tanks := farmapp.NewTankService(repos, scope)
	lots := farmapp.NewLotService(repos, scope)
	observations := farmapp.NewObservationService(repos, scope)
	intakes := farmapp.NewIntakeService(repos, scope)
	transfers := farmapp.NewTransferService(repos, scope)
	sales := farmapp.NewSaleService(repos, scope)
	for _, svc := range []interface{ SetEventPublisher(shared.EventPublisher) }{lots, observations, intakes, transfers, sales} {
		svc.SetEventPublisher(bus)
	}

	verifier := auth.NewJWTVerifier(config.JWTConfig{Secret: "handler-test-secret-0123456789abcdef"})
	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.GET("/health", NewHealthHandler(db).Check)
	api := engine.Group("/api/v1", middleware.JWTAuth(middleware.JWTConfig{Verifier: verifier}))
	NewTankHandler(tanks).RegisterRoutes(api)
	NewLotHandler(lots, observations).RegisterRoutes(api)
	NewMovementHandler(intakes, transfers, sales).RegisterRoutes(api)
	NewActivityHandler(farmapp.NewActivityService(activityRepo)).RegisterRoutes(api)

	s := &testServer{engine: engine, verifier: verifier, tenantID: uuid.New(), userID: uuid.New()}
	s.token = s.tokenFor(t, s.tenantID, s.userID)
	return s
}

func (s *testServer) tokenFor(t *testing.T, tenantID, userID uuid.UUID) string {
	t.Helper()
	token, err := s.verifier.IssueToken(auth.TokenInput{TenantID: tenantID, UserID: userID, Username: "joana"})
	require.NoError(t, err)
	return token
}

// do sends a request as the server's default tenant
func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return s.doAs(t, s.token, method, path, body)
}

func (s *testServer) doAs(t *testing.T, token, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

type envelope[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data"`
	Error   *dto.ErrorInfo `json:"error"`
	Meta    *dto.Meta      `json:"meta"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder, wantStatus int) envelope[T] {
	t.Helper()
	require.Equal(t, wantStatus, w.Code, w.Body.String())
	var env envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func (s *testServer) createTank(t *testing.T, name string) uuid.UUID {
	t.Helper()
	env := decode[farmapp.TankResponse](t, s.do(t, http.MethodPost, "/api/v1/tanks",
		gin.H{"name": name, "type": "Viveiro", "capacity": "500"}), http.StatusCreated)
	return env.Data.ID
}

// stock records an intake of qty fish into tankID and returns the new lot
func (s *testServer) stock(t *testing.T, tankID uuid.UUID, qty int64) farmapp.LotResponse {
	t.Helper()
	env := decode[farmapp.IntakeResponse](t, s.do(t, http.MethodPost, "/api/v1/intakes", gin.H{
		"invoice_number": "NF-" + uuid.NewString()[:8],
		"supplier":       "Piscicultura Norte",
		"date":           "2024-03-15",
		"total_value":    "1500.00",
		"placements": []gin.H{
			{"tank_id": tankID, "species": "Tilápia", "quantity": qty, "avg_weight_g": "5"},
		},
	}), http.StatusCreated)
	require.Len(t, env.Data.Placements, 1)
	return env.Data.Placements[0].Lot
}
