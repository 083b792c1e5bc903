package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aquafarm/backend/internal/infrastructure/auth"
	"github.com/aquafarm/backend/internal/infrastructure/config"
	"github.com/aquafarm/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestVerifier() *auth.JWTVerifier {
	return auth.NewJWTVerifier(config.JWTConfig{
		Secret: "test-secret-key-at-least-32-chars",
		Issuer: "test-issuer",
	})
}

func newAuthRouter(v TokenVerifier) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), JWTAuth(JWTConfig{Verifier: v, SkipPaths: []string{"/health"}}))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/me", func(c *gin.Context) {
		rc, ok := GetRequestContext(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"tenant_id": rc.TenantID,
			"user_id":   rc.UserID,
			"user_name": rc.UserName,
			"ctx_key":   c.GetString(TenantIDKey),
		})
	})
	return router
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorInfo {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return *resp.Error
}

func TestJWTAuth_ValidToken(t *testing.T) {
	v := newTestVerifier()
	tenantID, userID := uuid.New(), uuid.New()
	token, err := v.IssueToken(auth.TokenInput{TenantID: tenantID, UserID: userID, Username: "maria"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	w := httptest.NewRecorder()
	newAuthRouter(v).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, tenantID.String(), body["tenant_id"])
	assert.Equal(t, userID.String(), body["user_id"])
	assert.Equal(t, "maria", body["user_name"])
	assert.Equal(t, tenantID.String(), body["ctx_key"])
}

func TestJWTAuth_Rejections(t *testing.T) {
	v := newTestVerifier()

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", dto.ErrCodeUnauthorized},
		{"wrong scheme", "Basic dXNlcjpwYXNz", dto.ErrCodeUnauthorized},
		{"empty bearer", "Bearer ", dto.ErrCodeUnauthorized},
		{"garbage token", "Bearer abc.def.ghi", dto.ErrCodeTokenInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(AuthHeaderKey, tt.header)
			}
			w := httptest.NewRecorder()
			newAuthRouter(v).ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			info := decodeError(t, w)
			assert.Equal(t, tt.code, info.Code)
			assert.NotEmpty(t, info.RequestID)
		})
	}
}

func TestJWTAuth_SkipPaths(t *testing.T) {
	w := httptest.NewRecorder()
	newAuthRouter(newTestVerifier()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

type stubVerifier struct {
	claims *auth.Claims
	err    error
}

func (s stubVerifier) Verify(string) (*auth.Claims, error) { return s.claims, s.err }

func TestJWTAuth_ExpiredToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(AuthHeaderKey, "Bearer whatever")
	req.Header.Set("Accept-Language", "en")
	w := httptest.NewRecorder()
	newAuthRouter(stubVerifier{err: auth.ErrExpiredToken}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	info := decodeError(t, w)
	assert.Equal(t, dto.ErrCodeTokenExpired, info.Code)
	assert.Equal(t, "Token has expired", info.Message)
}

func TestJWTAuth_MalformedTenantClaim(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(AuthHeaderKey, "Bearer whatever")
	w := httptest.NewRecorder()
	newAuthRouter(stubVerifier{claims: &auth.Claims{TenantID: "acme", UserID: uuid.NewString()}}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	info := decodeError(t, w)
	assert.Equal(t, dto.ErrCodeTokenInvalid, info.Code)
	assert.Equal(t, "Token inválido", info.Message)
}
