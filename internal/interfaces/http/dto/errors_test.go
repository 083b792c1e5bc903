package dto

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/aquafarm/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestGetHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, GetHTTPStatus(ErrCodeTokenExpired))
	assert.Equal(t, http.StatusRequestEntityTooLarge, GetHTTPStatus(ErrCodeRequestTooLarge))
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus("SOMETHING_ELSE"))
}

func TestFromError_StatusByKind(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		status    int
		code      string
		retryable bool
	}{
		{"validation", shared.NewValidationError("SALE_TOO_SMALL", "kg sold is below one fish"), http.StatusBadRequest, "SALE_TOO_SMALL", false},
		{"not found", shared.NewNotFoundError("LOT_NOT_FOUND", "Lot not found"), http.StatusNotFound, "LOT_NOT_FOUND", false},
		{"conflict", shared.NewConflictError("TANK_OCCUPIED", "Tank already has an active lot"), http.StatusConflict, "TANK_OCCUPIED", false},
		{"invariant", shared.NewInvariantViolation("QUANTITY_NOT_CONSERVED", "sum mismatch"), http.StatusInternalServerError, "QUANTITY_NOT_CONSERVED", false},
		{"transient", shared.NewTransientError("deadlock", errors.New("40P01")), http.StatusServiceUnavailable, "TRANSIENT", true},
		{"wrapped", fmt.Errorf("transfer: %w", shared.NewConflictError("LOT_NOT_ACTIVE", "Lot is not active")), http.StatusConflict, "LOT_NOT_ACTIVE", false},
		{"untyped", errors.New("pq: connection refused"), http.StatusInternalServerError, ErrCodeInternal, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, info := FromError(tt.err, language.BrazilianPortuguese)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, info.Code)
			assert.Equal(t, tt.retryable, info.Retryable)
		})
	}
}

func TestFromError_LocalizesAndKeepsDetails(t *testing.T) {
	err := shared.NewValidationError("INVALID_INPUT", "Placements is required")

	_, info := FromError(err, language.BrazilianPortuguese)

	assert.Equal(t, "Dados inválidos", info.Message)
	assert.Equal(t, "Placements is required", info.Details)
}

func TestFromError_EnglishFallsBackToDomainMessage(t *testing.T) {
	err := shared.NewConflictError("TANK_OCCUPIED", "Tank already has an active lot")

	_, info := FromError(err, language.English)

	assert.Equal(t, "Tank already has an active lot", info.Message)
	assert.Empty(t, info.Details)
}

func TestFromError_NeverLeaksInternalMessages(t *testing.T) {
	for _, err := range []error{
		shared.NewInvariantViolation("NEGATIVE_QUANTITY", "lot 42 would go to -3"),
		shared.NewTransientError("serialization failure", errors.New("pq: could not serialize")),
		errors.New("dial tcp 10.0.0.7:5432: connection refused"),
	} {
		_, info := FromError(err, language.English)
		assert.NotContains(t, info.Message, "42")
		assert.NotContains(t, info.Message, "pq:")
		assert.NotContains(t, info.Message, "10.0.0.7")
		assert.Empty(t, info.Details)
	}
}

func TestMatchLanguage(t *testing.T) {
	tests := []struct {
		header string
		want   language.Tag
	}{
		{"", language.BrazilianPortuguese},
		{"en-US,en;q=0.9", language.English},
		{"pt-BR,pt;q=0.9,en;q=0.5", language.BrazilianPortuguese},
		{"pt", language.BrazilianPortuguese},
		{"ja", language.BrazilianPortuguese},
		{"not a header;;;", language.BrazilianPortuguese},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchLanguage(tt.header))
		})
	}
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"a"}, 41, 2, 20)

	assert.True(t, resp.Success)
	assert.Equal(t, 3, resp.Meta.TotalPages)

	empty := NewSuccessResponseWithMeta(nil, 0, 1, 0)
	assert.Equal(t, 0, empty.Meta.TotalPages)
}
