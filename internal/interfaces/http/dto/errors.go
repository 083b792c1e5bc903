package dto

import (
	"errors"
	"net/http"

	"github.com/aquafarm/backend/internal/domain/shared"
	"golang.org/x/text/language"
)

// Transport error codes. Domain errors keep the code they were raised with.
const (
	ErrCodeInternal        = "ERR_INTERNAL"
	ErrCodeUnavailable     = "ERR_UNAVAILABLE"
	ErrCodeBadRequest      = "ERR_BAD_REQUEST"
	ErrCodeInvalidJSON     = "ERR_INVALID_JSON"
	ErrCodeInvalidID       = "ERR_INVALID_ID"
	ErrCodeUnauthorized    = "ERR_UNAUTHORIZED"
	ErrCodeTokenExpired    = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid    = "ERR_TOKEN_INVALID"
	ErrCodeForbidden       = "ERR_FORBIDDEN"
	ErrCodeNotFound        = "ERR_NOT_FOUND"
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps transport error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeUnavailable:     http.StatusServiceUnavailable,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeInvalidID:       http.StatusBadRequest,
	ErrCodeUnauthorized:    http.StatusUnauthorized,
	ErrCodeTokenExpired:    http.StatusUnauthorized,
	ErrCodeTokenInvalid:    http.StatusUnauthorized,
	ErrCodeForbidden:       http.StatusForbidden,
	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status code for a transport error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

var kindHTTPStatus = map[shared.ErrorKind]int{
	shared.KindValidation: http.StatusBadRequest,
	shared.KindNotFound:   http.StatusNotFound,
	shared.KindConflict:   http.StatusConflict,
	shared.KindInvariant:  http.StatusInternalServerError,
	shared.KindTransient:  http.StatusServiceUnavailable,
}

// StatusForKind returns the HTTP status for a domain error kind
func StatusForKind(kind shared.ErrorKind) int {
	if status, ok := kindHTTPStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// exposesDetails reports whether the raw domain message may reach the client
func exposesDetails(kind shared.ErrorKind) bool {
	switch kind {
	case shared.KindValidation, shared.KindNotFound, shared.KindConflict:
		return true
	default:
		return false
	}
}

// FromError converts err into an HTTP status and error payload localized for tag.
// Invariant violations, transient failures and untyped errors never carry
// their internal message.
func FromError(err error, tag language.Tag) (int, ErrorInfo) {
	var de *shared.DomainError
	if !errors.As(err, &de) {
		return http.StatusInternalServerError, ErrorInfo{
			Code:    ErrCodeInternal,
			Message: Localize(tag, ErrCodeInternal, "An unexpected error occurred"),
		}
	}

	switch de.Kind {
	case shared.KindInvariant:
		return http.StatusInternalServerError, ErrorInfo{
			Code:    de.Code,
			Message: Localize(tag, ErrCodeInternal, "An unexpected error occurred"),
		}
	case shared.KindTransient:
		return http.StatusServiceUnavailable, ErrorInfo{
			Code:      de.Code,
			Message:   Localize(tag, ErrCodeUnavailable, "Temporary failure, retry the operation"),
			Retryable: true,
		}
	}

	info := ErrorInfo{
		Code:    de.Code,
		Message: Localize(tag, de.Code, de.Message),
	}
	if exposesDetails(de.Kind) && info.Message != de.Message {
		info.Details = de.Message
	}
	return StatusForKind(de.Kind), info
}
