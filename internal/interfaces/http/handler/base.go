// Package handler adapts the farm application services to HTTP.
package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/aquafarm/backend/internal/domain/shared"
	"github.com/aquafarm/backend/internal/infrastructure/logger"
	"github.com/aquafarm/backend/internal/interfaces/http/dto"
	"github.com/aquafarm/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a 200 response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a 200 response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// TransportError sends an error for a transport-level code such as ERR_INVALID_JSON
func (h *BaseHandler) TransportError(c *gin.Context, code string, details string) {
	tag := dto.MatchLanguage(c.GetHeader("Accept-Language"))
	c.AbortWithStatusJSON(dto.GetHTTPStatus(code), dto.NewErrorResponse(dto.ErrorInfo{
		Code:      code,
		Message:   dto.Localize(tag, code, code),
		Details:   details,
		RequestID: c.GetString(middleware.RequestIDKey),
	}))
}

// HandleError converts err to the error envelope. Invariant violations and
// untyped errors are logged at error level, transient failures at warn.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	log := logger.L(c.Request.Context())
	switch kind, _ := shared.KindOf(err); kind {
	case shared.KindInvariant, "":
		log.Error("Request failed", zap.String("error_kind", string(kind)), zap.Error(err))
	case shared.KindTransient:
		log.Warn("Request failed transiently", zap.Error(err))
	}
	_ = c.Error(err)

	status, info := dto.FromError(err, dto.MatchLanguage(c.GetHeader("Accept-Language")))
	info.RequestID = c.GetString(middleware.RequestIDKey)
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(info))
}

// bindJSON decodes the body into req and answers 400 on failure
func (h *BaseHandler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var maxBytes *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytes):
			h.TransportError(c, dto.ErrCodeRequestTooLarge, "")
		case errors.Is(err, io.EOF):
			h.TransportError(c, dto.ErrCodeInvalidJSON, "empty body")
		default:
			h.TransportError(c, dto.ErrCodeBadRequest, err.Error())
		}
		return false
	}
	return true
}

// bindQuery decodes query parameters into req and answers 400 on failure
func (h *BaseHandler) bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		h.TransportError(c, dto.ErrCodeBadRequest, err.Error())
		return false
	}
	return true
}

// requestContext returns the caller identity; JWTAuth guarantees it on /api routes
func (h *BaseHandler) requestContext(c *gin.Context) (shared.RequestContext, bool) {
	rc, ok := middleware.GetRequestContext(c)
	if !ok {
		h.TransportError(c, dto.ErrCodeUnauthorized, "")
	}
	return rc, ok
}

// uuidParam parses a path parameter as a UUID and answers 400 when it is not one
func (h *BaseHandler) uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.TransportError(c, dto.ErrCodeInvalidID, name)
		return uuid.Nil, false
	}
	return id, true
}
