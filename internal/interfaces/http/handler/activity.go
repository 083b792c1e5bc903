package handler

import (
	farmapp "github.com/aquafarm/backend/internal/application/farm"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ActivityHandler serves the tenant's activity log
type ActivityHandler struct {
	BaseHandler
	activity *farmapp.ActivityService
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(activity *farmapp.ActivityService) *ActivityHandler {
	return &ActivityHandler{activity: activity}
}

// RegisterRoutes mounts the activity log route
func (h *ActivityHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/activity-logs", h.List)
}

// List returns a page of activity entries, newest first
//
//	@Summary		List activity log entries
//	@Tags			activity
//	@Produce		json
//	@Param			page	query	int	false	"Page number" minimum(1)
//	@Param			page_size	query	int	false	"Page size" minimum(1) maximum(100)
//	@Param			user_id	query	string	false	"Author" format(uuid)
//	@Success		200		{object}	dto.Response{data=[]farmapp.ActivityLogResponse,meta=dto.Meta}
//	@Failure		400		{object}	dto.Response
//	@Failure		401		{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/activity-logs [get]
func (h *ActivityHandler) List(c *gin.Context) {
	rc, ok := h.requestContext(c)
	if !ok {
		return
	}
	var q ActivityLogQuery
	if !h.bindQuery(c, &q) {
		return
	}
	filter := farmapp.ActivityLogFilter{Page: q.Page, PageSize: q.PageSize}
	if id, err := uuid.Parse(q.UserID); err == nil {
		filter.UserID = &id
	}
	entries, total, err := h.activity.List(c.Request.Context(), rc, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := effectivePage(q.Page, q.PageSize)
	h.SuccessWithMeta(c, entries, total, page, size)
}
