package handler

import (
	farmapp "github.com/aquafarm/backend/internal/application/farm"
	"github.com/gin-gonic/gin"
)

// LotHandler serves lot queries, manual closure and lot observations
type LotHandler struct {
	BaseHandler
	lots         *farmapp.LotService
	observations *farmapp.ObservationService
}

// NewLotHandler creates a new LotHandler
func NewLotHandler(lots *farmapp.LotService, observations *farmapp.ObservationService) *LotHandler {
	return &LotHandler{lots: lots, observations: observations}
}

// RegisterRoutes mounts the lot routes
func (h *LotHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/lots")
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("/:id/close", h.Close)
	g.POST("/:id/biometries", h.RecordBiometry)
	g.GET("/:id/biometries", h.ListBiometries)
	g.POST("/:id/feedings", h.RecordFeeding)
	g.GET("/:id/feedings", h.ListFeedings)
}

// List returns a page of lots filtered by status, tank and species
//
//	@Summary		List lots
//	@Tags			lots
//	@Produce		json
//	@Param			page	query	int	false	"Page number" minimum(1)
//	@Param			page_size	query	int	false	"Page size" minimum(1) maximum(100)
//	@Param			order_by	query	string	false	"Sort field"
//	@Param			order_dir	query	string	false	"Sort direction" Enums(asc, desc)
//	@Param			status	query	string	false	"Lot status"
//	@Param			tank_id	query	string	false	"Tank ID" format(uuid)
//	@Param			species	query	string	false	"Species"
//	@Success		200		{object}	dto.Response{data=[]farmapp.LotResponse,meta=dto.Meta}
//	@Failure		400		{object}	dto.Response
//	@Failure		401		{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/lots [get]
func (h *LotHandler) List(c *gin.Context) {
	rc, ok := h.requestContext(c)
	if !ok {
		return
	}
	var q LotListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	lots, total, err := h.lots.List(c.Request.Context(), rc, q.toFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := effectivePage(q.Page, q.PageSize)
	h.SuccessWithMeta(c, lots, total, page, size)
}

// Get returns one lot
//
//	@Summary		Get a lot
//	@Tags			lots
//	@Produce		json
//	@Param			id	path	string	true	"Lot ID" format(uuid)
//	@Success		200		{object}	dto.Response{data=farmapp.LotResponse}
//	@Failure		400		{object}	dto.Response
//	@Failure		401		{object}	dto.Response
//	@Failure		404		{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/lots/{id} [get]
func (h *LotHandler) Get(c *gin.Context) {
	rc, ok := h.requestContext(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	lot, err := h.lots.GetByID(c.Request.Context(), rc, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lot)
}

// Close moves a lot into a terminal status
//
//	@Summary		Close a lot
//	@Tags			lots
//	@Accept			json
//	@Produce		json
//	@Param			id	path	string	true	"Lot ID" format(uuid)
//	@Param			request	body	CloseLotRequest	true	"Terminal status"
//	@Success		200		{object}	dto.Response{data=farmapp.LotResponse}
//	@Failure		400		{object}	dto.Response
//	@Failure		401		{object}	dto.Response
//	@Failure		404		{object}	dto.Response
//	@Failure		409		{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/lots/{id}/close [post]
func (h *LotHandler) Close(c *gin.Context) {
	rc, ok := h.requestContext(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req CloseLotRequest
	if !h.bindJSON(c, &req) {
		return
	}
	lot, err := h.lots.Close(c.Request.Context(), rc, id, farmapp.CloseLotRequest{
		Status:   req.Status,
		ExitDate: req.ExitDate.value(),
		Notes:    req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lot)
}

// RecordBiometry appends a weight sample and updates the lot's reference weight
//
//	@Summary		Record a biometry sample
//	@Tags			lots
//	@Accept			json
//	@Produce		json
//	@Param			id	path	string	true	"Lot ID" format(uuid)
//	@Param			request	body	BiometryRequest	true	"Sample"
//	@Success		201		{object}	dto.Response{data=farmapp.BiometryResponse}
//	@Failure		400		{object}	dto.Response
//	@Failure		401		{object}	dto.Response
//	@Failure		404		{object}	dto.Response
//	@Failure		409		{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/lots/{id}/biometries [post]
func (h *LotHandler) RecordBiometry(c *gin.Context) {
	rc, ok := h.requestContext(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req BiometryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	rec, err := h.observations.RecordBiometry(c.Request.Context(), rc, id, farmapp.BiometryRequest{
		AvgWeightG: req.AvgWeightG,
		SampleSize: req.SampleSize,
		Notes:      req.Notes,
		MeasuredAt: req.MeasuredAt.value(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, rec)
}

// ListBiometries returns the lot's weight samples, newest first
//
//	@Summary		List biometry samples
//	@Tags			lots
//	@Produce		json
//	@Param			id	path	string	true	"Lot ID" format(uuid)
//	@Success		200		{object}	dto.Response{data=[]farmapp.BiometryResponse}
//	@Failure		400		{object}	dto.Response
//	@Failure		401		{object}	dto.Response
//	@Failure		404		{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/lots/{id}/biometries [get]
func (h *LotHandler) ListBiometries(c *gin.Context) {
	rc, ok := h.requestContext(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	recs, err := h.observations.ListBiometries(c.Request.Context(), rc, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, recs)
}

// RecordFeeding appends a feeding event
//
//	@Summary		Record a feeding
//	@Tags			lots
//	@Accept			json
//	@Produce		json
//	@Param			id	path	string	true	"Lot ID" format(uuid)
//	@Param			request	body	FeedRequest	true	"Feeding"
//	@Success		201		{object}	dto.Response{data=farmapp.FeedResponse}
//	@Failure		400		{object}	dto.Response
//	@Failure		401		{object}	dto.Response
//	@Failure		404		{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/lots/{id}/feedings [post]
func (h *LotHandler) RecordFeeding(c *gin.Context) {
	rc, ok := h.requestContext(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req FeedRequest
	if !h.bindJSON(c, &req) {
		return
	}
	rec, err := h.observations.RecordFeeding(c.Request.Context(), rc, id, farmapp.FeedRequest{
		RationType: req.RationType,
		QuantityKg: req.QuantityKg,
		Cost:       req.Cost,
		FedAt:      req.FedAt.value(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, rec)
}

// ListFeedings returns the lot's feeding events, newest first
//
//	@Summary		List feedings
//	@Tags			lots
//	@Produce		json
//	@Param			id	path	string	true	"Lot ID" format(uuid)
//	@Success		200		{object}	dto.Response{data=[]farmapp.FeedResponse}
//	@Failure		400		{object}	dto.Response
//	@Failure		401		{object}	dto.Response
//	@Failure		404		{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/lots/{id}/feedings [get]
func (h *LotHandler) ListFeedings(c *gin.Context) {
	rc, ok := h.requestContext(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	recs, err := h.observations.ListFeedings(c.Request.Context(), rc, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, recs)
}
