package handler

import (
	farmapp "github.com/aquafarm/backend/internal/application/farm"
	"github.com/gin-gonic/gin"
)

// MovementHandler serves the stock movements: intakes, transfers and sales
type MovementHandler struct {
	BaseHandler
	intakes   *farmapp.IntakeService
	transfers *farmapp.TransferService
	sales     *farmapp.SaleService
}

// NewMovementHandler creates a new MovementHandler
func NewMovementHandler(intakes *farmapp.IntakeService, transfers *farmapp.TransferService, sales *farmapp.SaleService) *MovementHandler {
	return &MovementHandler{intakes: intakes, transfers: transfers, sales: sales}
}

// RegisterRoutes mounts the movement routes
func (h *MovementHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/intakes", h.RecordIntake)
	rg.GET("/intakes/:id", h.GetIntake)
	rg.POST("/transfers", h.Transfer)
	rg.POST("/sales", h.RecordSale)
}

// RecordIntake stocks the placements of one invoice atomically
//
//	@Summary		Record a fish intake
//	@Tags			movements
//	@Accept			json
//	@Produce		json
//	@Param			request	body	IntakeRequest	true	"Invoice and placements"
//	@Success		201		{object}	dto.Response{data=farmapp.IntakeResponse}
//	@Failure		400		{object}	dto.Response
//	@Failure		401		{object}	dto.Response
//	@Failure		404		{object}	dto.Response
//	@Failure		409		{object}	dto.Response
//	@Failure		503		{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/intakes [post]
func (h *MovementHandler) RecordIntake(c *gin.Context) {
	rc, ok := h.requestContext(c)
	if !ok {
		return
	}
	var req IntakeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.intakes.RecordIntake(c.Request.Context(), rc, req.toApp())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetIntake returns an intake batch with the lots it produced
//
//	@Summary		Get an intake batch
//	@Tags			movements
//	@Produce		json
//	@Param			id	path	string	true	"Intake batch ID" format(uuid)
//	@Success		200		{object}	dto.Response{data=farmapp.IntakeBatchResponse}
//	@Failure		400		{object}	dto.Response
//	@Failure		401		{object}	dto.Response
//	@Failure		404		{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/intakes/{id} [get]
func (h *MovementHandler) GetIntake(c *gin.Context) {
	rc, ok := h.requestContext(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	batch, err := h.intakes.GetIntakeBatch(c.Request.Context(), rc, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batch)
}

// Transfer splits an origin lot into destination tanks
//
//	@Summary		Transfer fish between tanks
//	@Tags			movements
//	@Accept			json
//	@Produce		json
//	@Param			request	body	TransferRequest	true	"Origin lot and destinations"
//	@Success		201		{object}	dto.Response{data=farmapp.TransferResponse}
//	@Failure		400		{object}	dto.Response
//	@Failure		401		{object}	dto.Response
//	@Failure		404		{object}	dto.Response
//	@Failure		409		{object}	dto.Response
//	@Failure		503		{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/transfers [post]
func (h *MovementHandler) Transfer(c *gin.Context) {
	rc, ok := h.requestContext(c)
	if !ok {
		return
	}
	var req TransferRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.transfers.Transfer(c.Request.Context(), rc, req.toApp())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// RecordSale decrements lot stock for confirmed sale items
//
//	@Summary		Record a sale
//	@Tags			movements
//	@Accept			json
//	@Produce		json
//	@Param			request	body	SaleRequest	true	"Sold items"
//	@Success		201		{object}	dto.Response{data=farmapp.SaleResponse}
//	@Failure		400		{object}	dto.Response
//	@Failure		401		{object}	dto.Response
//	@Failure		404		{object}	dto.Response
//	@Failure		409		{object}	dto.Response
//	@Failure		503		{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/sales [post]
func (h *MovementHandler) RecordSale(c *gin.Context) {
	rc, ok := h.requestContext(c)
	if !ok {
		return
	}
	var req SaleRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.sales.RecordSale(c.Request.Context(), rc, req.toApp())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}
