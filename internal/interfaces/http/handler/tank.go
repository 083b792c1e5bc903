package handler

import (
	farmapp "github.com/aquafarm/backend/internal/application/farm"
	"github.com/gin-gonic/gin"
)

// TankHandler serves the tank registry
type TankHandler struct {
	BaseHandler
	tanks *farmapp.TankService
}

// NewTankHandler creates a new TankHandler
func NewTankHandler(tanks *farmapp.TankService) *TankHandler {
	return &TankHandler{tanks: tanks}
}

// RegisterRoutes mounts the tank routes
func (h *TankHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/tanks")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.GET("/:id/active-lot", h.GetActiveLot)
}

// Create registers a tank
//
//	@Summary		Register a tank
//	@Tags			tanks
//	@Accept			json
//	@Produce		json
//	@Param			request	body	CreateTankRequest	true	"Tank"
//	@Success		201		{object}	dto.Response{data=farmapp.TankResponse}
//	@Failure		400		{object}	dto.Response
//	@Failure		401		{object}	dto.Response
//	@Failure		409		{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/tanks [post]
func (h *TankHandler) Create(c *gin.Context) {
	rc, ok := h.requestContext(c)
	if !ok {
		return
	}
	var req CreateTankRequest
	if !h.bindJSON(c, &req) {
		return
	}
	tank, err := h.tanks.Create(c.Request.Context(), rc, farmapp.CreateTankRequest{
		Name:     req.Name,
		Type:     req.Type,
		Capacity: req.Capacity,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tank)
}

// List returns a page of tanks with derived occupancy
//
//	@Summary		List tanks with occupancy
//	@Tags			tanks
//	@Produce		json
//	@Param			page	query	int	false	"Page number" minimum(1)
//	@Param			page_size	query	int	false	"Page size" minimum(1) maximum(100)
//	@Param			order_by	query	string	false	"Sort field"
//	@Param			order_dir	query	string	false	"Sort direction" Enums(asc, desc)
//	@Param			search	query	string	false	"Name contains"
//	@Param			status	query	string	false	"Derived status" Enums(Vazio, Ocupado)
//	@Success		200		{object}	dto.Response{data=[]farmapp.TankResponse,meta=dto.Meta}
//	@Failure		400		{object}	dto.Response
//	@Failure		401		{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/tanks [get]
func (h *TankHandler) List(c *gin.Context) {
	rc, ok := h.requestContext(c)
	if !ok {
		return
	}
	var q TankListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	tanks, total, err := h.tanks.List(c.Request.Context(), rc, q.toFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := effectivePage(q.Page, q.PageSize)
	h.SuccessWithMeta(c, tanks, total, page, size)
}

// Get returns one tank
//
//	@Summary		Get a tank
//	@Tags			tanks
//	@Produce		json
//	@Param			id	path	string	true	"Tank ID" format(uuid)
//	@Success		200		{object}	dto.Response{data=farmapp.TankResponse}
//	@Failure		400		{object}	dto.Response
//	@Failure		401		{object}	dto.Response
//	@Failure		404		{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/tanks/{id} [get]
func (h *TankHandler) Get(c *gin.Context) {
	rc, ok := h.requestContext(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	tank, err := h.tanks.GetByID(c.Request.Context(), rc, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tank)
}

// Update changes tank metadata
//
//	@Summary		Update tank metadata
//	@Tags			tanks
//	@Accept			json
//	@Produce		json
//	@Param			id	path	string	true	"Tank ID" format(uuid)
//	@Param			request	body	UpdateTankRequest	true	"Tank"
//	@Success		200		{object}	dto.Response{data=farmapp.TankResponse}
//	@Failure		400		{object}	dto.Response
//	@Failure		401		{object}	dto.Response
//	@Failure		404		{object}	dto.Response
//	@Failure		409		{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/tanks/{id} [put]
func (h *TankHandler) Update(c *gin.Context) {
	rc, ok := h.requestContext(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req UpdateTankRequest
	if !h.bindJSON(c, &req) {
		return
	}
	tank, err := h.tanks.Update(c.Request.Context(), rc, id, farmapp.UpdateTankRequest{
		Name:     req.Name,
		Type:     req.Type,
		Capacity: req.Capacity,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tank)
}

// Delete removes an empty tank
//
//	@Summary		Delete an empty tank
//	@Tags			tanks
//	@Produce		json
//	@Param			id	path	string	true	"Tank ID" format(uuid)
//	@Success		204		"No Content"
//	@Failure		400		{object}	dto.Response
//	@Failure		401		{object}	dto.Response
//	@Failure		404		{object}	dto.Response
//	@Failure		409		{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/tanks/{id} [delete]
func (h *TankHandler) Delete(c *gin.Context) {
	rc, ok := h.requestContext(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.tanks.Delete(c.Request.Context(), rc, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// GetActiveLot returns the tank's active lot; data is omitted when the tank is empty
//
//	@Summary		Get the tank's active lot
//	@Tags			tanks
//	@Produce		json
//	@Param			id	path	string	true	"Tank ID" format(uuid)
//	@Success		200		{object}	dto.Response{data=farmapp.LotResponse}
//	@Failure		400		{object}	dto.Response
//	@Failure		401		{object}	dto.Response
//	@Failure		404		{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/tanks/{id}/active-lot [get]
func (h *TankHandler) GetActiveLot(c *gin.Context) {
	rc, ok := h.requestContext(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	lot, err := h.tanks.GetActiveLot(c.Request.Context(), rc, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lot)
}
