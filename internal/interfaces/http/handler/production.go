package handler

import (
	productionapp "github.com/Deepasarathi10/Mobileapi-sub000/internal/application/production"
	"github.com/gin-gonic/gin"
)

// ProductionHandler handles production entries
type ProductionHandler struct {
	BaseHandler
	service *productionapp.Service
}

// NewProductionHandler creates a new ProductionHandler
func NewProductionHandler(service *productionapp.Service) *ProductionHandler {
	return &ProductionHandler{service: service}
}

// Create handles POST /productionEntry
func (h *ProductionHandler) Create(c *gin.Context) {
	var req productionapp.CreateEntryRequest
	if !h.BindJSON(c, &req) {
		return
	}
	entry, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, entry)
}

// CreateFromSaleOrder handles POST /productionEntry/saleorder
func (h *ProductionHandler) CreateFromSaleOrder(c *gin.Context) {
	var req productionapp.FromSaleOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}
	entry, err := h.service.CreateFromSaleOrder(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, entry)
}

// GetByID handles GET /productionEntry/:id
func (h *ProductionHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	entry, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// List handles GET /productionEntry
func (h *ProductionHandler) List(c *gin.Context) {
	var filter productionapp.ListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	pageDefaults(&filter.Page, &filter.PageSize)

	list, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, list, total, filter.Page, filter.PageSize)
}

// RemoveItem handles PATCH /productionEntry/:id/remove-item/:code
func (h *ProductionHandler) RemoveItem(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	entry, err := h.service.RemoveItem(c.Request.Context(), id, c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// Deactivate handles PATCH /productionEntry/:id/deactivate
func (h *ProductionHandler) Deactivate(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	entry, err := h.service.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// EditQuantities handles PUT /productionEntry/:id/quantities
func (h *ProductionHandler) EditQuantities(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req productionapp.EditQuantitiesRequest
	if !h.BindJSON(c, &req) {
		return
	}
	entry, err := h.service.EditQuantities(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}
