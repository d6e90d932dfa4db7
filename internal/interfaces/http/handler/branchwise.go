package handler

import (
	registryapp "github.com/Deepasarathi10/Mobileapi-sub000/internal/application/registry"
	"github.com/gin-gonic/gin"
)

// BranchwiseHandler handles per-branch price and stock records
type BranchwiseHandler struct {
	BaseHandler
	service *registryapp.BranchwiseService
}

// NewBranchwiseHandler creates a new BranchwiseHandler
func NewBranchwiseHandler(service *registryapp.BranchwiseService) *BranchwiseHandler {
	return &BranchwiseHandler{service: service}
}

// Create handles POST /branchwiseitem
func (h *BranchwiseHandler) Create(c *gin.Context) {
	var req registryapp.CreateBranchwiseItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	item, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// GetByID handles GET /branchwiseitem/:id
func (h *BranchwiseHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	item, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// List handles GET /branchwiseitem
func (h *BranchwiseHandler) List(c *gin.Context) {
	var filter registryapp.ListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	pageDefaults(&filter.Page, &filter.PageSize)

	items, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// Update handles PATCH /branchwiseitem/:id
func (h *BranchwiseHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req registryapp.UpdateBranchwiseItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	item, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Delete handles DELETE /branchwiseitem/:id
func (h *BranchwiseHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Export handles GET /branchwiseitem/export and returns the flat
// Price_<ALIAS> / physicalStock_<ALIAS> rows
func (h *BranchwiseHandler) Export(c *gin.Context) {
	rows, err := h.service.Export(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}
