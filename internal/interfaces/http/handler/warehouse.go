package handler

import (
	registryapp "github.com/Deepasarathi10/Mobileapi-sub000/internal/application/registry"
	"github.com/gin-gonic/gin"
)

// WarehouseHandler handles warehouses and the items stocked in them
type WarehouseHandler struct {
	BaseHandler
	warehouses *registryapp.WarehouseService
	items      *registryapp.WarehouseItemService
}

// NewWarehouseHandler creates a new WarehouseHandler
func NewWarehouseHandler(warehouses *registryapp.WarehouseService, items *registryapp.WarehouseItemService) *WarehouseHandler {
	return &WarehouseHandler{warehouses: warehouses, items: items}
}

// Create handles POST /warehouse
func (h *WarehouseHandler) Create(c *gin.Context) {
	var req registryapp.CreateWarehouseRequest
	if !h.BindJSON(c, &req) {
		return
	}
	warehouse, err := h.warehouses.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, warehouse)
}

// GetByID handles GET /warehouse/:id
func (h *WarehouseHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	warehouse, err := h.warehouses.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, warehouse)
}

// List handles GET /warehouse
func (h *WarehouseHandler) List(c *gin.Context) {
	var filter registryapp.ListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	pageDefaults(&filter.Page, &filter.PageSize)

	warehouses, total, err := h.warehouses.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, warehouses, total, filter.Page, filter.PageSize)
}

// Update handles PATCH /warehouse/:id
func (h *WarehouseHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req registryapp.UpdateWarehouseRequest
	if !h.BindJSON(c, &req) {
		return
	}
	warehouse, err := h.warehouses.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, warehouse)
}

// Delete handles DELETE /warehouse/:id
func (h *WarehouseHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.warehouses.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateItem handles POST /warehouseItems
func (h *WarehouseHandler) CreateItem(c *gin.Context) {
	var req registryapp.CreateWarehouseItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	item, err := h.items.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// GetItem handles GET /warehouseItems/:code
func (h *WarehouseHandler) GetItem(c *gin.Context) {
	item, err := h.items.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// ListItems handles GET /warehouseItems
func (h *WarehouseHandler) ListItems(c *gin.Context) {
	var filter registryapp.WarehouseItemListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	pageDefaults(&filter.Page, &filter.PageSize)

	items, total, err := h.items.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// UpdateItem handles PATCH /warehouseItems/:code
func (h *WarehouseHandler) UpdateItem(c *gin.Context) {
	var req registryapp.UpdateWarehouseItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	item, err := h.items.Update(c.Request.Context(), c.Param("code"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// AdjustStock handles PATCH /warehouseItems/:code/stock
func (h *WarehouseHandler) AdjustStock(c *gin.Context) {
	var req registryapp.AdjustStockRequest
	if !h.BindJSON(c, &req) {
		return
	}
	stock, err := h.items.AdjustStock(c.Request.Context(), c.Param("code"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stock)
}

// DeleteItem handles DELETE /warehouseItems/:code
func (h *WarehouseHandler) DeleteItem(c *gin.Context) {
	if err := h.items.Delete(c.Request.Context(), c.Param("code")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
