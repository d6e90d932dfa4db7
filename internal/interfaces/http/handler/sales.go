package handler

import (
	"context"

	salesapp "github.com/Deepasarathi10/Mobileapi-sub000/internal/application/sales"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/sales"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrderHandler serves one order kind: sale orders under /salesorder and
// held orders under /heldorder
type OrderHandler struct {
	BaseHandler
	kind    sales.Kind
	service *salesapp.OrderService
}

// NewOrderHandler creates an OrderHandler for kind
func NewOrderHandler(kind sales.Kind, service *salesapp.OrderService) *OrderHandler {
	return &OrderHandler{kind: kind, service: service}
}

// Create handles POST /salesorder and POST /heldorder
func (h *OrderHandler) Create(c *gin.Context) {
	var req salesapp.CreateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}
	order, err := h.service.Create(c.Request.Context(), h.kind, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// GetByID handles GET /<kind>/:id
func (h *OrderHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	order, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// GetByNumber handles GET /salesorder/number/:saleOrderNo
func (h *OrderHandler) GetByNumber(c *gin.Context) {
	order, err := h.service.GetByNumber(c.Request.Context(), c.Param("saleOrderNo"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// List handles GET /<kind>
func (h *OrderHandler) List(c *gin.Context) {
	var filter salesapp.OrderListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	pageDefaults(&filter.Page, &filter.PageSize)

	orders, total, err := h.service.List(c.Request.Context(), h.kind, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// Patch handles PATCH /<kind>/:id
func (h *OrderHandler) Patch(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req salesapp.PatchOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}
	order, err := h.service.Patch(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// PatchApproval handles PATCH /<kind>/:id/approval and overwrites the
// latest approval entry
func (h *OrderHandler) PatchApproval(c *gin.Context) {
	h.approval(c, h.service.PatchApproval)
}

// AppendApproval handles POST /<kind>/:id/approval
func (h *OrderHandler) AppendApproval(c *gin.Context) {
	h.approval(c, h.service.AppendApproval)
}

func (h *OrderHandler) approval(c *gin.Context, apply func(ctx context.Context, id uuid.UUID, req salesapp.ApprovalRequest) (*salesapp.OrderResponse, error)) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req salesapp.ApprovalRequest
	if !h.BindJSON(c, &req) {
		return
	}
	order, err := apply(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Convert handles POST /heldorder/:id/convert
func (h *OrderHandler) Convert(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	order, err := h.service.ConvertHeld(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// CreateInvoice handles POST /salesorder/:id/invoice
func (h *OrderHandler) CreateInvoice(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req salesapp.CreateOrderInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}
	invoice, err := h.service.CreateInvoice(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// Delete handles DELETE /<kind>/:id
func (h *OrderHandler) Delete(c *gin.Context) {
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

// InvoiceHandler handles point-of-sale invoices
type InvoiceHandler struct {
	BaseHandler
	service *salesapp.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(service *salesapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{service: service}
}

// Create handles POST /invoice
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req salesapp.CreateInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}
	invoice, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// GetByID handles GET /invoice/:id
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	invoice, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// List handles GET /invoice
func (h *InvoiceHandler) List(c *gin.Context) {
	var filter salesapp.InvoiceListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	pageDefaults(&filter.Page, &filter.PageSize)

	invoices, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, invoices, total, filter.Page, filter.PageSize)
}
