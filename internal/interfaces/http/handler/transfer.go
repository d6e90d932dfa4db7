package handler

import (
	transferapp "github.com/Deepasarathi10/Mobileapi-sub000/internal/application/transfer"
	"github.com/gin-gonic/gin"
)

// TransferHandler handles branch to branch item transfers
type TransferHandler struct {
	BaseHandler
	service *transferapp.Service
}

// NewTransferHandler creates a new TransferHandler
func NewTransferHandler(service *transferapp.Service) *TransferHandler {
	return &TransferHandler{service: service}
}

// Create handles POST /itemtransfer
func (h *TransferHandler) Create(c *gin.Context) {
	var req transferapp.CreateTransferRequest
	if !h.BindJSON(c, &req) {
		return
	}
	t, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, t)
}

// GetByID handles GET /itemtransfer/:id
func (h *TransferHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	t, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}

// List handles GET /itemtransfer
func (h *TransferHandler) List(c *gin.Context) {
	var filter transferapp.ListFilter
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

// Transition handles PATCH /itemtransfer/:id
func (h *TransferHandler) Transition(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req transferapp.TransitionRequest
	if !h.BindJSON(c, &req) {
		return
	}
	t, err := h.service.Transition(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}

// Delete handles DELETE /itemtransfer/:id
func (h *TransferHandler) Delete(c *gin.Context) {
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
