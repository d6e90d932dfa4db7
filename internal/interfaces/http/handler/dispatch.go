package handler

import (
	"errors"
	"net/http"

	dispatchapp "github.com/Deepasarathi10/Mobileapi-sub000/internal/application/dispatch"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/dispatch"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/logger"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/infrastructure/notify"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Subscriptions accepts websocket subscribers
type Subscriptions interface {
	ServeWS(w http.ResponseWriter, r *http.Request) error
}

// DispatchHandler handles warehouse to branch dispatches
type DispatchHandler struct {
	BaseHandler
	service *dispatchapp.Service
	hub     Subscriptions
}

// NewDispatchHandler creates a new DispatchHandler
func NewDispatchHandler(service *dispatchapp.Service, hub Subscriptions) *DispatchHandler {
	return &DispatchHandler{service: service, hub: hub}
}

// Create handles POST /dispatch
func (h *DispatchHandler) Create(c *gin.Context) {
	var req dispatchapp.CreateDispatchRequest
	if !h.BindJSON(c, &req) {
		return
	}
	d, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, d)
}

// GetByID handles GET /dispatch/:id
func (h *DispatchHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	d, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, d)
}

// GetByNumber handles GET /dispatch/number/:dispatchNo
func (h *DispatchHandler) GetByNumber(c *gin.Context) {
	d, err := h.service.GetByNumber(c.Request.Context(), c.Param("dispatchNo"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, d)
}

// List handles GET /dispatch
func (h *DispatchHandler) List(c *gin.Context) {
	var filter dispatchapp.ListFilter
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

// Patch handles PATCH /dispatch/:id. A status of received or
// pending_approval records the receipt and credits branch stock.
func (h *DispatchHandler) Patch(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req dispatchapp.PatchDispatchRequest
	if !h.BindJSON(c, &req) {
		return
	}
	d, err := h.service.Patch(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, d)
}

// UpdateStatus handles PATCH /dispatch/:id/status?status=cancelled
func (h *DispatchHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	status, err := dispatch.ParseStatus(c.Query("status"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if status != dispatch.StatusCancelled {
		h.HandleError(c, shared.Newf(shared.ErrInvalidInput, "status %q is set through PATCH /dispatch/%s", status, id))
		return
	}
	d, err := h.service.Cancel(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, d)
}

// Delete handles DELETE /dispatch/:id
func (h *DispatchHandler) Delete(c *gin.Context) {
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

// Subscribe handles WS /dispatch/ws. The call blocks until the subscriber
// disconnects.
func (h *DispatchHandler) Subscribe(c *gin.Context) {
	err := h.hub.ServeWS(c.Writer, c.Request)
	if err != nil && !errors.Is(err, notify.ErrHubFull) {
		logger.FromContext(c.Request.Context()).Debug("websocket upgrade failed", zap.Error(err))
	}
}
