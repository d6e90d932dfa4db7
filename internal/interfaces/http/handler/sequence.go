package handler

import (
	"strconv"

	seqapp "github.com/Deepasarathi10/Mobileapi-sub000/internal/application/sequence"
	"github.com/gin-gonic/gin"
)

// SequenceHandler exposes the named counters
type SequenceHandler struct {
	BaseHandler
	service *seqapp.Service
}

// NewSequenceHandler creates a new SequenceHandler
func NewSequenceHandler(service *seqapp.Service) *SequenceHandler {
	return &SequenceHandler{service: service}
}

// Current handles GET /sequence/:prefix
func (h *SequenceHandler) Current(c *gin.Context) {
	counter, err := h.service.Current(c.Request.Context(), c.Param("prefix"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, counter)
}

// Next handles POST /sequence/:prefix/next
func (h *SequenceHandler) Next(c *gin.Context) {
	counter, err := h.service.NextResponse(c.Request.Context(), c.Param("prefix"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, counter)
}

// Reconcile handles POST /sequence/:prefix/reconcile
func (h *SequenceHandler) Reconcile(c *gin.Context) {
	counter, err := h.service.Reconcile(c.Request.Context(), c.Param("prefix"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, counter)
}

// Allocate handles POST /sequence/:prefix/allocate?width=3 and returns the
// smallest unused master id
func (h *SequenceHandler) Allocate(c *gin.Context) {
	width := 3
	if raw := c.Query("width"); raw != "" {
		w, err := strconv.Atoi(raw)
		if err != nil || w < 1 || w > 12 {
			h.BadRequest(c, "width must be between 1 and 12")
			return
		}
		width = w
	}
	counter, err := h.service.Allocate(c.Request.Context(), c.Param("prefix"), width)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, counter)
}
