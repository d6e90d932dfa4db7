package handler

import (
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/application/shift"
	"github.com/Deepasarathi10/Mobileapi-sub000/internal/domain/shared"
	"github.com/gin-gonic/gin"
)

// ShiftHandler serves shifts, day-end snapshots and pre-day-end validation
type ShiftHandler struct {
	BaseHandler
	service *shift.Service
}

// NewShiftHandler creates a new ShiftHandler
func NewShiftHandler(service *shift.Service) *ShiftHandler {
	return &ShiftHandler{service: service}
}

// branchQuery is the query shared by the day-end and validation listings
type branchQuery struct {
	BranchName string `form:"branchName"`
	Date       string `form:"date" binding:"omitempty,dmy"`
}

// Open handles POST /shift
func (h *ShiftHandler) Open(c *gin.Context) {
	var req shift.OpenShiftRequest
	if !h.BindJSON(c, &req) {
		return
	}
	sh, err := h.service.Open(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sh)
}

// GetByID handles GET /shift/:id. System totals are recomputed from the
// ledgers before the shift is returned.
func (h *ShiftHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	sh, err := h.service.Recompute(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sh)
}

// List handles GET /shift
func (h *ShiftHandler) List(c *gin.Context) {
	var filter shift.ListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	pageDefaults(&filter.Page, &filter.PageSize)

	shifts, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, shifts, total, filter.Page, filter.PageSize)
}

// Close handles PATCH /shift/close-shift/:id
func (h *ShiftHandler) Close(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req shift.CloseShiftRequest
	if !h.BindJSON(c, &req) {
		return
	}
	sh, err := h.service.Close(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sh)
}

// DayEndBranch handles PATCH /shift/dayend/:branchName and marks the
// branch's closed shifts of the day as day-ended
func (h *ShiftHandler) DayEndBranch(c *gin.Context) {
	shifts, err := h.service.DayEndBranch(c.Request.Context(), c.Param("branchName"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shifts)
}

// CreateDayEnd handles POST /dayend/dayend. The branch comes from the body
// or, failing that, the branchName query parameter.
func (h *ShiftHandler) CreateDayEnd(c *gin.Context) {
	var body struct {
		BranchName string `json:"branchName"`
	}
	if c.Request.ContentLength > 0 && !h.BindJSON(c, &body) {
		return
	}
	branch := body.BranchName
	if branch == "" {
		branch = c.Query("branchName")
	}
	if branch == "" {
		h.HandleError(c, shared.Newf(shared.ErrInvalidInput, "branchName is required"))
		return
	}

	dayEnd, err := h.service.CreateDayEnd(c.Request.Context(), branch)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dayEnd)
}

// ListDayEnds handles GET /dayend
func (h *ShiftHandler) ListDayEnds(c *gin.Context) {
	var q branchQuery
	if !h.BindQuery(c, &q) {
		return
	}
	dayEnds, err := h.service.ListDayEnds(c.Request.Context(), q.BranchName, q.Date)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dayEnds)
}

// Validate handles GET /dayendValidation/Validation?branchName=X and
// stores the resulting checklist
func (h *ShiftHandler) Validate(c *gin.Context) {
	branch := c.Query("branchName")
	if branch == "" {
		h.HandleError(c, shared.Newf(shared.ErrInvalidInput, "branchName is required"))
		return
	}
	result, err := h.service.Validate(c.Request.Context(), branch)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ListValidations handles GET /dayendValidation
func (h *ShiftHandler) ListValidations(c *gin.Context) {
	var q branchQuery
	if !h.BindQuery(c, &q) {
		return
	}
	results, err := h.service.ListValidations(c.Request.Context(), q.BranchName, q.Date)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, results)
}
