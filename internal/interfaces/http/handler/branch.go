package handler

import (
	registryapp "github.com/Deepasarathi10/Mobileapi-sub000/internal/application/registry"
	"github.com/gin-gonic/gin"
)

// BranchHandler handles branch registry endpoints
type BranchHandler struct {
	BaseHandler
	service *registryapp.BranchService
}

// NewBranchHandler creates a new BranchHandler
func NewBranchHandler(service *registryapp.BranchService) *BranchHandler {
	return &BranchHandler{service: service}
}

// Create handles POST /branch
func (h *BranchHandler) Create(c *gin.Context) {
	var req registryapp.CreateBranchRequest
	if !h.BindJSON(c, &req) {
		return
	}
	branch, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, branch)
}

// GetByID handles GET /branch/:id
func (h *BranchHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	branch, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, branch)
}

// List handles GET /branch
func (h *BranchHandler) List(c *gin.Context) {
	var filter registryapp.ListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	pageDefaults(&filter.Page, &filter.PageSize)

	branches, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, branches, total, filter.Page, filter.PageSize)
}

// Update handles PATCH /branch/:id
func (h *BranchHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req registryapp.UpdateBranchRequest
	if !h.BindJSON(c, &req) {
		return
	}
	branch, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, branch)
}

// Delete handles DELETE /branch/:id
func (h *BranchHandler) Delete(c *gin.Context) {
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

// ResolveAlias handles GET /branch/alias?branchName=
func (h *BranchHandler) ResolveAlias(c *gin.Context) {
	ref, err := h.service.ResolveAlias(c.Request.Context(), c.Query("branchName"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ref)
}
