package handler

import (
	registryapp "github.com/Deepasarathi10/Mobileapi-sub000/internal/application/registry"
	"github.com/gin-gonic/gin"
)

// EmployeeHandler handles employee endpoints
type EmployeeHandler struct {
	BaseHandler
	service *registryapp.EmployeeService
}

// NewEmployeeHandler creates a new EmployeeHandler
func NewEmployeeHandler(service *registryapp.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{service: service}
}

// Create handles POST /employee
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req registryapp.CreateEmployeeRequest
	if !h.BindJSON(c, &req) {
		return
	}
	employee, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, employee)
}

// GetByID handles GET /employee/:id
func (h *EmployeeHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	employee, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, employee)
}

// List handles GET /employee
func (h *EmployeeHandler) List(c *gin.Context) {
	var filter registryapp.ListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	pageDefaults(&filter.Page, &filter.PageSize)

	employees, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, employees, total, filter.Page, filter.PageSize)
}

// Update handles PATCH /employee/:id
func (h *EmployeeHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req registryapp.UpdateEmployeeRequest
	if !h.BindJSON(c, &req) {
		return
	}
	employee, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, employee)
}

// Delete handles DELETE /employee/:id
func (h *EmployeeHandler) Delete(c *gin.Context) {
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
