package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aptivohq/aptivo-backend/internal/model"
	"github.com/aptivohq/aptivo-backend/internal/response"
	"github.com/aptivohq/aptivo-backend/internal/service"
	"github.com/aptivohq/aptivo-backend/internal/validator"
)

// StaffUserHandler handles staff account management. Admin only.
type StaffUserHandler struct {
	staffService *service.StaffService
}

// NewStaffUserHandler creates a new StaffUserHandler.
func NewStaffUserHandler(staffService *service.StaffService) *StaffUserHandler {
	return &StaffUserHandler{staffService: staffService}
}

// Create godoc
// POST /api/v1/staff-users
func (h *StaffUserHandler) Create(c *gin.Context) {
	var req model.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, validator.TranslateErrors(err))
		return
	}

	user, err := h.staffService.Create(c.Request.Context(), &req)
	if err != nil {
		response.Fail(c, http.StatusConflict, response.ErrConflict)
		return
	}

	response.Success(c, http.StatusCreated, user)
}

// List godoc
// GET /api/v1/staff-users
func (h *StaffUserHandler) List(c *gin.Context) {
	users, err := h.staffService.List(c.Request.Context())
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"users": users})
}

// Delete godoc
// DELETE /api/v1/staff-users/:id
func (h *StaffUserHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.staffService.Delete(c.Request.Context(), id); err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
