package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aptivohq/aptivo-backend/internal/middleware"
	"github.com/aptivohq/aptivo-backend/internal/model"
	"github.com/aptivohq/aptivo-backend/internal/response"
	"github.com/aptivohq/aptivo-backend/internal/service"
	"github.com/aptivohq/aptivo-backend/internal/validator"
)

// AuthHandler handles authentication endpoints. Candidate authentication has
// no standalone login: the ticket+PIN exchange happens in attempt start.
type AuthHandler struct {
	staffService *service.StaffService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(staffService *service.StaffService) *AuthHandler {
	return &AuthHandler{staffService: staffService}
}

// StaffLogin godoc
// POST /api/v1/auth/staff/login
func (h *AuthHandler) StaffLogin(c *gin.Context) {
	var req model.StaffLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, validator.TranslateErrors(err))
		return
	}

	token, user, err := h.staffService.Login(c.Request.Context(), &req)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// GetStaffProfile godoc
// GET /api/v1/auth/staff/me
func (h *AuthHandler) GetStaffProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	user, err := h.staffService.GetByID(c.Request.Context(), claims.StaffID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": user})
}
