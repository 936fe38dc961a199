package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aptivohq/aptivo-backend/internal/model"
	"github.com/aptivohq/aptivo-backend/internal/response"
	"github.com/aptivohq/aptivo-backend/internal/service"
	"github.com/aptivohq/aptivo-backend/internal/validator"
)

// TicketHandler handles ticket issuance and listing.
type TicketHandler struct {
	ticketService *service.TicketService
}

// NewTicketHandler creates a new TicketHandler.
func NewTicketHandler(ticketService *service.TicketService) *TicketHandler {
	return &TicketHandler{ticketService: ticketService}
}

// Issue godoc
// POST /api/v1/tickets
// Batch-issues tickets. The response is the only place the plaintext PINs
// ever appear.
func (h *TicketHandler) Issue(c *gin.Context) {
	var req model.IssueTicketsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, validator.TranslateErrors(err))
		return
	}

	issued, err := h.ticketService.Issue(c.Request.Context(), &req, staffID(c))
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"tickets": issued})
}

// ListByExamVersion godoc
// GET /api/v1/exam-versions/:id/tickets
func (h *TicketHandler) ListByExamVersion(c *gin.Context) {
	versionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	page, perPage := pagination(c)
	tickets, total, err := h.ticketService.ListByExamVersion(c.Request.Context(), versionID, page, perPage)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, tickets, buildPagination(page, perPage, total))
}
