package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aptivohq/aptivo-backend/internal/response"
	"github.com/aptivohq/aptivo-backend/internal/service"
)

// failFromError maps service sentinel errors onto HTTP status and typed
// error codes. Unknown errors become 500 INTERNAL_ERROR.
func failFromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
	case errors.Is(err, service.ErrTicketNotActive):
		response.Fail(c, http.StatusConflict, response.ErrTicketNotActive)
	case errors.Is(err, service.ErrSessionRevoked):
		response.Fail(c, http.StatusUnauthorized, response.ErrSessionRevoked)
	case errors.Is(err, service.ErrAttemptNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrAttemptExists):
		response.Fail(c, http.StatusConflict, response.ErrAttemptExists)
	case errors.Is(err, service.ErrInvalidState):
		response.Fail(c, http.StatusConflict, response.ErrInvalidState)
	case errors.Is(err, service.ErrAlreadyScored):
		response.Fail(c, http.StatusConflict, response.ErrAlreadyScored)
	case errors.Is(err, service.ErrItemNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrItemNotFound)
	case errors.Is(err, service.ErrTimerNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrTimerNotFound)
	case errors.Is(err, service.ErrOptionMismatch):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrOptionMismatch)
	case errors.Is(err, service.ErrExamNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrExamNotPublished):
		response.Fail(c, http.StatusConflict, response.ErrExamNotPublished)
	case errors.Is(err, service.ErrExamNotDraft):
		response.Fail(c, http.StatusConflict, response.ErrExamNotDraft)
	case errors.Is(err, service.ErrExamEmpty):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrExamEmpty)
	case errors.Is(err, service.ErrExamInvalid):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrExamInvalid)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
