package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aptivohq/aptivo-backend/internal/middleware"
	"github.com/aptivohq/aptivo-backend/internal/model"
	"github.com/aptivohq/aptivo-backend/internal/response"
	"github.com/aptivohq/aptivo-backend/internal/service"
	"github.com/aptivohq/aptivo-backend/internal/validator"
)

// AttemptHandler handles the candidate-facing attempt endpoints. Every route
// except Start runs behind the candidate JWT and active-session middleware,
// and operates on the attempt bound into the token, never on a client-chosen
// attempt ID.
type AttemptHandler struct {
	attemptService   *service.AttemptService
	answerService    *service.AnswerService
	timerService     *service.TimerService
	telemetryService *service.TelemetryService
}

// NewAttemptHandler creates a new AttemptHandler.
func NewAttemptHandler(
	attemptService *service.AttemptService,
	answerService *service.AnswerService,
	timerService *service.TimerService,
	telemetryService *service.TelemetryService,
) *AttemptHandler {
	return &AttemptHandler{
		attemptService:   attemptService,
		answerService:    answerService,
		timerService:     timerService,
		telemetryService: telemetryService,
	}
}

// Start godoc
// POST /api/v1/attempts
// Exchanges ticket+PIN for a session token and the initial snapshot.
func (h *AttemptHandler) Start(c *gin.Context) {
	var req model.StartAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, validator.TranslateErrors(err))
		return
	}

	result, err := h.attemptService.Start(c.Request.Context(), &req)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// Snapshot godoc
// GET /api/v1/attempts/me
func (h *AttemptHandler) Snapshot(c *gin.Context) {
	attemptID, ok := attemptIDFromClaims(c)
	if !ok {
		return
	}

	snapshot, err := h.attemptService.Snapshot(c.Request.Context(), attemptID)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, snapshot)
}

// RecordAnswer godoc
// PUT /api/v1/attempts/me/answers
func (h *AttemptHandler) RecordAnswer(c *gin.Context) {
	attemptID, ok := attemptIDFromClaims(c)
	if !ok {
		return
	}

	var req model.RecordAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, validator.TranslateErrors(err))
		return
	}

	answer, err := h.answerService.Record(c.Request.Context(), attemptID, &req)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, answer)
}

// UpdateTimer godoc
// PUT /api/v1/attempts/me/timers
// Applies an elapsed-seconds delta and returns the authoritative remainder.
func (h *AttemptHandler) UpdateTimer(c *gin.Context) {
	attemptID, ok := attemptIDFromClaims(c)
	if !ok {
		return
	}

	var req model.UpdateTimerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, validator.TranslateErrors(err))
		return
	}

	remaining, err := h.timerService.ApplyElapsed(c.Request.Context(), attemptID, &req)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"module_id":         req.ModuleID,
		"remaining_seconds": remaining,
	})
}

// RecordTelemetry godoc
// POST /api/v1/attempts/me/telemetry
// Appends one behavioral event and returns the item's refreshed metrics.
func (h *AttemptHandler) RecordTelemetry(c *gin.Context) {
	attemptID, ok := attemptIDFromClaims(c)
	if !ok {
		return
	}

	var req model.RecordTelemetryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, validator.TranslateErrors(err))
		return
	}

	metric, err := h.telemetryService.RecordEvent(c.Request.Context(), attemptID, &req)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, metric)
}

// Submit godoc
// POST /api/v1/attempts/me/submit
// Re-authenticates with ticket+PIN and finalizes the attempt.
func (h *AttemptHandler) Submit(c *gin.Context) {
	attemptID, ok := attemptIDFromClaims(c)
	if !ok {
		return
	}

	var req model.SubmitAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, validator.TranslateErrors(err))
		return
	}

	score, err := h.attemptService.Submit(c.Request.Context(), attemptID, &req)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"score": score})
}

// attemptIDFromClaims resolves the attempt bound into the candidate token.
func attemptIDFromClaims(c *gin.Context) (uuid.UUID, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return uuid.Nil, false
	}
	attemptID, err := uuid.Parse(claims.AttemptID)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
		return uuid.Nil, false
	}
	return attemptID, true
}
