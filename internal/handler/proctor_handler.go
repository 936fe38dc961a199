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

// ProctorHandler handles staff operations on running attempts: the
// lock/resume takeover cycle, abort, and read access to attempt state.
type ProctorHandler struct {
	attemptService   *service.AttemptService
	takeoverService  *service.TakeoverService
	telemetryService *service.TelemetryService
}

// NewProctorHandler creates a new ProctorHandler.
func NewProctorHandler(
	attemptService *service.AttemptService,
	takeoverService *service.TakeoverService,
	telemetryService *service.TelemetryService,
) *ProctorHandler {
	return &ProctorHandler{
		attemptService:   attemptService,
		takeoverService:  takeoverService,
		telemetryService: telemetryService,
	}
}

// Lock godoc
// POST /api/v1/proctor/attempts/:id/lock
func (h *ProctorHandler) Lock(c *gin.Context) {
	attemptID, ok := pathAttemptID(c)
	if !ok {
		return
	}

	if err := h.takeoverService.Lock(c.Request.Context(), attemptID, staffID(c)); err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": model.AttemptStatusLocked})
}

// Resume godoc
// POST /api/v1/proctor/attempts/:id/resume
// Unlocks the attempt and returns a fresh candidate token plus snapshot for
// handover to the replacement device.
func (h *ProctorHandler) Resume(c *gin.Context) {
	attemptID, ok := pathAttemptID(c)
	if !ok {
		return
	}

	var req model.ResumeAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, validator.TranslateErrors(err))
		return
	}

	result, err := h.takeoverService.Resume(c.Request.Context(), attemptID, &req, staffID(c))
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Abort godoc
// POST /api/v1/proctor/attempts/:id/abort
func (h *ProctorHandler) Abort(c *gin.Context) {
	attemptID, ok := pathAttemptID(c)
	if !ok {
		return
	}

	if err := h.takeoverService.Abort(c.Request.Context(), attemptID, staffID(c)); err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": model.AttemptStatusAborted})
}

// GetSnapshot godoc
// GET /api/v1/proctor/attempts/:id
func (h *ProctorHandler) GetSnapshot(c *gin.Context) {
	attemptID, ok := pathAttemptID(c)
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

// GetScore godoc
// GET /api/v1/proctor/attempts/:id/score
func (h *ProctorHandler) GetScore(c *gin.Context) {
	attemptID, ok := pathAttemptID(c)
	if !ok {
		return
	}

	score, sections, err := h.attemptService.GetScore(c.Request.Context(), attemptID)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"score":    score,
		"sections": sections,
	})
}

// GetItemMetrics godoc
// GET /api/v1/proctor/attempts/:id/items/:itemId/metrics
// Recomputes one item's metrics live from the event log.
func (h *ProctorHandler) GetItemMetrics(c *gin.Context) {
	attemptID, ok := pathAttemptID(c)
	if !ok {
		return
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	metric, err := h.telemetryService.GetItemMetrics(c.Request.Context(), attemptID, itemID)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, metric)
}

// RebuildMetrics godoc
// POST /api/v1/proctor/attempts/:id/metrics/rebuild
// Replays the telemetry log and persists fresh metrics for every item.
func (h *ProctorHandler) RebuildMetrics(c *gin.Context) {
	attemptID, ok := pathAttemptID(c)
	if !ok {
		return
	}

	metrics, err := h.telemetryService.RebuildAttemptMetrics(c.Request.Context(), attemptID)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"metrics": metrics})
}

// ListByExamVersion godoc
// GET /api/v1/proctor/exam-versions/:id/attempts
func (h *ProctorHandler) ListByExamVersion(c *gin.Context) {
	versionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	page, perPage := pagination(c)
	attempts, total, err := h.attemptService.ListByExamVersion(c.Request.Context(), versionID, page, perPage)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, attempts, buildPagination(page, perPage, total))
}

func pathAttemptID(c *gin.Context) (uuid.UUID, bool) {
	attemptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return attemptID, true
}

func staffID(c *gin.Context) int {
	if claims := middleware.GetClaims(c); claims != nil {
		return claims.StaffID
	}
	return 0
}
