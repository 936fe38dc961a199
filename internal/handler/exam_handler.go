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

// ExamHandler handles exam version authoring and publishing.
type ExamHandler struct {
	examService *service.ExamService
}

// NewExamHandler creates a new ExamHandler.
func NewExamHandler(examService *service.ExamService) *ExamHandler {
	return &ExamHandler{examService: examService}
}

// Create godoc
// POST /api/v1/exam-versions
func (h *ExamHandler) Create(c *gin.Context) {
	var req model.CreateExamVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, validator.TranslateErrors(err))
		return
	}

	version, err := h.examService.CreateVersion(c.Request.Context(), &req, staffID(c))
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, version)
}

// List godoc
// GET /api/v1/exam-versions
func (h *ExamHandler) List(c *gin.Context) {
	page, perPage := pagination(c)
	versions, total, err := h.examService.ListVersions(c.Request.Context(), page, perPage)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, versions, buildPagination(page, perPage, total))
}

// Get godoc
// GET /api/v1/exam-versions/:id
func (h *ExamHandler) Get(c *gin.Context) {
	versionID, ok := pathVersionID(c)
	if !ok {
		return
	}

	version, err := h.examService.GetVersion(c.Request.Context(), versionID)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, version)
}

// GetDefinition godoc
// GET /api/v1/exam-versions/:id/definition
// Returns the fully resolved definition including the answer key. Staff only.
func (h *ExamHandler) GetDefinition(c *gin.Context) {
	versionID, ok := pathVersionID(c)
	if !ok {
		return
	}

	def, err := h.examService.GetDefinition(c.Request.Context(), versionID)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, def)
}

// AddModule godoc
// POST /api/v1/exam-versions/:id/modules
func (h *ExamHandler) AddModule(c *gin.Context) {
	versionID, ok := pathVersionID(c)
	if !ok {
		return
	}

	var req model.AddModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, validator.TranslateErrors(err))
		return
	}

	module, err := h.examService.AddModule(c.Request.Context(), versionID, &req)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, module)
}

// AddQuestion godoc
// POST /api/v1/exam-versions/:id/modules/:moduleId/questions
func (h *ExamHandler) AddQuestion(c *gin.Context) {
	versionID, ok := pathVersionID(c)
	if !ok {
		return
	}
	moduleID, err := uuid.Parse(c.Param("moduleId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.AddQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, validator.TranslateErrors(err))
		return
	}

	question, err := h.examService.AddQuestion(c.Request.Context(), versionID, moduleID, &req)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, question)
}

// Publish godoc
// POST /api/v1/exam-versions/:id/publish
func (h *ExamHandler) Publish(c *gin.Context) {
	versionID, ok := pathVersionID(c)
	if !ok {
		return
	}

	if err := h.examService.Publish(c.Request.Context(), versionID, staffID(c)); err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": model.ExamVersionStatusPublished})
}

// Archive godoc
// POST /api/v1/exam-versions/:id/archive
func (h *ExamHandler) Archive(c *gin.Context) {
	versionID, ok := pathVersionID(c)
	if !ok {
		return
	}

	if err := h.examService.Archive(c.Request.Context(), versionID, staffID(c)); err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": model.ExamVersionStatusArchived})
}

func pathVersionID(c *gin.Context) (uuid.UUID, bool) {
	versionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return versionID, true
}
