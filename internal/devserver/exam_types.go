package devserver

import (
	"errors"
	"net/http"

	"github.com/SAP-F-2025/exam-client/internal/models"
	"github.com/SAP-F-2025/exam-client/internal/utils"
	"github.com/SAP-F-2025/exam-client/internal/validator"
	"github.com/gin-gonic/gin"
)

const msgExamTypeNotFound = "Exam type not found"

type ExamTypeHandler struct {
	BaseHandler
	store     *Store
	validator *validator.Validator
}

func NewExamTypeHandler(store *Store, validator *validator.Validator, logger utils.Logger) *ExamTypeHandler {
	return &ExamTypeHandler{
		BaseHandler: NewBaseHandler(logger),
		store:       store,
		validator:   validator,
	}
}

// CreateExamType creates a new exam type
// @Summary Create exam type
// @Tags exam-types
// @Accept json
// @Produce json
// @Param exam_type body models.ExamTypeCreate true "Exam type data"
// @Success 201 {object} models.ExamType
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /exam-types/ [post]
func (h *ExamTypeHandler) CreateExamType(c *gin.Context) {
	h.LogRequest(c, "Creating exam type")

	var req models.ExamTypeCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		abortValidation(c, "body", err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		abortValidation(c, "body", err)
		return
	}

	et, err := h.store.CreateExamType(req.Name)
	if errors.Is(err, ErrDuplicate) {
		abortDetail(c, http.StatusBadRequest, "Exam type with this name already exists")
		return
	}
	if err != nil {
		h.LogError(c, err, "Failed to create exam type")
		abortDetail(c, http.StatusInternalServerError, "Failed to create exam type")
		return
	}

	c.JSON(http.StatusCreated, et)
}

// ListExamTypes lists all exam types
// @Summary List exam types
// @Tags exam-types
// @Produce json
// @Success 200 {array} models.ExamType
// @Router /exam-types/ [get]
func (h *ExamTypeHandler) ListExamTypes(c *gin.Context) {
	h.LogRequest(c, "Listing exam types")
	c.JSON(http.StatusOK, h.store.ListExamTypes())
}

func (h *ExamTypeHandler) GetExamType(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	h.LogRequest(c, "Getting exam type", "exam_type_id", id)

	et, err := h.store.GetExamType(id)
	if err != nil {
		abortDetail(c, http.StatusNotFound, msgExamTypeNotFound)
		return
	}
	c.JSON(http.StatusOK, et)
}

// UpdateExamType renames an exam type
// @Summary Update exam type
// @Tags exam-types
// @Accept json
// @Produce json
// @Param id path int true "Exam type ID"
// @Param exam_type body models.ExamTypeUpdate true "Exam type data"
// @Success 200 {object} models.ExamType
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /exam-types/{id} [put]
func (h *ExamTypeHandler) UpdateExamType(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	h.LogRequest(c, "Updating exam type", "exam_type_id", id)

	var req models.ExamTypeUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		abortValidation(c, "body", err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		abortValidation(c, "body", err)
		return
	}

	et, err := h.store.UpdateExamType(id, req.Name)
	switch {
	case errors.Is(err, ErrNotFound):
		abortDetail(c, http.StatusNotFound, msgExamTypeNotFound)
		return
	case errors.Is(err, ErrDuplicate):
		abortDetail(c, http.StatusBadRequest, "Another exam type with this name already exists")
		return
	case err != nil:
		h.LogError(c, err, "Failed to update exam type", "exam_type_id", id)
		abortDetail(c, http.StatusInternalServerError, "Failed to update exam type")
		return
	}

	c.JSON(http.StatusOK, et)
}

// DeleteExamType deletes an exam type. Its questions are kept without an exam type.
// @Summary Delete exam type
// @Tags exam-types
// @Produce json
// @Param id path int true "Exam type ID"
// @Success 200 {object} models.ExamType
// @Failure 404 {object} ErrorResponse
// @Router /exam-types/{id} [delete]
func (h *ExamTypeHandler) DeleteExamType(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	h.LogRequest(c, "Deleting exam type", "exam_type_id", id)

	et, err := h.store.DeleteExamType(id)
	if err != nil {
		abortDetail(c, http.StatusNotFound, msgExamTypeNotFound)
		return
	}
	c.JSON(http.StatusOK, et)
}
