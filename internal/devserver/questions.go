package devserver

import (
	"bytes"
	"encoding/json"
	"mime"
	"net/http"
	"strings"
	"unicode"

	apperrors "github.com/SAP-F-2025/exam-client/internal/errors"
	"github.com/SAP-F-2025/exam-client/internal/models"
	"github.com/SAP-F-2025/exam-client/internal/utils"
	"github.com/SAP-F-2025/exam-client/internal/validator"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

const (
	msgQuestionNotFound = "Question not found."
	msgNoMoreQuestions  = "No more questions available."
	msgImportNotList    = "Invalid JSON file: expected a list of questions."
	msgImportBadRow     = "Invalid question format."
)

type QuestionHandler struct {
	BaseHandler
	store     *Store
	validator *validator.Validator
}

func NewQuestionHandler(store *Store, validator *validator.Validator, logger utils.Logger) *QuestionHandler {
	return &QuestionHandler{
		BaseHandler: NewBaseHandler(logger),
		store:       store,
		validator:   validator,
	}
}

// CreateQuestion creates a new question
// @Summary Create question
// @Tags questions
// @Accept json
// @Produce json
// @Param question body models.QuestionCreate true "Question data"
// @Success 201 {object} models.Question
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /questions/ [post]
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	h.LogRequest(c, "Creating question")

	var req models.QuestionCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		abortValidation(c, "body", err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		abortValidation(c, "body", err)
		return
	}

	q, err := h.store.CreateQuestion(req)
	if err != nil {
		abortDetail(c, http.StatusNotFound, msgExamTypeNotFound)
		return
	}
	c.JSON(http.StatusCreated, q)
}

// ListQuestions lists questions, optionally for one exam type
// @Summary List questions
// @Tags questions
// @Produce json
// @Param exam_type_id query int false "Exam type ID"
// @Success 200 {array} models.Question
// @Router /questions/ [get]
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	examTypeID, ok := queryID(c, "exam_type_id")
	if !ok {
		return
	}
	h.LogRequest(c, "Listing questions", "exam_type_id", examTypeID)

	c.JSON(http.StatusOK, h.store.ListQuestions(examTypeID))
}

func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	q, err := h.store.GetQuestion(id)
	if err != nil {
		abortDetail(c, http.StatusNotFound, msgQuestionNotFound)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	h.LogRequest(c, "Updating question", "question_id", id)

	var req models.QuestionUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		abortValidation(c, "body", err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		abortValidation(c, "body", err)
		return
	}

	if req.ExamTypeID != nil {
		if _, err := h.store.GetExamType(*req.ExamTypeID); err != nil {
			abortDetail(c, http.StatusNotFound, msgExamTypeNotFound)
			return
		}
	}
	q, err := h.store.UpdateQuestion(id, req)
	if err != nil {
		abortDetail(c, http.StatusNotFound, msgQuestionNotFound)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	h.LogRequest(c, "Deleting question", "question_id", id)

	q, err := h.store.DeleteQuestion(id)
	if err != nil {
		abortDetail(c, http.StatusNotFound, msgQuestionNotFound)
		return
	}
	c.JSON(http.StatusOK, q)
}

// NextQuestion serves a random question the caller has not answered yet
// @Summary Next question
// @Tags questions
// @Produce json
// @Param exam_type_id query int false "Exam type ID"
// @Success 200 {object} models.Question
// @Failure 404 {object} ErrorResponse
// @Router /questions/next/ [get]
func (h *QuestionHandler) NextQuestion(c *gin.Context) {
	examTypeID, ok := queryID(c, "exam_type_id")
	if !ok {
		return
	}
	userID := c.GetInt(contextUserID)
	h.LogRequest(c, "Selecting next question", "exam_type_id", examTypeID)

	q, err := h.store.NextQuestion(userID, examTypeID)
	if err != nil {
		abortDetail(c, http.StatusNotFound, msgNoMoreQuestions)
		return
	}
	c.JSON(http.StatusOK, q)
}

// SubmitAnswer records the caller's answer and reveals the correct option
// @Summary Submit answer
// @Tags questions
// @Accept json
// @Produce json
// @Param id path int true "Question ID"
// @Param answer body models.AnswerSubmission true "Selected option"
// @Success 200 {object} models.AnswerResult
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /questions/{id}/answer/ [post]
func (h *QuestionHandler) SubmitAnswer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	h.LogRequest(c, "Submitting answer", "question_id", id)

	var req models.AnswerSubmission
	if err := c.ShouldBindJSON(&req); err != nil {
		abortValidation(c, "body", err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		abortValidation(c, "body", err)
		return
	}

	result, err := h.store.RecordAnswer(c.GetInt(contextUserID), id, req.SelectedAnswer)
	if err != nil {
		abortDetail(c, http.StatusNotFound, msgQuestionNotFound)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ImportQuestions loads a JSON list of questions into an exam type
// @Summary Import questions
// @Tags exam-types
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Exam type ID"
// @Param file formData file true "JSON file"
// @Success 200 {object} models.ImportSummary
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /exam-types/{id}/import-questions/ [post]
func (h *QuestionHandler) ImportQuestions(c *gin.Context) {
	examTypeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	h.LogRequest(c, "Importing questions", "exam_type_id", examTypeID)

	if _, err := h.store.GetExamType(examTypeID); err != nil {
		abortDetail(c, http.StatusNotFound, msgExamTypeNotFound)
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorResponse{Detail: []apperrors.DetailItem{{
			Loc:  []interface{}{"body", "file"},
			Msg:  "Field required",
			Type: "missing",
		}}})
		return
	}
	f, err := header.Open()
	if err != nil {
		h.LogError(c, err, "Failed to open upload", "filename", header.Filename)
		abortDetail(c, http.StatusBadRequest, msgImportNotList)
		return
	}
	defer f.Close()

	var rows []json.RawMessage
	if err := json.NewDecoder(f).Decode(&rows); err != nil {
		abortDetail(c, http.StatusBadRequest, msgImportNotList)
		return
	}

	c.JSON(http.StatusOK, h.importRows(examTypeID, rows))
}

func (h *QuestionHandler) importRows(examTypeID int, rows []json.RawMessage) models.ImportSummary {
	summary := models.ImportSummary{Errors: []models.ImportErrorDetail{}}

	seen := make(map[string]bool)
	for _, q := range h.store.ListQuestions(&examTypeID) {
		seen[normalizeStatement(q.ProblemStatement)] = true
	}

	for i, raw := range rows {
		row := i
		var item models.QuestionExportItem
		if err := json.Unmarshal(raw, &item); err != nil {
			summary.FailedCount++
			summary.Errors = append(summary.Errors, models.ImportErrorDetail{
				RowIndex:     &row,
				ErrorMessage: msgImportBadRow,
				Data:         datatypes.JSON(raw),
			})
			continue
		}

		in := models.QuestionCreate{
			ExamTypeID:       examTypeID,
			ProblemStatement: item.ProblemStatement,
			Option1:          item.Option1,
			Option2:          item.Option2,
			Option3:          item.Option3,
			Option4:          item.Option4,
			CorrectAnswer:    item.CorrectAnswer,
			Explanation:      item.Explanation,
		}
		if err := h.validator.Validate(in); err != nil {
			summary.FailedCount++
			summary.Errors = append(summary.Errors, models.ImportErrorDetail{
				RowIndex:     &row,
				ErrorMessage: apperrors.Message(err),
				Data:         datatypes.JSON(raw),
			})
			continue
		}

		key := normalizeStatement(in.ProblemStatement)
		if seen[key] {
			summary.SkippedCount++
			continue
		}
		if _, err := h.store.CreateQuestion(in); err != nil {
			summary.FailedCount++
			summary.Errors = append(summary.Errors, models.ImportErrorDetail{
				RowIndex:     &row,
				ErrorMessage: msgExamTypeNotFound,
				Data:         datatypes.JSON(raw),
			})
			continue
		}
		seen[key] = true
		summary.ImportedCount++
	}
	return summary
}

// ExportQuestions downloads an exam type's questions as a JSON attachment
// @Summary Export questions
// @Tags exam-types
// @Produce json
// @Param id path int true "Exam type ID"
// @Success 200 {array} models.QuestionExportItem
// @Failure 404 {object} ErrorResponse
// @Router /exam-types/{id}/export-questions/ [get]
func (h *QuestionHandler) ExportQuestions(c *gin.Context) {
	examTypeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	h.LogRequest(c, "Exporting questions", "exam_type_id", examTypeID)

	et, err := h.store.GetExamType(examTypeID)
	if err != nil {
		abortDetail(c, http.StatusNotFound, msgExamTypeNotFound)
		return
	}

	questions := h.store.ListQuestions(&examTypeID)
	items := make([]models.QuestionExportItem, 0, len(questions))
	for _, q := range questions {
		items = append(items, models.QuestionExportItem{
			ProblemStatement: q.ProblemStatement,
			Option1:          q.Option1,
			Option2:          q.Option2,
			Option3:          q.Option3,
			Option4:          q.Option4,
			CorrectAnswer:    q.CorrectAnswer,
			Explanation:      q.Explanation,
		})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		h.LogError(c, err, "Failed to encode export", "exam_type_id", examTypeID)
		abortDetail(c, http.StatusInternalServerError, "Failed to export questions")
		return
	}

	filename := exportFilename(et.Name)
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	c.Data(http.StatusOK, "application/json", buf.Bytes())
}

// exportFilename turns an exam type name into "<slug>_questions.json".
func exportFilename(name string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastUnderscore = false
		case !lastUnderscore && b.Len() > 0:
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "_")
	if slug == "" {
		slug = "exam_type"
	}
	return slug + "_questions.json"
}

func normalizeStatement(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
