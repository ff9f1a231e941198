package devserver

import (
	"fmt"
	"net/http"

	"github.com/SAP-F-2025/exam-client/internal/utils"
	"github.com/gin-gonic/gin"
)

type SummaryHandler struct {
	BaseHandler
	store *Store
}

func NewSummaryHandler(store *Store, logger utils.Logger) *SummaryHandler {
	return &SummaryHandler{
		BaseHandler: NewBaseHandler(logger),
		store:       store,
	}
}

// GetSummary returns the caller's performance, optionally for one exam type
// @Summary Performance summary
// @Tags summary
// @Produce json
// @Param exam_type_id query int false "Exam type ID"
// @Success 200 {object} models.DetailedSummary
// @Failure 404 {object} ErrorResponse
// @Router /summary/ [get]
func (h *SummaryHandler) GetSummary(c *gin.Context) {
	examTypeID, ok := queryID(c, "exam_type_id")
	if !ok {
		return
	}
	h.LogRequest(c, "Computing summary", "exam_type_id", examTypeID)

	if examTypeID != nil {
		if _, err := h.store.GetExamType(*examTypeID); err != nil {
			abortDetail(c, http.StatusNotFound, fmt.Sprintf("ExamType with id %d not found.", *examTypeID))
			return
		}
	}
	c.JSON(http.StatusOK, h.store.Summary(c.GetInt(contextUserID), examTypeID))
}
