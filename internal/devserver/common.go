package devserver

import (
	"errors"
	"net/http"
	"strconv"

	apperrors "github.com/SAP-F-2025/exam-client/internal/errors"
	"github.com/SAP-F-2025/exam-client/internal/utils"
	"github.com/gin-gonic/gin"
)

// ErrorResponse mirrors the backend's error body: a string detail for domain
// errors, a list of DetailItem for request validation.
type ErrorResponse struct {
	Detail interface{} `json:"detail"`
}

// BaseHandler provides common logging functionality for all handlers
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// loggerFor prefers the request-scoped logger set by utils.ContextLogger.
func (h *BaseHandler) loggerFor(c *gin.Context) utils.Logger {
	return utils.GetLoggerFromContext(c, h.logger)
}

// LogRequest logs incoming HTTP requests with context information
func (h *BaseHandler) LogRequest(c *gin.Context, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"remote_addr", c.ClientIP(),
		"user_id", c.GetInt(contextUserID),
	}
	fields = append(fields, additionalFields...)

	h.loggerFor(c).Debug(message, fields...)
}

// LogError logs error details with context information
func (h *BaseHandler) LogError(c *gin.Context, err error, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"user_id", c.GetInt(contextUserID),
	}
	fields = append(fields, additionalFields...)

	h.loggerFor(c).LogError(err, message, fields...)
}

func abortDetail(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Detail: detail})
}

// abortValidation renders field errors as a 422 list, each located in the body.
func abortValidation(c *gin.Context, location string, err error) {
	var verrs apperrors.ValidationErrors
	if !errors.As(err, &verrs) {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorResponse{Detail: []apperrors.DetailItem{{
			Loc:  []interface{}{location},
			Msg:  err.Error(),
			Type: "value_error",
		}}})
		return
	}

	items := make([]apperrors.DetailItem, 0, len(verrs))
	for _, v := range verrs {
		loc := []interface{}{location}
		if v.Field != "" {
			loc = append(loc, v.Field)
		}
		items = append(items, apperrors.DetailItem{Loc: loc, Msg: v.Message, Type: v.Rule})
	}
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorResponse{Detail: items})
}

// pathID parses a positive integer path parameter, answering 422 otherwise.
func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorResponse{Detail: []apperrors.DetailItem{{
			Loc:  []interface{}{"path", name},
			Msg:  "Input should be a valid integer",
			Type: "int_parsing",
		}}})
		return 0, false
	}
	return id, true
}

// queryID parses an optional integer query parameter. Absent means nil.
func queryID(c *gin.Context, name string) (*int, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, true
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorResponse{Detail: []apperrors.DetailItem{{
			Loc:  []interface{}{"query", name},
			Msg:  "Input should be a valid integer",
			Type: "int_parsing",
		}}})
		return nil, false
	}
	return &id, true
}

// HealthCheck returns the health status of the service
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "exam-devserver"})
}
