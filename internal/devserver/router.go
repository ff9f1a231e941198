package devserver

import (
	"github.com/SAP-F-2025/exam-client/internal/utils"
	"github.com/SAP-F-2025/exam-client/internal/validator"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	auth            *Authenticator
	examTypeHandler *ExamTypeHandler
	questionHandler *QuestionHandler
	summaryHandler  *SummaryHandler
}

func NewHandlerManager(store *Store, auth *Authenticator, validator *validator.Validator, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		auth:            auth,
		examTypeHandler: NewExamTypeHandler(store, validator, logger),
		questionHandler: NewQuestionHandler(store, validator, logger),
		summaryHandler:  NewSummaryHandler(store, logger),
	}
}

// NewRouter builds the engine with logging, recovery and, when origins are
// configured, CORS.
func NewRouter(hm *HandlerManager, logger utils.Logger, corsOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(utils.LoggerMiddleware(logger), utils.ContextLogger(logger), gin.Recovery())

	if len(corsOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     corsOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Authorization", "Content-Type"},
			ExposeHeaders:    []string{"Content-Disposition"},
			AllowCredentials: true,
		}))
	}

	hm.SetupRoutes(router)
	return router
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)

	router.POST("/auth/token", hm.auth.Login)

	api := router.Group("", hm.auth.Middleware())
	{
		examTypes := api.Group("/exam-types")
		{
			examTypes.POST("/", hm.examTypeHandler.CreateExamType)
			examTypes.GET("/", hm.examTypeHandler.ListExamTypes)
			examTypes.GET("/:id", hm.examTypeHandler.GetExamType)
			examTypes.PUT("/:id", hm.examTypeHandler.UpdateExamType)
			examTypes.DELETE("/:id", hm.examTypeHandler.DeleteExamType)

			examTypes.POST("/:id/import-questions/", hm.questionHandler.ImportQuestions)
			examTypes.GET("/:id/export-questions/", hm.questionHandler.ExportQuestions)
		}

		questions := api.Group("/questions")
		{
			questions.POST("/", hm.questionHandler.CreateQuestion)
			questions.GET("/", hm.questionHandler.ListQuestions)
			questions.GET("/next/", hm.questionHandler.NextQuestion)
			questions.GET("/:id", hm.questionHandler.GetQuestion)
			questions.PUT("/:id", hm.questionHandler.UpdateQuestion)
			questions.DELETE("/:id", hm.questionHandler.DeleteQuestion)
			questions.POST("/:id/answer/", hm.questionHandler.SubmitAnswer)
		}

		api.GET("/summary/", hm.summaryHandler.GetSummary)
	}
}
