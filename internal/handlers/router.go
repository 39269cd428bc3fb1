package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/SAP-F-2025/learning-service/internal/services"
	"github.com/SAP-F-2025/learning-service/internal/utils"
	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 2 * time.Second

type HandlerManager struct {
	quizHandler    *QuizHandler
	attemptHandler *AttemptHandler
	courseHandler  *CourseHandler
	auth           *Authenticator
	serviceManager services.ServiceManager
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	auth *Authenticator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		quizHandler:    NewQuizHandler(serviceManager.Quiz(), serviceManager.Export(), logger),
		attemptHandler: NewAttemptHandler(serviceManager.Attempt(), logger),
		courseHandler:  NewCourseHandler(serviceManager.Progress(), serviceManager.Rating(), logger),
		auth:           auth,
		serviceManager: serviceManager,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.health)

	v1 := router.Group("/api/v1")
	v1.Use(hm.auth.Middleware())
	{
		quizzes := v1.Group("/quizzes")
		{
			quizzes.POST("", hm.quizHandler.CreateQuiz)
			quizzes.GET("/:id", hm.quizHandler.GetQuiz)
			quizzes.PUT("/:id/questions", hm.quizHandler.ReplaceQuestions)
			quizzes.POST("/:id/publish", hm.quizHandler.PublishQuiz)
			quizzes.POST("/:id/unpublish", hm.quizHandler.UnpublishQuiz)
			quizzes.POST("/:id/grade", hm.quizHandler.GradePreview)

			quizzes.POST("/:id/attempts", hm.attemptHandler.SubmitAttempt)
			quizzes.GET("/:id/attempts", hm.attemptHandler.ListMyAttempts)
			quizzes.GET("/:id/results", hm.attemptHandler.ListQuizResults)
			quizzes.GET("/:id/results/export", hm.quizHandler.ExportResults)
		}

		v1.GET("/attempts/:id", hm.attemptHandler.GetAttempt)

		courses := v1.Group("/courses")
		{
			courses.POST("/:id/enroll", hm.courseHandler.Enroll)
			courses.GET("/:id/enrollment", hm.courseHandler.GetEnrollment)
			courses.POST("/:id/lessons/:lesson_id/complete", hm.courseHandler.CompleteLesson)

			courses.POST("/:id/rating", hm.courseHandler.RateCourse)
			courses.GET("/:id/rating", hm.courseHandler.GetRating)
			courses.POST("/:id/rating/recalculate", hm.courseHandler.RecalculateRating)
		}
	}
}

func (hm *HandlerManager) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	if err := hm.serviceManager.HealthCheck(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"service": "learning-service",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "learning-service",
	})
}
