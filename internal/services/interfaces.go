package services

import (
	"context"

	"github.com/SAP-F-2025/learning-service/internal/models"
)

// ===== REQUEST/RESPONSE DTOs =====

type QuestionRequest struct {
	Type          models.QuestionType     `json:"type" validate:"required,question_type"`
	Text          string                  `json:"text" validate:"required,max=5000"`
	Options       []models.QuestionOption `json:"options" validate:"omitempty,max=20"`
	CorrectAnswer string                  `json:"correctAnswer" validate:"max=1000"`
	Points        *int                    `json:"points" validate:"omitempty,min=1,max=1000"`
}

type CreateQuizRequest struct {
	CourseID     uint              `json:"courseId" validate:"required"`
	Title        string            `json:"title" validate:"required,min=1,max=200"`
	Description  *string           `json:"description" validate:"omitempty,max=2000"`
	PassingScore int               `json:"passingScore" validate:"passing_score"`
	TimeLimit    *int              `json:"timeLimit" validate:"omitempty,min=1,max=600"`
	Questions    []QuestionRequest `json:"questions" validate:"omitempty,dive"`
}

type ReplaceQuestionsRequest struct {
	Questions []QuestionRequest `json:"questions" validate:"dive"`
}

type SubmitAttemptRequest struct {
	Answers   []models.SubmittedAnswer `json:"answers" validate:"max=500,unique_questions,dive"`
	TimeSpent int                      `json:"timeSpent" validate:"gte=0"`
}

type RateCourseRequest struct {
	Rating  int     `json:"rating" validate:"rating"`
	Comment *string `json:"comment" validate:"omitempty,max=2000"`
}

// ===== SERVICE INTERFACES =====

type QuizService interface {
	Create(ctx context.Context, req *CreateQuizRequest, creatorID string) (*models.Quiz, error)
	Get(ctx context.Context, quizID uint) (*models.Quiz, error)
	// GetForViewer returns the full quiz to its author. Anyone else sees a
	// published quiz without its answer key.
	GetForViewer(ctx context.Context, quizID uint, viewerID string) (*models.Quiz, error)
	ReplaceQuestions(ctx context.Context, quizID uint, req *ReplaceQuestionsRequest) (*models.Quiz, error)
	SetPublished(ctx context.Context, quizID uint, published bool) error
	// Grade scores answers without storing anything. Only the quiz author
	// may preview grading.
	Grade(ctx context.Context, quizID uint, requesterID string, req *SubmitAttemptRequest) (*models.GradedResult, error)
}

type AttemptService interface {
	// Submit grades the answers and stores the attempt in one transaction
	Submit(ctx context.Context, quizID uint, studentID string, req *SubmitAttemptRequest) (*models.QuizAttempt, error)
	// Record stores an already graded result after the same checks as Submit
	Record(ctx context.Context, quizID uint, studentID string, result models.GradedResult, timeSpent int) (*models.QuizAttempt, error)
	GetForStudent(ctx context.Context, attemptID uint, studentID string) (*models.QuizAttempt, error)
	ListByStudentAndQuiz(ctx context.Context, studentID string, quizID uint) ([]*models.QuizAttempt, error)
	ListByQuiz(ctx context.Context, quizID uint) ([]*models.QuizAttempt, error)
}

type ProgressService interface {
	Enroll(ctx context.Context, studentID string, courseID uint) (*models.Enrollment, error)
	CompleteLesson(ctx context.Context, studentID string, courseID, lessonID uint) (*models.Enrollment, error)
	GetEnrollment(ctx context.Context, studentID string, courseID uint) (*models.Enrollment, error)
}

type RatingService interface {
	RateCourse(ctx context.Context, studentID string, courseID uint, req *RateCourseRequest) (*models.CourseRatingSummary, error)
	RecalculateCourseRating(ctx context.Context, courseID uint) (*models.CourseRatingSummary, error)
	// RecalculateAll repairs every course and returns how many were processed
	RecalculateAll(ctx context.Context) (int, error)
	GetSummary(ctx context.Context, courseID uint) (*models.CourseRatingSummary, error)
}

type ExportService interface {
	ExportQuizResults(ctx context.Context, quizID uint) ([]byte, error)
}

// ServiceManager manages all service instances
type ServiceManager interface {
	Quiz() QuizService
	Attempt() AttemptService
	Progress() ProgressService
	Rating() RatingService
	Export() ExportService

	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
