package repositories

import (
	"context"

	"github.com/SAP-F-2025/learning-service/internal/models"
)

// Repository is the aggregate entry point to every store. Repositories
// returned from inside WithTransaction share the transaction.
type Repository interface {
	Course() CourseRepository
	Lesson() LessonRepository
	Quiz() QuizRepository
	Attempt() AttemptRepository
	Enrollment() EnrollmentRepository

	// Transaction management
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id uint) (*models.Course, error)
	// GetByIDForUpdate locks the course row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id uint) (*models.Course, error)
	UpdateRatingSummary(ctx context.Context, id uint, rating float64, ratingCount int) error
	ListIDs(ctx context.Context) ([]uint, error)
}

type LessonRepository interface {
	Create(ctx context.Context, lesson *models.Lesson) error
	CountByCourse(ctx context.Context, courseID uint) (int, error)
	ExistsInCourse(ctx context.Context, courseID, lessonID uint) (bool, error)
}

type QuizRepository interface {
	Create(ctx context.Context, quiz *models.Quiz) error
	GetByID(ctx context.Context, id uint) (*models.Quiz, error)
	// GetByIDWithQuestions loads the quiz with questions sorted by order.
	GetByIDWithQuestions(ctx context.Context, id uint) (*models.Quiz, error)
	// ReplaceQuestions swaps the full question list and rewrites totalPoints.
	ReplaceQuestions(ctx context.Context, quizID uint, questions []models.Question, totalPoints int) error
	SetPublished(ctx context.Context, id uint, published bool) error
}

// AttemptRepository has no update path. Attempts are append-only.
type AttemptRepository interface {
	Create(ctx context.Context, attempt *models.QuizAttempt) error
	GetByID(ctx context.Context, id uint) (*models.QuizAttempt, error)
	ListByStudentAndQuiz(ctx context.Context, studentID string, quizID uint) ([]*models.QuizAttempt, error)
	ListByQuiz(ctx context.Context, quizID uint) ([]*models.QuizAttempt, error)
}

type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	GetByStudentAndCourse(ctx context.Context, studentID string, courseID uint) (*models.Enrollment, error)
	// GetByStudentAndCourseForUpdate locks the enrollment row until the surrounding transaction ends.
	GetByStudentAndCourseForUpdate(ctx context.Context, studentID string, courseID uint) (*models.Enrollment, error)
	Update(ctx context.Context, enrollment *models.Enrollment) error
	// ListRatingsByCourse returns every non-null rating recorded for the course.
	ListRatingsByCourse(ctx context.Context, courseID uint) ([]int, error)
}
