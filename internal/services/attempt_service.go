package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/SAP-F-2025/learning-service/internal/scoring"
	"github.com/SAP-F-2025/learning-service/internal/validator"
)

type attemptService struct {
	repo      repositories.Repository
	notifier  EventNotifier
	logger    *slog.Logger
	validator *validator.Validator
	now       func() time.Time
}

func NewAttemptService(repo repositories.Repository, notifier EventNotifier, logger *slog.Logger, validator *validator.Validator) AttemptService {
	return &attemptService{
		repo:      repo,
		notifier:  notifier,
		logger:    logger,
		validator: validator,
		now:       time.Now,
	}
}

// ===== CORE ATTEMPT OPERATIONS =====

func (s *attemptService) Submit(ctx context.Context, quizID uint, studentID string, req *SubmitAttemptRequest) (*models.QuizAttempt, error) {
	s.logger.Info("Submitting quiz attempt",
		"quiz_id", quizID,
		"student_id", studentID,
		"answers", len(req.Answers))

	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return s.store(ctx, quizID, studentID, req.TimeSpent, func(quiz *models.Quiz) (models.GradedResult, error) {
		return scoring.GradeAttempt(quiz, req.Answers), nil
	})
}

func (s *attemptService) Record(ctx context.Context, quizID uint, studentID string, result models.GradedResult, timeSpent int) (*models.QuizAttempt, error) {
	s.logger.Info("Recording graded attempt",
		"quiz_id", quizID,
		"student_id", studentID,
		"score", result.Score)

	if err := validateGradedResult(result, timeSpent); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return s.store(ctx, quizID, studentID, timeSpent, func(quiz *models.Quiz) (models.GradedResult, error) {
		expected := quiz.TotalPoints
		if expected == 0 {
			expected = quiz.QuestionPoints()
		}
		if result.TotalPoints != expected {
			return models.GradedResult{}, NewBusinessRuleError("total_points_mismatch",
				"graded result does not match the quiz total points",
				map[string]interface{}{"expected": expected, "actual": result.TotalPoints})
		}
		if err := checkGradedAnswers(quiz, result); err != nil {
			return models.GradedResult{}, err
		}

		// percentage and passed are derived, never trusted from the caller
		result.Percentage = scoring.Percentage(result.Score, result.TotalPoints)
		result.Passed = len(quiz.Questions) > 0 && result.TotalPoints > 0 &&
			result.Percentage >= quiz.PassingScore
		return result, nil
	})
}

// store runs the guard checks and the insert in one transaction so a quiz
// unpublished or an enrollment dropped concurrently cannot slip through.
func (s *attemptService) store(
	ctx context.Context,
	quizID uint,
	studentID string,
	timeSpent int,
	grade func(quiz *models.Quiz) (models.GradedResult, error),
) (*models.QuizAttempt, error) {
	var attempt *models.QuizAttempt

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		quiz, err := tx.Quiz().GetByIDWithQuestions(ctx, quizID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrQuizNotFound
			}
			return fmt.Errorf("failed to get quiz: %w", err)
		}

		if !quiz.IsPublished {
			return ErrQuizUnavailable
		}

		enrollment, err := tx.Enrollment().GetByStudentAndCourse(ctx, studentID, quiz.CourseID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrNotEnrolled
			}
			return fmt.Errorf("failed to get enrollment: %w", err)
		}
		if !enrollment.IsActive() {
			return ErrNotEnrolled
		}

		result, err := grade(quiz)
		if err != nil {
			return err
		}

		attempt = &models.QuizAttempt{
			StudentID:   studentID,
			QuizID:      quiz.ID,
			CourseID:    quiz.CourseID,
			Answers:     result.Answers,
			Score:       result.Score,
			TotalPoints: result.TotalPoints,
			Percentage:  result.Percentage,
			Passed:      result.Passed,
			SubmittedAt: s.now().UTC(),
			TimeSpent:   timeSpent,
		}
		if attempt.Answers == nil {
			attempt.Answers = []models.GradedAnswer{}
		}

		if err := tx.Attempt().Create(ctx, attempt); err != nil {
			return fmt.Errorf("failed to create attempt: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Quiz attempt recorded successfully",
		"attempt_id", attempt.ID,
		"quiz_id", attempt.QuizID,
		"student_id", studentID,
		"percentage", attempt.Percentage,
		"passed", attempt.Passed)

	s.notifier.NotifyAttemptRecorded(ctx, attempt)

	return attempt, nil
}

// ===== QUERIES =====

func (s *attemptService) GetForStudent(ctx context.Context, attemptID uint, studentID string) (*models.QuizAttempt, error) {
	attempt, err := s.repo.Attempt().GetByID(ctx, attemptID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}

	if attempt.StudentID != studentID {
		return nil, ErrAttemptAccessDenied
	}

	return attempt, nil
}

func (s *attemptService) ListByStudentAndQuiz(ctx context.Context, studentID string, quizID uint) ([]*models.QuizAttempt, error) {
	attempts, err := s.repo.Attempt().ListByStudentAndQuiz(ctx, studentID, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	return attempts, nil
}

func (s *attemptService) ListByQuiz(ctx context.Context, quizID uint) ([]*models.QuizAttempt, error) {
	if _, err := s.repo.Quiz().GetByID(ctx, quizID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	attempts, err := s.repo.Attempt().ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	return attempts, nil
}

// checkGradedAnswers requires every graded answer to name a distinct quiz
// question, award either nothing or the question's full points in line with
// isCorrect, and add up to the reported score.
func checkGradedAnswers(quiz *models.Quiz, result models.GradedResult) error {
	points := make(map[uint]int, len(quiz.Questions))
	for _, q := range quiz.Questions {
		points[q.ID] = q.Points
	}

	seen := make(map[uint]bool, len(result.Answers))
	sum := 0
	for _, answer := range result.Answers {
		questionPoints, ok := points[answer.QuestionID]
		if !ok {
			return NewBusinessRuleError("unknown_question",
				"graded answer references a question outside the quiz",
				map[string]interface{}{"question_id": answer.QuestionID})
		}
		if seen[answer.QuestionID] {
			return NewBusinessRuleError("duplicate_question",
				"graded result contains the same question twice",
				map[string]interface{}{"question_id": answer.QuestionID})
		}
		seen[answer.QuestionID] = true

		want := 0
		if answer.IsCorrect {
			want = questionPoints
		}
		if answer.PointsEarned != want {
			return NewBusinessRuleError("points_mismatch",
				"points earned do not match the question points and correctness",
				map[string]interface{}{
					"question_id": answer.QuestionID,
					"expected":    want,
					"actual":      answer.PointsEarned,
				})
		}
		sum += answer.PointsEarned
	}

	if sum != result.Score {
		return NewBusinessRuleError("score_mismatch",
			"score does not equal the sum of points earned",
			map[string]interface{}{"expected": sum, "actual": result.Score})
	}
	return nil
}

// validateGradedResult checks the parts of an externally graded result that
// cannot be recomputed from the quiz.
func validateGradedResult(result models.GradedResult, timeSpent int) error {
	var errs ValidationErrors
	if result.TotalPoints < 0 {
		errs = append(errs, *NewValidationError("totalPoints", "must not be negative", result.TotalPoints))
	}
	if result.Score < 0 || result.Score > result.TotalPoints {
		errs = append(errs, *NewValidationError("score", "must be between 0 and totalPoints", result.Score))
	}
	if timeSpent < 0 {
		errs = append(errs, *NewValidationError("timeSpent", "must not be negative", timeSpent))
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
