package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/learning-service/internal/cache"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/SAP-F-2025/learning-service/internal/scoring"
	"github.com/SAP-F-2025/learning-service/internal/validator"
)

type quizService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	cacheTTL  time.Duration
	logger    *slog.Logger
	validator *validator.Validator
}

func NewQuizService(repo repositories.Repository, cacheService cache.CacheService, cacheTTL time.Duration, logger *slog.Logger, validator *validator.Validator) QuizService {
	return &quizService{
		repo:      repo,
		cache:     cacheService,
		cacheTTL:  cacheTTL,
		logger:    logger,
		validator: validator,
	}
}

func (s *quizService) Create(ctx context.Context, req *CreateQuizRequest, creatorID string) (*models.Quiz, error) {
	s.logger.Info("Creating quiz",
		"course_id", req.CourseID,
		"creator_id", creatorID)

	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	questions := buildQuestions(req.Questions)
	if err := s.validator.Question().ValidateBatch(questions); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	quiz := &models.Quiz{
		CourseID:     req.CourseID,
		Title:        req.Title,
		Description:  req.Description,
		PassingScore: req.PassingScore,
		TimeLimit:    req.TimeLimit,
		CreatedBy:    creatorID,
		Questions:    questions,
	}
	quiz.TotalPoints = quiz.QuestionPoints()

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if _, err := tx.Course().GetByID(ctx, req.CourseID); err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrCourseNotFound
			}
			return fmt.Errorf("failed to get course: %w", err)
		}

		if err := tx.Quiz().Create(ctx, quiz); err != nil {
			return fmt.Errorf("failed to create quiz: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Quiz created successfully",
		"quiz_id", quiz.ID,
		"questions", len(quiz.Questions),
		"total_points", quiz.TotalPoints)

	return quiz, nil
}

func (s *quizService) Get(ctx context.Context, quizID uint) (*models.Quiz, error) {
	var cached models.Quiz
	if err := s.cache.Get(ctx, cache.QuizKey(quizID), &cached); err == nil {
		return &cached, nil
	}

	quiz, err := s.loadQuiz(ctx, s.repo, quizID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cache.QuizKey(quizID), quiz, s.cacheTTL); err != nil {
		s.logger.Warn("Failed to cache quiz", "quiz_id", quizID, "error", err)
	}

	return quiz, nil
}

func (s *quizService) GetForViewer(ctx context.Context, quizID uint, viewerID string) (*models.Quiz, error) {
	quiz, err := s.Get(ctx, quizID)
	if err != nil {
		return nil, err
	}

	if quiz.CreatedBy == viewerID {
		return quiz, nil
	}
	if !quiz.IsPublished {
		return nil, ErrQuizNotFound
	}
	return quiz.WithoutAnswerKey(), nil
}

func (s *quizService) ReplaceQuestions(ctx context.Context, quizID uint, req *ReplaceQuestionsRequest) (*models.Quiz, error) {
	s.logger.Info("Replacing quiz questions",
		"quiz_id", quizID,
		"questions", len(req.Questions))

	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	questions := buildQuestions(req.Questions)
	if err := s.validator.Question().ValidateBatch(questions); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	totalPoints := 0
	for _, q := range questions {
		totalPoints += q.Points
	}

	var quiz *models.Quiz
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Quiz().ReplaceQuestions(ctx, quizID, questions, totalPoints); err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrQuizNotFound
			}
			return fmt.Errorf("failed to replace questions: %w", err)
		}

		var err error
		quiz, err = s.loadQuiz(ctx, tx, quizID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, quizID)

	s.logger.Info("Quiz questions replaced successfully",
		"quiz_id", quizID,
		"total_points", quiz.TotalPoints)

	return quiz, nil
}

func (s *quizService) SetPublished(ctx context.Context, quizID uint, published bool) error {
	s.logger.Info("Updating quiz publication",
		"quiz_id", quizID,
		"published", published)

	if err := s.repo.Quiz().SetPublished(ctx, quizID, published); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuizNotFound
		}
		return fmt.Errorf("failed to update quiz: %w", err)
	}

	s.invalidate(ctx, quizID)
	return nil
}

func (s *quizService) Grade(ctx context.Context, quizID uint, requesterID string, req *SubmitAttemptRequest) (*models.GradedResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	quiz, err := s.Get(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if quiz.CreatedBy != requesterID {
		return nil, ErrForbidden
	}

	result := scoring.GradeAttempt(quiz, req.Answers)
	return &result, nil
}

func (s *quizService) loadQuiz(ctx context.Context, repo repositories.Repository, quizID uint) (*models.Quiz, error) {
	quiz, err := repo.Quiz().GetByIDWithQuestions(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	return quiz, nil
}

func (s *quizService) invalidate(ctx context.Context, quizID uint) {
	if err := s.cache.Delete(ctx, cache.QuizKey(quizID)); err != nil && !errors.Is(err, cache.ErrCacheNotAvailable) {
		s.logger.Warn("Failed to invalidate quiz cache", "quiz_id", quizID, "error", err)
	}
}

// buildQuestions turns request items into stored questions: order is 1..n,
// points default to 1, true/false options are generated from correctAnswer
// and a multiple-choice correctAnswer is filled from the flagged option.
func buildQuestions(reqs []QuestionRequest) []models.Question {
	questions := make([]models.Question, 0, len(reqs))
	for i, r := range reqs {
		q := models.Question{
			Order:         i + 1,
			Type:          r.Type,
			Text:          r.Text,
			Options:       append([]models.QuestionOption(nil), r.Options...),
			CorrectAnswer: r.CorrectAnswer,
			Points:        1,
		}
		if r.Points != nil {
			q.Points = *r.Points
		}

		switch q.Type {
		case models.TrueFalse:
			if len(q.Options) == 0 {
				q.Options = []models.QuestionOption{
					{Text: models.TrueOption, IsCorrect: q.CorrectAnswer == models.TrueOption},
					{Text: models.FalseOption, IsCorrect: q.CorrectAnswer == models.FalseOption},
				}
			}
		case models.MultipleChoice:
			if q.CorrectAnswer == "" {
				q.CorrectAnswer = q.ExpectedAnswer()
			}
		}

		questions = append(questions, q)
	}
	return questions
}
