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

type ratingService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	cacheTTL  time.Duration
	notifier  EventNotifier
	logger    *slog.Logger
	validator *validator.Validator
	now       func() time.Time
}

func NewRatingService(
	repo repositories.Repository,
	cacheService cache.CacheService,
	cacheTTL time.Duration,
	notifier EventNotifier,
	logger *slog.Logger,
	validator *validator.Validator,
) RatingService {
	return &ratingService{
		repo:      repo,
		cache:     cacheService,
		cacheTTL:  cacheTTL,
		notifier:  notifier,
		logger:    logger,
		validator: validator,
		now:       time.Now,
	}
}

func (s *ratingService) RateCourse(ctx context.Context, studentID string, courseID uint, req *RateCourseRequest) (*models.CourseRatingSummary, error) {
	s.logger.Info("Rating course",
		"student_id", studentID,
		"course_id", courseID,
		"rating", req.Rating)

	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var summary *models.CourseRatingSummary
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		// The course lock serializes raters of the same course so each rescan
		// sees every rating committed before it.
		if _, err := tx.Course().GetByIDForUpdate(ctx, courseID); err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrCourseNotFound
			}
			return fmt.Errorf("failed to lock course: %w", err)
		}

		enrollment, err := tx.Enrollment().GetByStudentAndCourseForUpdate(ctx, studentID, courseID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrEnrollmentNotFound
			}
			return fmt.Errorf("failed to get enrollment: %w", err)
		}

		rating := req.Rating
		ratedAt := s.now().UTC()
		enrollment.Rating = &rating
		enrollment.Comment = req.Comment
		enrollment.RatedAt = &ratedAt

		if err := tx.Enrollment().Update(ctx, enrollment); err != nil {
			return fmt.Errorf("failed to save rating: %w", err)
		}

		summary, err = s.rescan(ctx, tx, courseID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, courseID)

	s.logger.Info("Course rated successfully",
		"course_id", courseID,
		"rating", summary.Rating,
		"rating_count", summary.RatingCount)

	s.notifier.NotifyCourseRated(ctx, studentID, req.Rating, summary)

	return summary, nil
}

func (s *ratingService) RecalculateCourseRating(ctx context.Context, courseID uint) (*models.CourseRatingSummary, error) {
	s.logger.Info("Recalculating course rating", "course_id", courseID)

	var summary *models.CourseRatingSummary
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if _, err := tx.Course().GetByIDForUpdate(ctx, courseID); err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrCourseNotFound
			}
			return fmt.Errorf("failed to lock course: %w", err)
		}

		var err error
		summary, err = s.rescan(ctx, tx, courseID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, courseID)
	s.notifier.NotifyRatingRecalculated(ctx, summary)

	return summary, nil
}

func (s *ratingService) RecalculateAll(ctx context.Context) (int, error) {
	ids, err := s.repo.Course().ListIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list courses: %w", err)
	}

	var errs []error
	processed := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		if _, err := s.RecalculateCourseRating(ctx, id); err != nil {
			// a course deleted since ListIDs is not a failure
			if errors.Is(err, ErrCourseNotFound) {
				continue
			}
			s.logger.Error("Failed to recalculate course rating", "course_id", id, "error", err)
			errs = append(errs, fmt.Errorf("course %d: %w", id, err))
			continue
		}
		processed++
	}

	s.logger.Info("Course rating recalculation finished",
		"courses", len(ids),
		"processed", processed,
		"failed", len(errs))

	return processed, errors.Join(errs...)
}

func (s *ratingService) GetSummary(ctx context.Context, courseID uint) (*models.CourseRatingSummary, error) {
	var cached models.CourseRatingSummary
	if err := s.cache.Get(ctx, cache.CourseRatingKey(courseID), &cached); err == nil {
		return &cached, nil
	}

	course, err := s.repo.Course().GetByID(ctx, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	summary := &models.CourseRatingSummary{
		CourseID:    course.ID,
		Rating:      course.Rating,
		RatingCount: course.RatingCount,
	}

	if err := s.cache.Set(ctx, cache.CourseRatingKey(courseID), summary, s.cacheTTL); err != nil {
		s.logger.Warn("Failed to cache course rating", "course_id", courseID, "error", err)
	}

	return summary, nil
}

// rescan recomputes the course summary from every stored rating and writes it
// back. The caller must hold the course lock.
func (s *ratingService) rescan(ctx context.Context, tx repositories.Repository, courseID uint) (*models.CourseRatingSummary, error) {
	ratings, err := tx.Enrollment().ListRatingsByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}

	rating, count := scoring.AggregateRatings(ratings)
	if err := tx.Course().UpdateRatingSummary(ctx, courseID, rating, count); err != nil {
		return nil, fmt.Errorf("failed to update course rating: %w", err)
	}

	return &models.CourseRatingSummary{
		CourseID:    courseID,
		Rating:      rating,
		RatingCount: count,
	}, nil
}

func (s *ratingService) invalidate(ctx context.Context, courseID uint) {
	if err := s.cache.Delete(ctx, cache.CourseRatingKey(courseID)); err != nil && !errors.Is(err, cache.ErrCacheNotAvailable) {
		s.logger.Warn("Failed to invalidate course rating cache", "course_id", courseID, "error", err)
	}
}
