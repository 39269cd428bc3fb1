package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/SAP-F-2025/learning-service/internal/scoring"
)

type progressService struct {
	repo     repositories.Repository
	notifier EventNotifier
	logger   *slog.Logger
	now      func() time.Time
}

func NewProgressService(repo repositories.Repository, notifier EventNotifier, logger *slog.Logger) ProgressService {
	return &progressService{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *progressService) Enroll(ctx context.Context, studentID string, courseID uint) (*models.Enrollment, error) {
	s.logger.Info("Enrolling student",
		"student_id", studentID,
		"course_id", courseID)

	enrollment := &models.Enrollment{
		StudentID:        studentID,
		CourseID:         courseID,
		Status:           models.EnrollmentActive,
		CompletedLessons: []models.CompletedLesson{},
		EnrolledAt:       s.now().UTC(),
	}

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if _, err := tx.Course().GetByID(ctx, courseID); err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrCourseNotFound
			}
			return fmt.Errorf("failed to get course: %w", err)
		}

		if err := tx.Enrollment().Create(ctx, enrollment); err != nil {
			if repositories.IsDuplicateKeyError(err) {
				return ErrAlreadyEnrolled
			}
			return fmt.Errorf("failed to create enrollment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return enrollment, nil
}

func (s *progressService) CompleteLesson(ctx context.Context, studentID string, courseID, lessonID uint) (*models.Enrollment, error) {
	s.logger.Info("Completing lesson",
		"student_id", studentID,
		"course_id", courseID,
		"lesson_id", lessonID)

	var (
		enrollment    *models.Enrollment
		changed       bool
		justCompleted bool
	)

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		var err error
		enrollment, err = tx.Enrollment().GetByStudentAndCourseForUpdate(ctx, studentID, courseID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrEnrollmentNotFound
			}
			return fmt.Errorf("failed to get enrollment: %w", err)
		}

		if !enrollment.IsActive() {
			return ErrNotEnrolled
		}

		exists, err := tx.Lesson().ExistsInCourse(ctx, courseID, lessonID)
		if err != nil {
			return fmt.Errorf("failed to check lesson: %w", err)
		}
		if !exists {
			return ErrLessonNotFound
		}

		lessonCount, err := tx.Lesson().CountByCourse(ctx, courseID)
		if err != nil {
			return fmt.Errorf("failed to count lessons: %w", err)
		}

		wasCompleted := enrollment.Completed
		changed = scoring.CompleteLesson(enrollment, lessonID, lessonCount, s.now().UTC())
		if !changed {
			return nil
		}
		justCompleted = !wasCompleted && enrollment.Completed

		if err := tx.Enrollment().Update(ctx, enrollment); err != nil {
			return fmt.Errorf("failed to update enrollment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.logger.Info("Lesson completed",
			"student_id", studentID,
			"course_id", courseID,
			"lesson_id", lessonID,
			"progress", enrollment.Progress)

		s.notifier.NotifyLessonCompleted(ctx, enrollment, lessonID)
		if justCompleted {
			s.notifier.NotifyCourseCompleted(ctx, enrollment)
		}
	}

	return enrollment, nil
}

func (s *progressService) GetEnrollment(ctx context.Context, studentID string, courseID uint) (*models.Enrollment, error) {
	enrollment, err := s.repo.Enrollment().GetByStudentAndCourse(ctx, studentID, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}
	return enrollment, nil
}
