package services

import (
	"context"
	"log/slog"

	"github.com/SAP-F-2025/learning-service/internal/events"
	"github.com/SAP-F-2025/learning-service/internal/models"
)

// EventNotifier publishes learning events after the state change they
// describe has been committed. Delivery is best effort: failures are logged
// and never undo the committed write.
type EventNotifier interface {
	NotifyAttemptRecorded(ctx context.Context, attempt *models.QuizAttempt)
	NotifyLessonCompleted(ctx context.Context, enrollment *models.Enrollment, lessonID uint)
	NotifyCourseCompleted(ctx context.Context, enrollment *models.Enrollment)
	NotifyCourseRated(ctx context.Context, studentID string, rating int, summary *models.CourseRatingSummary)
	NotifyRatingRecalculated(ctx context.Context, summary *models.CourseRatingSummary)
}

type eventNotifier struct {
	eventPublisher events.EventPublisher
	logger         *slog.Logger
}

func NewEventNotifier(eventPublisher events.EventPublisher, logger *slog.Logger) EventNotifier {
	return &eventNotifier{
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// ===== ATTEMPT NOTIFICATIONS =====

func (n *eventNotifier) NotifyAttemptRecorded(ctx context.Context, attempt *models.QuizAttempt) {
	n.publish(ctx, events.NewDomainEvent(events.EventAttemptRecorded, events.AttemptRecordedEvent{
		AttemptID:   attempt.ID,
		StudentID:   attempt.StudentID,
		QuizID:      attempt.QuizID,
		CourseID:    attempt.CourseID,
		Score:       attempt.Score,
		TotalPoints: attempt.TotalPoints,
		Percentage:  attempt.Percentage,
		Passed:      attempt.Passed,
		SubmittedAt: attempt.SubmittedAt,
	}))
}

// ===== PROGRESS NOTIFICATIONS =====

func (n *eventNotifier) NotifyLessonCompleted(ctx context.Context, enrollment *models.Enrollment, lessonID uint) {
	data := events.LessonCompletedEvent{
		StudentID: enrollment.StudentID,
		CourseID:  enrollment.CourseID,
		LessonID:  lessonID,
		Progress:  enrollment.Progress,
	}
	for _, cl := range enrollment.CompletedLessons {
		if cl.LessonID == lessonID {
			data.CompletedAt = cl.CompletedAt
			break
		}
	}

	n.publish(ctx, events.NewDomainEvent(events.EventLessonCompleted, data))
}

func (n *eventNotifier) NotifyCourseCompleted(ctx context.Context, enrollment *models.Enrollment) {
	data := events.CourseCompletedEvent{
		StudentID: enrollment.StudentID,
		CourseID:  enrollment.CourseID,
	}
	if enrollment.CompletedAt != nil {
		data.CompletedAt = *enrollment.CompletedAt
	}

	n.publish(ctx, events.NewDomainEvent(events.EventCourseCompleted, data))
}

// ===== RATING NOTIFICATIONS =====

func (n *eventNotifier) NotifyCourseRated(ctx context.Context, studentID string, rating int, summary *models.CourseRatingSummary) {
	n.publish(ctx, events.NewDomainEvent(events.EventCourseRated, events.CourseRatedEvent{
		StudentID:    studentID,
		CourseID:     summary.CourseID,
		Rating:       rating,
		CourseRating: summary.Rating,
		RatingCount:  summary.RatingCount,
	}))
}

func (n *eventNotifier) NotifyRatingRecalculated(ctx context.Context, summary *models.CourseRatingSummary) {
	n.publish(ctx, events.NewDomainEvent(events.EventCourseRatingRecalculated, events.CourseRatingRecalculatedEvent{
		CourseID:    summary.CourseID,
		Rating:      summary.Rating,
		RatingCount: summary.RatingCount,
	}))
}

func (n *eventNotifier) publish(ctx context.Context, event *events.DomainEvent) {
	if err := n.eventPublisher.PublishEvent(ctx, event); err != nil {
		n.logger.Warn("Failed to publish event",
			"event_type", event.Type,
			"event_id", event.ID,
			"error", err)
	}
}
