package scoring

import (
	"time"

	"github.com/SAP-F-2025/learning-service/internal/models"
)

// ProgressPercentage returns round-half-up(100*completed/lessonCount) clamped
// to [0, 100]. A course without lessons always reports 0.
func ProgressPercentage(completed, lessonCount int) int {
	if lessonCount <= 0 || completed <= 0 {
		return 0
	}
	p := Percentage(completed, lessonCount)
	if p > 100 {
		return 100
	}
	return p
}

// CompleteLesson records lessonID as completed on e at now and recomputes
// progress. It returns false and leaves e untouched when the lesson was
// already completed. Once an enrollment is completed it stays completed and
// its completedAt is never moved.
func CompleteLesson(e *models.Enrollment, lessonID uint, lessonCount int, now time.Time) bool {
	if e.HasCompletedLesson(lessonID) {
		return false
	}

	e.CompletedLessons = append(e.CompletedLessons, models.CompletedLesson{
		LessonID:    lessonID,
		CompletedAt: now,
	})

	progress := ProgressPercentage(len(e.CompletedLessons), lessonCount)
	if e.Completed && progress < 100 {
		progress = 100
	}
	e.Progress = progress

	if progress == 100 && !e.Completed {
		e.Completed = true
		completedAt := now
		e.CompletedAt = &completedAt
	}

	return true
}
