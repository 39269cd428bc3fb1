package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventSource  = "learning-service"
	EventVersion = "1.0"
)

// EventType represents different types of domain events
type EventType string

const (
	EventAttemptRecorded          EventType = "attempt.recorded"
	EventLessonCompleted          EventType = "lesson.completed"
	EventCourseCompleted          EventType = "course.completed"
	EventCourseRated              EventType = "course.rated"
	EventCourseRatingRecalculated EventType = "course.rating_recalculated"
)

// DomainEvent is the envelope for every event the service publishes
type DomainEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewDomainEvent wraps data in an envelope with a fresh id
func NewDomainEvent(eventType EventType, data interface{}) *DomainEvent {
	return &DomainEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    EventSource,
		Version:   EventVersion,
		Data:      data,
	}
}

type AttemptRecordedEvent struct {
	AttemptID   uint      `json:"attemptId"`
	StudentID   string    `json:"studentId"`
	QuizID      uint      `json:"quizId"`
	CourseID    uint      `json:"courseId"`
	Score       int       `json:"score"`
	TotalPoints int       `json:"totalPoints"`
	Percentage  int       `json:"percentage"`
	Passed      bool      `json:"passed"`
	SubmittedAt time.Time `json:"submittedAt"`
}

type LessonCompletedEvent struct {
	StudentID   string    `json:"studentId"`
	CourseID    uint      `json:"courseId"`
	LessonID    uint      `json:"lessonId"`
	Progress    int       `json:"progress"`
	CompletedAt time.Time `json:"completedAt"`
}

type CourseCompletedEvent struct {
	StudentID   string    `json:"studentId"`
	CourseID    uint      `json:"courseId"`
	CompletedAt time.Time `json:"completedAt"`
}

type CourseRatedEvent struct {
	StudentID    string  `json:"studentId"`
	CourseID     uint    `json:"courseId"`
	Rating       int     `json:"rating"`
	CourseRating float64 `json:"courseRating"`
	RatingCount  int     `json:"ratingCount"`
}

type CourseRatingRecalculatedEvent struct {
	CourseID    uint    `json:"courseId"`
	Rating      float64 `json:"rating"`
	RatingCount int     `json:"ratingCount"`
}
