package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// CreateCourse inserts a course with lessonCount lessons.
func CreateCourse(t *testing.T, db *gorm.DB, lessonCount int) (*models.Course, []models.Lesson) {
	t.Helper()

	course := &models.Course{Title: "Go Fundamentals", InstructorID: "instructor-1"}
	require.NoError(t, db.Create(course).Error)

	lessons := make([]models.Lesson, 0, lessonCount)
	for i := 1; i <= lessonCount; i++ {
		lesson := models.Lesson{CourseID: course.ID, Title: fmt.Sprintf("Lesson %d", i), Order: i}
		require.NoError(t, db.Create(&lesson).Error)
		lessons = append(lessons, lesson)
	}

	return course, lessons
}

// CreateQuiz inserts the two-question quiz used across tests: a 2-point
// multiple-choice question answered by "B" and a 1-point short answer "Paris".
func CreateQuiz(t *testing.T, db *gorm.DB, courseID uint, published bool) *models.Quiz {
	t.Helper()

	quiz := &models.Quiz{
		CourseID:     courseID,
		Title:        "Checkpoint",
		PassingScore: 70,
		TotalPoints:  3,
		IsPublished:  published,
		CreatedBy:    "instructor-1",
		Questions: []models.Question{
			{
				Order:  1,
				Type:   models.MultipleChoice,
				Text:   "Pick B",
				Points: 2,
				Options: []models.QuestionOption{
					{Text: "A"},
					{Text: "B", IsCorrect: true},
				},
				CorrectAnswer: "B",
			},
			{
				Order:         2,
				Type:          models.ShortAnswer,
				Text:          "Capital of France?",
				Points:        1,
				CorrectAnswer: "Paris",
			},
		},
	}
	require.NoError(t, db.Create(quiz).Error)

	return quiz
}

// Enroll inserts an active enrollment.
func Enroll(t *testing.T, db *gorm.DB, studentID string, courseID uint) *models.Enrollment {
	t.Helper()

	enrollment := &models.Enrollment{
		StudentID:  studentID,
		CourseID:   courseID,
		Status:     models.EnrollmentActive,
		EnrolledAt: time.Now(),
	}
	require.NoError(t, db.Create(enrollment).Error)

	return enrollment
}
