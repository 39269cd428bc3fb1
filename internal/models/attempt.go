package models

import (
	"time"

	"gorm.io/datatypes"
)

// SubmittedAnswer is one raw answer sent by a student.
type SubmittedAnswer struct {
	QuestionID uint   `json:"questionId" validate:"required"`
	Answer     string `json:"answer"`
}

type GradedAnswer struct {
	QuestionID   uint   `json:"questionId"`
	Answer       string `json:"answer"`
	IsCorrect    bool   `json:"isCorrect"`
	PointsEarned int    `json:"pointsEarned"`
}

// GradedResult is the output of grading a set of answers against a quiz.
type GradedResult struct {
	Answers     []GradedAnswer `json:"answers"`
	Score       int            `json:"score"`
	TotalPoints int            `json:"totalPoints"`
	Percentage  int            `json:"percentage"`
	Passed      bool           `json:"passed"`
}

// QuizAttempt is written once and never updated.
type QuizAttempt struct {
	ID          uint                              `json:"id" gorm:"primaryKey"`
	StudentID   string                            `json:"studentId" gorm:"not null;size:64;index:idx_attempt_student_quiz"`
	QuizID      uint                              `json:"quizId" gorm:"not null;index:idx_attempt_student_quiz;index"`
	CourseID    uint                              `json:"courseId" gorm:"not null;index"`
	Answers     datatypes.JSONSlice[GradedAnswer] `json:"answers"`
	Score       int                               `json:"score" gorm:"not null"`
	TotalPoints int                               `json:"totalPoints" gorm:"not null"`
	Percentage  int                               `json:"percentage" gorm:"not null"`
	Passed      bool                              `json:"passed" gorm:"not null"`
	SubmittedAt time.Time                         `json:"submittedAt" gorm:"not null"`
	TimeSpent   int                               `json:"timeSpent" gorm:"not null;default:0"` // minutes

	CreatedAt time.Time `json:"createdAt"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
