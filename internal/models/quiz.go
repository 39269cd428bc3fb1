package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple-choice"
	TrueFalse      QuestionType = "true-false"
	ShortAnswer    QuestionType = "short-answer"
)

// Option texts used by true/false questions.
const (
	TrueOption  = "True"
	FalseOption = "False"
)

func (t QuestionType) IsValid() bool {
	switch t {
	case MultipleChoice, TrueFalse, ShortAnswer:
		return true
	}
	return false
}

// HasOptions reports whether answers are picked from a fixed option list.
func (t QuestionType) HasOptions() bool {
	return t == MultipleChoice || t == TrueFalse
}

type Quiz struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	CourseID     uint    `json:"courseId" gorm:"not null;index"`
	Title        string  `json:"title" gorm:"not null;size:200"`
	Description  *string `json:"description,omitempty" gorm:"type:text"`
	PassingScore int     `json:"passingScore" gorm:"not null;default:0"`
	TimeLimit    *int    `json:"timeLimit,omitempty"` // minutes
	TotalPoints  int     `json:"totalPoints" gorm:"not null;default:0"`
	IsPublished  bool    `json:"isPublished" gorm:"not null;default:false;index"`

	CreatedBy string         `json:"createdBy" gorm:"not null;size:64;index"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Questions []Question `json:"questions" gorm:"foreignKey:QuizID"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// QuestionPoints sums the points of every question currently loaded.
func (q *Quiz) QuestionPoints() int {
	total := 0
	for _, question := range q.Questions {
		total += question.Points
	}
	return total
}

// WithoutAnswerKey returns a copy of the quiz with correct answers and
// correct-option flags cleared.
func (q *Quiz) WithoutAnswerKey() *Quiz {
	masked := *q
	masked.Questions = make([]Question, len(q.Questions))
	for i, question := range q.Questions {
		question.CorrectAnswer = ""
		options := make([]QuestionOption, len(question.Options))
		for j, opt := range question.Options {
			options[j] = QuestionOption{Text: opt.Text}
		}
		question.Options = options
		masked.Questions[i] = question
	}
	return &masked
}

type QuestionOption struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect,omitempty"`
}

type Question struct {
	ID            uint                                `json:"id" gorm:"primaryKey"`
	QuizID        uint                                `json:"quizId" gorm:"not null;index"`
	Order         int                                 `json:"order" gorm:"not null"`
	Type          QuestionType                        `json:"type" gorm:"not null;size:20"`
	Text          string                              `json:"text" gorm:"type:text;not null"`
	Options       datatypes.JSONSlice[QuestionOption] `json:"options,omitempty"`
	CorrectAnswer string                              `json:"correctAnswer,omitempty" gorm:"type:text"`
	Points        int                                 `json:"points" gorm:"not null;default:1"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Question) TableName() string {
	return "questions"
}

// ExpectedAnswer returns the stored correct answer, falling back to the text
// of the option flagged as correct.
func (q *Question) ExpectedAnswer() string {
	if q.CorrectAnswer != "" {
		return q.CorrectAnswer
	}
	for _, opt := range q.Options {
		if opt.IsCorrect {
			return opt.Text
		}
	}
	return ""
}
