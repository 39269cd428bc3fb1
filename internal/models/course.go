package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Course struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	Title        string  `json:"title" gorm:"not null;size:200"`
	InstructorID string  `json:"instructorId" gorm:"not null;size:64;index"`
	Rating       float64 `json:"rating" gorm:"type:decimal(2,1);not null;default:0"`
	RatingCount  int     `json:"ratingCount" gorm:"not null;default:0"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Lessons []Lesson `json:"lessons,omitempty" gorm:"foreignKey:CourseID"`
}

func (Course) TableName() string {
	return "courses"
}

type Lesson struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	CourseID uint   `json:"courseId" gorm:"not null;index"`
	Title    string `json:"title" gorm:"not null;size:200"`
	Order    int    `json:"order" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Lesson) TableName() string {
	return "lessons"
}

// CourseRatingSummary is the derived rating state of a course.
type CourseRatingSummary struct {
	CourseID    uint    `json:"courseId"`
	Rating      float64 `json:"rating"`
	RatingCount int     `json:"ratingCount"`
}

// MarshalJSON writes the rating with exactly one decimal place.
func (s CourseRatingSummary) MarshalJSON() ([]byte, error) {
	type summary CourseRatingSummary
	return json.Marshal(struct {
		summary
		Rating json.Number `json:"rating"`
	}{
		summary: summary(s),
		Rating:  json.Number(decimal.NewFromFloat(s.Rating).StringFixed(1)),
	})
}
