package models

import (
	"time"

	"gorm.io/datatypes"
)

type EnrollmentStatus string

const (
	EnrollmentActive  EnrollmentStatus = "active"
	EnrollmentDropped EnrollmentStatus = "dropped"
)

type CompletedLesson struct {
	LessonID    uint      `json:"lessonId"`
	CompletedAt time.Time `json:"completedAt"`
}

type Enrollment struct {
	ID               uint                                 `json:"id" gorm:"primaryKey"`
	StudentID        string                               `json:"studentId" gorm:"not null;size:64;uniqueIndex:idx_enrollment_student_course"`
	CourseID         uint                                 `json:"courseId" gorm:"not null;uniqueIndex:idx_enrollment_student_course;index"`
	Status           EnrollmentStatus                     `json:"status" gorm:"not null;size:20;default:active"`
	CompletedLessons datatypes.JSONSlice[CompletedLesson] `json:"completedLessons"`
	Progress         int                                  `json:"progress" gorm:"not null;default:0"`
	Completed        bool                                 `json:"completed" gorm:"not null;default:false"`
	CompletedAt      *time.Time                           `json:"completedAt,omitempty"`

	Rating  *int       `json:"rating,omitempty"`
	Comment *string    `json:"comment,omitempty" gorm:"type:text"`
	RatedAt *time.Time `json:"ratedAt,omitempty"`

	EnrolledAt time.Time `json:"enrolledAt" gorm:"not null"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

func (e *Enrollment) IsActive() bool {
	return e.Status == EnrollmentActive
}

// HasCompletedLesson reports whether the lesson is already in the completion set.
func (e *Enrollment) HasCompletedLesson(lessonID uint) bool {
	for _, cl := range e.CompletedLessons {
		if cl.LessonID == lessonID {
			return true
		}
	}
	return false
}
