package postgres

import (
	"context"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"gorm.io/gorm"
)

type EnrollmentPostgreSQL struct {
	db *gorm.DB
}

func NewEnrollmentPostgreSQL(db *gorm.DB) repositories.EnrollmentRepository {
	return &EnrollmentPostgreSQL{db: db}
}

func (e *EnrollmentPostgreSQL) Create(ctx context.Context, enrollment *models.Enrollment) error {
	return e.db.WithContext(ctx).Create(enrollment).Error
}

func (e *EnrollmentPostgreSQL) GetByStudentAndCourse(ctx context.Context, studentID string, courseID uint) (*models.Enrollment, error) {
	return e.find(e.db.WithContext(ctx), studentID, courseID)
}

func (e *EnrollmentPostgreSQL) GetByStudentAndCourseForUpdate(ctx context.Context, studentID string, courseID uint) (*models.Enrollment, error) {
	return e.find(forUpdate(e.db.WithContext(ctx)), studentID, courseID)
}

func (e *EnrollmentPostgreSQL) find(db *gorm.DB, studentID string, courseID uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := db.
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		First(&enrollment).Error; err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (e *EnrollmentPostgreSQL) Update(ctx context.Context, enrollment *models.Enrollment) error {
	return e.db.WithContext(ctx).Save(enrollment).Error
}

func (e *EnrollmentPostgreSQL) ListRatingsByCourse(ctx context.Context, courseID uint) ([]int, error) {
	var ratings []int
	if err := e.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("course_id = ? AND rating IS NOT NULL", courseID).
		Order("id").
		Pluck("rating", &ratings).Error; err != nil {
		return nil, err
	}
	return ratings, nil
}
