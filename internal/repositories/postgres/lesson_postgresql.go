package postgres

import (
	"context"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"gorm.io/gorm"
)

type LessonPostgreSQL struct {
	db *gorm.DB
}

func NewLessonPostgreSQL(db *gorm.DB) repositories.LessonRepository {
	return &LessonPostgreSQL{db: db}
}

func (l *LessonPostgreSQL) Create(ctx context.Context, lesson *models.Lesson) error {
	return l.db.WithContext(ctx).Create(lesson).Error
}

func (l *LessonPostgreSQL) CountByCourse(ctx context.Context, courseID uint) (int, error) {
	var count int64
	if err := l.db.WithContext(ctx).
		Model(&models.Lesson{}).
		Where("course_id = ?", courseID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (l *LessonPostgreSQL) ExistsInCourse(ctx context.Context, courseID, lessonID uint) (bool, error) {
	var count int64
	if err := l.db.WithContext(ctx).
		Model(&models.Lesson{}).
		Where("id = ? AND course_id = ?", lessonID, courseID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
