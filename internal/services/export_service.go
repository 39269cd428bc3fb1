package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/xuri/excelize/v2"
)

const resultsSheet = "Results"

var resultsHeaders = []string{
	"Student", "Attempt ID", "Submitted At", "Score", "Total Points", "Percentage", "Passed", "Time Spent (min)",
}

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
	}
}

// ExportQuizResults writes every attempt of the quiz to an XLSX workbook, one
// row per attempt grouped by student in submission order.
func (s *exportService) ExportQuizResults(ctx context.Context, quizID uint) ([]byte, error) {
	s.logger.Info("Exporting quiz results", "quiz_id", quizID)

	if _, err := s.repo.Quiz().GetByID(ctx, quizID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	attempts, err := s.repo.Attempt().ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(resultsSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	for i, header := range resultsHeaders {
		if err := f.SetCellValue(resultsSheet, cellName(i, 1), header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for r, attempt := range attempts {
		if err := writeAttemptRow(f, r+2, attempt); err != nil {
			return nil, fmt.Errorf("failed to write attempt %d: %w", attempt.ID, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	s.logger.Info("Quiz results exported",
		"quiz_id", quizID,
		"attempts", len(attempts),
		"bytes", buf.Len())

	return buf.Bytes(), nil
}

func writeAttemptRow(f *excelize.File, row int, attempt *models.QuizAttempt) error {
	values := []interface{}{
		attempt.StudentID,
		attempt.ID,
		attempt.SubmittedAt.UTC().Format(time.RFC3339),
		attempt.Score,
		attempt.TotalPoints,
		attempt.Percentage,
		passedLabel(attempt.Passed),
		attempt.TimeSpent,
	}
	for i, v := range values {
		if err := f.SetCellValue(resultsSheet, cellName(i, row), v); err != nil {
			return err
		}
	}
	return nil
}

func passedLabel(passed bool) string {
	if passed {
		return "Yes"
	}
	return "No"
}

func cellName(col, row int) string {
	return fmt.Sprintf("%c%d", 'A'+col, row)
}
