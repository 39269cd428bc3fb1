// Package scoring holds the pure rules of the engine: grading a submission,
// recomputing lesson progress and aggregating course ratings. Nothing here
// touches storage.
package scoring

import (
	"strings"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"golang.org/x/text/cases"
)

// GradeAttempt grades answers against the questions of quiz.
//
// Answers referencing a question that is not part of the quiz are dropped.
// When a question id appears more than once only the first answer counts.
// Questions without an answer earn nothing but still count toward the total.
func GradeAttempt(quiz *models.Quiz, answers []models.SubmittedAnswer) models.GradedResult {
	questions := make(map[uint]*models.Question, len(quiz.Questions))
	for i := range quiz.Questions {
		questions[quiz.Questions[i].ID] = &quiz.Questions[i]
	}

	graded := make([]models.GradedAnswer, 0, len(answers))
	seen := make(map[uint]struct{}, len(answers))
	score := 0

	for _, a := range answers {
		question, ok := questions[a.QuestionID]
		if !ok {
			continue
		}
		if _, dup := seen[a.QuestionID]; dup {
			continue
		}
		seen[a.QuestionID] = struct{}{}

		correct := IsCorrect(question, a.Answer)
		earned := 0
		if correct {
			earned = question.Points
		}
		score += earned

		graded = append(graded, models.GradedAnswer{
			QuestionID:   a.QuestionID,
			Answer:       a.Answer,
			IsCorrect:    correct,
			PointsEarned: earned,
		})
	}

	totalPoints := quiz.TotalPoints
	if totalPoints == 0 {
		totalPoints = quiz.QuestionPoints()
	}

	percentage := Percentage(score, totalPoints)

	return models.GradedResult{
		Answers:     graded,
		Score:       score,
		TotalPoints: totalPoints,
		Percentage:  percentage,
		Passed:      len(quiz.Questions) > 0 && totalPoints > 0 && percentage >= quiz.PassingScore,
	}
}

// IsCorrect checks a single answer. Choice questions compare exactly;
// short answers compare trimmed and case-folded.
func IsCorrect(question *models.Question, answer string) bool {
	if answer == "" {
		return false
	}

	switch question.Type {
	case models.MultipleChoice, models.TrueFalse:
		expected := question.ExpectedAnswer()
		return expected != "" && answer == expected
	case models.ShortAnswer:
		given := normalizeShortAnswer(answer)
		return given != "" && given == normalizeShortAnswer(question.CorrectAnswer)
	default:
		return false
	}
}

func normalizeShortAnswer(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// Percentage returns round-half-up(100*score/total) using integer arithmetic,
// or 0 when total is not positive.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*score + total) / (2 * total)
}
