package validator

import (
	"fmt"
	"strings"

	"github.com/SAP-F-2025/learning-service/internal/errors"
	"github.com/SAP-F-2025/learning-service/internal/models"
)

// QuestionValidator handles question-specific validation
type QuestionValidator struct{}

// NewQuestionValidator creates a new question validator
func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateQuestion checks a single question definition. Field names in the
// returned errors are prefixed with prefix.
func (v *QuestionValidator) ValidateQuestion(prefix string, question *models.Question) ValidationErrors {
	var errs ValidationErrors
	add := func(field, rule, message string, value interface{}) {
		errs = append(errs, *errors.NewValidationErrorWithRule(prefix+field, message, rule, value))
	}

	if strings.TrimSpace(question.Text) == "" {
		add("text", "required", "is required", question.Text)
	}
	if question.Points < 1 {
		add("points", "min", "must be at least 1", question.Points)
	}

	switch question.Type {
	case models.MultipleChoice:
		errs = append(errs, v.validateMultipleChoice(prefix, question)...)
	case models.TrueFalse:
		errs = append(errs, v.validateTrueFalse(prefix, question)...)
	case models.ShortAnswer:
		if strings.TrimSpace(question.CorrectAnswer) == "" {
			add("correctAnswer", "required", "is required for short-answer questions", question.CorrectAnswer)
		}
		if len(question.Options) > 0 {
			add("options", "excluded", "must be empty for short-answer questions", len(question.Options))
		}
	default:
		add("type", "question_type", "must be a valid question type (multiple-choice, true-false, short-answer)", question.Type)
	}

	return errs
}

// ValidateBatch validates an ordered list of questions
func (v *QuestionValidator) ValidateBatch(questions []models.Question) error {
	var errs ValidationErrors
	for i := range questions {
		errs = append(errs, v.ValidateQuestion(fmt.Sprintf("questions[%d].", i), &questions[i])...)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (v *QuestionValidator) validateMultipleChoice(prefix string, question *models.Question) ValidationErrors {
	var errs ValidationErrors

	if len(question.Options) < 2 {
		errs = append(errs, *errors.NewValidationErrorWithRule(prefix+"options", "must have at least 2 options", "min", len(question.Options)))
		return errs
	}

	seen := make(map[string]struct{}, len(question.Options))
	correct := make([]string, 0, 1)
	for i, opt := range question.Options {
		if strings.TrimSpace(opt.Text) == "" {
			errs = append(errs, *errors.NewValidationErrorWithRule(fmt.Sprintf("%soptions[%d].text", prefix, i), "is required", "required", opt.Text))
			continue
		}
		if _, dup := seen[opt.Text]; dup {
			errs = append(errs, *errors.NewValidationErrorWithRule(fmt.Sprintf("%soptions[%d].text", prefix, i), "must be unique", "unique", opt.Text))
		}
		seen[opt.Text] = struct{}{}
		if opt.IsCorrect {
			correct = append(correct, opt.Text)
		}
	}

	if len(correct) != 1 {
		errs = append(errs, *errors.NewValidationErrorWithRule(prefix+"options", "must have exactly one correct option", "single_correct", len(correct)))
		return errs
	}

	if question.CorrectAnswer != "" && question.CorrectAnswer != correct[0] {
		errs = append(errs, *errors.NewValidationErrorWithRule(prefix+"correctAnswer", "must match the text of the correct option", "eqfield", question.CorrectAnswer))
	}

	return errs
}

func (v *QuestionValidator) validateTrueFalse(prefix string, question *models.Question) ValidationErrors {
	var errs ValidationErrors

	if question.CorrectAnswer != models.TrueOption && question.CorrectAnswer != models.FalseOption {
		errs = append(errs, *errors.NewValidationErrorWithRule(prefix+"correctAnswer", "must be True or False", "oneof", question.CorrectAnswer))
	}

	if len(question.Options) != 2 ||
		question.Options[0].Text != models.TrueOption ||
		question.Options[1].Text != models.FalseOption {
		errs = append(errs, *errors.NewValidationErrorWithRule(prefix+"options", "must be exactly [True, False]", "true_false_options", len(question.Options)))
		return errs
	}

	for _, opt := range question.Options {
		if opt.IsCorrect != (opt.Text == question.CorrectAnswer) {
			errs = append(errs, *errors.NewValidationErrorWithRule(prefix+"options", "correct flag must match correctAnswer", "eqfield", opt.Text))
			break
		}
	}

	return errs
}
