package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validQuizRequest(courseID uint) *CreateQuizRequest {
	return &CreateQuizRequest{
		CourseID:     courseID,
		Title:        "Week 1",
		PassingScore: 60,
		Questions: []QuestionRequest{
			{
				Type: models.MultipleChoice,
				Text: "2 + 2?",
				Options: []models.QuestionOption{
					{Text: "3"},
					{Text: "4", IsCorrect: true},
				},
				Points: intPtr(2),
			},
			{Type: models.TrueFalse, Text: "Go has generics", CorrectAnswer: models.TrueOption},
			{Type: models.ShortAnswer, Text: "Mascot?", CorrectAnswer: "Gopher", Points: intPtr(3)},
		},
	}
}

func TestQuizService_Create(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	course, _ := testutil.CreateCourse(t, env.db, 2)

	quiz, err := env.manager.Quiz().Create(ctx, validQuizRequest(course.ID), "instructor-1")
	require.NoError(t, err)

	assert.NotZero(t, quiz.ID)
	assert.Equal(t, 6, quiz.TotalPoints)
	assert.False(t, quiz.IsPublished)
	assert.Equal(t, "instructor-1", quiz.CreatedBy)

	loaded, err := env.manager.Quiz().Get(ctx, quiz.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Questions, 3)
	for i, q := range loaded.Questions {
		assert.Equal(t, i+1, q.Order)
	}

	mc := loaded.Questions[0]
	assert.Equal(t, "4", mc.CorrectAnswer)

	tf := loaded.Questions[1]
	assert.Equal(t, 1, tf.Points)
	require.Len(t, tf.Options, 2)
	assert.Equal(t, models.QuestionOption{Text: models.TrueOption, IsCorrect: true}, tf.Options[0])
	assert.Equal(t, models.QuestionOption{Text: models.FalseOption, IsCorrect: false}, tf.Options[1])
}

func TestQuizService_CreateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	course, _ := testutil.CreateCourse(t, env.db, 1)

	t.Run("passing score out of range", func(t *testing.T) {
		req := validQuizRequest(course.ID)
		req.PassingScore = 101

		_, err := env.manager.Quiz().Create(ctx, req, "instructor-1")
		assert.True(t, IsValidation(err))
	})

	t.Run("multiple choice without correct option", func(t *testing.T) {
		req := validQuizRequest(course.ID)
		req.Questions[0].Options[1].IsCorrect = false

		_, err := env.manager.Quiz().Create(ctx, req, "instructor-1")
		require.True(t, IsValidation(err))
		assert.Contains(t, err.Error(), "validation failed")
	})

	t.Run("short answer without expected answer", func(t *testing.T) {
		req := validQuizRequest(course.ID)
		req.Questions[2].CorrectAnswer = "  "

		_, err := env.manager.Quiz().Create(ctx, req, "instructor-1")
		assert.True(t, IsValidation(err))
	})

	t.Run("unknown course", func(t *testing.T) {
		_, err := env.manager.Quiz().Create(ctx, validQuizRequest(course.ID+100), "instructor-1")
		assert.ErrorIs(t, err, ErrCourseNotFound)
	})

	var count int64
	require.NoError(t, env.db.Model(&models.Quiz{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestQuizService_ReplaceQuestionsRewritesTotal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	course, _ := testutil.CreateCourse(t, env.db, 1)
	quiz := testutil.CreateQuiz(t, env.db, course.ID, false)

	// warm the cache so the replacement must invalidate it
	_, err := env.manager.Quiz().Get(ctx, quiz.ID)
	require.NoError(t, err)
	assert.True(t, env.redis.Exists(fmt.Sprintf("learning:quiz:%d", quiz.ID)))

	updated, err := env.manager.Quiz().ReplaceQuestions(ctx, quiz.ID, &ReplaceQuestionsRequest{
		Questions: []QuestionRequest{
			{Type: models.ShortAnswer, Text: "One", CorrectAnswer: "1", Points: intPtr(5)},
			{Type: models.TrueFalse, Text: "Two", CorrectAnswer: models.FalseOption, Points: intPtr(4)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 9, updated.TotalPoints)
	assert.Equal(t, updated.QuestionPoints(), updated.TotalPoints)
	assert.False(t, env.redis.Exists(fmt.Sprintf("learning:quiz:%d", quiz.ID)))

	loaded, err := env.manager.Quiz().Get(ctx, quiz.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Questions, 2)
	assert.Equal(t, "One", loaded.Questions[0].Text)
	assert.Equal(t, 2, loaded.Questions[1].Order)

	_, err = env.manager.Quiz().ReplaceQuestions(ctx, quiz.ID+100, &ReplaceQuestionsRequest{})
	assert.ErrorIs(t, err, ErrQuizNotFound)
}

func TestQuizService_SetPublished(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	course, _ := testutil.CreateCourse(t, env.db, 1)
	quiz := testutil.CreateQuiz(t, env.db, course.ID, false)

	_, err := env.manager.Quiz().Get(ctx, quiz.ID)
	require.NoError(t, err)

	require.NoError(t, env.manager.Quiz().SetPublished(ctx, quiz.ID, true))

	loaded, err := env.manager.Quiz().Get(ctx, quiz.ID)
	require.NoError(t, err)
	assert.True(t, loaded.IsPublished)

	assert.ErrorIs(t, env.manager.Quiz().SetPublished(ctx, 999, true), ErrQuizNotFound)
}

func TestQuizService_GradePreviewStoresNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	course, _ := testutil.CreateCourse(t, env.db, 1)
	quiz := testutil.CreateQuiz(t, env.db, course.ID, false)
	q1, q2 := quiz.Questions[0].ID, quiz.Questions[1].ID

	result, err := env.manager.Quiz().Grade(ctx, quiz.ID, "instructor-1", &SubmitAttemptRequest{
		Answers: []models.SubmittedAnswer{{QuestionID: q1, Answer: "B"}, {QuestionID: q2, Answer: " paris "}},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Score)
	assert.Equal(t, 100, result.Percentage)
	assert.True(t, result.Passed)

	_, err = env.manager.Quiz().Grade(ctx, quiz.ID, "student-1", &SubmitAttemptRequest{
		Answers: []models.SubmittedAnswer{{QuestionID: q1, Answer: "B"}},
	})
	assert.ErrorIs(t, err, ErrForbidden)

	var count int64
	require.NoError(t, env.db.Model(&models.QuizAttempt{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Empty(t, env.publisher.GetPublishedEvents())
}

func TestQuizService_GetForViewerHidesAnswerKey(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	course, _ := testutil.CreateCourse(t, env.db, 1)
	quiz := testutil.CreateQuiz(t, env.db, course.ID, false)

	_, err := env.manager.Quiz().GetForViewer(ctx, quiz.ID, "student-1")
	assert.ErrorIs(t, err, ErrQuizNotFound)

	own, err := env.manager.Quiz().GetForViewer(ctx, quiz.ID, "instructor-1")
	require.NoError(t, err)
	assert.Equal(t, "B", own.Questions[0].CorrectAnswer)

	require.NoError(t, env.manager.Quiz().SetPublished(ctx, quiz.ID, true))

	view, err := env.manager.Quiz().GetForViewer(ctx, quiz.ID, "student-1")
	require.NoError(t, err)
	require.Len(t, view.Questions, 2)
	for _, question := range view.Questions {
		assert.Empty(t, question.CorrectAnswer)
		for _, opt := range question.Options {
			assert.False(t, opt.IsCorrect)
		}
	}
	assert.Equal(t, []string{"A", "B"}, []string{view.Questions[0].Options[0].Text, view.Questions[0].Options[1].Text})

	// masking must not leak into the cached copy
	full, err := env.manager.Quiz().Get(ctx, quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, "B", full.Questions[0].CorrectAnswer)
	assert.True(t, full.Questions[0].Options[1].IsCorrect)
}
