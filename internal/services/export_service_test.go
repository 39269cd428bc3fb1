package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportService_ExportQuizResults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	course, _ := testutil.CreateCourse(t, env.db, 1)
	quiz := testutil.CreateQuiz(t, env.db, course.ID, true)
	testutil.Enroll(t, env.db, "student-1", course.ID)
	testutil.Enroll(t, env.db, "student-2", course.ID)

	_, err := env.manager.Attempt().Submit(ctx, quiz.ID, "student-1", &SubmitAttemptRequest{
		Answers:   []models.SubmittedAnswer{{QuestionID: quiz.Questions[0].ID, Answer: "B"}},
		TimeSpent: 4,
	})
	require.NoError(t, err)
	_, err = env.manager.Attempt().Submit(ctx, quiz.ID, "student-2", &SubmitAttemptRequest{
		Answers: []models.SubmittedAnswer{
			{QuestionID: quiz.Questions[0].ID, Answer: "B"},
			{QuestionID: quiz.Questions[1].ID, Answer: "Paris"},
		},
	})
	require.NoError(t, err)

	data, err := env.manager.Export().ExportQuizResults(ctx, quiz.ID)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Results"}, f.GetSheetList())

	rows, err := f.GetRows("Results")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, resultsHeaders, rows[0])

	assert.Equal(t, "student-1", rows[1][0])
	assert.Equal(t, "2", rows[1][3])
	assert.Equal(t, "3", rows[1][4])
	assert.Equal(t, "67", rows[1][5])
	assert.Equal(t, "No", rows[1][6])
	assert.Equal(t, "4", rows[1][7])

	assert.Equal(t, "student-2", rows[2][0])
	assert.Equal(t, "100", rows[2][5])
	assert.Equal(t, "Yes", rows[2][6])
}

func TestExportService_UnknownQuiz(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.manager.Export().ExportQuizResults(context.Background(), 42)
	assert.ErrorIs(t, err, ErrQuizNotFound)
}
