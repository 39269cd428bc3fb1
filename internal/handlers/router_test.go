package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/services"
	"github.com/SAP-F-2025/learning-service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestMiddleware_RequestIDPropagated(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestMiddleware_CORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodOptions, "/api/v1/quizzes/1", "", nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestAuth_MissingUserHeader(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/quizzes/1", "", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestParseIDParam_Invalid(t *testing.T) {
	srv := newTestServer(t)

	for _, id := range []string{"abc", "0", "-3"} {
		rec := srv.do(t, http.MethodGet, "/api/v1/quizzes/"+id, "student-1", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, id)
	}
}

func TestQuizRoutes_CreateAndGet(t *testing.T) {
	srv := newTestServer(t)
	course, _ := testutil.CreateCourse(t, srv.db, 1)

	body := map[string]interface{}{
		"courseId":     course.ID,
		"title":        "Week 1",
		"passingScore": 60,
		"questions": []map[string]interface{}{
			{"type": "short-answer", "text": "Capital of France?", "correctAnswer": "Paris", "points": 2},
			{"type": "true-false", "text": "Go has generics", "correctAnswer": "True"},
		},
	}

	rec := srv.do(t, http.MethodPost, "/api/v1/quizzes", "instructor-1", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created models.Quiz
	decodeData(t, rec, &created)
	assert.Equal(t, 3, created.TotalPoints)
	assert.Equal(t, "instructor-1", created.CreatedBy)
	require.Len(t, created.Questions, 2)

	rec = srv.do(t, http.MethodGet, fmt.Sprintf("/api/v1/quizzes/%d", created.ID), "instructor-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var fetched models.Quiz
	decodeData(t, rec, &fetched)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, 1, fetched.Questions[0].Order)
	assert.Equal(t, "Paris", fetched.Questions[0].CorrectAnswer)

	// Drafts are invisible to everyone but the author
	rec = srv.do(t, http.MethodGet, fmt.Sprintf("/api/v1/quizzes/%d", created.ID), "student-1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQuizRoutes_GetHidesAnswerKeyFromStudents(t *testing.T) {
	srv := newTestServer(t)
	course, _ := testutil.CreateCourse(t, srv.db, 1)
	quiz := testutil.CreateQuiz(t, srv.db, course.ID, true)

	rec := srv.do(t, http.MethodGet, fmt.Sprintf("/api/v1/quizzes/%d", quiz.ID), "student-1", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.NotContains(t, rec.Body.String(), "correctAnswer")
	assert.NotContains(t, rec.Body.String(), "isCorrect")

	var fetched models.Quiz
	decodeData(t, rec, &fetched)
	require.Len(t, fetched.Questions, 2)
	assert.Empty(t, fetched.Questions[0].CorrectAnswer)
	require.Len(t, fetched.Questions[0].Options, 2)
	assert.Equal(t, "B", fetched.Questions[0].Options[1].Text)
}

func TestQuizRoutes_CreateValidation(t *testing.T) {
	srv := newTestServer(t)
	course, _ := testutil.CreateCourse(t, srv.db, 1)

	rec := srv.do(t, http.MethodPost, "/api/v1/quizzes", "instructor-1", map[string]interface{}{
		"courseId":     course.ID,
		"title":        "Bad",
		"passingScore": 150,
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeData(t, rec, nil)
	assert.Equal(t, "Validation failed", env.Message)
	assert.Contains(t, string(env.Details), "passingScore")
}

func TestQuizRoutes_MalformedJSON(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quizzes", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(userIDHeader, "instructor-1")
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuizRoutes_UnknownQuiz(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/quizzes/999", "student-1", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	env := decodeData(t, rec, nil)
	assert.Equal(t, "Quiz not found", env.Message)
}

func TestQuizRoutes_PublishAndGradePreview(t *testing.T) {
	srv := newTestServer(t)
	course, _ := testutil.CreateCourse(t, srv.db, 1)
	quiz := testutil.CreateQuiz(t, srv.db, course.ID, false)

	rec := srv.do(t, http.MethodPost, fmt.Sprintf("/api/v1/quizzes/%d/publish", quiz.ID), "instructor-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodPost, fmt.Sprintf("/api/v1/quizzes/%d/grade", quiz.ID), "student-1", submitBody(quiz, "B", " paris "))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.do(t, http.MethodPost, fmt.Sprintf("/api/v1/quizzes/%d/grade", quiz.ID), "instructor-1", submitBody(quiz, "B", " paris "))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result models.GradedResult
	decodeData(t, rec, &result)
	assert.Equal(t, 3, result.Score)
	assert.Equal(t, 100, result.Percentage)
	assert.True(t, result.Passed)

	var count int64
	require.NoError(t, srv.db.Model(&models.QuizAttempt{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestQuizRoutes_ReplaceQuestions(t *testing.T) {
	srv := newTestServer(t)
	course, _ := testutil.CreateCourse(t, srv.db, 1)
	quiz := testutil.CreateQuiz(t, srv.db, course.ID, true)

	rec := srv.do(t, http.MethodPut, fmt.Sprintf("/api/v1/quizzes/%d/questions", quiz.ID), "instructor-1", map[string]interface{}{
		"questions": []map[string]interface{}{
			{"type": "short-answer", "text": "2+2?", "correctAnswer": "4", "points": 5},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated models.Quiz
	decodeData(t, rec, &updated)
	assert.Equal(t, 5, updated.TotalPoints)
	assert.Len(t, updated.Questions, 1)
}

func TestQuizRoutes_ExportResults(t *testing.T) {
	srv := newTestServer(t)
	course, _ := testutil.CreateCourse(t, srv.db, 1)
	quiz := testutil.CreateQuiz(t, srv.db, course.ID, true)
	testutil.Enroll(t, srv.db, "student-1", course.ID)

	rec := srv.do(t, http.MethodPost, fmt.Sprintf("/api/v1/quizzes/%d/attempts", quiz.ID), "student-1", submitBody(quiz, "B", "Paris"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = srv.do(t, http.MethodGet, fmt.Sprintf("/api/v1/quizzes/%d/results/export", quiz.ID), "instructor-1", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), fmt.Sprintf("quiz-%d-results.xlsx", quiz.ID))
	assert.NotZero(t, rec.Body.Len())
}

func submitBody(quiz *models.Quiz, first, second string) services.SubmitAttemptRequest {
	answers := []models.SubmittedAnswer{{QuestionID: quiz.Questions[0].ID, Answer: first}}
	if second != "" {
		answers = append(answers, models.SubmittedAnswer{QuestionID: quiz.Questions[1].ID, Answer: second})
	}
	return services.SubmitAttemptRequest{Answers: answers, TimeSpent: 12}
}
