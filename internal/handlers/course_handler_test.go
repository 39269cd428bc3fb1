package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseRoutes_EnrollAndCompleteLessons(t *testing.T) {
	srv := newTestServer(t)
	course, lessons := testutil.CreateCourse(t, srv.db, 4)

	rec := srv.do(t, http.MethodPost, fmt.Sprintf("/api/v1/courses/%d/enroll", course.ID), "student-1", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = srv.do(t, http.MethodPost, fmt.Sprintf("/api/v1/courses/%d/enroll", course.ID), "student-1", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	var enrollment models.Enrollment
	for _, lesson := range lessons[:3] {
		rec = srv.do(t, http.MethodPost, fmt.Sprintf("/api/v1/courses/%d/lessons/%d/complete", course.ID, lesson.ID), "student-1", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	decodeData(t, rec, &enrollment)
	assert.Equal(t, 75, enrollment.Progress)
	assert.False(t, enrollment.Completed)

	rec = srv.do(t, http.MethodPost, fmt.Sprintf("/api/v1/courses/%d/lessons/%d/complete", course.ID, lessons[3].ID), "student-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &enrollment)
	assert.Equal(t, 100, enrollment.Progress)
	assert.True(t, enrollment.Completed)
	assert.NotNil(t, enrollment.CompletedAt)

	rec = srv.do(t, http.MethodGet, fmt.Sprintf("/api/v1/courses/%d/enrollment", course.ID), "student-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &enrollment)
	assert.Len(t, enrollment.CompletedLessons, 4)
}

func TestCourseRoutes_CompleteLessonErrors(t *testing.T) {
	srv := newTestServer(t)
	course, lessons := testutil.CreateCourse(t, srv.db, 2)
	other, otherLessons := testutil.CreateCourse(t, srv.db, 1)
	testutil.Enroll(t, srv.db, "student-1", course.ID)

	rec := srv.do(t, http.MethodPost, fmt.Sprintf("/api/v1/courses/%d/lessons/%d/complete", course.ID, otherLessons[0].ID), "student-1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodPost, fmt.Sprintf("/api/v1/courses/%d/lessons/%d/complete", other.ID, otherLessons[0].ID), "student-1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodPost, fmt.Sprintf("/api/v1/courses/%d/lessons/abc/complete", course.ID), "student-1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodPost, fmt.Sprintf("/api/v1/courses/%d/lessons/%d/complete", course.ID, lessons[0].ID), "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCourseRoutes_Ratings(t *testing.T) {
	srv := newTestServer(t)
	course, _ := testutil.CreateCourse(t, srv.db, 1)
	for i, rating := range []int{5, 3, 4} {
		student := fmt.Sprintf("student-%d", i+1)
		testutil.Enroll(t, srv.db, student, course.ID)

		rec := srv.do(t, http.MethodPost, fmt.Sprintf("/api/v1/courses/%d/rating", course.ID), student, map[string]interface{}{
			"rating": rating,
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec := srv.do(t, http.MethodGet, fmt.Sprintf("/api/v1/courses/%d/rating", course.ID), "anyone", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary models.CourseRatingSummary
	decodeData(t, rec, &summary)
	assert.Equal(t, 4.0, summary.Rating)
	assert.Equal(t, 3, summary.RatingCount)

	rec = srv.do(t, http.MethodPost, fmt.Sprintf("/api/v1/courses/%d/rating", course.ID), "student-2", map[string]interface{}{
		"rating": 1,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &summary)
	assert.Equal(t, 3.3, summary.Rating)
	assert.Equal(t, 3, summary.RatingCount)

	rec = srv.do(t, http.MethodPost, fmt.Sprintf("/api/v1/courses/%d/rating/recalculate", course.ID), "admin", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &summary)
	assert.Equal(t, 3.3, summary.Rating)
}

func TestCourseRoutes_RatingErrors(t *testing.T) {
	srv := newTestServer(t)
	course, _ := testutil.CreateCourse(t, srv.db, 1)
	testutil.Enroll(t, srv.db, "student-1", course.ID)

	rec := srv.do(t, http.MethodPost, fmt.Sprintf("/api/v1/courses/%d/rating", course.ID), "student-1", map[string]interface{}{"rating": 6})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodPost, fmt.Sprintf("/api/v1/courses/%d/rating", course.ID), "stranger", map[string]interface{}{"rating": 4})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/courses/999/rating", "student-1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
