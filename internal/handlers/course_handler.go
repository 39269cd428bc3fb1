package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/learning-service/internal/services"
	"github.com/SAP-F-2025/learning-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// CourseHandler serves enrollment, lesson progress and course rating routes
type CourseHandler struct {
	BaseHandler
	progressService services.ProgressService
	ratingService   services.RatingService
}

func NewCourseHandler(progressService services.ProgressService, ratingService services.RatingService, logger utils.Logger) *CourseHandler {
	return &CourseHandler{
		BaseHandler:     NewBaseHandler(logger),
		progressService: progressService,
		ratingService:   ratingService,
	}
}

// ===== ENROLLMENT & PROGRESS =====

// Enroll enrolls the caller in a course
// @Summary Enroll in course
// @Tags courses
// @Produce json
// @Param id path uint true "Course ID"
// @Success 201 {object} SuccessResponse{data=models.Enrollment}
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /courses/{id}/enroll [post]
func (h *CourseHandler) Enroll(c *gin.Context) {
	courseID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := CurrentUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Enrolling in course", "course_id", courseID)

	enrollment, err := h.progressService.Enroll(c.Request.Context(), userID, courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusCreated, "Enrolled", enrollment)
}

// GetEnrollment returns the caller's enrollment and progress in a course
// @Summary Get my enrollment
// @Tags courses
// @Produce json
// @Param id path uint true "Course ID"
// @Success 200 {object} SuccessResponse{data=models.Enrollment}
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id}/enrollment [get]
func (h *CourseHandler) GetEnrollment(c *gin.Context) {
	courseID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := CurrentUserID(c)
	if !ok {
		return
	}

	enrollment, err := h.progressService.GetEnrollment(c.Request.Context(), userID, courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Enrollment retrieved", enrollment)
}

// CompleteLesson marks a lesson as completed for the caller
// @Summary Complete lesson
// @Tags courses
// @Produce json
// @Param id path uint true "Course ID"
// @Param lesson_id path uint true "Lesson ID"
// @Success 200 {object} SuccessResponse{data=models.Enrollment}
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id}/lessons/{lesson_id}/complete [post]
func (h *CourseHandler) CompleteLesson(c *gin.Context) {
	courseID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}
	lessonID, ok := ParseIDParam(c, "lesson_id")
	if !ok {
		return
	}
	userID, ok := CurrentUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Completing lesson", "course_id", courseID, "lesson_id", lessonID)

	enrollment, err := h.progressService.CompleteLesson(c.Request.Context(), userID, courseID, lessonID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Lesson completed", enrollment)
}

// ===== RATINGS =====

// RateCourse records or replaces the caller's rating of a course
// @Summary Rate course
// @Tags courses
// @Accept json
// @Produce json
// @Param id path uint true "Course ID"
// @Param rating body services.RateCourseRequest true "Rating"
// @Success 200 {object} SuccessResponse{data=models.CourseRatingSummary}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id}/rating [post]
func (h *CourseHandler) RateCourse(c *gin.Context) {
	courseID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := CurrentUserID(c)
	if !ok {
		return
	}

	var req services.RateCourseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Rating course", "course_id", courseID, "rating", req.Rating)

	summary, err := h.ratingService.RateCourse(c.Request.Context(), userID, courseID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Course rated", summary)
}

// GetRating returns the course rating summary
// @Summary Get course rating
// @Tags courses
// @Produce json
// @Param id path uint true "Course ID"
// @Success 200 {object} SuccessResponse{data=models.CourseRatingSummary}
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id}/rating [get]
func (h *CourseHandler) GetRating(c *gin.Context) {
	courseID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	summary, err := h.ratingService.GetSummary(c.Request.Context(), courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Rating retrieved", summary)
}

// RecalculateRating rebuilds the course rating from stored ratings
// @Summary Recalculate course rating
// @Tags courses
// @Produce json
// @Param id path uint true "Course ID"
// @Success 200 {object} SuccessResponse{data=models.CourseRatingSummary}
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id}/rating/recalculate [post]
func (h *CourseHandler) RecalculateRating(c *gin.Context) {
	courseID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}

	h.LogRequest(c, "Recalculating course rating", "course_id", courseID)

	summary, err := h.ratingService.RecalculateCourseRating(c.Request.Context(), courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Rating recalculated", summary)
}
