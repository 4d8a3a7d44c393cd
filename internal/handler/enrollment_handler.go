package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jrvillar/campus-console-api/internal/models"
	"github.com/jrvillar/campus-console-api/internal/service"
	appErrors "github.com/jrvillar/campus-console-api/pkg/errors"
	"github.com/jrvillar/campus-console-api/pkg/response"
)

// EnrollmentHandler exposes enrollment endpoints.
type EnrollmentHandler struct {
	enrollments *service.EnrollmentService
	metrics     *service.MetricsService
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(enrollments *service.EnrollmentService, metrics *service.MetricsService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments, metrics: metrics}
}

// List godoc
// @Summary List enrollments
// @Tags Enrollments
// @Produce json
// @Param studentId query string false "Filter by student"
// @Param courseId query string false "Filter by course"
// @Param sectionId query string false "Filter by section"
// @Param status query string false "Filter by status"
// @Param semester query string false "Filter by semester"
// @Param year query int false "Filter by year"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /enrollments [get]
func (h *EnrollmentHandler) List(c *gin.Context) {
	var filter models.EnrollmentFilter
	filter.StudentID = c.Query("studentId")
	filter.CourseID = c.Query("courseId")
	filter.SectionID = c.Query("sectionId")
	if status := c.Query("status"); status != "" {
		filter.Status = models.EnrollmentStatus(strings.ToUpper(status))
	}
	filter.Semester = c.Query("semester")
	if year, err := strconv.Atoi(c.Query("year")); err == nil {
		filter.Year = year
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	enrollments, pagination, err := h.enrollments.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollments, pagination)
}

// AvailableCourses godoc
// @Summary List courses a student can still enroll in
// @Tags Enrollments
// @Produce json
// @Param id path string true "Student ID"
// @Param semester query string false "Semester filter, 'all' disables it"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/available-courses [get]
func (h *EnrollmentHandler) AvailableCourses(c *gin.Context) {
	courses, err := h.enrollments.AvailableCourses(c.Request.Context(), c.Param("id"), c.Query("semester"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// Enroll godoc
// @Summary Enroll a student in one course
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body service.EnrollRequest true "Enrollment payload"
// @Success 201 {object} response.Envelope
// @Router /enrollments [post]
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var req service.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	enrollment, err := h.enrollments.Enroll(c.Request.Context(), req)
	if err != nil {
		h.recordOutcome(appErrors.FromError(err).Code)
		h.writeEnrollError(c, err)
		return
	}
	h.recordOutcome("COMMITTED")
	response.Created(c, enrollment)
}

// BulkEnroll godoc
// @Summary Enroll a student in several courses in one confirmation
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body service.BulkEnrollRequest true "Bulk enrollment payload"
// @Success 200 {object} response.Envelope
// @Router /enrollments/bulk [post]
func (h *EnrollmentHandler) BulkEnroll(c *gin.Context) {
	var req service.BulkEnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.enrollments.EnrollMany(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	for range result.Committed {
		h.recordOutcome("COMMITTED")
	}
	for _, failed := range result.Failed {
		h.recordOutcome(failed.Reason)
	}
	// 200, not 201: the batch may contain rejections alongside commits.
	response.JSON(c, http.StatusOK, result, nil)
}

// Drop godoc
// @Summary Drop an enrollment
// @Tags Enrollments
// @Produce json
// @Param id path string true "Enrollment ID"
// @Param courseId query string false "Drop only this course within the group"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id} [delete]
func (h *EnrollmentHandler) Drop(c *gin.Context) {
	dropped, err := h.enrollments.Drop(c.Request.Context(), c.Param("id"), c.Query("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dropped, nil)
}

// writeEnrollError surfaces the colliding slots alongside the rejection so
// the console can show the student what is in the way.
func (h *EnrollmentHandler) writeEnrollError(c *gin.Context, err error) {
	var conflictErr *models.EnrollmentConflictError
	if errors.As(err, &conflictErr) {
		response.ErrorWithMeta(c, err, map[string]interface{}{"conflicts": conflictErr.Conflicts})
		return
	}
	response.Error(c, err)
}

func (h *EnrollmentHandler) recordOutcome(outcome string) {
	if h.metrics != nil {
		h.metrics.RecordEnrollmentOutcome(outcome)
	}
}
