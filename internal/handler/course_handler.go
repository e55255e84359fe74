package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/terp-tools/terp-scheduler-api/internal/dto"
	"github.com/terp-tools/terp-scheduler-api/internal/models"
	"github.com/terp-tools/terp-scheduler-api/internal/service"
	appErrors "github.com/terp-tools/terp-scheduler-api/pkg/errors"
	"github.com/terp-tools/terp-scheduler-api/pkg/response"
)

type courseCatalog interface {
	ListCourses(ctx context.Context, term, department string) ([]models.Course, error)
	GetCourse(ctx context.Context, courseCode string) (*models.Course, error)
	ListSections(ctx context.Context, courseCode, term string) ([]models.Section, error)
}

// CourseHandler exposes catalog proxy endpoints.
type CourseHandler struct {
	service courseCatalog
}

// NewCourseHandler constructs the handler.
func NewCourseHandler(svc *service.CourseService) *CourseHandler {
	return &CourseHandler{service: svc}
}

// List godoc
// @Summary List catalog courses
// @Tags Courses
// @Produce json
// @Param term query string false "Term code, e.g. 202508"
// @Param department query string false "Department prefix, e.g. CMSC"
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	var query dto.CourseListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return
	}
	courses, err := h.service.ListCourses(c.Request.Context(), query.Term, query.Department)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// Get godoc
// @Summary Get one catalog course
// @Tags Courses
// @Produce json
// @Param code path string true "Course code, e.g. CMSC131"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{code} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.service.GetCourse(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// Sections godoc
// @Summary List offered sections for a course
// @Tags Courses
// @Produce json
// @Param code path string true "Course code"
// @Param term query string false "Term code"
// @Success 200 {object} response.Envelope
// @Router /courses/{code}/sections [get]
func (h *CourseHandler) Sections(c *gin.Context) {
	var query dto.SectionListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return
	}
	sections, err := h.service.ListSections(c.Request.Context(), c.Param("code"), query.Term)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sections, nil)
}
