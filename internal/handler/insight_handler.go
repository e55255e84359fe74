package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/terp-tools/terp-scheduler-api/internal/models"
	"github.com/terp-tools/terp-scheduler-api/internal/service"
	"github.com/terp-tools/terp-scheduler-api/pkg/response"
)

type insightProvider interface {
	GetInsight(ctx context.Context, name string) (*models.ProfessorRating, error)
	GetCourseInsight(ctx context.Context, courseCode string) (*models.CourseInsight, error)
}

// InsightHandler exposes professor and course insight endpoints.
type InsightHandler struct {
	service insightProvider
}

// NewInsightHandler constructs the handler.
func NewInsightHandler(svc *service.ProfessorInsightService) *InsightHandler {
	return &InsightHandler{service: svc}
}

// Professor godoc
// @Summary Get aggregated rating and GPA data for a professor
// @Tags Insights
// @Produce json
// @Param name path string true "Professor display name"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /insights/professors/{name} [get]
func (h *InsightHandler) Professor(c *gin.Context) {
	rating, err := h.service.GetInsight(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rating, nil)
}

// Course godoc
// @Summary Get historical grade data for a course
// @Tags Insights
// @Produce json
// @Param courseId path string true "Course code, e.g. CMSC131"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /insights/courses/{courseId} [get]
func (h *InsightHandler) Course(c *gin.Context) {
	insight, err := h.service.GetCourseInsight(c.Request.Context(), c.Param("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, insight, nil)
}
