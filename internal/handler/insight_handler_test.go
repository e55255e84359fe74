package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terp-tools/terp-scheduler-api/internal/models"
	appErrors "github.com/terp-tools/terp-scheduler-api/pkg/errors"
)

type insightMock struct {
	rating   *models.ProfessorRating
	insight  *models.CourseInsight
	captured string
	err      error
}

func (m *insightMock) GetInsight(ctx context.Context, name string) (*models.ProfessorRating, error) {
	m.captured = name
	if m.err != nil {
		return nil, m.err
	}
	return m.rating, nil
}

func (m *insightMock) GetCourseInsight(ctx context.Context, courseCode string) (*models.CourseInsight, error) {
	m.captured = courseCode
	if m.err != nil {
		return nil, m.err
	}
	return m.insight, nil
}

func TestInsightHandlerProfessor(t *testing.T) {
	mockSvc := &insightMock{rating: &models.ProfessorRating{Name: "Clyde Kruskal", AggregatedScore: 3.9}}
	h := &InsightHandler{service: mockSvc}

	w := performRequest(t, h.Professor, http.MethodGet, "/insights/professors/Clyde%20Kruskal", nil,
		gin.Params{{Key: "name", Value: "Clyde Kruskal"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Clyde Kruskal", mockSvc.captured)
	assert.Contains(t, w.Body.String(), "3.9")
}

func TestInsightHandlerProfessorValidation(t *testing.T) {
	mockSvc := &insightMock{err: appErrors.Clone(appErrors.ErrValidation, "professor name is required")}
	h := &InsightHandler{service: mockSvc}

	w := performRequest(t, h.Professor, http.MethodGet, "/insights/professors/", nil,
		gin.Params{{Key: "name", Value: " "}})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInsightHandlerCourse(t *testing.T) {
	mockSvc := &insightMock{insight: &models.CourseInsight{CourseCode: "CMSC131", AverageGPA: 3.1}}
	h := &InsightHandler{service: mockSvc}

	w := performRequest(t, h.Course, http.MethodGet, "/insights/courses/CMSC131", nil,
		gin.Params{{Key: "courseId", Value: "CMSC131"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "CMSC131", mockSvc.captured)
	assert.Contains(t, w.Body.String(), "3.1")
}

func TestInsightHandlerUpstreamFailure(t *testing.T) {
	mockSvc := &insightMock{err: appErrors.Clone(appErrors.ErrUpstream, "ratings aggregator returned status 503")}
	h := &InsightHandler{service: mockSvc}

	w := performRequest(t, h.Professor, http.MethodGet, "/insights/professors/Someone", nil,
		gin.Params{{Key: "name", Value: "Someone"}})
	require.Equal(t, http.StatusBadGateway, w.Code)
}
