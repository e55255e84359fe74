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

type courseCatalogMock struct {
	courses      []models.Course
	course       *models.Course
	sections     []models.Section
	capturedTerm string
	capturedDept string
	err          error
}

func (m *courseCatalogMock) ListCourses(ctx context.Context, term, department string) ([]models.Course, error) {
	m.capturedTerm, m.capturedDept = term, department
	return m.courses, m.err
}

func (m *courseCatalogMock) GetCourse(ctx context.Context, courseCode string) (*models.Course, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.course, nil
}

func (m *courseCatalogMock) ListSections(ctx context.Context, courseCode, term string) ([]models.Section, error) {
	m.capturedTerm = term
	return m.sections, m.err
}

func TestCourseHandlerList(t *testing.T) {
	mockSvc := &courseCatalogMock{courses: []models.Course{{CourseCode: "CMSC131"}}}
	h := &CourseHandler{service: mockSvc}

	w := performRequest(t, h.List, http.MethodGet, "/courses?term=202508&department=CMSC", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "202508", mockSvc.capturedTerm)
	assert.Equal(t, "CMSC", mockSvc.capturedDept)
	assert.Contains(t, w.Body.String(), "CMSC131")
}

func TestCourseHandlerGetNotFound(t *testing.T) {
	mockSvc := &courseCatalogMock{err: appErrors.Clone(appErrors.ErrNotFound, "course not found")}
	h := &CourseHandler{service: mockSvc}

	w := performRequest(t, h.Get, http.MethodGet, "/courses/CMSC999", nil, gin.Params{{Key: "code", Value: "CMSC999"}})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCourseHandlerSections(t *testing.T) {
	mockSvc := &courseCatalogMock{sections: []models.Section{{CourseCode: "CMSC131", SectionNumber: "0101"}}}
	h := &CourseHandler{service: mockSvc}

	w := performRequest(t, h.Sections, http.MethodGet, "/courses/CMSC131/sections?term=202508", nil,
		gin.Params{{Key: "code", Value: "CMSC131"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "0101")
}
