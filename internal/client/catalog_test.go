package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terp-tools/terp-scheduler-api/pkg/config"
	appErrors "github.com/terp-tools/terp-scheduler-api/pkg/errors"
)

func newCatalogFixture(t *testing.T, handler http.HandlerFunc) (*CatalogClient, *httptest.Server) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewCatalogClient(config.CatalogConfig{BaseURL: server.URL, Timeout: 2 * time.Second}, nil)
	return client, server
}

func TestCatalogListSectionsNormalizes(t *testing.T) {
	client, _ := newCatalogFixture(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/courses/CMSC131/sections", r.URL.Path)
		require.Equal(t, "202508", r.URL.Query().Get("semester"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{
				"section": "0101",
				"course": "CMSC131",
				"semester": "202508",
				"seats": 120,
				"open_seats": 14,
				"instructors": ["Nelson Padua-Perez"],
				"meetings": [
					{"days": ["Monday", "W", "fri"], "start_time": "9:00am", "end_time": "9:50am", "building": "IRB", "room": "0324"}
				]
			},
			{
				"section": "0201",
				"course": "CMSC131",
				"semester": "202508",
				"seats": 40,
				"open_seats": 0,
				"instructors": [],
				"meetings": []
			}
		]`))
	})

	sections, err := client.ListSections(context.Background(), "CMSC131", "202508")
	require.NoError(t, err)
	require.Len(t, sections, 2)

	first := sections[0]
	assert.Equal(t, "CMSC131", first.CourseCode)
	assert.Equal(t, "0101", first.SectionNumber)
	assert.Equal(t, []string{"M", "W", "F"}, first.Days)
	assert.Equal(t, "9:00am", first.StartTime)
	assert.Equal(t, "IRB", first.Building)
	assert.Equal(t, "Nelson Padua-Perez", first.Professor.Name)
	assert.Equal(t, 14, first.OpenSeats)
	assert.Equal(t, 120, first.TotalSeats)

	// Meeting-less sections come back async: no days, no times.
	second := sections[1]
	assert.Empty(t, second.Days)
	assert.Empty(t, second.StartTime)
}

func TestCatalogGetCourse(t *testing.T) {
	client, _ := newCatalogFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"course_id": "cmsc131", "name": "Object-Oriented Programming I", "dept_id": "CMSC", "credits": "4"}]`))
	})

	course, err := client.GetCourse(context.Background(), "CMSC131")
	require.NoError(t, err)
	assert.Equal(t, "CMSC131", course.CourseCode)
	assert.Equal(t, "Object-Oriented Programming I", course.Name)
	assert.Equal(t, "CMSC", course.Department)
}

func TestCatalogGetCourseNotFound(t *testing.T) {
	client, _ := newCatalogFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetCourse(context.Background(), "CMSC999")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCatalogUpstreamFailure(t *testing.T) {
	client, _ := newCatalogFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.ListSections(context.Background(), "CMSC131", "202508")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUpstream.Code, appErrors.FromError(err).Code)
}

func TestCatalogListCourses(t *testing.T) {
	client, _ := newCatalogFixture(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/courses", r.URL.Path)
		require.Equal(t, "CMSC", r.URL.Query().Get("dept_id"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"course_id": "CMSC131"}, {"course_id": "CMSC132"}]`))
	})

	courses, err := client.ListCourses(context.Background(), "", "CMSC")
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "CMSC132", courses[1].CourseCode)
}
