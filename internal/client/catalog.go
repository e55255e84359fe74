// Package client holds thin typed HTTP clients for the external data sources
// feeding the scheduler: the Schedule of Classes catalog and the professor
// rating aggregator.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/terp-tools/terp-scheduler-api/internal/engine"
	"github.com/terp-tools/terp-scheduler-api/internal/models"
	"github.com/terp-tools/terp-scheduler-api/pkg/config"
	appErrors "github.com/terp-tools/terp-scheduler-api/pkg/errors"
)

// CatalogClient talks to the Schedule of Classes API.
type CatalogClient struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewCatalogClient constructs a catalog client.
func NewCatalogClient(cfg config.CatalogConfig, logger *zap.Logger) *CatalogClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

type catalogMeeting struct {
	Days      []string `json:"days"`
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
	Building  string   `json:"building"`
	Room      string   `json:"room"`
}

type catalogSection struct {
	Section     string           `json:"section"`
	Course      string           `json:"course"`
	Semester    string           `json:"semester"`
	Seats       int              `json:"seats"`
	OpenSeats   int              `json:"open_seats"`
	Instructors []string         `json:"instructors"`
	Meetings    []catalogMeeting `json:"meetings"`
}

type catalogCourse struct {
	CourseID     string   `json:"course_id"`
	Name         string   `json:"name"`
	DeptID       string   `json:"dept_id"`
	Credits      string   `json:"credits"`
	Description  string   `json:"description"`
	Prerequisite string   `json:"prerequisite"`
	Semester     string   `json:"semester"`
	GenEd        []string `json:"gen_ed"`
}

// ListCourses fetches catalog entries, optionally filtered by term and
// department.
func (c *CatalogClient) ListCourses(ctx context.Context, term, department string) ([]models.Course, error) {
	params := url.Values{}
	if term != "" {
		params.Set("semester", term)
	}
	if department != "" {
		params.Set("dept_id", department)
	}

	var raw []catalogCourse
	if err := c.getJSON(ctx, "/courses", params, &raw); err != nil {
		return nil, err
	}

	courses := make([]models.Course, 0, len(raw))
	for _, item := range raw {
		courses = append(courses, item.toModel())
	}
	return courses, nil
}

// GetCourse fetches one catalog entry by course code.
func (c *CatalogClient) GetCourse(ctx context.Context, courseCode string) (*models.Course, error) {
	var raw []catalogCourse
	if err := c.getJSON(ctx, "/courses/"+url.PathEscape(courseCode), nil, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("course %s not found", courseCode))
	}
	course := raw[0].toModel()
	return &course, nil
}

// ListSections fetches the offered sections of a course for a term and
// normalizes them into the engine's section shape. The first meeting of a
// section supplies its days, times, and location; sections without meetings
// come back with empty day sets so the engine treats them as async.
func (c *CatalogClient) ListSections(ctx context.Context, courseCode, term string) ([]models.Section, error) {
	params := url.Values{}
	if term != "" {
		params.Set("semester", term)
	}

	var raw []catalogSection
	path := "/courses/" + url.PathEscape(courseCode) + "/sections"
	if err := c.getJSON(ctx, path, params, &raw); err != nil {
		return nil, err
	}

	sections := make([]models.Section, 0, len(raw))
	for _, item := range raw {
		sections = append(sections, item.toModel(courseCode))
	}
	return sections, nil
}

func (s catalogSection) toModel(courseCode string) models.Section {
	section := models.Section{
		CourseCode:    models.NormalizeCourseCode(courseCode),
		SectionNumber: s.Section,
		OpenSeats:     s.OpenSeats,
		TotalSeats:    s.Seats,
	}
	if len(s.Instructors) > 0 {
		section.Professor = models.Professor{Name: s.Instructors[0]}
	}
	if len(s.Meetings) > 0 {
		meeting := s.Meetings[0]
		days := make([]string, 0, len(meeting.Days))
		for _, day := range meeting.Days {
			days = append(days, engine.NormalizeDay(day))
		}
		section.Days = days
		section.StartTime = meeting.StartTime
		section.EndTime = meeting.EndTime
		section.Building = meeting.Building
		section.Room = meeting.Room
	}
	return section
}

func (r catalogCourse) toModel() models.Course {
	return models.Course{
		CourseCode:   models.NormalizeCourseCode(r.CourseID),
		Name:         r.Name,
		Department:   r.DeptID,
		Credits:      r.Credits,
		Description:  r.Description,
		Prerequisite: r.Prerequisite,
		Semester:     r.Semester,
		GenEds:       r.GenEd,
	}
}

func (c *CatalogClient) getJSON(ctx context.Context, path string, params url.Values, dest interface{}) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build catalog request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "catalog request failed")
	}
	defer resp.Body.Close() //nolint:errcheck

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return appErrors.Clone(appErrors.ErrNotFound, "catalog resource not found")
	case resp.StatusCode != http.StatusOK:
		c.logger.Warn("catalog returned unexpected status",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return appErrors.Clone(appErrors.ErrUpstream, fmt.Sprintf("catalog returned status %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "decode catalog response")
	}
	return nil
}
