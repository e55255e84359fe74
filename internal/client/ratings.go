package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/terp-tools/terp-scheduler-api/pkg/config"
	appErrors "github.com/terp-tools/terp-scheduler-api/pkg/errors"
)

// gradePoints converts letter grades to quality points when averaging a
// grade distribution.
var gradePoints = map[string]float64{
	"A+": 4.0, "A": 4.0, "A-": 3.7,
	"B+": 3.3, "B": 3.0, "B-": 2.7,
	"C+": 2.3, "C": 2.0, "C-": 1.7,
	"D+": 1.3, "D": 1.0, "D-": 0.7,
	"F": 0.0,
}

// ProfessorRecord is the rating aggregator's view of an instructor.
type ProfessorRecord struct {
	Name          string   `json:"name"`
	Slug          string   `json:"slug"`
	AverageRating float64  `json:"average_rating"`
	Type          string   `json:"type"`
	Courses       []string `json:"courses"`
}

// CourseRecord is the rating aggregator's view of a course.
type CourseRecord struct {
	Department   string  `json:"department"`
	CourseNumber string  `json:"course_number"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Credits      int     `json:"credits"`
	AverageGPA   float64 `json:"average_gpa"`
}

// GradeDistribution aggregates letter-grade counts across sections.
type GradeDistribution map[string]float64

// AverageGPA converts the distribution into a mean GPA. Unknown letter keys
// (withdrawals, other-grade buckets) are ignored. An empty distribution
// yields 0.
func (d GradeDistribution) AverageGPA() float64 {
	totalPoints := 0.0
	totalStudents := 0.0
	for grade, count := range d {
		points, ok := gradePoints[grade]
		if !ok {
			continue
		}
		totalPoints += points * count
		totalStudents += count
	}
	if totalStudents == 0 {
		return 0
	}
	return totalPoints / totalStudents
}

// RatingsClient talks to the professor rating/grade aggregation API.
type RatingsClient struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewRatingsClient constructs a ratings client.
func NewRatingsClient(cfg config.RatingsConfig, logger *zap.Logger) *RatingsClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RatingsClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

// GetProfessor looks up an instructor by display name.
func (c *RatingsClient) GetProfessor(ctx context.Context, name string) (*ProfessorRecord, error) {
	params := url.Values{"name": {name}}
	var record ProfessorRecord
	if err := c.getJSON(ctx, "/professors", params, &record); err != nil {
		return nil, err
	}
	if record.Name == "" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("professor %q not found", name))
	}
	return &record, nil
}

// GetCourse looks up course-level aggregates by course code.
func (c *RatingsClient) GetCourse(ctx context.Context, courseCode string) (*CourseRecord, error) {
	params := url.Values{"name": {courseCode}}
	var record CourseRecord
	if err := c.getJSON(ctx, "/courses", params, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// GetGradeDistribution fetches historical grade rows for a course, optionally
// filtered by professor, and folds them into a single distribution.
func (c *RatingsClient) GetGradeDistribution(ctx context.Context, courseCode, professor string) (GradeDistribution, error) {
	params := url.Values{}
	if courseCode != "" {
		params.Set("course", courseCode)
	}
	if professor != "" {
		params.Set("professor", professor)
	}

	var rows []map[string]interface{}
	if err := c.getJSON(ctx, "/grades", params, &rows); err != nil {
		return nil, err
	}

	dist := make(GradeDistribution)
	for _, row := range rows {
		for key, value := range row {
			if _, graded := gradePoints[key]; !graded {
				continue
			}
			if count, ok := value.(float64); ok {
				dist[key] += count
			}
		}
	}
	return dist, nil
}

func (c *RatingsClient) getJSON(ctx context.Context, path string, params url.Values, dest interface{}) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build ratings request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "ratings request failed")
	}
	defer resp.Body.Close() //nolint:errcheck

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return appErrors.Clone(appErrors.ErrNotFound, "ratings resource not found")
	case resp.StatusCode != http.StatusOK:
		c.logger.Warn("ratings aggregator returned unexpected status",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return appErrors.Clone(appErrors.ErrUpstream, fmt.Sprintf("ratings aggregator returned status %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "decode ratings response")
	}
	return nil
}
