package models

import (
	"regexp"
	"strings"
)

// Default rating attributes substituted when an instructor is unknown to the
// rating aggregator.
const (
	DefaultAggregatedScore = 3.0
	DefaultAverageGPA      = 3.0
)

var courseCodePattern = regexp.MustCompile(`^[A-Z]{3,4}[0-9]{3}[A-Z]?$`)

// NormalizeCourseCode uppercases and strips whitespace from a raw course code.
func NormalizeCourseCode(raw string) string {
	return strings.ToUpper(strings.Join(strings.Fields(raw), ""))
}

// ValidCourseCode reports whether the code matches the canonical
// letters-then-digits form, e.g. "CMSC131".
func ValidCourseCode(code string) bool {
	return courseCodePattern.MatchString(code)
}

// Professor carries the rating attributes attached to a section's instructor.
// Zero scores mean "unknown"; consumers substitute the documented defaults.
type Professor struct {
	Name            string  `json:"name"`
	AggregatedScore float64 `json:"aggregatedScore"`
	AverageGPA      float64 `json:"averageGPA"`
}

// Section represents one offered meeting pattern of a course, built from
// catalog data and enriched with professor aggregates before scoring.
type Section struct {
	CourseCode    string    `json:"courseCode"`
	SectionNumber string    `json:"sectionNumber"`
	Days          []string  `json:"days"`
	StartTime     string    `json:"startTime"`
	EndTime       string    `json:"endTime"`
	Building      string    `json:"building,omitempty"`
	Room          string    `json:"room,omitempty"`
	OpenSeats     int       `json:"openSeats"`
	TotalSeats    int       `json:"totalSeats"`
	Professor     Professor `json:"professor"`
}
