package models

// CourseInsight aggregates historical grade data for a course.
type CourseInsight struct {
	CourseCode  string  `json:"courseCode"`
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	Credits     int     `json:"credits,omitempty"`
	AverageGPA  float64 `json:"averageGPA"`
}

// Course describes a catalog entry as served by the Schedule of Classes API.
type Course struct {
	CourseCode   string   `json:"courseCode"`
	Name         string   `json:"name"`
	Department   string   `json:"department"`
	Credits      string   `json:"credits"`
	Description  string   `json:"description,omitempty"`
	Prerequisite string   `json:"prerequisite,omitempty"`
	Semester     string   `json:"semester,omitempty"`
	GenEds       []string `json:"genEds,omitempty"`
}
