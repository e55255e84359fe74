package models

import "time"

// ProfessorRating is a locally stored aggregate of third-party rating and
// grade data, keyed by instructor name.
type ProfessorRating struct {
	ID              string    `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	AggregatedScore float64   `db:"aggregated_score" json:"aggregated_score"`
	AverageGPA      float64   `db:"average_gpa" json:"average_gpa"`
	ReviewCount     int       `db:"review_count" json:"review_count"`
	FetchedAt       time.Time `db:"fetched_at" json:"fetched_at"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// Stale reports whether the aggregate is older than the refresh interval.
func (p *ProfessorRating) Stale(maxAge time.Duration) bool {
	if p == nil {
		return true
	}
	return time.Since(p.FetchedAt) > maxAge
}
