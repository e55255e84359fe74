package models

import "time"

// ScoredSchedule pairs one conflict-free section combination with its
// preference score. Sections appear in required-course order.
type ScoredSchedule struct {
	Sections []Section `json:"sections"`
	Score    float64   `json:"score"`
}

// ScheduleResult is a generated, ranked batch of schedules addressable by ID
// until it expires from the in-memory result store.
type ScheduleResult struct {
	ID              string           `json:"id"`
	Term            string           `json:"term"`
	RequiredCourses []string         `json:"requiredCourses"`
	Preferences     Preferences      `json:"preferences"`
	Schedules       []ScoredSchedule `json:"schedules"`
	GeneratedAt     time.Time        `json:"generatedAt"`
}
