package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/terp-tools/terp-scheduler-api/internal/models"
)

func meeting(course string, days []string, start, end string) models.Section {
	return models.Section{CourseCode: course, Days: days, StartTime: start, EndTime: end}
}

func TestSectionsConflictOverlap(t *testing.T) {
	a := meeting("CMSC131", []string{"M"}, "09:00", "10:30")
	b := meeting("MATH140", []string{"M"}, "10:00", "11:00")

	assert.True(t, sectionsConflict(a, b))
}

func TestSectionsConflictSymmetry(t *testing.T) {
	a := meeting("CMSC131", []string{"M", "W"}, "09:00", "10:30")
	b := meeting("MATH140", []string{"W"}, "10:00", "11:00")
	c := meeting("ENGL101", []string{"Tu"}, "10:00", "11:00")

	assert.Equal(t, sectionsConflict(a, b), sectionsConflict(b, a))
	assert.Equal(t, sectionsConflict(a, c), sectionsConflict(c, a))
}

func TestSectionsConflictTouchingEndpointsPass(t *testing.T) {
	a := meeting("CMSC131", []string{"M"}, "09:00", "10:00")
	b := meeting("MATH140", []string{"M"}, "10:00", "11:00")

	assert.False(t, sectionsConflict(a, b))
}

func TestSectionsConflictDisjointDaysPass(t *testing.T) {
	a := meeting("CMSC131", []string{"M", "W"}, "09:00", "10:30")
	b := meeting("MATH140", []string{"Tu", "Th"}, "10:00", "11:00")

	assert.False(t, sectionsConflict(a, b))
}

func TestSectionsConflictUnparseableTimesPass(t *testing.T) {
	async := meeting("CMSC389", []string{"M"}, "", "")
	tba := meeting("CMSC498", []string{"M"}, "TBA", "TBA")
	timed := meeting("MATH140", []string{"M"}, "09:00", "23:00")

	assert.False(t, sectionsConflict(async, timed))
	assert.False(t, sectionsConflict(tba, timed))
	assert.False(t, sectionsConflict(async, tba))
}

func TestConflictFree(t *testing.T) {
	ok := []models.Section{
		meeting("CMSC131", []string{"M", "W", "F"}, "09:00", "09:50"),
		meeting("MATH140", []string{"M", "W", "F"}, "10:00", "10:50"),
		meeting("ENGL101", []string{"Tu", "Th"}, "09:30", "10:45"),
	}
	assert.True(t, conflictFree(ok))

	clash := append([]models.Section{}, ok...)
	clash = append(clash, meeting("PHYS161", []string{"F"}, "09:30", "10:20"))
	assert.False(t, conflictFree(clash))

	assert.True(t, conflictFree(nil))
	assert.True(t, conflictFree(ok[:1]))
}
