package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terp-tools/terp-scheduler-api/internal/models"
)

func testSection(course, number string, days []string, start, end string) models.Section {
	return models.Section{
		CourseCode:    course,
		SectionNumber: number,
		Days:          days,
		StartTime:     start,
		EndTime:       end,
		Professor:     models.Professor{AggregatedScore: 3.0, AverageGPA: 3.0},
	}
}

func TestGenerateEndToEnd(t *testing.T) {
	eng := New(Config{})

	available := map[string][]models.Section{
		"CMSC131": {
			testSection("CMSC131", "0101", []string{"M", "W", "F"}, "09:00", "09:50"),
			testSection("CMSC131", "0201", []string{"M", "W", "F"}, "14:00", "14:50"),
		},
		"MATH140": {
			testSection("MATH140", "0101", []string{"M", "W", "F"}, "10:00", "10:50"),
		},
	}

	prefs := models.Preferences{PreferMorning: true}
	schedules, stats, err := eng.Generate([]string{"CMSC131", "MATH140"}, available, prefs, 5)
	require.NoError(t, err)
	require.Len(t, schedules, 2)
	assert.Equal(t, 2, stats.Candidates)
	assert.Equal(t, 2, stats.Valid)

	// The morning CMSC131 combination must outrank the afternoon one.
	assert.Greater(t, schedules[0].Score, schedules[1].Score)
	assert.Equal(t, "0101", schedules[0].Sections[0].SectionNumber)
	assert.Equal(t, "0201", schedules[1].Sections[0].SectionNumber)

	// Section order follows the required-course order.
	for _, schedule := range schedules {
		require.Len(t, schedule.Sections, 2)
		assert.Equal(t, "CMSC131", schedule.Sections[0].CourseCode)
		assert.Equal(t, "MATH140", schedule.Sections[1].CourseCode)
	}
}

func TestGenerateFiltersConflicts(t *testing.T) {
	eng := New(Config{})

	available := map[string][]models.Section{
		"CMSC131": {
			testSection("CMSC131", "0101", []string{"M", "W"}, "09:00", "10:15"),
			testSection("CMSC131", "0201", []string{"Tu", "Th"}, "09:00", "10:15"),
		},
		"MATH140": {
			testSection("MATH140", "0101", []string{"M", "W"}, "10:00", "11:15"),
		},
	}

	schedules, stats, err := eng.Generate([]string{"CMSC131", "MATH140"}, available, models.Preferences{}, 5)
	require.NoError(t, err)
	require.Len(t, schedules, 1)
	assert.Equal(t, 2, stats.Candidates)
	assert.Equal(t, 1, stats.Valid)
	assert.Equal(t, "0201", schedules[0].Sections[0].SectionNumber)
}

func TestGenerateInfeasibleCourse(t *testing.T) {
	eng := New(Config{})

	available := map[string][]models.Section{
		"CMSC131": {testSection("CMSC131", "0101", []string{"M"}, "09:00", "09:50")},
		"MATH140": {},
	}

	schedules, stats, err := eng.Generate([]string{"CMSC131", "MATH140"}, available, models.Preferences{}, 5)
	require.NoError(t, err)
	assert.Empty(t, schedules)
	assert.Equal(t, 0, stats.Candidates)

	// A course missing from the map entirely behaves the same way.
	schedules, _, err = eng.Generate([]string{"CMSC131", "ENGL101"}, available, models.Preferences{}, 5)
	require.NoError(t, err)
	assert.Empty(t, schedules)
}

func TestGenerateTopNTruncation(t *testing.T) {
	eng := New(Config{})

	// Five sections with distinct ratings produce five distinct scores.
	sections := make([]models.Section, 0, 5)
	for i := 0; i < 5; i++ {
		s := testSection("CMSC131", string(rune('1'+i)), []string{"M"}, "09:00", "09:50")
		s.Professor.AggregatedScore = 1.0 + float64(i)*0.9
		sections = append(sections, s)
	}
	available := map[string][]models.Section{"CMSC131": sections}

	prefs := models.Preferences{PrioritizeProfessorRating: true}
	schedules, _, err := eng.Generate([]string{"CMSC131"}, available, prefs, 2)
	require.NoError(t, err)
	require.Len(t, schedules, 2)
	assert.Greater(t, schedules[0].Score, schedules[1].Score)
	assert.Equal(t, "5", schedules[0].Sections[0].SectionNumber)
	assert.Equal(t, "4", schedules[1].Sections[0].SectionNumber)

	// Fewer valid candidates than requested returns all of them.
	schedules, _, err = eng.Generate([]string{"CMSC131"}, available, prefs, 50)
	require.NoError(t, err)
	assert.Len(t, schedules, 5)

	// A non-positive cap yields nothing.
	schedules, _, err = eng.Generate([]string{"CMSC131"}, available, prefs, 0)
	require.NoError(t, err)
	assert.Empty(t, schedules)
}

func TestGenerateVacuousRequest(t *testing.T) {
	eng := New(Config{})

	schedules, stats, err := eng.Generate(nil, map[string][]models.Section{}, models.DefaultPreferences(), 3)
	require.NoError(t, err)
	require.Len(t, schedules, 1)
	assert.Empty(t, schedules[0].Sections)
	assert.Equal(t, 1, stats.Candidates)

	// Neutral defaults: only the day-preference term contributes.
	assert.InDelta(t, 10.0, schedules[0].Score, 1e-9)
}

func TestGenerateCandidateCeiling(t *testing.T) {
	eng := New(Config{CandidateCeiling: 10})

	available := map[string][]models.Section{
		"CMSC131": sectionList("CMSC131", 4),
		"MATH140": sectionList("MATH140", 4),
	}

	_, _, err := eng.Generate([]string{"CMSC131", "MATH140"}, available, models.Preferences{}, 5)
	require.ErrorIs(t, err, ErrSearchSpaceExceeded)
}

func TestGenerateStableOrderOnTies(t *testing.T) {
	eng := New(Config{})

	available := map[string][]models.Section{
		"CMSC131": {
			testSection("CMSC131", "0101", []string{"M"}, "09:00", "09:50"),
			testSection("CMSC131", "0201", []string{"Tu"}, "09:00", "09:50"),
		},
	}

	schedules, _, err := eng.Generate([]string{"CMSC131"}, available, models.Preferences{}, 5)
	require.NoError(t, err)
	require.Len(t, schedules, 2)
	assert.InDelta(t, schedules[0].Score, schedules[1].Score, 1e-9)
	assert.Equal(t, "0101", schedules[0].Sections[0].SectionNumber)
	assert.Equal(t, "0201", schedules[1].Sections[0].SectionNumber)
}
