package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terp-tools/terp-scheduler-api/internal/models"
)

func sampleResult() *models.ScheduleResult {
	return &models.ScheduleResult{
		ID:              "result-1",
		Term:            "202508",
		RequiredCourses: []string{"CMSC131", "MATH140"},
		Schedules: []models.ScoredSchedule{
			{
				Score: 62.5,
				Sections: []models.Section{
					{
						CourseCode:    "CMSC131",
						SectionNumber: "0101",
						Days:          []string{"M", "W", "F"},
						StartTime:     "9:00am",
						EndTime:       "9:50am",
						Building:      "IRB",
						Room:          "0324",
						Professor:     models.Professor{Name: "Nelson Padua-Perez", AggregatedScore: 4.1},
					},
					{
						CourseCode:    "MATH140",
						SectionNumber: "0201",
						Days:          []string{"Tu", "Th"},
						StartTime:     "11:00am",
						EndTime:       "12:15pm",
						Professor:     models.Professor{Name: "Staff", AggregatedScore: 3.0},
					},
				},
			},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	data, err := NewCSVExporter().Render(sampleResult())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(csvHeaders, ","), lines[0])
	assert.Contains(t, lines[1], "CMSC131")
	assert.Contains(t, lines[1], "MWF")
	assert.Contains(t, lines[1], "IRB 0324")
	assert.Contains(t, lines[2], "TuTh")
}

func TestCSVExporterNilResult(t *testing.T) {
	_, err := NewCSVExporter().Render(nil)
	require.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	data, err := NewPDFExporter().Render(sampleResult())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestPDFExporterEmptySchedules(t *testing.T) {
	result := &models.ScheduleResult{ID: "empty", Term: "202508"}
	data, err := NewPDFExporter().Render(result)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
