// Package export renders generated schedule results into downloadable
// documents.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/terp-tools/terp-scheduler-api/internal/models"
)

var csvHeaders = []string{"Rank", "Score", "Course", "Section", "Days", "Start", "End", "Location", "Professor", "Rating"}

// CSVExporter renders a schedule result into CSV bytes, one row per section
// with its schedule's rank and score.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the ranked schedules.
func (e *CSVExporter) Render(result *models.ScheduleResult) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("csv requires a schedule result")
	}

	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(csvHeaders); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}

	for rank, schedule := range result.Schedules {
		for _, section := range schedule.Sections {
			record := []string{
				fmt.Sprintf("%d", rank+1),
				fmt.Sprintf("%.2f", schedule.Score),
				section.CourseCode,
				section.SectionNumber,
				strings.Join(section.Days, ""),
				section.StartTime,
				section.EndTime,
				location(section),
				section.Professor.Name,
				fmt.Sprintf("%.2f", section.Professor.AggregatedScore),
			}
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("write csv row: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func location(s models.Section) string {
	switch {
	case s.Building == "" && s.Room == "":
		return ""
	case s.Room == "":
		return s.Building
	default:
		return s.Building + " " + s.Room
	}
}
