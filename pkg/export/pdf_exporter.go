package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/terp-tools/terp-scheduler-api/internal/models"
)

// PDFExporter renders a schedule result into a PDF document, one ranked
// schedule per section table.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

var pdfColumns = []struct {
	header string
	width  float64
}{
	{"Course", 28},
	{"Section", 20},
	{"Days", 22},
	{"Time", 38},
	{"Location", 34},
	{"Professor", 48},
}

// Render creates the PDF document for the ranked schedules.
func (e *PDFExporter) Render(result *models.ScheduleResult) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("pdf requires a schedule result")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	title := "Schedule Options"
	if result.Term != "" {
		title = fmt.Sprintf("Schedule Options - %s", result.Term)
	}
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")

	if len(result.RequiredCourses) > 0 {
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 7, "Courses: "+strings.Join(result.RequiredCourses, ", "), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	for rank, schedule := range result.Schedules {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 8, fmt.Sprintf("Option %d (score %.2f)", rank+1, schedule.Score), "", 1, "L", false, 0, "")

		pdf.SetFont("Arial", "B", 9)
		for _, col := range pdfColumns {
			pdf.CellFormat(col.width, 7, col.header, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 9)
		for _, section := range schedule.Sections {
			cells := []string{
				section.CourseCode,
				section.SectionNumber,
				strings.Join(section.Days, ""),
				meetingTime(section),
				location(section),
				section.Professor.Name,
			}
			for i, col := range pdfColumns {
				pdf.CellFormat(col.width, 6, cells[i], "1", 0, "", false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(5)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func meetingTime(s models.Section) string {
	if s.StartTime == "" && s.EndTime == "" {
		return "async"
	}
	return s.StartTime + " - " + s.EndTime
}
