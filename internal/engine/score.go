package engine

import (
	"sort"

	"github.com/terp-tools/terp-scheduler-api/internal/models"
)

// Fixed score weights. These are part of the scoring contract and are not
// user-tunable.
const (
	professorRatingWeight   = 20.0
	gpaWeight               = 15.0
	timePreferenceWeight    = 25.0
	dayPreferenceWeight     = 10.0
	backToBackPenaltyWeight = 10.0
	gapQualityWeight        = 5.0

	backToBackGapMinutes = 15
	idealGapMinMinutes   = 30
	idealGapMaxMinutes   = 90
	longGapMinutes       = 180

	morningStartHour   = 8
	afternoonStartHour = 12
	eveningStartHour   = 17
	eveningEndHour     = 21
)

// scoreSchedule computes the weighted preference score for a conflict-free
// candidate. Sub-scores are independent; means and fractions over an empty
// candidate evaluate to 0 rather than dividing by zero.
func scoreSchedule(sections []models.Section, prefs models.Preferences) float64 {
	score := 0.0

	if prefs.PrioritizeProfessorRating {
		score += averageProfessorRating(sections) * professorRatingWeight
	}
	if prefs.PrioritizeEasyGPA {
		score += averageGPA(sections) * gpaWeight
	}

	score += timePreferenceScore(sections, prefs) * timePreferenceWeight
	score += dayPreferenceScore(sections, prefs.PreferredDays) * dayPreferenceWeight

	if prefs.AvoidBackToBack {
		score -= float64(backToBackCount(sections)) * backToBackPenaltyWeight
	}

	score += gapQualityScore(sections) * gapQualityWeight

	return score
}

func averageProfessorRating(sections []models.Section) float64 {
	if len(sections) == 0 {
		return 0
	}
	total := 0.0
	for _, section := range sections {
		rating := section.Professor.AggregatedScore
		if rating <= 0 {
			rating = models.DefaultAggregatedScore
		}
		total += rating
	}
	return total / float64(len(sections))
}

func averageGPA(sections []models.Section) float64 {
	if len(sections) == 0 {
		return 0
	}
	total := 0.0
	for _, section := range sections {
		gpa := section.Professor.AverageGPA
		if gpa <= 0 {
			gpa = models.DefaultAverageGPA
		}
		total += gpa
	}
	return total / float64(len(sections))
}

// timePreferenceScore is the fraction of sections whose start hour falls in an
// active preferred window: morning [8,12), afternoon [12,17), evening [17,21).
func timePreferenceScore(sections []models.Section, prefs models.Preferences) float64 {
	if len(sections) == 0 {
		return 0
	}
	if !prefs.PreferMorning && !prefs.PreferAfternoon && !prefs.PreferEvening {
		return 0
	}

	matched := 0.0
	for _, section := range sections {
		start, ok := parseClockTime(section.StartTime)
		if !ok {
			continue
		}
		hour := start / 60
		switch {
		case prefs.PreferMorning && hour >= morningStartHour && hour < afternoonStartHour:
			matched++
		case prefs.PreferAfternoon && hour >= afternoonStartHour && hour < eveningStartHour:
			matched++
		case prefs.PreferEvening && hour >= eveningStartHour && hour < eveningEndHour:
			matched++
		}
	}
	return matched / float64(len(sections))
}

// dayPreferenceScore is the fraction of sections meeting on at least one
// preferred day. An empty preference is neutral and scores 1.0, so schedules
// are never penalized for days the student did not care about.
func dayPreferenceScore(sections []models.Section, preferredDays []string) float64 {
	if len(preferredDays) == 0 {
		return 1.0
	}
	if len(sections) == 0 {
		return 0
	}

	matched := 0.0
	for _, section := range sections {
		if daysIntersect(section.Days, preferredDays) {
			matched++
		}
	}
	return matched / float64(len(sections))
}

// dayMeeting is one section's parsed meeting window, used for same-day
// adjacency scans.
type dayMeeting struct {
	start   int
	startOK bool
	end     int
	endOK   bool
}

// meetingsByDay groups a candidate's sections per calendar day and sorts each
// day's meetings by start time. A section meeting multiple days participates
// independently in each day's chain.
func meetingsByDay(sections []models.Section) map[string][]dayMeeting {
	grouped := make(map[string][]dayMeeting)
	for _, section := range sections {
		start, startOK := parseClockTime(section.StartTime)
		end, endOK := parseClockTime(section.EndTime)
		for _, day := range section.Days {
			key := NormalizeDay(day)
			grouped[key] = append(grouped[key], dayMeeting{start: start, startOK: startOK, end: end, endOK: endOK})
		}
	}
	for day := range grouped {
		meetings := grouped[day]
		sort.SliceStable(meetings, func(i, j int) bool {
			return sortKey(meetings[i]) < sortKey(meetings[j])
		})
		grouped[day] = meetings
	}
	return grouped
}

func sortKey(m dayMeeting) int {
	if !m.startOK {
		return -1
	}
	return m.start
}

// backToBackCount counts adjacent same-day pairs separated by less than 15
// minutes, across every day the candidate meets.
func backToBackCount(sections []models.Section) int {
	count := 0
	for _, meetings := range meetingsByDay(sections) {
		for i := 0; i < len(meetings)-1; i++ {
			first, second := meetings[i], meetings[i+1]
			if !first.endOK || !second.startOK {
				continue
			}
			if second.start-first.end < backToBackGapMinutes {
				count++
			}
		}
	}
	return count
}

// gapQualityScore rewards comfortable breaks and penalizes stranded ones:
// +1 unit for an adjacent gap of 30-90 minutes inclusive, -0.5 for a gap over
// 180 minutes.
func gapQualityScore(sections []models.Section) float64 {
	score := 0.0
	for _, meetings := range meetingsByDay(sections) {
		for i := 0; i < len(meetings)-1; i++ {
			first, second := meetings[i], meetings[i+1]
			if !first.endOK || !second.startOK {
				continue
			}
			gap := second.start - first.end
			switch {
			case gap >= idealGapMinMinutes && gap <= idealGapMaxMinutes:
				score += 1.0
			case gap > longGapMinutes:
				score -= 0.5
			}
		}
	}
	return score
}
