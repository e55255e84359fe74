package engine

import "github.com/terp-tools/terp-scheduler-api/internal/models"

// sectionsConflict reports whether two sections meet on a shared day with
// overlapping [start, end) intervals. Touching endpoints do not overlap, and
// a section with a missing or unparseable time cannot be proven to overlap,
// so it passes.
func sectionsConflict(a, b models.Section) bool {
	if !daysIntersect(a.Days, b.Days) {
		return false
	}

	startA, okSA := parseClockTime(a.StartTime)
	endA, okEA := parseClockTime(a.EndTime)
	startB, okSB := parseClockTime(b.StartTime)
	endB, okEB := parseClockTime(b.EndTime)
	if !okSA || !okEA || !okSB || !okEB {
		return false
	}

	return startA < endB && startB < endA
}

// conflictFree runs the pairwise check over a candidate. Candidates with
// fewer than two sections trivially pass. k is small, so O(k²) is fine.
func conflictFree(sections []models.Section) bool {
	for i := 0; i < len(sections); i++ {
		for j := i + 1; j < len(sections); j++ {
			if sectionsConflict(sections[i], sections[j]) {
				return false
			}
		}
	}
	return true
}
