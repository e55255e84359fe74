// Package engine generates ranked, conflict-free course schedules. It is a
// pure computation over already-fetched section data: no I/O, no shared
// mutable state, safe for concurrent use across requests.
package engine

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/terp-tools/terp-scheduler-api/internal/models"
)

// ErrSearchSpaceExceeded is returned when the Cartesian product of section
// choices is larger than the configured candidate ceiling. The enumeration is
// eager, so the ceiling is the only guard against combinatorial blowup.
var ErrSearchSpaceExceeded = errors.New("schedule search space exceeds candidate ceiling")

const defaultCandidateCeiling = 250000

// Config tunes engine behaviour.
type Config struct {
	// CandidateCeiling bounds the Cartesian product size. Zero applies the
	// default; negative disables the guard.
	CandidateCeiling int
	Logger           *zap.Logger
}

// Engine enumerates section combinations, filters conflicts, scores the
// survivors, and returns the top schedules.
type Engine struct {
	ceiling int
	logger  *zap.Logger
}

// New constructs an engine.
func New(cfg Config) *Engine {
	ceiling := cfg.CandidateCeiling
	if ceiling == 0 {
		ceiling = defaultCandidateCeiling
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{ceiling: ceiling, logger: logger}
}

// Stats summarises one generation run.
type Stats struct {
	Candidates int
	Valid      int
	Returned   int
}

// Generate builds every combination of one section per required course,
// drops combinations with time conflicts, scores the rest against the
// preferences, and returns up to maxSchedules results ordered by score
// descending (generation order on ties).
//
// An empty result with a nil error means the request is infeasible: either a
// required course has no sections, or no combination is conflict-free. An
// empty required-course list yields one vacuous schedule. Errors are reserved
// for engine faults such as the search-space ceiling.
func (e *Engine) Generate(
	requiredCourses []string,
	availableSections map[string][]models.Section,
	prefs models.Preferences,
	maxSchedules int,
) ([]models.ScoredSchedule, Stats, error) {
	stats := Stats{}
	if maxSchedules <= 0 {
		return nil, stats, nil
	}

	sectionLists := make([][]models.Section, len(requiredCourses))
	for i, course := range requiredCourses {
		sectionLists[i] = availableSections[course]
	}

	total := candidateCount(sectionLists, e.ceiling)
	if total < 0 {
		return nil, stats, fmt.Errorf("%w: %d courses, ceiling %d", ErrSearchSpaceExceeded, len(requiredCourses), e.ceiling)
	}
	if total == 0 {
		e.logger.Debug("schedule generation infeasible: required course without sections",
			zap.Strings("required_courses", requiredCourses))
		return nil, stats, nil
	}
	stats.Candidates = total

	scored := make([]models.ScoredSchedule, 0, total)
	for _, candidate := range combinations(sectionLists) {
		if !conflictFree(candidate) {
			continue
		}
		scored = append(scored, models.ScoredSchedule{
			Sections: candidate,
			Score:    scoreSchedule(candidate, prefs),
		})
	}
	stats.Valid = len(scored)

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > maxSchedules {
		scored = scored[:maxSchedules]
	}
	stats.Returned = len(scored)

	e.logger.Debug("schedule generation complete",
		zap.Int("candidates", stats.Candidates),
		zap.Int("valid", stats.Valid),
		zap.Int("returned", stats.Returned))

	return scored, stats, nil
}
