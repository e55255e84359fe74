package engine

import "github.com/terp-tools/terp-scheduler-api/internal/models"

// candidateCount returns the size of the Cartesian product, or -1 when it
// would overflow the given ceiling. A ceiling <= 0 means unbounded.
func candidateCount(sectionLists [][]models.Section, ceiling int) int {
	total := 1
	for _, list := range sectionLists {
		if len(list) == 0 {
			return 0
		}
		total *= len(list)
		if ceiling > 0 && total > ceiling {
			return -1
		}
	}
	return total
}

// combinations builds the full Cartesian product of one section per course,
// preserving the required-course order within each candidate. An empty input
// yields the single vacuous candidate; any empty section list yields nothing.
func combinations(sectionLists [][]models.Section) [][]models.Section {
	for _, list := range sectionLists {
		if len(list) == 0 {
			return nil
		}
	}

	result := [][]models.Section{{}}
	for _, list := range sectionLists {
		next := make([][]models.Section, 0, len(result)*len(list))
		for _, partial := range result {
			for _, section := range list {
				candidate := make([]models.Section, len(partial), len(partial)+1)
				copy(candidate, partial)
				next = append(next, append(candidate, section))
			}
		}
		result = next
	}
	return result
}
