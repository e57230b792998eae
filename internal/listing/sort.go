package listing

import (
	"slices"

	"github.com/david/opportunity-finder/internal/models"
)

// Sort modes.
const (
	SortNewest   = "newest"
	SortOldest   = "oldest"
	SortDeadline = "deadline"
	SortPopular  = "popular"
)

// Sort returns a stably sorted copy of items. Unknown modes sort as SortNewest.
func Sort(items []models.OpportunityWithCategory, mode string) []models.OpportunityWithCategory {
	sorted := slices.Clone(items)
	if sorted == nil {
		sorted = []models.OpportunityWithCategory{}
	}

	var cmp func(a, b models.OpportunityWithCategory) int
	switch mode {
	case SortOldest:
		cmp = func(a, b models.OpportunityWithCategory) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	case SortDeadline:
		cmp = compareDeadline
	case SortPopular:
		cmp = func(a, b models.OpportunityWithCategory) int {
			switch {
			case a.Featured == b.Featured:
				return 0
			case a.Featured:
				return -1
			default:
				return 1
			}
		}
	default:
		cmp = func(a, b models.OpportunityWithCategory) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		}
	}

	slices.SortStableFunc(sorted, cmp)
	return sorted
}

// deadline ranks: dated items first (chronological), then unparseable values such as
// "Ongoing", then "Rolling".
const (
	rankDated = iota
	rankUndated
	rankRolling
)

func deadlineRank(deadline string) int {
	if deadline == models.DeadlineRolling {
		return rankRolling
	}
	if _, ok := ParseDeadline(deadline); ok {
		return rankDated
	}
	return rankUndated
}

func compareDeadline(a, b models.OpportunityWithCategory) int {
	ra, rb := deadlineRank(a.Deadline), deadlineRank(b.Deadline)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	if ra != rankDated {
		return 0
	}
	ta, _ := ParseDeadline(a.Deadline)
	tb, _ := ParseDeadline(b.Deadline)
	return ta.Compare(tb)
}
