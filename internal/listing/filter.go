package listing

import (
	"slices"
	"strings"
	"time"

	"github.com/david/opportunity-finder/internal/models"
)

// Deadline bucket labels offered by the listing sidebar.
const (
	BucketThisWeek    = "This week"
	BucketThisMonth   = "This month"
	BucketNext3Months = "Next 3 months"
	BucketRolling     = "Rolling"
)

// DeadlineBuckets lists the known buckets in display order.
var DeadlineBuckets = []string{BucketThisWeek, BucketThisMonth, BucketNext3Months, BucketRolling}

var bucketLimits = map[string]int{
	BucketThisWeek:    7,
	BucketThisMonth:   30,
	BucketNext3Months: 90,
}

// FilterSelection is the sidebar state. Categories holds category names.
// Types is accepted but not evaluated: every normalized item has Type "Opportunity".
type FilterSelection struct {
	Categories []string `json:"categories"`
	Types      []string `json:"types"`
	Locations  []string `json:"locations"`
	Deadlines  []string `json:"deadlines"`
}

// Query bundles everything Apply needs besides the items.
type Query struct {
	Search    string
	Selection FilterSelection
	Sort      string
}

// Apply filters then sorts items.
func Apply(items []models.OpportunityWithCategory, q Query, now time.Time) []models.OpportunityWithCategory {
	return Sort(Filter(items, q.Search, q.Selection, now), q.Sort)
}

// Filter keeps the items that pass every active filter group, preserving order.
// A group is active when its selection is non-empty; values inside a group are OR-ed.
func Filter(items []models.OpportunityWithCategory, search string, sel FilterSelection, now time.Time) []models.OpportunityWithCategory {
	out := make([]models.OpportunityWithCategory, 0, len(items))
	q := strings.ToLower(search)
	for _, item := range items {
		if q != "" && !matchesSearch(item, q) {
			continue
		}
		if len(sel.Categories) > 0 && !matchesCategory(item, sel.Categories) {
			continue
		}
		if len(sel.Locations) > 0 && !slices.Contains(sel.Locations, item.Location) {
			continue
		}
		if len(sel.Deadlines) > 0 && !MatchesDeadline(item.Deadline, sel.Deadlines, now) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func matchesSearch(item models.OpportunityWithCategory, q string) bool {
	if strings.Contains(strings.ToLower(item.Title), q) {
		return true
	}
	if item.Category != nil && strings.Contains(strings.ToLower(item.Category.Name), q) {
		return true
	}
	return strings.Contains(strings.ToLower(item.Location), q) ||
		strings.Contains(strings.ToLower(item.Description), q)
}

func matchesCategory(item models.OpportunityWithCategory, names []string) bool {
	return item.Category != nil && slices.Contains(names, item.Category.Name)
}

// MatchesDeadline reports whether a raw deadline falls in any of the selected buckets.
// Rolling and Ongoing deadlines only match the Rolling bucket. Unparseable dates never
// match. Unknown bucket names always match.
func MatchesDeadline(deadline string, buckets []string, now time.Time) bool {
	if IsOpenEnded(deadline) {
		return slices.Contains(buckets, BucketRolling)
	}
	days, ok := DaysUntil(deadline, now)
	if !ok {
		return false
	}
	for _, b := range buckets {
		if b == BucketRolling {
			continue
		}
		limit, known := bucketLimits[b]
		if !known || days <= limit {
			return true
		}
	}
	return false
}
