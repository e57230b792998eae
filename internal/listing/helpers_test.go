package listing

import (
	"time"

	"github.com/david/opportunity-finder/internal/models"
)

var testNow = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func testCategories() []models.Category {
	return []models.Category{
		{ID: "c1", Name: "Scholarships", Slug: "scholarships"},
		{ID: "c2", Name: "Internships", Slug: "internships"},
		{ID: "c3", Name: "Jobs", Slug: "jobs"},
	}
}

func testOpportunities() []models.Opportunity {
	return []models.Opportunity{
		{ID: "o1", Title: "Chevening Scholarship", Description: "Fully funded masters in the UK", CategoryID: "c1", Deadline: "2025-01-05", Location: "United Kingdom", CreatedAt: testNow.Add(-1 * time.Hour)},
		{ID: "o2", Title: "Google STEP Internship", Description: "Summer internship for first-year students", CategoryID: "c2", Deadline: "2025-02-01", Location: "Remote", CreatedAt: testNow.Add(-2 * time.Hour)},
		{ID: "o3", Title: "Fulbright Program", Description: "Study in the United States", CategoryID: "c1", Deadline: "Rolling", Location: "United States", CreatedAt: testNow.Add(-3 * time.Hour)},
		{ID: "o4", Title: "Junior Backend Engineer", Description: "<p>Go and <b>Postgres</b></p>", CategoryID: "c3", Deadline: "Ongoing", Location: "Remote", CreatedAt: testNow.Add(-4 * time.Hour)},
		{ID: "o5", Title: "Mystery Grant", Description: "No category attached", CategoryID: "missing", Deadline: "soon-ish", Location: "Nigeria", CreatedAt: testNow.Add(-5 * time.Hour)},
		{ID: "o6", Title: "DAAD Scholarship", Description: "Study in Germany", CategoryID: "c1", Deadline: "2025-03-15", Location: "Germany", CreatedAt: testNow.Add(-6 * time.Hour)},
	}
}

func testItems() []models.OpportunityWithCategory {
	return Normalize(testOpportunities(), testCategories())
}

func ids(items []models.OpportunityWithCategory) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
