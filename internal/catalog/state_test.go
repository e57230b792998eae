package catalog

import (
	"testing"
	"time"

	"github.com/david/opportunity-finder/internal/listing"
	"github.com/david/opportunity-finder/internal/models"
)

var testNow = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func sampleCategories() []models.Category {
	return []models.Category{
		{ID: "c1", Name: "Scholarships"},
		{ID: "c2", Name: "Internships"},
	}
}

func sampleOpportunities() []models.Opportunity {
	return []models.Opportunity{
		{ID: "o1", Title: "Chevening", CategoryID: "c1", Deadline: "2025-01-05", Location: "United Kingdom", CreatedAt: testNow.Add(-time.Hour)},
		{ID: "o2", Title: "Google STEP", CategoryID: "c2", Deadline: "Rolling", Location: "Remote", CreatedAt: testNow.Add(-2 * time.Hour)},
		{ID: "o3", Title: "DAAD", CategoryID: "c1", Deadline: "2025-03-01", Location: "Germany", CreatedAt: testNow.Add(-3 * time.Hour)},
		{ID: "o4", Title: "Orphan", CategoryID: "gone", Deadline: "2025-01-02", Location: "Remote", CreatedAt: testNow.Add(-4 * time.Hour)},
	}
}

func viewIDs(v View) []string {
	out := []string{}
	for _, it := range v.Items {
		out = append(out, it.ID)
	}
	return out
}

func sameStrings(a, b []string) bool {
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

func TestState_EmptyBeforeLoad(t *testing.T) {
	st := NewState()
	v := st.View(testNow)
	if len(v.Items) != 0 {
		t.Fatalf("expected no items before load, got %v", viewIDs(v))
	}
	if len(v.Window.Pages) != 0 {
		t.Fatalf("expected no page buttons, got %v", v.Window.Pages)
	}
}

func TestState_FirstCategoryLoadSelectsAll(t *testing.T) {
	st := NewState()
	st.SetCategories(sampleCategories())
	st.SetOpportunities(sampleOpportunities(), models.PageMeta{Total: 4, TotalPages: 1, CurrentPage: 1, PerPage: 12})

	sel := st.Selection()
	if !sameStrings(sel.Categories, []string{"Scholarships", "Internships"}) {
		t.Fatalf("expected all categories selected, got %v", sel.Categories)
	}
	if len(sel.Locations) != 0 || len(sel.Deadlines) != 0 {
		t.Fatalf("expected empty location/deadline selection, got %+v", sel)
	}

	// The orphan has no category, so the "all selected" default hides it.
	got := viewIDs(st.View(testNow))
	if !sameStrings(got, []string{"o1", "o2", "o3"}) {
		t.Fatalf("unexpected items %v", got)
	}
}

func TestState_LaterCategoryLoadKeepsSelection(t *testing.T) {
	st := NewState()
	st.SetCategories(sampleCategories())
	st.ToggleCategory("Internships")
	st.SetCategories(append(sampleCategories(), models.Category{ID: "c3", Name: "Jobs"}))

	if got := st.Selection().Categories; !sameStrings(got, []string{"Scholarships"}) {
		t.Fatalf("expected selection to survive reload, got %v", got)
	}
}

func TestState_TogglesAndClear(t *testing.T) {
	st := NewState()
	st.SetCategories(sampleCategories())
	st.SetOpportunities(sampleOpportunities(), models.PageMeta{Total: 4, TotalPages: 1, CurrentPage: 1, PerPage: 12})

	st.ToggleLocation("Remote")
	st.ToggleDeadline(listing.BucketRolling)
	if got := viewIDs(st.View(testNow)); !sameStrings(got, []string{"o2"}) {
		t.Fatalf("unexpected items %v", got)
	}

	st.ToggleDeadline(listing.BucketRolling)
	st.SetSearch("step")
	if got := viewIDs(st.View(testNow)); !sameStrings(got, []string{"o2"}) {
		t.Fatalf("unexpected items %v", got)
	}

	st.ClearFilters()
	v := st.View(testNow)
	if v.Search != "" || len(v.Selection.Locations) != 0 || len(v.Selection.Deadlines) != 0 {
		t.Fatalf("expected cleared filters, got %+v", v.Selection)
	}
	if !sameStrings(v.Selection.Categories, []string{"Scholarships", "Internships"}) {
		t.Fatalf("expected all categories after clear, got %v", v.Selection.Categories)
	}
}

func TestState_ToggleTypeDoesNotFilter(t *testing.T) {
	st := NewState()
	st.SetCategories(sampleCategories())
	st.SetOpportunities(sampleOpportunities(), models.PageMeta{Total: 4, TotalPages: 1, CurrentPage: 1, PerPage: 12})
	before := viewIDs(st.View(testNow))

	st.ToggleType("Internship")
	v := st.View(testNow)
	if !sameStrings(v.Selection.Types, []string{"Internship"}) {
		t.Fatalf("expected type to be recorded, got %v", v.Selection.Types)
	}
	if got := viewIDs(v); !sameStrings(got, before) {
		t.Fatalf("type selection changed results: %v, want %v", got, before)
	}

	st.ToggleType("Internship")
	if got := st.Selection().Types; len(got) != 0 {
		t.Fatalf("expected type to be toggled off, got %v", got)
	}
}

func TestState_ToggleCategory(t *testing.T) {
	st := NewState()
	st.SetCategories(sampleCategories())
	st.SetOpportunities(sampleOpportunities(), models.PageMeta{Total: 4, TotalPages: 1, CurrentPage: 1, PerPage: 12})

	st.ToggleCategory("Internships")
	if got := viewIDs(st.View(testNow)); !sameStrings(got, []string{"o1", "o3"}) {
		t.Fatalf("unexpected items %v", got)
	}
	st.ToggleCategory("Internships")
	if got := viewIDs(st.View(testNow)); !sameStrings(got, []string{"o1", "o2", "o3"}) {
		t.Fatalf("unexpected items %v", got)
	}
}

func TestState_SortAndFacets(t *testing.T) {
	st := NewState()
	st.SetCategories(sampleCategories())
	st.SetOpportunities(sampleOpportunities(), models.PageMeta{Total: 4, TotalPages: 1, CurrentPage: 1, PerPage: 12})
	st.SetSort(listing.SortDeadline)

	v := st.View(testNow)
	if got := viewIDs(v); !sameStrings(got, []string{"o1", "o3", "o2"}) {
		t.Fatalf("unexpected order %v", got)
	}
	if !sameStrings(v.Facets.Locations, []string{"Germany", "Remote", "United Kingdom"}) {
		t.Fatalf("unexpected locations %v", v.Facets.Locations)
	}
}

func TestState_ChangePage(t *testing.T) {
	st := NewState()
	st.SetOpportunities(nil, models.PageMeta{Total: 50, TotalPages: 5, CurrentPage: 1, PerPage: 10})

	if !st.ChangePage(3) || st.Page() != 3 {
		t.Fatalf("expected page 3, got %d", st.Page())
	}
	if st.ChangePage(6) || st.Page() != 3 {
		t.Fatalf("out of range request must not move the page, got %d", st.Page())
	}
	if st.ChangePage(0) || st.Page() != 3 {
		t.Fatalf("page 0 must be rejected, got %d", st.Page())
	}

	v := st.View(testNow)
	if !sameInts(v.Window.Pages, []int{1, 2, 3, 4, 5}) {
		t.Fatalf("unexpected window %v", v.Window.Pages)
	}
}

func TestState_Related(t *testing.T) {
	st := NewState()
	st.SetCategories(sampleCategories())
	st.SetOpportunities(sampleOpportunities(), models.PageMeta{Total: 4, TotalPages: 1, CurrentPage: 1, PerPage: 12})

	related := st.Related("o1")
	if len(related) != 1 || related[0].ID != "o3" {
		t.Fatalf("unexpected related items %+v", related)
	}
	if got := st.Related("missing"); len(got) != 0 {
		t.Fatalf("expected none, got %d", len(got))
	}
}

func sameInts(a, b []int) bool {
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
