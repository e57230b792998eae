// Package catalog holds the listing page state and loads it from the backend.
package catalog

import (
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/david/opportunity-finder/internal/listing"
	"github.com/david/opportunity-finder/internal/models"
)

// State is the listing page's state container. It is safe for concurrent use.
// Until the backend lists arrive, the engine sees empty collections.
type State struct {
	mu sync.RWMutex

	opportunities []models.Opportunity
	categories    []models.Category
	meta          models.PageMeta

	search    string
	sortMode  string
	selection listing.FilterSelection
	page      int
	loading   bool

	categoriesInitialized bool
	maxVisible            int
}

// View is everything the listing page renders for the current state.
type View struct {
	Items      []models.OpportunityWithCategory `json:"data"`
	Meta       models.PageMeta                  `json:"meta"`
	Window     listing.PageWindow               `json:"window"`
	RangeStart int                              `json:"rangeStart"`
	RangeEnd   int                              `json:"rangeEnd"`
	Search     string                           `json:"search"`
	Sort       string                           `json:"sort"`
	Selection  listing.FilterSelection          `json:"selection"`
	Facets     Facets                           `json:"facets"`
}

// Facets are the options offered in the sidebar.
type Facets struct {
	Categories []string `json:"categories"`
	Locations  []string `json:"locations"`
	Deadlines  []string `json:"deadlines"`
}

func NewState() *State {
	return &State{
		sortMode:   listing.SortNewest,
		page:       1,
		maxVisible: listing.MaxVisiblePages,
		selection:  emptySelection(),
	}
}

func emptySelection() listing.FilterSelection {
	return listing.FilterSelection{
		Categories: []string{},
		Types:      []string{},
		Locations:  []string{},
		Deadlines:  []string{},
	}
}

// SetCategories stores the category list. The first non-empty load selects every
// category name; "all selected" is the unfiltered state for categories.
func (s *State) SetCategories(cats []models.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = slices.Clone(cats)
	if !s.categoriesInitialized && len(cats) > 0 {
		s.selection.Categories = categoryNames(cats)
		s.categoriesInitialized = true
	}
}

func (s *State) SetOpportunities(opps []models.Opportunity, meta models.PageMeta) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opportunities = slices.Clone(opps)
	s.meta = meta
	if meta.CurrentPage > 0 {
		s.page = meta.CurrentPage
	}
}

func (s *State) SetSearch(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search = q
}

func (s *State) SetSort(mode string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sortMode = mode
}

// SetMaxVisiblePages changes how many page buttons the window shows.
func (s *State) SetMaxVisiblePages(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n > 0 {
		s.maxVisible = n
	}
}

func (s *State) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

// SetSelection replaces the whole filter selection.
func (s *State) SetSelection(sel listing.FilterSelection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = cloneSelection(sel)
}

func (s *State) ToggleCategory(name string) {
	s.toggle(&s.selection.Categories, name)
}

// ToggleType records a type selection. Types are not evaluated by the engine.
func (s *State) ToggleType(name string) {
	s.toggle(&s.selection.Types, name)
}

func (s *State) ToggleLocation(name string) {
	s.toggle(&s.selection.Locations, name)
}

func (s *State) ToggleDeadline(name string) {
	s.toggle(&s.selection.Deadlines, name)
}

func (s *State) toggle(list *[]string, v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := slices.Index(*list, v); i >= 0 {
		*list = slices.Delete(slices.Clone(*list), i, i+1)
		return
	}
	*list = append(slices.Clone(*list), v)
}

// ClearFilters resets the search and selection: every category selected, nothing else.
func (s *State) ClearFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search = ""
	s.selection = emptySelection()
	s.selection.Categories = categoryNames(s.categories)
}

// ChangePage moves to page p when it lies within the server-reported page count.
func (s *State) ChangePage(p int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	page, ok := listing.ChangePage(s.page, p, s.meta.TotalPages)
	s.page = page
	return ok
}

func (s *State) Page() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.page
}

func (s *State) Selection() listing.FilterSelection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSelection(s.selection)
}

// View runs the engine over the current state.
func (s *State) View(now time.Time) View {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := listing.Normalize(s.opportunities, s.categories)
	items = listing.Apply(items, listing.Query{
		Search:    s.search,
		Selection: s.selection,
		Sort:      s.sortMode,
	}, now)

	start, end := listing.DisplayRange(s.meta)
	return View{
		Items:      items,
		Meta:       s.meta,
		Window:     listing.Window(s.page, s.meta.TotalPages, s.maxVisible, s.loading),
		RangeStart: start,
		RangeEnd:   end,
		Search:     s.search,
		Sort:       s.sortMode,
		Selection:  cloneSelection(s.selection),
		Facets: Facets{
			Categories: categoryNames(s.categories),
			Locations:  locations(s.opportunities),
			Deadlines:  slices.Clone(listing.DeadlineBuckets),
		},
	}
}

// Related returns the peers of the loaded opportunity with the given id.
func (s *State) Related(id string) []models.OpportunityWithCategory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := listing.Normalize(s.opportunities, s.categories)
	for _, it := range items {
		if it.ID == id {
			return listing.Related(it, items, listing.RelatedLimit)
		}
	}
	return []models.OpportunityWithCategory{}
}

func categoryNames(cats []models.Category) []string {
	names := make([]string, 0, len(cats))
	for _, c := range cats {
		names = append(names, c.Name)
	}
	return names
}

func locations(opps []models.Opportunity) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, o := range opps {
		if o.Location == "" || seen[o.Location] {
			continue
		}
		seen[o.Location] = true
		out = append(out, o.Location)
	}
	sort.Strings(out)
	return out
}

func cloneSelection(sel listing.FilterSelection) listing.FilterSelection {
	clone := func(v []string) []string {
		if v == nil {
			return []string{}
		}
		return slices.Clone(v)
	}
	return listing.FilterSelection{
		Categories: clone(sel.Categories),
		Types:      clone(sel.Types),
		Locations:  clone(sel.Locations),
		Deadlines:  clone(sel.Deadlines),
	}
}
