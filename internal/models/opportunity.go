package models

import (
	"time"
)

// Deadline sentinels used by the backend instead of a date.
const (
	DeadlineRolling = "Rolling"
	DeadlineOngoing = "Ongoing"
)

type Category struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	ThumbnailURL *string   `json:"thumbnail_url"`
	CreatedAt    time.Time `json:"created_at"`
}

// Opportunity is the raw record as returned by the backend.
type Opportunity struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	ApplicationURL string    `json:"application_url"`
	CategoryID     string    `json:"category_id"`
	Deadline       string    `json:"deadline"` // ISO date, or "Rolling"/"Ongoing"
	Location       string    `json:"location"`
	SourceType     string    `json:"source_type"`
	SourceURL      string    `json:"source_url"`
	IsApproved     bool      `json:"is_approved"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	CreatedByID    *string   `json:"created_by_id"`
}

// OpportunityWithCategory is the display projection built by listing.Normalize.
// It is never persisted.
type OpportunityWithCategory struct {
	Opportunity
	Category *Category `json:"category"`
	Excerpt  string    `json:"excerpt"`
	Type     string    `json:"type"`
	Amount   string    `json:"amount"`
	Tags     []string  `json:"tags"`
	Featured bool      `json:"featured"`
}

// CategoryName returns the resolved category name or "Unknown".
func (o OpportunityWithCategory) CategoryName() string {
	if o.Category == nil {
		return "Unknown"
	}
	return o.Category.Name
}

// PageMeta is the server-reported pagination for one page of opportunities.
type PageMeta struct {
	Total       int `json:"total"`
	TotalPages  int `json:"totalPages"`
	CurrentPage int `json:"currentPage"`
	PerPage     int `json:"perPage"`
}
