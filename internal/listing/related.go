package listing

import "github.com/david/opportunity-finder/internal/models"

// RelatedLimit caps the related-items strip on the detail page.
const RelatedLimit = 3

// Related returns up to limit items sharing focal's category, excluding focal itself,
// in list order.
func Related(focal models.OpportunityWithCategory, items []models.OpportunityWithCategory, limit int) []models.OpportunityWithCategory {
	if limit <= 0 {
		return []models.OpportunityWithCategory{}
	}
	out := make([]models.OpportunityWithCategory, 0, limit)
	for _, item := range items {
		if len(out) == limit {
			break
		}
		if item.ID == focal.ID || item.CategoryID != focal.CategoryID {
			continue
		}
		out = append(out, item)
	}
	return out
}
