package listing

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/david/opportunity-finder/internal/models"
)

// Display defaults for fields the backend does not provide yet.
const (
	DefaultType   = "Opportunity"
	DefaultAmount = "N/A"

	excerptLen = 160
)

// Normalize joins each opportunity with its category and fills display defaults.
// Output has the same order and length as opps. An unknown category_id resolves to a
// nil Category.
func Normalize(opps []models.Opportunity, cats []models.Category) []models.OpportunityWithCategory {
	byID := make(map[string]*models.Category, len(cats))
	for i := range cats {
		byID[cats[i].ID] = &cats[i]
	}

	out := make([]models.OpportunityWithCategory, 0, len(opps))
	for _, o := range opps {
		out = append(out, models.OpportunityWithCategory{
			Opportunity: o,
			Category:    byID[o.CategoryID],
			Excerpt:     TruncateText(HTMLToText(o.Description), excerptLen),
			Type:        DefaultType,
			Amount:      DefaultAmount,
			Tags:        []string{},
			Featured:    false,
		})
	}
	return out
}

// TruncateText cuts a string to max runes, appending ellipsis if truncated.
func TruncateText(text string, maxLen int) string {
	r := []rune(text)
	if len(r) <= maxLen {
		return text
	}
	if maxLen > 3 {
		return string(r[:maxLen-3]) + "..."
	}
	return string(r[:maxLen])
}

// HTMLToText converts HTML to plain text, collapsing whitespace.
func HTMLToText(html string) string {
	if !strings.ContainsAny(html, "<&") {
		return strings.Join(strings.Fields(html), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
