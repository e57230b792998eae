package api

import (
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"

	"github.com/david/opportunity-finder/internal/backend"
	"github.com/david/opportunity-finder/internal/catalog"
	"github.com/david/opportunity-finder/internal/listing"
	"github.com/david/opportunity-finder/internal/models"
)

func (s *Server) handleListOpportunities(c echo.Context) error {
	cfg := s.Config.Listing
	page := queryInt(c, "page", 1, 1, 1<<20)
	perPage := queryInt(c, "per_page", cfg.PerPage, 1, cfg.MaxPerPage)

	st := catalog.NewState()
	st.SetMaxVisiblePages(cfg.MaxVisiblePages)
	err := s.Loader.Refresh(c.Request().Context(), st, backend.ListParams{
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		return backendError(c, err, "Failed to load opportunities")
	}

	st.SetSearch(c.QueryParam("q"))
	st.SetSort(c.QueryParam("sort"))
	st.SetSelection(selectionFromQuery(c, st.Selection()))

	return c.JSON(http.StatusOK, st.View(s.Now()))
}

// selectionFromQuery overrides each filter group present in the query string.
// An absent categories parameter keeps the all-selected default.
func selectionFromQuery(c echo.Context, sel listing.FilterSelection) listing.FilterSelection {
	params := c.QueryParams()
	if v, ok := params["categories"]; ok {
		sel.Categories = splitCSV(v...)
	}
	if v, ok := params["types"]; ok {
		sel.Types = splitCSV(v...)
	}
	if v, ok := params["locations"]; ok {
		sel.Locations = splitCSV(v...)
	}
	if v, ok := params["deadlines"]; ok {
		sel.Deadlines = splitCSV(v...)
	}
	return sel
}

type opportunityDetail struct {
	Data    models.OpportunityWithCategory   `json:"data"`
	Related []models.OpportunityWithCategory `json:"related"`
}

func (s *Server) handleGetOpportunity(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	opp, err := s.Backend.GetOpportunity(ctx, id)
	if err != nil {
		return backendError(c, err, "Failed to load opportunity")
	}

	page, cats, err := s.Loader.Load(ctx, backend.ListParams{
		Page:       1,
		PerPage:    s.Config.Listing.PerPage,
		CategoryID: opp.CategoryID,
	})
	if err != nil {
		// The detail page still renders without its related strip.
		c.Logger().Errorf("Failed to load related opportunities for %s: %v", id, err)
		cats, _ = s.Loader.Categories(ctx)
	}

	st := catalog.NewState()
	st.SetCategories(cats)
	if page != nil {
		st.SetOpportunities(withFocal(page.Data, *opp), page.Meta)
	}
	related := st.Related(opp.ID)

	focal := listing.Normalize([]models.Opportunity{*opp}, cats)[0]
	focal.Description = s.sanitizer.Sanitize(focal.Description)

	return c.JSON(http.StatusOK, opportunityDetail{Data: focal, Related: related})
}

// withFocal makes sure the detail record is among the loaded peers.
func withFocal(peers []models.Opportunity, focal models.Opportunity) []models.Opportunity {
	for _, p := range peers {
		if p.ID == focal.ID {
			return peers
		}
	}
	return append(slices.Clone(peers), focal)
}

func (s *Server) handleListCategories(c echo.Context) error {
	cats, err := s.Loader.Categories(c.Request().Context())
	if err != nil {
		return backendError(c, err, "Failed to load categories")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": cats})
}
