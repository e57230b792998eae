package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/david/opportunity-finder/internal/auth"
	"github.com/david/opportunity-finder/internal/db"
)

func (s *Server) handleSaveOpportunity(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	oppID := strings.TrimSpace(c.Param("id"))
	if oppID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid opportunity ID"})
	}

	// Only opportunities the backend knows about can be saved.
	if _, err := s.Backend.WithToken(auth.TokenFromContext(c)).GetOpportunity(ctx, oppID); err != nil {
		return backendError(c, err, "Failed to verify opportunity")
	}

	if err := s.Saved.SaveOpportunity(ctx, userID, oppID); err != nil {
		c.Logger().Errorf("Failed to save opportunity: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save opportunity"})
	}

	return c.NoContent(http.StatusOK)
}

func (s *Server) handleUnsaveOpportunity(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	oppID := strings.TrimSpace(c.Param("id"))
	if oppID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid opportunity ID"})
	}

	if err := s.Saved.UnsaveOpportunity(ctx, userID, oppID); err != nil {
		c.Logger().Errorf("Failed to unsave opportunity: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to unsave opportunity"})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "unsaved"})
}

func (s *Server) handleGetSavedOpportunities(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	saved, err := s.Saved.ListSaved(ctx, userID, db.SavedParams{
		Limit:  queryInt(c, "limit", 100, 1, 500),
		Offset: queryInt(c, "offset", 0, 0, 1<<20),
	})
	if err != nil {
		c.Logger().Errorf("Failed to list saved opportunities: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch saved opportunities"})
	}

	if saved == nil {
		saved = []db.SavedOpportunity{}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"data": saved})
}
