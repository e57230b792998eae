package api

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/microcosm-cc/bluemonday"

	"github.com/david/opportunity-finder/internal/auth"
	"github.com/david/opportunity-finder/internal/backend"
	"github.com/david/opportunity-finder/internal/catalog"
	"github.com/david/opportunity-finder/internal/config"
	"github.com/david/opportunity-finder/internal/db"
)

// SavedStore is the profile persistence used by the saved-opportunity routes.
type SavedStore interface {
	SaveOpportunity(ctx context.Context, userID uuid.UUID, oppID string) error
	UnsaveOpportunity(ctx context.Context, userID uuid.UUID, oppID string) error
	ListSaved(ctx context.Context, userID uuid.UUID, params db.SavedParams) ([]db.SavedOpportunity, error)
}

type Server struct {
	Backend *backend.Client
	Loader  *catalog.Loader
	Saved   SavedStore
	Echo    *echo.Echo
	Config  *config.Config

	// Now is the clock used for deadline buckets.
	Now func() time.Time
	// AuthMiddleware guards the profile routes.
	AuthMiddleware echo.MiddlewareFunc

	sanitizer *bluemonday.Policy

	// Background job tracking
	jobMu      sync.Mutex
	runningJob *backgroundJob
}

type backgroundJob struct {
	ID        string             `json:"id"`
	Status    string             `json:"status"` // running, completed, failed
	StartedAt time.Time          `json:"started_at"`
	EndedAt   time.Time          `json:"ended_at,omitempty"`
	Result    any                `json:"result,omitempty"`
	Error     string             `json:"error,omitempty"`
	Cancel    context.CancelFunc `json:"-"`
}

var (
	adminSecretOnce    sync.Once
	adminSecretRuntime string
	adminSecretErr     error
)

func NewServer(cfg *config.Config, client *backend.Client, saved SavedStore) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	allowedOrigins := cfg.Server.CORSOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "X-Admin-Secret"},
	}))

	s := &Server{
		Backend:        client,
		Loader:         catalog.NewLoader(client, cfg.Backend.CategoryTTL()),
		Saved:          saved,
		Echo:           e,
		Config:         cfg,
		Now:            time.Now,
		AuthMiddleware: auth.Middleware,
		sanitizer:      bluemonday.UGCPolicy(),
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.Echo.GET("/health", s.handleHealth)
	api := s.Echo.Group("/api/v1")
	api.GET("/opportunities", s.handleListOpportunities)
	api.GET("/opportunities/:id", s.handleGetOpportunity)
	api.GET("/categories", s.handleListCategories)

	// Protected Routes (Saved Opportunities)
	saved := api.Group("/saved")
	saved.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return s.AuthMiddleware(next)
	})
	saved.POST("/:id", s.handleSaveOpportunity)
	saved.DELETE("/:id", s.handleUnsaveOpportunity)
	saved.GET("", s.handleGetSavedOpportunities)

	// Admin Routes
	admin := api.Group("/admin")
	admin.Use(s.adminMiddleware)
	admin.POST("/opportunities/:id/approve", s.handleApproveOpportunity)
	admin.DELETE("/opportunities/:id", s.handleDeleteOpportunity)
	admin.GET("/sources", s.handleListSources)
	admin.POST("/sources/:id/crawl", s.handleTriggerCrawl)
	admin.POST("/sources/crawl-all", s.handleCrawlAll)
	admin.GET("/job/:id", s.handleJobStatus)
	admin.POST("/drafts", s.handleGenerateDraft)
	admin.GET("/settings", s.handleGetSettings)
	admin.PATCH("/settings", s.handleUpdateSettings)
}

func (s *Server) Start(port string) error {
	return s.Echo.Start(":" + port)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// backendError maps a backend client error onto the response for the caller.
func backendError(c echo.Context, err error, fallback string) error {
	if errors.Is(err, backend.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
	}
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
		return c.JSON(apiErr.Status, map[string]string{"error": apiErr.Message})
	}
	c.Logger().Errorf("%s: %v", fallback, err)
	return c.JSON(http.StatusBadGateway, map[string]string{"error": fallback})
}

// splitCSV splits comma-separated query values into trimmed non-empty strings.
func splitCSV(values ...string) []string {
	result := []string{}
	for _, s := range values {
		for _, part := range strings.Split(s, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				result = append(result, part)
			}
		}
	}
	return result
}

func queryInt(c echo.Context, name string, def, lo, hi int) int {
	if v, err := strconv.Atoi(c.QueryParam(name)); err == nil && v >= lo && v <= hi {
		return v
	}
	return def
}

func isPrivateOrSpecialIP(ip net.IP) bool {
	if ip == nil {
		return true
	}
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() || ip.IsMulticast() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
		return true
	}

	if ip4 := ip.To4(); ip4 != nil {
		if ip4[0] == 100 && ip4[1]&0xC0 == 64 {
			return true
		}
	}

	return false
}

func (s *Server) adminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		secret, err := adminSecret()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Server admin configuration error"})
		}

		// Check X-Admin-Secret header or Bearer token
		authHeader := c.Request().Header.Get("Authorization")
		adminHeader := c.Request().Header.Get("X-Admin-Secret")

		if adminHeader == secret {
			return next(c)
		}
		if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
			if authHeader[7:] == secret {
				return next(c)
			}
		}

		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized admin access"})
	}
}

func adminSecret() (string, error) {
	adminSecretOnce.Do(func() {
		secret := strings.TrimSpace(os.Getenv("ADMIN_SECRET"))
		if secret != "" {
			adminSecretRuntime = secret
			return
		}

		buf := make([]byte, 48)
		if _, err := rand.Read(buf); err != nil {
			adminSecretErr = fmt.Errorf("failed to generate ADMIN_SECRET fallback: %w", err)
			return
		}

		adminSecretRuntime = base64.RawURLEncoding.EncodeToString(buf)
		log.Print("ADMIN_SECRET is not set; using ephemeral in-memory fallback secret")
	})

	if adminSecretErr != nil {
		return "", adminSecretErr
	}
	if adminSecretRuntime == "" {
		return "", fmt.Errorf("admin secret unavailable")
	}

	return adminSecretRuntime, nil
}
