package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/david/opportunity-finder/internal/backend"
)

func (s *Server) handleApproveOpportunity(c echo.Context) error {
	opp, err := s.Backend.ApproveOpportunity(c.Request().Context(), c.Param("id"))
	if err != nil {
		return backendError(c, err, "Failed to approve opportunity")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": opp})
}

func (s *Server) handleDeleteOpportunity(c echo.Context) error {
	if err := s.Backend.DeleteOpportunity(c.Request().Context(), c.Param("id")); err != nil {
		return backendError(c, err, "Failed to delete opportunity")
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleListSources(c echo.Context) error {
	sources, err := s.Backend.ListSources(c.Request().Context())
	if err != nil {
		return backendError(c, err, "Failed to list sources")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": sources})
}

func (s *Server) handleTriggerCrawl(c echo.Context) error {
	run, err := s.Backend.TriggerCrawl(c.Request().Context(), c.Param("id"))
	if err != nil {
		return backendError(c, err, "Failed to trigger crawl")
	}
	return c.JSON(http.StatusAccepted, map[string]interface{}{"data": run})
}

// handleCrawlAll queues a crawl for every active source in a background job.
func (s *Server) handleCrawlAll(c echo.Context) error {
	s.jobMu.Lock()
	if s.runningJob != nil && s.runningJob.Status == "running" {
		job := s.runningJob
		s.jobMu.Unlock()
		return c.JSON(http.StatusConflict, map[string]interface{}{
			"error":  "A crawl job is already running",
			"job_id": job.ID,
		})
	}

	jobCtx, jobCancel := context.WithTimeout(
		context.WithoutCancel(c.Request().Context()), 10*time.Minute,
	)

	jobID := uuid.New().String()[:8]
	job := &backgroundJob{
		ID:        jobID,
		Status:    "running",
		StartedAt: time.Now(),
		Cancel:    jobCancel,
	}
	s.runningJob = job
	s.jobMu.Unlock()

	go func() {
		defer jobCancel()
		result, err := s.crawlActiveSources(jobCtx)

		s.jobMu.Lock()
		defer s.jobMu.Unlock()
		job.EndedAt = time.Now()
		if err != nil {
			job.Status = "failed"
			job.Error = err.Error()
			log.Printf("[crawl-job %s] failed: %v", jobID, err)
			return
		}
		job.Status = "completed"
		job.Result = result
		log.Printf("[crawl-job %s] completed: queued=%d", jobID, result["queued"])
	}()

	return c.JSON(http.StatusAccepted, map[string]interface{}{
		"message": "Crawl job started",
		"job_id":  jobID,
		"poll":    fmt.Sprintf("/api/v1/admin/job/%s", jobID),
	})
}

func (s *Server) crawlActiveSources(ctx context.Context) (map[string]interface{}, error) {
	sources, err := s.Backend.ListSources(ctx)
	if err != nil {
		return nil, err
	}

	queued := 0
	failures := map[string]string{}
	for _, src := range sources {
		if !src.IsActive {
			continue
		}
		if _, err := s.Backend.TriggerCrawl(ctx, src.ID); err != nil {
			failures[src.ID] = err.Error()
			continue
		}
		queued++
	}
	return map[string]interface{}{
		"sources":  len(sources),
		"queued":   queued,
		"failures": failures,
	}, nil
}

func (s *Server) handleJobStatus(c echo.Context) error {
	queried := c.Param("id")
	s.jobMu.Lock()
	defer s.jobMu.Unlock()

	job := s.runningJob
	if job == nil || job.ID != queried {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "job not found"})
	}

	resp := map[string]interface{}{
		"id":         job.ID,
		"status":     job.Status,
		"started_at": job.StartedAt,
	}
	if !job.EndedAt.IsZero() {
		resp["ended_at"] = job.EndedAt
		resp["duration"] = job.EndedAt.Sub(job.StartedAt).String()
	}
	if job.Result != nil {
		resp["result"] = job.Result
	}
	if job.Error != "" {
		resp["error"] = job.Error
	}

	return c.JSON(http.StatusOK, resp)
}

type draftRequest struct {
	URL string `json:"url"`
}

func (s *Server) handleGenerateDraft(c echo.Context) error {
	var req draftRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	if status, msg := validatePublicURL(req.URL); status != 0 {
		return c.JSON(status, map[string]string{"error": msg})
	}

	draft, err := s.Backend.GenerateDraft(c.Request().Context(), req.URL)
	if err != nil {
		return backendError(c, err, "Failed to generate draft")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": draft})
}

// validatePublicURL rejects URLs the backend crawler must not be pointed at.
// It returns a zero status when the URL is acceptable.
func validatePublicURL(raw string) (int, string) {
	if strings.TrimSpace(raw) == "" {
		return http.StatusBadRequest, "url is required"
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return http.StatusBadRequest, "Invalid URL scheme"
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return http.StatusBadRequest, "URL host is required"
	}
	if host == "localhost" || strings.HasSuffix(host, ".local") {
		return http.StatusForbidden, "Internal network access forbidden"
	}

	ips, err := net.LookupIP(host)
	if err != nil {
		return http.StatusBadRequest, "Unable to resolve URL host"
	}
	if len(ips) == 0 {
		return http.StatusBadRequest, "URL host resolved to no addresses"
	}
	for _, ip := range ips {
		if isPrivateOrSpecialIP(ip) {
			return http.StatusForbidden, "Internal network access forbidden"
		}
	}
	return 0, ""
}

func (s *Server) handleGetSettings(c echo.Context) error {
	settings, err := s.Backend.GetSettings(c.Request().Context())
	if err != nil {
		return backendError(c, err, "Failed to load settings")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": settings})
}

func (s *Server) handleUpdateSettings(c echo.Context) error {
	var patch backend.Settings
	if err := json.NewDecoder(c.Request().Body).Decode(&patch); err != nil || len(patch) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	settings, err := s.Backend.UpdateSettings(c.Request().Context(), patch)
	if err != nil {
		return backendError(c, err, "Failed to update settings")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": settings})
}
