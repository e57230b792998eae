package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/david/opportunity-finder/internal/models"
)

// CrawlSource is a site the backend crawler visits.
type CrawlSource struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	URL           string     `json:"url"`
	IsActive      bool       `json:"is_active"`
	LastCrawledAt *time.Time `json:"last_crawled_at"`
}

// CrawlRun is returned when a crawl is queued.
type CrawlRun struct {
	ID       string `json:"id"`
	SourceID string `json:"source_id"`
	Status   string `json:"status"`
}

type Settings map[string]any

func (c *Client) ApproveOpportunity(ctx context.Context, id string) (*models.Opportunity, error) {
	var env opportunityEnvelope
	body := map[string]bool{"is_approved": true}
	if err := c.do(ctx, http.MethodPatch, "/admin/opportunities/"+url.PathEscape(id), nil, body, &env); err != nil {
		return nil, fmt.Errorf("approve opportunity %s: %w", id, err)
	}
	return &env.Data, nil
}

func (c *Client) DeleteOpportunity(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/admin/opportunities/"+url.PathEscape(id), nil, nil, nil); err != nil {
		return fmt.Errorf("delete opportunity %s: %w", id, err)
	}
	return nil
}

func (c *Client) ListSources(ctx context.Context) ([]CrawlSource, error) {
	var list struct {
		Data []CrawlSource `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin/crawl-sources", nil, nil, &list); err != nil {
		return nil, fmt.Errorf("list crawl sources: %w", err)
	}
	if list.Data == nil {
		list.Data = []CrawlSource{}
	}
	return list.Data, nil
}

func (c *Client) TriggerCrawl(ctx context.Context, sourceID string) (*CrawlRun, error) {
	var env struct {
		Data CrawlRun `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/admin/crawl-sources/"+url.PathEscape(sourceID)+"/crawl", nil, nil, &env); err != nil {
		return nil, fmt.Errorf("trigger crawl %s: %w", sourceID, err)
	}
	return &env.Data, nil
}

// GenerateDraft asks the backend's AI pipeline to draft an opportunity from a page URL.
func (c *Client) GenerateDraft(ctx context.Context, pageURL string) (*models.Opportunity, error) {
	var env opportunityEnvelope
	body := map[string]string{"url": pageURL}
	if err := c.do(ctx, http.MethodPost, "/admin/ai/draft", nil, body, &env); err != nil {
		return nil, fmt.Errorf("generate draft: %w", err)
	}
	return &env.Data, nil
}

func (c *Client) GetSettings(ctx context.Context) (Settings, error) {
	var env struct {
		Data Settings `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin/settings", nil, nil, &env); err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	if env.Data == nil {
		env.Data = Settings{}
	}
	return env.Data, nil
}

func (c *Client) UpdateSettings(ctx context.Context, patch Settings) (Settings, error) {
	var env struct {
		Data Settings `json:"data"`
	}
	if err := c.do(ctx, http.MethodPatch, "/admin/settings", nil, patch, &env); err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}
	return env.Data, nil
}
