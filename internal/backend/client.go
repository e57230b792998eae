package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/david/opportunity-finder/internal/models"
)

var ErrNotFound = errors.New("not found")

// APIError is returned for any non-2xx response from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// Client talks to the opportunity backend's REST API.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Token:      token,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// WithToken returns a copy of the client that authenticates as the caller.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.Token = token
	return &cp
}

type ListParams struct {
	Page       int
	PerPage    int
	Search     string
	CategoryID string
	Approved   *bool
}

type OpportunityPage struct {
	Data []models.Opportunity `json:"data"`
	Meta models.PageMeta      `json:"meta"`
}

type categoryList struct {
	Data []models.Category `json:"data"`
}

type opportunityEnvelope struct {
	Data models.Opportunity `json:"data"`
}

func (c *Client) ListOpportunities(ctx context.Context, params ListParams) (*OpportunityPage, error) {
	q := url.Values{}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.PerPage > 0 {
		q.Set("limit", strconv.Itoa(params.PerPage))
	}
	if params.Search != "" {
		q.Set("search", params.Search)
	}
	if params.CategoryID != "" {
		q.Set("category_id", params.CategoryID)
	}
	if params.Approved != nil {
		q.Set("is_approved", strconv.FormatBool(*params.Approved))
	}

	var page OpportunityPage
	if err := c.do(ctx, http.MethodGet, "/opportunities", q, nil, &page); err != nil {
		return nil, fmt.Errorf("list opportunities: %w", err)
	}
	if page.Data == nil {
		page.Data = []models.Opportunity{}
	}
	return &page, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var list categoryList
	if err := c.do(ctx, http.MethodGet, "/categories", nil, nil, &list); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if list.Data == nil {
		list.Data = []models.Category{}
	}
	return list.Data, nil
}

func (c *Client) GetOpportunity(ctx context.Context, id string) (*models.Opportunity, error) {
	var env opportunityEnvelope
	if err := c.do(ctx, http.MethodGet, "/opportunities/"+url.PathEscape(id), nil, nil, &env); err != nil {
		return nil, fmt.Errorf("get opportunity %s: %w", id, err)
	}
	return &env.Data, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(resp.Body)}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func errorMessage(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, 64*1024))
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return strings.TrimSpace(string(raw))
}
