package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", "secret-token", 5*time.Second)
}

func TestListOpportunities(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/opportunities" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("page"); got != "2" {
			t.Errorf("expected page=2, got %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "12" {
			t.Errorf("expected limit=12, got %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret-token" {
			t.Errorf("unexpected authorization header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"data": [{"id": "o1", "title": "Chevening", "category_id": "c1", "deadline": "Rolling", "created_at": "2025-01-01T00:00:00Z"}],
			"meta": {"total": 13, "totalPages": 2, "currentPage": 2, "perPage": 12}
		}`))
	})

	page, err := client.ListOpportunities(context.Background(), ListParams{Page: 2, PerPage: 12})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Data) != 1 || page.Data[0].ID != "o1" || page.Data[0].Deadline != "Rolling" {
		t.Fatalf("unexpected data %+v", page.Data)
	}
	if page.Meta.Total != 13 || page.Meta.TotalPages != 2 || page.Meta.CurrentPage != 2 || page.Meta.PerPage != 12 {
		t.Fatalf("unexpected meta %+v", page.Meta)
	}
}

func TestListCategories_EmptyDataIsNotNil(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	cats, err := client.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cats == nil || len(cats) != 0 {
		t.Fatalf("expected empty slice, got %#v", cats)
	}
}

func TestGetOpportunity_NotFound(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := client.GetOpportunity(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAPIErrorMessage(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message": "admin only"}`))
	})

	_, err := client.ListSources(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusForbidden || apiErr.Message != "admin only" {
		t.Fatalf("unexpected error %+v", apiErr)
	}
}

func TestApproveOpportunity_SendsPatch(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/admin/opportunities/o9" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]bool
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || !body["is_approved"] {
			t.Errorf("unexpected body %v (%v)", body, err)
		}
		w.Write([]byte(`{"data": {"id": "o9", "is_approved": true}}`))
	})

	opp, err := client.ApproveOpportunity(context.Background(), "o9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !opp.IsApproved {
		t.Fatal("expected approved opportunity")
	}
}

func TestDeleteOpportunity_NoContent(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("unexpected method %s", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if err := client.DeleteOpportunity(context.Background(), "o1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWithTokenDoesNotMutateOriginal(t *testing.T) {
	base := NewClient("http://backend", "service", 0)
	user := base.WithToken("user")
	if base.Token != "service" || user.Token != "user" {
		t.Fatalf("unexpected tokens: base=%q user=%q", base.Token, user.Token)
	}
	if base.HTTPClient.Timeout != 15*time.Second {
		t.Fatalf("expected default timeout, got %s", base.HTTPClient.Timeout)
	}
}
