package catalog

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/david/opportunity-finder/internal/backend"
	"github.com/david/opportunity-finder/internal/models"
)

// categoryFetchTimeout bounds a shared category refresh, which outlives the caller
// that started it.
const categoryFetchTimeout = 30 * time.Second

// Source is the subset of the backend client the loader needs.
type Source interface {
	ListOpportunities(ctx context.Context, params backend.ListParams) (*backend.OpportunityPage, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}

// Loader fetches an opportunities page and the category list concurrently.
// Categories are cached for ttl and concurrent refreshes share one request.
type Loader struct {
	src   Source
	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group

	mu        sync.Mutex
	cats      []models.Category
	fetchedAt time.Time
}

func NewLoader(src Source, ttl time.Duration) *Loader {
	return &Loader{src: src, ttl: ttl, now: time.Now}
}

// Categories returns the cached category list, refreshing it when stale.
func (l *Loader) Categories(ctx context.Context) ([]models.Category, error) {
	l.mu.Lock()
	if l.cats != nil && l.ttl > 0 && l.now().Sub(l.fetchedAt) < l.ttl {
		cats := slices.Clone(l.cats)
		l.mu.Unlock()
		return cats, nil
	}
	l.mu.Unlock()

	ch := l.group.DoChan("categories", func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), categoryFetchTimeout)
		defer cancel()

		cats, err := l.src.ListCategories(fetchCtx)
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.cats = cats
		l.fetchedAt = l.now()
		l.mu.Unlock()
		return cats, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return slices.Clone(res.Val.([]models.Category)), nil
	}
}

// Invalidate drops the cached categories.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cats = nil
}

// Load fetches both lists. Either failure cancels the other request.
func (l *Loader) Load(ctx context.Context, params backend.ListParams) (*backend.OpportunityPage, []models.Category, error) {
	g, gctx := errgroup.WithContext(ctx)

	var page *backend.OpportunityPage
	var cats []models.Category
	g.Go(func() error {
		var err error
		page, err = l.src.ListOpportunities(gctx, params)
		return err
	})
	g.Go(func() error {
		var err error
		cats, err = l.Categories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("load catalog: %w", err)
	}
	return page, cats, nil
}

// Refresh loads the requested page into st, toggling its loading flag around the fetch.
func (l *Loader) Refresh(ctx context.Context, st *State, params backend.ListParams) error {
	st.SetLoading(true)
	defer st.SetLoading(false)

	page, cats, err := l.Load(ctx, params)
	if err != nil {
		return err
	}
	st.SetCategories(cats)
	st.SetOpportunities(page.Data, page.Meta)
	return nil
}
