package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/david/opportunity-finder/internal/backend"
	"github.com/david/opportunity-finder/internal/catalog"
	"github.com/david/opportunity-finder/internal/config"
	"github.com/david/opportunity-finder/internal/listing"
)

func main() {
	search := flag.String("q", "", "search text")
	categories := flag.String("categories", "", "comma-separated category names (default: all)")
	locations := flag.String("locations", "", "comma-separated locations")
	deadlines := flag.String("deadlines", "", "comma-separated deadline buckets")
	types := flag.String("types", "", "comma-separated types (recorded, not applied)")
	sortMode := flag.String("sort", listing.SortNewest, "newest, oldest, deadline or popular")
	page := flag.Int("page", 1, "page to fetch")
	flag.Parse()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatal(err)
	}

	client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Token, cfg.Backend.Timeout())
	loader := catalog.NewLoader(client, cfg.Backend.CategoryTTL())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Backend.Timeout())
	defer cancel()

	st := catalog.NewState()
	st.SetMaxVisiblePages(cfg.Listing.MaxVisiblePages)
	if err := loader.Refresh(ctx, st, backend.ListParams{Page: *page, PerPage: cfg.Listing.PerPage}); err != nil {
		log.Fatalf("Failed to load opportunities: %v", err)
	}

	if !st.ChangePage(*page) {
		log.Fatalf("Page %d is out of range (1-%d)", *page, st.View(time.Now()).Meta.TotalPages)
	}

	if *categories != "" {
		sel := st.Selection()
		sel.Categories = split(*categories)
		st.SetSelection(sel)
	}
	for _, l := range split(*locations) {
		st.ToggleLocation(l)
	}
	for _, d := range split(*deadlines) {
		st.ToggleDeadline(d)
	}
	for _, ty := range split(*types) {
		st.ToggleType(ty)
	}
	st.SetSearch(*search)
	st.SetSort(*sortMode)

	now := time.Now()
	view := st.View(now)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Title", "Category", "Location", "Deadline", "Added", "Excerpt"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMax: 40},
		{Number: 6, WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
	})

	for _, item := range view.Items {
		t.AppendRow(table.Row{
			item.Title,
			item.CategoryName(),
			item.Location,
			deadlineLabel(item.Deadline, now),
			humanize.Time(item.CreatedAt),
			item.Excerpt,
		})
	}

	t.AppendFooter(table.Row{
		fmt.Sprintf("Showing %d-%d of %s", view.RangeStart, view.RangeEnd, humanize.Comma(int64(view.Meta.Total))),
		"", "", "",
		"Pages",
		pageButtons(view),
	})
	t.Render()
}

func deadlineLabel(deadline string, now time.Time) string {
	if listing.IsOpenEnded(deadline) {
		return deadline
	}
	days, ok := listing.DaysUntil(deadline, now)
	if !ok {
		return deadline
	}
	switch {
	case days < 0:
		return deadline + " (closed)"
	case days == 0:
		return deadline + " (today)"
	default:
		return fmt.Sprintf("%s (%d days)", deadline, days)
	}
}

func pageButtons(view catalog.View) string {
	var b strings.Builder
	if view.Window.PrevDisabled {
		b.WriteString("  ")
	} else {
		b.WriteString("< ")
	}
	for _, p := range view.Window.Pages {
		if p == view.Meta.CurrentPage {
			fmt.Fprintf(&b, "[%d] ", p)
		} else {
			fmt.Fprintf(&b, "%d ", p)
		}
	}
	if !view.Window.NextDisabled {
		b.WriteString(">")
	}
	return b.String()
}

func split(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
