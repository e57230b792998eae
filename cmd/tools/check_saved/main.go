package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/david/opportunity-finder/internal/config"
	"github.com/david/opportunity-finder/internal/db"
)

func main() {
	limit := flag.Int("limit", 10, "number of users to show")
	flag.Parse()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	counts, err := db.NewStore(pool).CountsByUser(ctx, *limit)
	if err != nil {
		log.Fatal(err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"User", "Saved", "Last Saved"})

	total := 0
	for _, c := range counts {
		total += c.Count
		t.AppendRow(table.Row{c.UserID.String(), humanize.Comma(int64(c.Count)), humanize.Time(c.Latest)})
	}
	t.AppendFooter(table.Row{"Total", humanize.Comma(int64(total)), ""})
	t.Render()
}
