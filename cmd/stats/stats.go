package stats

import (
	"context"
	"fmt"
	"io"

	"github.com/Nrich-sunny/moviecrawler/bootstrap"
	"github.com/Nrich-sunny/moviecrawler/collector"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Source 统计数据来源
type Source interface {
	collector.Stats
	Count(ctx context.Context) (int, error)
	Movies(ctx context.Context) ([]collector.Movie, error)
}

func Run(ctx context.Context, app *bootstrap.App, w io.Writer, top int, listMovies bool) error {
	store, err := app.OpenStore()
	if err != nil {
		return err
	}
	defer store.Close()
	return Print(ctx, store, w, top, listMovies)
}

// Print 以表格形式输出三项统计，top > 0 时每项只输出前 top 行
func Print(ctx context.Context, src Source, w io.Writer, top int, listMovies bool) error {
	n, err := src.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "movies: %d\n", n)
	if n == 0 {
		return nil
	}

	if listMovies {
		movies, err := src.Movies(ctx)
		if err != nil {
			return err
		}
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.AppendHeader(table.Row{"#", "Title", "Year", "Country", "Genre", "Director", "Rating", "Votes"})
		for i, m := range movies {
			t.AppendRow(table.Row{i + 1, m.Title, m.Year, m.Country, m.Genre, m.Director, m.Rating, m.RatingCount})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	}

	for _, q := range []struct {
		title string
		query func(context.Context) ([]collector.Count, error)
	}{
		{"Nationality", src.NationalityCounts},
		{"Genre", src.GenreCounts},
		{"Director", src.DirectorCounts},
	} {
		counts, err := q.query(ctx)
		if err != nil {
			return err
		}
		render(w, q.title, counts, top)
	}
	return nil
}

func render(w io.Writer, title string, counts []collector.Count, top int) {
	if top > 0 && len(counts) > top {
		counts = counts[:top]
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(title)
	t.AppendHeader(table.Row{"#", title, "Count"})
	for i, c := range counts {
		t.AppendRow(table.Row{i + 1, c.Label, c.Count})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}
