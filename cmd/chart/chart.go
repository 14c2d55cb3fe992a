package chart

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Nrich-sunny/moviecrawler/bootstrap"
	"github.com/Nrich-sunny/moviecrawler/chart"
	"github.com/Nrich-sunny/moviecrawler/collector"
	"go.uber.org/zap"
)

var ErrEmpty = errors.New("database has no data, run crawl first")

// Kinds 支持的图表
var Kinds = []string{"nationality", "genre", "director"}

// Run 按顺序生成 kinds 中的图表，保存的路径逐行写入 w
func Run(ctx context.Context, app *bootstrap.App, w io.Writer, kinds []string) error {
	store, err := app.OpenStore()
	if err != nil {
		return err
	}
	defer store.Close()

	exists, err := store.Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		return ErrEmpty
	}

	r, err := chart.New(
		chart.WithDir(app.Config.Chart.Dir),
		chart.WithFont(app.Config.Chart.Font),
		chart.WithSize(app.Config.Chart.Width, app.Config.Chart.Height),
		chart.WithLogger(app.Logger.Named("chart")),
	)
	if err != nil {
		return err
	}

	if len(kinds) == 0 || (len(kinds) == 1 && kinds[0] == "all") {
		kinds = Kinds
	}
	for _, kind := range kinds {
		path, err := render(ctx, r, store, kind)
		if errors.Is(err, chart.ErrNoData) {
			app.Logger.Warn("nothing to plot", zap.String("chart", kind))
			continue
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "chart saved:", path)
	}
	return nil
}

func render(ctx context.Context, r *chart.Renderer, stats collector.Stats, kind string) (string, error) {
	switch kind {
	case "nationality":
		return r.Nationality(ctx, stats)
	case "genre":
		return r.Genre(ctx, stats)
	case "director":
		return r.Director(ctx, stats)
	}
	return "", fmt.Errorf("unknown chart %q, want one of %v", kind, Kinds)
}
