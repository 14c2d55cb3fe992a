package chart

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/Nrich-sunny/moviecrawler/bootstrap"
	"github.com/Nrich-sunny/moviecrawler/chart"
	"github.com/Nrich-sunny/moviecrawler/collector"
	"github.com/Nrich-sunny/moviecrawler/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newApp(t *testing.T) *bootstrap.App {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Storage.SqlUrl = filepath.Join(dir, "movies.db")
	cfg.Chart.Dir = filepath.Join(dir, "charts")
	return &bootstrap.App{Config: cfg, Logger: zap.NewNop()}
}

func save(t *testing.T, app *bootstrap.App, movies ...collector.Movie) {
	t.Helper()
	store, err := app.OpenStore()
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Save(context.Background(), movies...))
}

func TestRunWritesSavedPaths(t *testing.T) {
	app := newApp(t)
	save(t, app,
		collector.Movie{Title: "千与千寻", Director: "宫崎骏 Hayao Miyazaki", Country: "日本", Genre: "剧情 动画 奇幻"},
		collector.Movie{Title: "龙猫", Director: "宫崎骏 Hayao Miyazaki", Country: "日本", Genre: "动画 奇幻 冒险"},
		collector.Movie{Title: "无间道", Director: "刘伟强 Andrew Lau", Country: "中国香港", Genre: "剧情 犯罪"},
	)

	var buf bytes.Buffer
	require.NoError(t, Run(context.Background(), app, &buf, nil))

	dir := app.Config.Chart.Dir
	assert.Equal(t,
		"chart saved: "+filepath.Join(dir, chart.NationalityFile)+"\n"+
			"chart saved: "+filepath.Join(dir, chart.GenreFile)+"\n"+
			"chart saved: "+filepath.Join(dir, chart.DirectorFile)+"\n",
		buf.String())
}

func TestRunSkipsEmptyChart(t *testing.T) {
	app := newApp(t)
	// 没有导演有多部作品
	save(t, app, collector.Movie{Title: "无间道", Director: "刘伟强 Andrew Lau", Country: "中国香港", Genre: "剧情 犯罪"})

	var buf bytes.Buffer
	require.NoError(t, Run(context.Background(), app, &buf, []string{"director", "genre"}))
	assert.Equal(t, "chart saved: "+filepath.Join(app.Config.Chart.Dir, chart.GenreFile)+"\n", buf.String())
}

func TestRunEmptyDatabase(t *testing.T) {
	app := newApp(t)
	var buf bytes.Buffer
	assert.ErrorIs(t, Run(context.Background(), app, &buf, []string{"all"}), ErrEmpty)
	assert.Empty(t, buf.String())
}

func TestRunUnknownKind(t *testing.T) {
	app := newApp(t)
	save(t, app, collector.Movie{Title: "无间道", Country: "中国香港", Genre: "剧情"})
	assert.Error(t, Run(context.Background(), app, &bytes.Buffer{}, []string{"rating"}))
}
