// Package chart 把统计结果画成 PNG 图片
package chart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Nrich-sunny/moviecrawler/collector"
	"github.com/golang/freetype/truetype"
	gochart "github.com/wcharczuk/go-chart/v2"
	"go.uber.org/zap"
)

const (
	NationalityFile = "nationality_distribution.png"
	GenreFile       = "genre_distribution.png"
	DirectorFile    = "director_distribution.png"
)

var ErrNoData = errors.New("no data to plot")

type Renderer struct {
	options
}

func New(opts ...Option) (*Renderer, error) {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	if err := os.MkdirAll(options.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create chart dir: %w", err)
	}
	r := &Renderer{options: options}
	if options.fontPath != "" {
		b, err := os.ReadFile(options.fontPath)
		if err != nil {
			return nil, fmt.Errorf("read font: %w", err)
		}
		if r.font, err = truetype.Parse(b); err != nil {
			return nil, fmt.Errorf("parse font %s: %w", options.fontPath, err)
		}
	} else {
		r.logger.Warn("no CJK font configured, chinese labels may not render")
	}
	return r, nil
}

// Nationality 各国家/地区电影数量的柱状图
func (r *Renderer) Nationality(ctx context.Context, stats collector.Stats) (string, error) {
	data, err := stats.NationalityCounts(ctx)
	if err != nil {
		return "", err
	}
	return r.Bar(NationalityFile, "不同国家/地区电影数量分布", data)
}

// Genre 主类型占比的饼图
func (r *Renderer) Genre(ctx context.Context, stats collector.Stats) (string, error) {
	data, err := stats.GenreCounts(ctx)
	if err != nil {
		return "", err
	}
	return r.Pie(GenreFile, "电影类型分布", data)
}

// Director 只画有多部作品的导演
func (r *Renderer) Director(ctx context.Context, stats collector.Stats) (string, error) {
	data, err := stats.DirectorCounts(ctx)
	if err != nil {
		return "", err
	}
	var multi []collector.Count
	for _, c := range data {
		if c.Count > 1 {
			multi = append(multi, c)
		}
	}
	return r.Bar(DirectorFile, "导演作品数量分布（仅显示多部作品导演）", multi)
}

func (r *Renderer) Bar(file, title string, data []collector.Count) (string, error) {
	if len(data) == 0 {
		return "", ErrNoData
	}
	const barWidth, barSpacing = 30, 12

	maxCount := 0
	bars := make([]gochart.Value, 0, len(data))
	for _, c := range data {
		bars = append(bars, gochart.Value{Label: c.Label, Value: float64(c.Count)})
		if c.Count > maxCount {
			maxCount = c.Count
		}
	}
	width := len(data)*(barWidth+barSpacing) + 200
	if width < r.width {
		width = r.width
	}

	graph := gochart.BarChart{
		Title:      title,
		Font:       r.font,
		Width:      width,
		Height:     r.height,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 60, Bottom: 20, Left: 20, Right: 20},
		},
		XAxis: gochart.Style{
			TextRotationDegrees: 45,
		},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: float64(maxCount) + 1},
		},
		Bars: bars,
	}
	return r.save(file, graph.Render)
}

func (r *Renderer) Pie(file, title string, data []collector.Count) (string, error) {
	values := make([]gochart.Value, 0, len(data))
	total := 0
	for _, c := range data {
		if c.Count <= 0 {
			continue
		}
		values = append(values, gochart.Value{Label: c.Label, Value: float64(c.Count)})
		total += c.Count
	}
	if len(values) == 0 {
		return "", ErrNoData
	}
	for i := range values {
		values[i].Label = fmt.Sprintf("%s %.1f%%", values[i].Label, values[i].Value*100/float64(total))
	}

	graph := gochart.PieChart{
		Title:  title,
		Font:   r.font,
		Width:  r.height,
		Height: r.height,
		Values: values,
	}
	return r.save(file, graph.Render)
}

func (r *Renderer) save(file string, render func(gochart.RendererProvider, io.Writer) error) (string, error) {
	path := filepath.Join(r.dir, file)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := render(gochart.PNG, f); err != nil {
		f.Close()
		return "", fmt.Errorf("render %s: %w", file, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	r.logger.Info("chart saved", zap.String("path", path))
	return path, nil
}
