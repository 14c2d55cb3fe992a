package doubanmovie

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/Nrich-sunny/moviecrawler/collect"
	"github.com/Nrich-sunny/moviecrawler/collector"
	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

const (
	TaskName = "douban_movie_top250"
	TaskUrl  = "https://movie.douban.com/top250"
)

// Selectors 页面结构相关的 XPath，除 Block 外都相对于条目块
type Selectors struct {
	Block       string
	Title       string
	AltTitle    string
	Link        string
	Text        string // 第一段是导演/主演，第二段是年份/国家/类型
	Rating      string
	RatingCount string
}

var DefaultSelectors = Selectors{
	Block:       `//div[@class="info"]`,
	Title:       `./div[@class="hd"]/a/span[@class="title"]/text()`,
	AltTitle:    `./div[@class="hd"]/a/span[2]/text()`,
	Link:        `./div[@class="hd"]/a/@href`,
	Text:        `./div[@class="bd"]/p/text()`,
	Rating:      `./div[@class="bd"]/div/span[2]/text()`,
	RatingCount: `./div[@class="bd"]/div/span[4]/text()`,
}

type compiled struct {
	block, title, altTitle, link, text, rating, ratingCount *xpath.Expr
}

// Extractor 解析 Top250 列表页
type Extractor struct {
	exprs  compiled
	logger *zap.Logger
}

func NewExtractor(sel Selectors, logger *zap.Logger) (*Extractor, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var c compiled
	for _, s := range []struct {
		dst  **xpath.Expr
		expr string
	}{
		{&c.block, sel.Block},
		{&c.title, sel.Title},
		{&c.altTitle, sel.AltTitle},
		{&c.link, sel.Link},
		{&c.text, sel.Text},
		{&c.rating, sel.Rating},
		{&c.ratingCount, sel.RatingCount},
	} {
		e, err := xpath.Compile(s.expr)
		if err != nil {
			return nil, fmt.Errorf("compile %q: %w", s.expr, err)
		}
		*s.dst = e
	}
	return &Extractor{exprs: c, logger: logger}, nil
}

// Parse 实现 collect.Parser
func (e *Extractor) Parse(ctx *collect.Context) (collect.ParseResult, error) {
	result, err := e.Extract(ctx.Body)
	if err != nil {
		return result, err
	}
	if ctx.Req != nil {
		e.logger.Debug("parse movie list",
			zap.Int("page", ctx.Req.Page),
			zap.Int("blocks", result.Blocks),
			zap.Int("items", len(result.Items)))
	}
	return result, nil
}

// Extract 解析一页内容。某个条目块解析失败只跳过该条目
func (e *Extractor) Extract(body []byte) (collect.ParseResult, error) {
	doc, err := htmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return collect.ParseResult{}, fmt.Errorf("parse html: %w", err)
	}

	blocks := htmlquery.QuerySelectorAll(doc, e.exprs.block)
	result := collect.ParseResult{Blocks: len(blocks)}
	for i, block := range blocks {
		m, err := e.extractBlock(block)
		if err != nil {
			result.Skipped++
			e.logger.Error("parse movie failed", zap.Int("block", i), zap.Error(err))
			continue
		}
		result.Items = append(result.Items, m)
	}
	return result, nil
}

func (e *Extractor) extractBlock(n *html.Node) (collector.Movie, error) {
	var m collector.Movie

	titles := texts(n, e.exprs.title)
	title, err := SplitTitle(strings.Join(titles, ""))
	if err != nil {
		return m, err
	}
	m.Title = title

	alt, err := first(n, e.exprs.altTitle, "alt title")
	if err != nil {
		return m, err
	}
	m.AltTitle = CleanAltTitle(alt)

	if m.URL, err = first(n, e.exprs.link, "link"); err != nil {
		return m, err
	}

	lines := texts(n, e.exprs.text)
	if len(lines) < 2 {
		return m, fmt.Errorf("%w: info lines (got %d)", ErrMissingNode, len(lines))
	}
	if m.Director, m.Cast, err = SplitCrew(lines[0]); err != nil {
		return m, err
	}
	meta, err := SplitMeta(lines[1])
	if err != nil {
		return m, err
	}
	m.Year, m.Country, m.Genre = meta.Year, meta.Country, meta.Genre

	rating, err := first(n, e.exprs.rating, "rating")
	if err != nil {
		return m, err
	}
	if m.Rating, err = ParseRating(rating); err != nil {
		return m, err
	}

	count, err := first(n, e.exprs.ratingCount, "rating count")
	if err != nil {
		return m, err
	}
	if m.RatingCount, err = ParseRatingCount(count); err != nil {
		return m, err
	}
	return m, nil
}

func texts(n *html.Node, expr *xpath.Expr) []string {
	nodes := htmlquery.QuerySelectorAll(n, expr)
	out := make([]string, 0, len(nodes))
	for _, node := range nodes {
		out = append(out, htmlquery.InnerText(node))
	}
	return out
}

func first(n *html.Node, expr *xpath.Expr, field string) (string, error) {
	node := htmlquery.QuerySelector(n, expr)
	if node == nil {
		return "", fmt.Errorf("%w: %s", ErrMissingNode, field)
	}
	return htmlquery.InnerText(node), nil
}

// NewTask 创建豆瓣电影 Top250 的爬取任务，解析日志写入任务的 Logger
func NewTask(opts ...collect.Option) (*collect.Task, error) {
	defaults := []collect.Option{
		collect.WithName(TaskName),
		collect.WithUrl(TaskUrl),
	}
	t := collect.NewTask(append(defaults, opts...)...)
	extractor, err := NewExtractor(DefaultSelectors, t.Logger.With(zap.String("task", t.Name)))
	if err != nil {
		return nil, err
	}
	t.Rule = extractor
	return t, nil
}
