package engine

import (
	"context"
	"errors"

	"github.com/Nrich-sunny/moviecrawler/collect"
	"github.com/Nrich-sunny/moviecrawler/collector"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
)

var (
	ErrNoFetcher = errors.New("task has no fetcher")
	ErrNoRule    = errors.New("task has no parse rule")
)

// Crawler 顺序地抓取一个任务的所有页面：一页抓取并解析完成后才开始下一页
type Crawler struct {
	node *snowflake.Node
	options
}

// PageResult 一页的抓取结果，Err 不为空时表示重试次数已用完
type PageResult struct {
	Req      *collect.Request
	Page     int
	Body     []byte
	Attempts int
	Err      error
}

// RunReport 一次爬取的汇总
type RunReport struct {
	CrawlID     int64
	PagesOK     int
	PagesFailed int
	FailedPages []int
	Blocks      int
	Skipped     int
}

func NewEngine(opts ...Option) (*Crawler, error) {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	if options.Scheduler == nil {
		options.Scheduler = NewSchedule()
	}
	node, err := snowflake.NewNode(options.NodeID)
	if err != nil {
		return nil, err
	}
	crawler := &Crawler{node: node}
	crawler.options = options
	return crawler, nil
}

// FetchPages 按页码顺序抓取每一页，每页的结果（成功或最终失败）都交给 handle。
// 单页失败不会中止整个任务；只有 ctx 被取消时提前返回。
func (c *Crawler) FetchPages(ctx context.Context, task *collect.Task, handle func(PageResult)) error {
	if task.Fetcher == nil {
		return ErrNoFetcher
	}
	reqs, err := task.Roots()
	if err != nil {
		return err
	}
	c.Scheduler.Push(reqs...)
	defer func() {
		for c.Scheduler.Pull() != nil {
		}
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		req := c.Scheduler.Pull()
		if req == nil {
			return nil
		}

		result := c.fetch(task, req)
		handle(result)

		// 失败的页面之后不等待
		if result.Err != nil || task.Limit == nil || c.Scheduler.Len() == 0 {
			continue
		}
		if err := task.Limit.Wait(ctx); err != nil {
			return err
		}
	}
}

func (c *Crawler) fetch(task *collect.Task, req *collect.Request) PageResult {
	maxAttempts := task.MaxRetries
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		var body []byte
		body, err = task.Fetcher.Get(req)
		if err == nil {
			c.Logger.Debug("fetch page",
				zap.String("task", task.Name),
				zap.Int("page", req.Page),
				zap.Int("attempt", attempt))
			return PageResult{Req: req, Page: req.Page, Body: body, Attempts: attempt}
		}

		if attempt < maxAttempts {
			c.Logger.Warn("fetch page failed, retry",
				zap.String("task", task.Name),
				zap.Int("page", req.Page),
				zap.Int("attempt", attempt),
				zap.Error(err))
			continue
		}
		c.Logger.Error("fetch page failed, retries exhausted",
			zap.String("task", task.Name),
			zap.Int("page", req.Page),
			zap.Int("attempts", attempt),
			zap.Error(err))
	}
	return PageResult{Req: req, Page: req.Page, Attempts: maxAttempts, Err: err}
}

// Run 抓取并解析任务的全部页面，按页面顺序返回解析到的电影。
// 持久化由调用方负责。ctx 被取消时返回已经得到的结果和 ctx 的错误。
func (c *Crawler) Run(ctx context.Context, task *collect.Task) ([]collector.Movie, RunReport, error) {
	report := RunReport{CrawlID: c.node.Generate().Int64()}
	if task.Rule == nil {
		return nil, report, ErrNoRule
	}

	var movies []collector.Movie
	err := c.FetchPages(ctx, task, func(r PageResult) {
		if r.Err != nil {
			report.PagesFailed++
			report.FailedPages = append(report.FailedPages, r.Page)
			return
		}

		result, err := task.Rule.Parse(&collect.Context{Body: r.Body, Req: r.Req})
		if err != nil {
			report.PagesFailed++
			report.FailedPages = append(report.FailedPages, r.Page)
			c.Logger.Error("parse page failed", zap.Int("page", r.Page), zap.Error(err))
			return
		}

		report.PagesOK++
		report.Blocks += result.Blocks
		report.Skipped += result.Skipped
		for _, m := range result.Items {
			m.CrawlID = report.CrawlID
			movies = append(movies, m)
		}
		c.Logger.Info("crawl page done",
			zap.String("task", task.Name),
			zap.Int("page", r.Page),
			zap.Int("items", len(result.Items)),
			zap.Int("skipped", result.Skipped))
	})
	return movies, report, err
}
