package crawl

import (
	"context"
	"errors"

	"github.com/Nrich-sunny/moviecrawler/bootstrap"
	"github.com/Nrich-sunny/moviecrawler/engine"
	"github.com/Nrich-sunny/moviecrawler/parse/doubanmovie"
	"go.uber.org/zap"
)

var ErrDataExists = errors.New("database already has data, use --force to crawl again")

// Run 爬取全部页面后一次性写入数据库
func Run(ctx context.Context, app *bootstrap.App, force bool) error {
	logger := app.Logger
	logger.Info("start crawling douban top250")

	store, err := app.OpenStore()
	if err != nil {
		return err
	}
	defer store.Close()

	exists, err := store.Exists(ctx)
	if err != nil {
		return err
	}
	if exists && !force {
		return ErrDataExists
	}

	fetcher, err := app.Fetcher()
	if err != nil {
		return err
	}
	task, err := doubanmovie.NewTask(app.TaskOptions(fetcher)...)
	if err != nil {
		return err
	}

	crawler, err := engine.NewEngine(
		engine.WithLogger(logger.Named("engine")),
		engine.WithScheduler(engine.NewSchedule()),
		engine.WithNodeID(app.Config.NodeID),
	)
	if err != nil {
		return err
	}

	movies, report, err := crawler.Run(ctx, task)
	if err != nil {
		// 中断时已经抓到的数据不保存
		logger.Warn("crawl interrupted, nothing saved",
			zap.Int64("crawlID", report.CrawlID),
			zap.Int("dropped", len(movies)),
			zap.Int("pagesOK", report.PagesOK),
			zap.Error(err))
		return err
	}
	logger.Info("crawl finished",
		zap.Int64("crawlID", report.CrawlID),
		zap.Int("movies", len(movies)),
		zap.Int("pagesOK", report.PagesOK),
		zap.Ints("failedPages", report.FailedPages),
		zap.Int("skipped", report.Skipped))

	if err := store.Save(ctx, movies...); err != nil {
		logger.Error("save movies failed", zap.Error(err))
		return err
	}
	logger.Info("movies saved", zap.Int("count", len(movies)))
	return nil
}
