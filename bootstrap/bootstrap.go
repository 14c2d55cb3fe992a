// Package bootstrap 组装各个子命令共用的配置、日志和存储
package bootstrap

import (
	"io"
	"time"

	"github.com/Nrich-sunny/moviecrawler/collect"
	"github.com/Nrich-sunny/moviecrawler/config"
	"github.com/Nrich-sunny/moviecrawler/limiter"
	"github.com/Nrich-sunny/moviecrawler/log"
	"github.com/Nrich-sunny/moviecrawler/proxy"
	"github.com/Nrich-sunny/moviecrawler/storage/sqlstorage"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type App struct {
	Config config.Config
	Logger *zap.Logger
	closer io.Closer
}

func New(configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger, closer, err := log.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, err
	}
	// set zap global logger
	zap.ReplaceGlobals(logger)
	if cfg.Source == "" {
		logger.Info("config file not found, using defaults", zap.String("path", configPath))
	} else {
		logger.Debug("config loaded", zap.String("path", cfg.Source))
	}

	return &App{Config: cfg, Logger: logger, closer: closer}, nil
}

func (a *App) Close() {
	_ = a.Logger.Sync()
	if a.closer != nil {
		_ = a.closer.Close()
	}
}

func (a *App) OpenStore() (*sqlstorage.SqlStore, error) {
	s := a.Config.Storage
	return sqlstorage.New(
		sqlstorage.WithDriver(s.Driver),
		sqlstorage.WithSqlUrl(s.SqlUrl),
		sqlstorage.WithTable(s.Table),
		sqlstorage.WithBatchCount(s.BatchCount),
		sqlstorage.WithMaxConns(s.MaxOpenConns, s.MaxIdleConns),
		sqlstorage.WithLogger(a.Logger.Named("sqlDB")),
	)
}

func (a *App) Fetcher() (collect.Fetcher, error) {
	f := a.Config.Fetcher
	var p proxy.Func
	if len(f.Proxy) > 0 {
		var err error
		if p, err = proxy.RoundRobinProxySwitcher(f.Proxy...); err != nil {
			return nil, err
		}
		a.Logger.Sugar().Info("proxy list: ", f.Proxy)
	}
	return collect.NewBrowserFetch(f.TimeoutDuration(), f.UserAgent, p, a.Logger.Named("fetcher")), nil
}

// Limiter 每页成功后的随机等待，再叠加配置中的限速
func (a *App) Limiter() limiter.RateLimiter {
	t := a.Config.Task
	delay := limiter.NewRandomDelay(
		time.Duration(t.WaitBase)*time.Millisecond,
		time.Duration(t.WaitJitter)*time.Millisecond,
	)
	if len(t.Limits) == 0 {
		return delay
	}
	limits := []limiter.RateLimiter{delay}
	for _, lcfg := range t.Limits {
		if lcfg.EventCount < 1 || lcfg.EventDur < 1 {
			a.Logger.Warn("ignore invalid limit", zap.Int("eventCount", lcfg.EventCount), zap.Int("eventDur", lcfg.EventDur))
			continue
		}
		bucket := lcfg.Bucket
		if bucket < 1 {
			bucket = 1
		}
		// speed limiter
		l := rate.NewLimiter(limiter.Per(lcfg.EventCount, time.Duration(lcfg.EventDur)*time.Second), bucket)
		limits = append(limits, l)
	}
	return limiter.NewMultiLimiter(limits...)
}

// TaskOptions 把配置转换为任务选项，未配置的项保持任务默认值
func (a *App) TaskOptions(f collect.Fetcher) []collect.Option {
	t := a.Config.Task
	opts := []collect.Option{
		collect.WithFetcher(f),
		collect.WithLimit(a.Limiter()),
		collect.WithPages(t.Pages),
		collect.WithPageSize(t.PageSize),
		collect.WithMaxRetries(t.MaxRetries),
		collect.WithLogger(a.Logger.Named("parse")),
	}
	if t.Name != "" {
		opts = append(opts, collect.WithName(t.Name))
	}
	if t.Url != "" {
		opts = append(opts, collect.WithUrl(t.Url))
	}
	if t.Cookie != "" {
		opts = append(opts, collect.WithCookie(t.Cookie))
	}
	return opts
}
