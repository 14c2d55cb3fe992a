package collect

import (
	"github.com/Nrich-sunny/moviecrawler/limiter"
	"go.uber.org/zap"
)

type Options struct {
	Name       string
	Url        string
	Cookie     string
	Pages      int
	PageSize   int
	MaxRetries int
	Fetcher    Fetcher
	Limit      limiter.RateLimiter // 每一页成功后等待
	Logger     *zap.Logger
}

var defaultOptions = Options{
	Pages:      10,
	PageSize:   25,
	MaxRetries: 3,
	Logger:     zap.NewNop(),
}

type Option func(opts *Options)

func WithName(name string) Option {
	return func(opts *Options) {
		opts.Name = name
	}
}

func WithUrl(url string) Option {
	return func(opts *Options) {
		opts.Url = url
	}
}

func WithCookie(cookie string) Option {
	return func(opts *Options) {
		opts.Cookie = cookie
	}
}

func WithPages(pages int) Option {
	return func(opts *Options) {
		opts.Pages = pages
	}
}

func WithPageSize(size int) Option {
	return func(opts *Options) {
		opts.PageSize = size
	}
}

func WithMaxRetries(n int) Option {
	return func(opts *Options) {
		opts.MaxRetries = n
	}
}

func WithFetcher(f Fetcher) Option {
	return func(opts *Options) {
		opts.Fetcher = f
	}
}

func WithLimit(l limiter.RateLimiter) Option {
	return func(opts *Options) {
		opts.Limit = l
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}
