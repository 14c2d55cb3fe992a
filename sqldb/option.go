package sqldb

import (
	"go.uber.org/zap"
)

const (
	DriverSqlite   = "sqlite"
	DriverPostgres = "postgres"
)

type dialect struct {
	autoKey string // 自增主键的列定义
}

var dialects = map[string]dialect{
	DriverSqlite:   {autoKey: `id INTEGER PRIMARY KEY AUTOINCREMENT`},
	DriverPostgres: {autoKey: `id SERIAL PRIMARY KEY`},
}

type options struct {
	logger       *zap.Logger
	driver       string
	sqlUrl       string
	maxOpenConns int
	maxIdleConns int
}

var defaultOptions = options{
	logger:       zap.NewNop(),
	driver:       DriverSqlite,
	maxOpenConns: 25,
	maxIdleConns: 5,
}

type Option func(opts *options)

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

func WithDriver(driver string) Option {
	return func(opts *options) {
		opts.driver = driver
	}
}

func WithSqlUrl(sqlUrl string) Option {
	return func(opts *options) {
		opts.sqlUrl = sqlUrl
	}
}

func WithMaxConns(open, idle int) Option {
	return func(opts *options) {
		opts.maxOpenConns = open
		opts.maxIdleConns = idle
	}
}
