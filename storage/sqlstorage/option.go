package sqlstorage

import (
	"github.com/Nrich-sunny/moviecrawler/sqldb"
	"go.uber.org/zap"
)

type options struct {
	logger     *zap.Logger
	driver     string
	sqlUrl     string
	batchCount int // 每条 INSERT 语句插入的行数
	table      string
	maxOpen    int // 为 0 时使用 sqldb 的默认值
	maxIdle    int
}

var defaultOptions = options{
	logger:     zap.NewNop(),
	driver:     sqldb.DriverSqlite,
	batchCount: 50,
	table:      "movies",
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

func WithBatchCount(batchCount int) Option {
	return func(opts *options) {
		opts.batchCount = batchCount
	}
}

func WithTable(table string) Option {
	return func(opts *options) {
		opts.table = table
	}
}

func WithMaxConns(open, idle int) Option {
	return func(opts *options) {
		opts.maxOpen = open
		opts.maxIdle = idle
	}
}
