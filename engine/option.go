package engine

import (
	"go.uber.org/zap"
)

type Option func(opts *options)

type options struct {
	Logger    *zap.Logger
	Scheduler Scheduler
	NodeID    int64 // 生成爬取批次 ID 的 snowflake 节点号
}

var defaultOptions = options{
	Logger: zap.NewNop(),
	NodeID: 1,
}

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.Logger = logger
	}
}

func WithScheduler(schedule Scheduler) Option {
	return func(opts *options) {
		opts.Scheduler = schedule
	}
}

func WithNodeID(id int64) Option {
	return func(opts *options) {
		opts.NodeID = id
	}
}
