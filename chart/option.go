package chart

import (
	"github.com/golang/freetype/truetype"
	"go.uber.org/zap"
)

type options struct {
	dir      string
	fontPath string
	width    int
	height   int
	logger   *zap.Logger
	font     *truetype.Font
}

var defaultOptions = options{
	dir:    "charts",
	width:  1024,
	height: 768,
	logger: zap.NewNop(),
}

type Option func(opts *options)

func WithDir(dir string) Option {
	return func(opts *options) {
		opts.dir = dir
	}
}

// WithFont 指定一个支持中文的 TrueType 字体文件
func WithFont(path string) Option {
	return func(opts *options) {
		opts.fontPath = path
	}
}

func WithSize(width, height int) Option {
	return func(opts *options) {
		opts.width = width
		opts.height = height
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}
