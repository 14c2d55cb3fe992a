package collect

import "github.com/Nrich-sunny/moviecrawler/collector"

// Parser 把一页内容解析为电影列表
type Parser interface {
	Parse(ctx *Context) (ParseResult, error)
}

type ParseResult struct {
	Items   []collector.Movie // 成功解析的条目，保持页面中的顺序
	Blocks  int               // 页面中找到的条目块数量
	Skipped int               // 解析失败被跳过的条目块数量
}
