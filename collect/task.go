package collect

import (
	"fmt"
	"net/url"
	"strconv"
)

// Task 整个任务实例，所有请求共享的参数
type Task struct {
	Rule Parser // 任务中的解析规则
	Options
}

// TaskConfig 配置文件中的任务配置
type TaskConfig struct {
	Name       string
	Url        string
	Cookie     string
	Pages      int
	PageSize   int
	MaxRetries int
	WaitBase   int64 // 毫秒
	WaitJitter int64 // 毫秒
	Limits     []LimitConfig
}

type LimitConfig struct {
	EventCount int
	EventDur   int // 秒
	Bucket     int // 桶大小
}

func NewTask(opts ...Option) *Task {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}

	t := &Task{}
	t.Options = options

	return t
}

// Roots 按页码顺序生成每一页的请求，偏移量为 (page-1)*PageSize
func (t *Task) Roots() ([]*Request, error) {
	base, err := url.Parse(t.Url)
	if err != nil {
		return nil, fmt.Errorf("parse task url: %w", err)
	}
	reqs := make([]*Request, 0, t.Pages)
	for page := 1; page <= t.Pages; page++ {
		u := *base
		q := u.Query()
		q.Set("start", strconv.Itoa((page-1)*t.PageSize))
		q.Set("filter", "")
		u.RawQuery = q.Encode()
		reqs = append(reqs, &Request{
			Task:   t,
			Url:    u.String(),
			Method: "GET",
			Page:   page,
		})
	}
	return reqs, nil
}
