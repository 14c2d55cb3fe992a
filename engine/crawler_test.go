package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/Nrich-sunny/moviecrawler/collect"
	"github.com/Nrich-sunny/moviecrawler/parse/doubanmovie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/time/rate"
)

// flakyFetcher 每一页先失败 failures[page] 次，之后返回 body
type flakyFetcher struct {
	failures map[int]int
	calls    map[int]int
	err      func(req *collect.Request) error
	body     []byte
}

func (f *flakyFetcher) Get(req *collect.Request) ([]byte, error) {
	if f.calls == nil {
		f.calls = map[int]int{}
	}
	f.calls[req.Page]++
	if f.calls[req.Page] <= f.failures[req.Page] {
		if f.err != nil {
			return nil, f.err(req)
		}
		return nil, &collect.NetworkError{Url: req.Url, Err: errors.New("connection reset")}
	}
	return f.body, nil
}

type countingLimiter struct {
	waits int
}

func (l *countingLimiter) Wait(ctx context.Context) error {
	l.waits++
	return nil
}

func (l *countingLimiter) Limit() rate.Limit { return rate.Inf }

func fixture(t *testing.T) []byte {
	t.Helper()
	b, err := os.ReadFile("../parse/doubanmovie/testdata/top250.html")
	require.NoError(t, err)
	return b
}

func newTask(t *testing.T, f collect.Fetcher, l *countingLimiter, pages int) *collect.Task {
	t.Helper()
	task, err := doubanmovie.NewTask(
		collect.WithPages(pages),
		collect.WithFetcher(f),
		collect.WithLimit(l),
	)
	require.NoError(t, err)
	return task
}

func newCrawler(t *testing.T) (*Crawler, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	c, err := NewEngine(WithLogger(zap.New(core)))
	require.NoError(t, err)
	return c, logs
}

func pageLogs(logs *observer.ObservedLogs, msg string, page int) int {
	n := 0
	for _, e := range logs.FilterMessage(msg).All() {
		if e.ContextMap()["page"] == int64(page) {
			n++
		}
	}
	return n
}

func TestRunRetryThenSucceed(t *testing.T) {
	f := &flakyFetcher{failures: map[int]int{1: 2}, body: fixture(t)}
	l := &countingLimiter{}
	c, logs := newCrawler(t)

	movies, report, err := c.Run(context.Background(), newTask(t, f, l, 1))
	require.NoError(t, err)

	assert.Equal(t, 3, f.calls[1])
	assert.Len(t, movies, 3)
	assert.Equal(t, 1, report.PagesOK)
	assert.Zero(t, report.PagesFailed)
	assert.Equal(t, 2, report.Skipped)

	assert.Equal(t, 2, pageLogs(logs, "fetch page failed, retry", 1))
	assert.Zero(t, pageLogs(logs, "fetch page failed, retries exhausted", 1))

	// 两条重试日志都在页面完成之前
	all := logs.All()
	var order []string
	for _, e := range all {
		order = append(order, e.Message)
	}
	done := indexOf(order, "crawl page done")
	require.GreaterOrEqual(t, done, 0)
	assert.Less(t, lastIndexOf(order, "fetch page failed, retry"), done)

	for _, m := range movies {
		assert.Equal(t, report.CrawlID, m.CrawlID)
	}
}

func TestRunPageExhaustsRetries(t *testing.T) {
	f := &flakyFetcher{failures: map[int]int{2: 3}, body: fixture(t)}
	l := &countingLimiter{}
	c, logs := newCrawler(t)

	movies, report, err := c.Run(context.Background(), newTask(t, f, l, 3))
	require.NoError(t, err)

	assert.Equal(t, 3, f.calls[2])
	assert.Equal(t, 1, f.calls[3], "run continues after a lost page")
	assert.Len(t, movies, 6)
	assert.Equal(t, 2, report.PagesOK)
	assert.Equal(t, []int{2}, report.FailedPages)

	assert.Equal(t, 1, pageLogs(logs, "fetch page failed, retries exhausted", 2))
	assert.Equal(t, 2, pageLogs(logs, "fetch page failed, retry", 2))
	assert.Zero(t, pageLogs(logs, "crawl page done", 2))

	// 只在成功的第 1 页之后等待；第 2 页失败不等待，第 3 页是最后一页
	assert.Equal(t, 1, l.waits)
}

func TestRunStatusAndNetworkErrorsRetrySame(t *testing.T) {
	for name, mkErr := range map[string]func(*collect.Request) error{
		"status": func(r *collect.Request) error {
			return &collect.StatusError{Url: r.Url, StatusCode: http.StatusTooManyRequests}
		},
		"network": func(r *collect.Request) error {
			return &collect.NetworkError{Url: r.Url, Err: context.DeadlineExceeded}
		},
	} {
		t.Run(name, func(t *testing.T) {
			f := &flakyFetcher{failures: map[int]int{1: 3}, err: mkErr, body: fixture(t)}
			c, logs := newCrawler(t)

			movies, report, err := c.Run(context.Background(), newTask(t, f, &countingLimiter{}, 1))
			require.NoError(t, err)
			assert.Empty(t, movies)
			assert.Equal(t, 3, f.calls[1])
			assert.Equal(t, 1, report.PagesFailed)
			assert.Equal(t, 2, logs.FilterMessage("fetch page failed, retry").Len())
			assert.Equal(t, 1, logs.FilterMessage("fetch page failed, retries exhausted").Len())
		})
	}
}

func TestFetchPagesOrderAndOffsets(t *testing.T) {
	var starts []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start, _ := strconv.Atoi(r.URL.Query().Get("start"))
		starts = append(starts, start)
		_, _ = fmt.Fprintf(w, "<html><body>start=%d</body></html>", start)
	}))
	defer srv.Close()

	task := collect.NewTask(
		collect.WithUrl(srv.URL+"/top250"),
		collect.WithPages(4),
		collect.WithPageSize(25),
		collect.WithFetcher(collect.NewBrowserFetch(time.Second, "", nil, nil)),
	)
	c, _ := newCrawler(t)

	var pages []int
	err := c.FetchPages(context.Background(), task, func(r PageResult) {
		require.NoError(t, r.Err)
		pages = append(pages, r.Page)
		assert.Contains(t, string(r.Body), fmt.Sprintf("start=%d", (r.Page-1)*25))
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, pages)
	assert.Equal(t, []int{0, 25, 50, 75}, starts)
}

func TestFetchPagesCanceled(t *testing.T) {
	f := &flakyFetcher{body: fixture(t)}
	c, _ := newCrawler(t)
	ctx, cancel := context.WithCancel(context.Background())

	var pages []int
	err := c.FetchPages(ctx, newTask(t, f, &countingLimiter{}, 5), func(r PageResult) {
		pages = append(pages, r.Page)
		cancel()
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []int{1}, pages)
	assert.Zero(t, c.Scheduler.Len())
}

func TestRunRequiresFetcherAndRule(t *testing.T) {
	c, _ := newCrawler(t)

	_, _, err := c.Run(context.Background(), collect.NewTask())
	assert.ErrorIs(t, err, ErrNoRule)

	task, err := doubanmovie.NewTask()
	require.NoError(t, err)
	_, _, err = c.Run(context.Background(), task)
	assert.ErrorIs(t, err, ErrNoFetcher)
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

func lastIndexOf(s []string, v string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == v {
			return i
		}
	}
	return -1
}
