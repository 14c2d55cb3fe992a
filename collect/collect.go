package collect

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Nrich-sunny/moviecrawler/proxy"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

type Fetcher interface {
	Get(req *Request) ([]byte, error)
}

// BrowserFetch 模拟浏览器访问
type BrowserFetch struct {
	Timeout   time.Duration
	UserAgent string
	Proxy     proxy.Func // 是 Transport 结构体中的函数
	Logger    *zap.Logger

	client *http.Client
}

func NewBrowserFetch(timeout time.Duration, ua string, p proxy.Func, logger *zap.Logger) *BrowserFetch {
	if ua == "" {
		ua = DefaultUserAgent
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &BrowserFetch{
		Timeout:   timeout,
		UserAgent: ua,
		Proxy:     p,
		Logger:    logger,
	}
	b.client = &http.Client{
		Timeout: timeout,
	}
	if p != nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.Proxy = p // 将其替换为自定义的代理函数
		b.client.Transport = transport
	}
	return b
}

func (b *BrowserFetch) Get(request *Request) ([]byte, error) {
	if b.client == nil {
		b.client = &http.Client{Timeout: b.Timeout}
	}
	method := request.Method
	if method == "" {
		method = http.MethodGet
	}
	req, err := http.NewRequest(method, request.Url, nil)
	if err != nil {
		return nil, fmt.Errorf("get url failed:%w", err)
	}

	if request.Task != nil && len(request.Task.Cookie) > 0 {
		req.Header.Set("Cookie", request.Task.Cookie)
	}
	ua := b.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)

	resp, err := b.client.Do(req)
	if err != nil {
		b.Logger.Debug("fetch failed", zap.String("url", request.Url), zap.Error(err))
		return nil, &NetworkError{Url: request.Url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Url: request.Url, StatusCode: resp.StatusCode}
	}

	bodyReader := bufio.NewReader(resp.Body)
	e := DetermineEncoding(bodyReader)
	utf8Reader := transform.NewReader(bodyReader, e.NewDecoder())
	body, err := io.ReadAll(utf8Reader)
	if err != nil {
		return nil, &NetworkError{Url: request.Url, Err: err}
	}
	return body, nil
}

// DetermineEncoding 根据前 1024 个字节猜测页面编码，失败时按 utf-8 处理
func DetermineEncoding(r *bufio.Reader) encoding.Encoding {
	bytes, err := r.Peek(1024)
	if err != nil && len(bytes) == 0 {
		return unicode.UTF8
	}

	e, _, _ := charset.DetermineEncoding(bytes, "")
	return e
}
