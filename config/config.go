// Package config 读取 config.toml
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Nrich-sunny/moviecrawler/collect"
	"github.com/go-micro/plugins/v4/config/encoder/toml"
	"go-micro.dev/v4/config"
	"go-micro.dev/v4/config/reader"
	"go-micro.dev/v4/config/reader/json"
	"go-micro.dev/v4/config/source"
	"go-micro.dev/v4/config/source/file"
)

const DefaultPath = "config.toml"

type Config struct {
	LogLevel string
	LogFile  string // 为空时只输出到标准输出
	NodeID   int64  // 生成爬取批次 ID 的 snowflake 节点号，0-1023
	Fetcher  FetcherConfig
	Task     collect.TaskConfig
	Storage  StorageConfig
	Chart    ChartConfig

	Source string `json:"-"` // 实际读取的文件，为空表示全部使用默认值
}

type FetcherConfig struct {
	Timeout   int // 毫秒
	UserAgent string
	Proxy     []string
}

type StorageConfig struct {
	Driver       string // sqlite 或 postgres
	SqlUrl       string
	Table        string
	BatchCount   int
	MaxOpenConns int // sqlite 固定为 1
	MaxIdleConns int
}

type ChartConfig struct {
	Dir    string
	Font   string
	Width  int
	Height int
}

func Default() Config {
	return Config{
		LogLevel: "INFO",
		NodeID:   1,
		Fetcher: FetcherConfig{
			Timeout:   10000,
			UserAgent: collect.DefaultUserAgent,
		},
		Task: collect.TaskConfig{
			Name:       "douban_movie_top250",
			Url:        "https://movie.douban.com/top250",
			Pages:      10,
			PageSize:   25,
			MaxRetries: 3,
			WaitBase:   2000,
			WaitJitter: 3000,
		},
		Storage: StorageConfig{
			Driver:       "sqlite",
			SqlUrl:       "douban_movies.db",
			Table:        "movies",
			BatchCount:   50,
			MaxOpenConns: 25,
			MaxIdleConns: 5,
		},
		Chart: ChartConfig{
			Dir:    "charts",
			Width:  1024,
			Height: 768,
		},
	}
}

// Load 读取 toml 配置并覆盖默认值；文件不存在时直接返回默认值
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		path = DefaultPath
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return c, err
	}

	enc := toml.NewEncoder()
	cfg, err := config.NewConfig(config.WithReader(json.NewReader(reader.WithEncoder(enc))))
	if err != nil {
		return c, err
	}
	defer cfg.Close()

	err = cfg.Load(file.NewSource(
		file.WithPath(path),
		source.WithEncoder(enc),
	))
	if err != nil {
		return c, fmt.Errorf("load %s: %w", path, err)
	}
	if err := cfg.Scan(&c); err != nil {
		return c, fmt.Errorf("scan %s: %w", path, err)
	}
	c.Source = path
	return c, c.Validate()
}

func (c Config) Validate() error {
	switch {
	case c.Task.Pages < 1:
		return errors.New("task.pages must be positive")
	case c.Task.PageSize < 1:
		return errors.New("task.pageSize must be positive")
	case c.Task.MaxRetries < 1:
		return errors.New("task.maxRetries must be positive")
	case c.Fetcher.Timeout < 1:
		return errors.New("fetcher.timeout must be positive")
	case c.NodeID < 0 || c.NodeID > 1023:
		return errors.New("nodeID must be between 0 and 1023")
	case c.Storage.Table == "":
		return errors.New("storage.table must not be empty")
	case c.Chart.Width < 1 || c.Chart.Height < 1:
		return errors.New("chart.width and chart.height must be positive")
	}
	return nil
}

func (f FetcherConfig) TimeoutDuration() time.Duration {
	return time.Duration(f.Timeout) * time.Millisecond
}
