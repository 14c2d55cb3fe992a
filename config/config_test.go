package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
	assert.Empty(t, c.Source)
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
logLevel = "DEBUG"
nodeID = 7

[fetcher]
timeout = 5000
proxy = ["http://127.0.0.1:8888"]

[task]
pages = 2
maxRetries = 5

[[task.limits]]
eventCount = 1
eventDur = 2

[storage]
driver = "postgres"
sqlUrl = "postgres://crawler@localhost/douban?sslmode=disable"
table = "top250"
maxOpenConns = 10

[chart]
width = 800
`)
	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, c.Source)
	assert.Equal(t, "DEBUG", c.LogLevel)
	assert.Equal(t, 5000, c.Fetcher.Timeout)
	assert.Equal(t, []string{"http://127.0.0.1:8888"}, c.Fetcher.Proxy)
	assert.Equal(t, 2, c.Task.Pages)
	assert.Equal(t, 5, c.Task.MaxRetries)
	require.Len(t, c.Task.Limits, 1)
	assert.Equal(t, 2, c.Task.Limits[0].EventDur)
	assert.Equal(t, "postgres", c.Storage.Driver)
	assert.Equal(t, int64(7), c.NodeID)
	assert.Equal(t, "top250", c.Storage.Table)
	assert.Equal(t, 10, c.Storage.MaxOpenConns)
	assert.Equal(t, 5, c.Storage.MaxIdleConns)
	assert.Equal(t, 800, c.Chart.Width)
	assert.Equal(t, 768, c.Chart.Height)

	// 没有出现的键保持默认值
	assert.Equal(t, 25, c.Task.PageSize)
	assert.Equal(t, "https://movie.douban.com/top250", c.Task.Url)
	assert.Equal(t, "charts", c.Chart.Dir)
	assert.Equal(t, Default().Fetcher.UserAgent, c.Fetcher.UserAgent)
}

func TestLoadInvalid(t *testing.T) {
	for name, content := range map[string]string{
		"pages":  "[task]\npages = 0\n",
		"nodeID": "nodeID = 1024\n",
		"table":  "[storage]\ntable = \"\"\n",
		"size":   "[chart]\nheight = 0\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}
