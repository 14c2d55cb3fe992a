package collect

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskRoots(t *testing.T) {
	task := NewTask(
		WithUrl("https://movie.douban.com/top250"),
		WithPages(3),
		WithPageSize(25),
	)
	reqs, err := task.Roots()
	require.NoError(t, err)
	require.Len(t, reqs, 3)

	for i, req := range reqs {
		assert.Equal(t, i+1, req.Page)
		assert.Same(t, task, req.Task)

		u, err := url.Parse(req.Url)
		require.NoError(t, err)
		assert.Equal(t, "/top250", u.Path)
		assert.Equal(t, []string{""}, u.Query()["filter"])
		assert.Equal(t, []string{[]string{"0", "25", "50"}[i]}, u.Query()["start"])
	}
}

func TestTaskDefaults(t *testing.T) {
	task := NewTask()
	assert.Equal(t, 10, task.Pages)
	assert.Equal(t, 25, task.PageSize)
	assert.Equal(t, 3, task.MaxRetries)
	assert.NotNil(t, task.Logger)
}

func TestRequestUnique(t *testing.T) {
	a := &Request{Url: "https://movie.douban.com/top250?start=0", Method: "GET"}
	b := &Request{Url: "https://movie.douban.com/top250?start=25", Method: "GET"}
	assert.NotEqual(t, a.Unique(), b.Unique())
	assert.Len(t, a.Unique(), 32)
}
