package stats

import (
	"bytes"
	"context"
	"testing"

	"github.com/Nrich-sunny/moviecrawler/collector"
	"github.com/Nrich-sunny/moviecrawler/storage/sqlstorage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrint(t *testing.T) {
	store, err := sqlstorage.New(sqlstorage.WithSqlUrl(":memory:"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Save(ctx,
		collector.Movie{Title: "无间道", Director: "刘伟强 Andrew Lau", Country: "中国香港 美国", Genre: "剧情 犯罪", Year: "2002"},
		collector.Movie{Title: "肖申克的救赎", Director: "弗兰克·德拉邦特 Frank Darabont", Country: "美国", Genre: "犯罪 剧情", Year: "1994"},
	))

	var buf bytes.Buffer
	require.NoError(t, Print(ctx, store, &buf, 0, true))

	out := buf.String()
	assert.Contains(t, out, "movies: 2")
	assert.Contains(t, out, "中国香港")
	assert.Contains(t, out, "弗兰克·德拉邦特 Frank Darabont")
	assert.Contains(t, out, "无间道")
}

func TestPrintEmpty(t *testing.T) {
	store, err := sqlstorage.New(sqlstorage.WithSqlUrl(":memory:"))
	require.NoError(t, err)
	defer store.Close()

	var buf bytes.Buffer
	require.NoError(t, Print(context.Background(), store, &buf, 5, false))
	assert.Equal(t, "movies: 0\n", buf.String())
}
