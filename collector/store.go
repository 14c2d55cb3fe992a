package collector

import "context"

// Store 存储一次爬取得到的全部电影，一次调用对应一个批次
type Store interface {
	Save(ctx context.Context, movies ...Movie) error
}

// Stats 统计查询，结果按数量降序排列
type Stats interface {
	Exists(ctx context.Context) (bool, error)
	NationalityCounts(ctx context.Context) ([]Count, error)
	GenreCounts(ctx context.Context) ([]Count, error)
	DirectorCounts(ctx context.Context) ([]Count, error)
}

// Count 一个统计项
type Count struct {
	Label string `db:"label"`
	Count int    `db:"count"`
}
