package sqlstorage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/Nrich-sunny/moviecrawler/collector"
	"github.com/Nrich-sunny/moviecrawler/sqldb"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

var columns = []sqldb.Field{
	{Title: "chinese_name", Type: "TEXT NOT NULL"},
	{Title: "english_name", Type: "TEXT"},
	{Title: "movie_url", Type: "TEXT"},
	{Title: "director", Type: "TEXT"},
	{Title: "actors", Type: "TEXT"},
	{Title: "release_year", Type: "TEXT"},
	{Title: "country", Type: "TEXT"},
	{Title: "genre", Type: "TEXT"},
	{Title: "rating", Type: "FLOAT"},
	{Title: "rating_count", Type: "INTEGER"},
	{Title: "crawl_id", Type: "BIGINT"},
	{Title: "create_time", Type: "TIMESTAMP DEFAULT CURRENT_TIMESTAMP"},
}

// insertColumns 插入时不写 create_time
var insertColumns = columns[:len(columns)-1]

// SqlStore 把电影保存到关系型数据库，并提供统计查询
type SqlStore struct {
	db sqldb.DBer
	options
}

var (
	_ collector.Store = (*SqlStore)(nil)
	_ collector.Stats = (*SqlStore)(nil)
)

func New(opts ...Option) (*SqlStore, error) {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	dbOpts := []sqldb.Option{
		sqldb.WithDriver(options.driver),
		sqldb.WithSqlUrl(options.sqlUrl),
		sqldb.WithLogger(options.logger),
	}
	if options.maxOpen > 0 {
		dbOpts = append(dbOpts, sqldb.WithMaxConns(options.maxOpen, options.maxIdle))
	}
	db, err := sqldb.New(dbOpts...)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", options.driver, err)
	}
	s, err := NewWithDB(db, opts...)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewWithDB 在已有的连接上建表
func NewWithDB(db sqldb.DBer, opts ...Option) (*SqlStore, error) {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	if options.batchCount < 1 {
		options.batchCount = 1
	}
	s := &SqlStore{db: db, options: options}
	if err := s.init(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SqlStore) init(ctx context.Context) error {
	err := s.db.CreateTable(ctx, sqldb.TableMetaData{
		TableName:   s.table,
		ColumnNames: columns,
		AutoKey:     true,
	})
	if err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}
	s.logger.Debug("table ready", zap.String("table", s.table))
	return nil
}

func (s *SqlStore) Close() error {
	return s.db.Close()
}

// Save 在一个事务中分批插入全部电影，任一批失败则整体回滚
func (s *SqlStore) Save(ctx context.Context, movies ...collector.Movie) error {
	if len(movies) == 0 {
		return nil
	}
	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		for start := 0; start < len(movies); start += s.batchCount {
			end := start + s.batchCount
			if end > len(movies) {
				end = len(movies)
			}
			batch := movies[start:end]
			args := make([]interface{}, 0, len(batch)*len(insertColumns))
			for _, m := range batch {
				args = append(args,
					m.Title, m.AltTitle, m.URL, m.Director, m.Cast,
					m.Year, m.Country, m.Genre, m.Rating, m.RatingCount, m.CrawlID)
			}
			if err := s.db.InsertTx(ctx, tx, sqldb.TableMetaData{
				TableName:   s.table,
				ColumnNames: insertColumns,
				Args:        args,
				DataCount:   len(batch),
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("insert movies failed", zap.Int("count", len(movies)), zap.Error(err))
		return fmt.Errorf("insert %d movies: %w", len(movies), err)
	}
	s.logger.Info("insert movies", zap.Int("count", len(movies)))
	return nil
}

func (s *SqlStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.Get(ctx, &n, `SELECT COUNT(*) FROM `+s.table); err != nil {
		return 0, fmt.Errorf("count movies: %w", err)
	}
	return n, nil
}

func (s *SqlStore) Exists(ctx context.Context) (bool, error) {
	n, err := s.Count(ctx)
	return n > 0, err
}

// Clear 删除所有数据，表结构保留
func (s *SqlStore) Clear(ctx context.Context) error {
	if err := s.db.Exec(ctx, `DELETE FROM `+s.table); err != nil {
		return fmt.Errorf("clear %s: %w", s.table, err)
	}
	return nil
}

// Movies 按插入顺序返回全部电影
func (s *SqlStore) Movies(ctx context.Context) ([]collector.Movie, error) {
	var movies []collector.Movie
	query := `SELECT chinese_name, english_name, movie_url, director, actors, release_year,
		country, genre, rating, rating_count, crawl_id FROM ` + s.table + ` ORDER BY id`
	if err := s.db.Select(ctx, &movies, query); err != nil {
		return nil, fmt.Errorf("select movies: %w", err)
	}
	return movies, nil
}

// NationalityCounts 一部电影可能有多个国家/地区，拆开后分别计数
func (s *SqlStore) NationalityCounts(ctx context.Context) ([]collector.Count, error) {
	var countries []string
	if err := s.db.Select(ctx, &countries, `SELECT country FROM `+s.table); err != nil {
		return nil, fmt.Errorf("select country: %w", err)
	}
	counts := map[string]int{}
	for _, c := range countries {
		for _, token := range strings.FieldsFunc(c, isCountrySep) {
			counts[token]++
		}
	}
	return sortCounts(counts), nil
}

// GenreCounts 只统计第一个类型
func (s *SqlStore) GenreCounts(ctx context.Context) ([]collector.Count, error) {
	var genres []string
	if err := s.db.Select(ctx, &genres, `SELECT genre FROM `+s.table); err != nil {
		return nil, fmt.Errorf("select genre: %w", err)
	}
	counts := map[string]int{}
	for _, g := range genres {
		if fields := strings.Fields(g); len(fields) > 0 {
			counts[fields[0]]++
		}
	}
	return sortCounts(counts), nil
}

func (s *SqlStore) DirectorCounts(ctx context.Context) ([]collector.Count, error) {
	var counts []collector.Count
	query := `SELECT director AS label, COUNT(*) AS count FROM ` + s.table +
		` GROUP BY director ORDER BY count DESC, director`
	if err := s.db.Select(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("select director counts: %w", err)
	}
	return counts, nil
}

func isCountrySep(r rune) bool {
	return r == '/' || unicode.IsSpace(r)
}

func sortCounts(m map[string]int) []collector.Count {
	out := make([]collector.Count, 0, len(m))
	for label, n := range m {
		out = append(out, collector.Count{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}
