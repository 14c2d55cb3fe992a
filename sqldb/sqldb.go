package sqldb

/** 本模块是一个更加底层的模块，只进行数据的存储
**	拼接原生 SQL 语句与数据库交互，支持 sqlite 与 postgres
 */

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"  // postgres
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // sqlite
)

// DBer 数据库的接口
type DBer interface {
	CreateTable(ctx context.Context, t TableMetaData) error
	Insert(ctx context.Context, t TableMetaData) error
	InsertTx(ctx context.Context, tx *sqlx.Tx, t TableMetaData) error
	WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
	Exec(ctx context.Context, query string, args ...interface{}) error
	Select(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	Get(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	Close() error
}

// Sqldb : DBer 的实现
type Sqldb struct {
	options
	db *sqlx.DB
}

func New(opts ...Option) (*Sqldb, error) {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	d := &Sqldb{}
	d.options = options
	if err := d.OpenDB(); err != nil {
		return nil, err
	}
	return d, nil
}

// NewFromDB 使用已经建立的连接
func NewFromDB(db *sqlx.DB, opts ...Option) *Sqldb {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	options.driver = db.DriverName()
	return &Sqldb{options: options, db: db}
}

// OpenDB 与数据库建立连接，sqlUrl 对 sqlite 是文件路径，对 postgres 是连接串
func (d *Sqldb) OpenDB() error {
	if _, ok := dialects[d.driver]; !ok {
		return fmt.Errorf("unsupported driver %q", d.driver)
	}
	db, err := sqlx.Open(d.driver, d.sqlUrl)
	if err != nil {
		return err
	}
	if d.driver == DriverSqlite {
		// sqlite 只有一个写者，:memory: 下多个连接也会各自打开一个库
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(d.maxOpenConns)
		db.SetMaxIdleConns(d.maxIdleConns)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return err
	}
	d.db = db
	return nil
}

func (d *Sqldb) Close() error {
	return d.db.Close()
}

type Field struct {
	Title string // 字段名
	Type  string // 字段属性(类型)
}

type TableMetaData struct {
	TableName   string
	ColumnNames []Field       // 标题字段
	Args        []interface{} // 要插入的数据
	DataCount   int           // 插入数据的数量
	AutoKey     bool          // 标识是否为表创建自增主键
}

// CreateTable 拼接建表语句，表已存在时不做任何事
func (d *Sqldb) CreateTable(ctx context.Context, t TableMetaData) error {
	if len(t.ColumnNames) == 0 {
		return errors.New("column can not be empty")
	}

	sql := `CREATE TABLE IF NOT EXISTS ` + t.TableName + " ("
	if t.AutoKey {
		sql += dialects[d.driver].autoKey + `,`
	}
	for _, t := range t.ColumnNames {
		sql += t.Title + ` ` + t.Type + `,`
	}
	sql = sql[:len(sql)-1] + `)`

	d.logger.Debug("create table", zap.String("sql", sql))

	_, err := d.db.ExecContext(ctx, sql)
	return err
}

func (d *Sqldb) Insert(ctx context.Context, t TableMetaData) error {
	return d.WithTx(ctx, func(tx *sqlx.Tx) error {
		return d.InsertTx(ctx, tx, t)
	})
}

// InsertTx 在事务中一次插入 t.DataCount 行
func (d *Sqldb) InsertTx(ctx context.Context, tx *sqlx.Tx, t TableMetaData) error {
	if len(t.ColumnNames) == 0 {
		return errors.New("empty columns")
	}
	if t.DataCount == 0 {
		return nil
	}
	if len(t.Args) != len(t.ColumnNames)*t.DataCount {
		return fmt.Errorf("insert %s: got %d args for %d rows of %d columns",
			t.TableName, len(t.Args), t.DataCount, len(t.ColumnNames))
	}

	sql := `INSERT INTO ` + t.TableName + `(`
	for _, v := range t.ColumnNames {
		sql += v.Title + ","
	}
	sql = sql[:len(sql)-1] + `) VALUES `
	blank := ",(" + strings.Repeat(",?", len(t.ColumnNames))[1:] + ")"
	sql += strings.Repeat(blank, t.DataCount)[1:]
	sql = tx.Rebind(sql)

	d.logger.Debug("insert table", zap.String("table", t.TableName), zap.Int("rows", t.DataCount))

	_, err := tx.ExecContext(ctx, sql, t.Args...)
	return err
}

// WithTx fn 返回错误时回滚，否则提交
func (d *Sqldb) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			d.logger.Error("rollback failed", zap.Error(rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (d *Sqldb) Exec(ctx context.Context, query string, args ...interface{}) error {
	_, err := d.db.ExecContext(ctx, d.db.Rebind(query), args...)
	return err
}

func (d *Sqldb) Select(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return d.db.SelectContext(ctx, dest, d.db.Rebind(query), args...)
}

func (d *Sqldb) Get(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return d.db.GetContext(ctx, dest, d.db.Rebind(query), args...)
}
