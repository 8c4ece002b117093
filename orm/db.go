package orm

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-sql-driver/mysql"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jmoiron/sqlx"

	"github.com/hzl091/dapper-rainbow-mysql/orm/internal/errs"
	"github.com/hzl091/dapper-rainbow-mysql/orm/internal/valuer"
	"github.com/hzl091/dapper-rainbow-mysql/orm/model"
)

var (
	_ Session = &DB{}
)

type DBOption func(db *DB)

type DB struct {
	core
	db *sqlx.DB

	stmtCacheSize int
}

func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*Tx, error) {
	tx, err := db.db.BeginTxx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx, db: db}, nil
}

func (db *DB) queryContext(ctx context.Context, query string, args ...any) (*sqlx.Rows, error) {
	return db.db.QueryxContext(ctx, query, args...)
}

func (db *DB) execContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

func (db *DB) getCore() core {
	return db.core
}

// DoTx 在事务中执行 fn, fn 返回 error 或者 panic 的时候回滚, 否则提交
func (db *DB) DoTx(ctx context.Context, fn func(ctx context.Context, tx *Tx) error, opts *sql.TxOptions) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	panicked := true
	defer func() {
		if panicked || err != nil {
			rollbackErr := tx.Rollback()
			err = errs.NewErrFailedToRollbackTx(err, rollbackErr, panicked)
		} else {
			err = tx.Commit()
		}
	}()
	err = fn(ctx, tx)
	// 执行过程中没有发生panic, 则标志位置为false
	panicked = false
	return err
}

func (db *DB) Close() error {
	return db.db.Close()
}

// Open 根据驱动名推断方言, 可以用 DBWithDialect 覆盖
func Open(driver string, dataSourceName string, opts ...DBOption) (*DB, error) {
	db, err := sql.Open(driver, dataSourceName)
	if err != nil {
		return nil, err
	}
	return OpenDB(db, append([]DBOption{DBWithDialect(dialectOf(driver))}, opts...)...)
}

// OpenMySQL 使用 go-sql-driver/mysql 的配置打开连接
// UPDATE 返回的是匹配的行数而不是实际修改的行数, 所以强制打开 ClientFoundRows
func OpenMySQL(cfg *mysql.Config, opts ...DBOption) (*DB, error) {
	cfg = cfg.Clone()
	cfg.ParseTime = true
	cfg.ClientFoundRows = true
	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, err
	}
	return OpenDB(sql.OpenDB(connector), append([]DBOption{DBWithDialect(DialectMySQL)}, opts...)...)
}

func OpenDB(db *sql.DB, opts ...DBOption) (*DB, error) {
	newDB := &DB{
		core: core{
			r:       model.NewRegistry(),
			creator: valuer.NewUnsafeValue,
			dialect: DialectMySQL,
		},
	}

	for _, opt := range opts {
		opt(newDB)
	}
	if newDB.stmtCacheSize > 0 {
		cache, err := lru.New[string, *compiled](newDB.stmtCacheSize)
		if err != nil {
			return nil, err
		}
		newDB.stmts = cache
	}
	newDB.db = sqlx.NewDb(db, driverName(newDB.dialect))

	return newDB, nil
}

func driverName(d Dialect) string {
	switch d {
	case DialectSQLite:
		return "sqlite3"
	case DialectPostgreSQL:
		return "postgres"
	default:
		return "mysql"
	}
}

func MustOpenDB(db *sql.DB, opts ...DBOption) *DB {
	newDB, err := OpenDB(db, opts...)
	if err != nil {
		panic(err)
	}
	return newDB
}

func MustOpen(driver string, dataSourceName string, opts ...DBOption) *DB {
	newDB, err := Open(driver, dataSourceName, opts...)
	if err != nil {
		panic(err)
	}
	return newDB
}

func DBUseReflect() DBOption {
	return func(db *DB) {
		db.creator = valuer.NewReflectValue
	}
}

func DBWithRegistry(r model.Registry) DBOption {
	return func(db *DB) {
		db.r = r
	}
}

func DBWithDialect(dialect Dialect) DBOption {
	return func(db *DB) {
		db.dialect = dialect
	}
}

func DBWithMiddlewares(mdls ...Middleware) DBOption {
	return func(db *DB) {
		db.mdls = append(db.mdls, mdls...)
	}
}

// DBWithTimeout 设置每条语句的超时时间
func DBWithTimeout(timeout time.Duration) DBOption {
	return func(db *DB) {
		db.timeout = timeout
	}
}

// DBWithStatementCache 缓存最近使用的 size 条具名 SQL 的编译结果
func DBWithStatementCache(size int) DBOption {
	return func(db *DB) {
		db.stmtCacheSize = size
	}
}
