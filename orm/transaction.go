package orm

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var (
	_ Session = &Tx{}
)

// Session 代表一个可以执行语句的连接, 可以是 DB 也可以是 Tx
// 它由调用方持有, Table 只通过它发送请求, 不会关闭它
type Session interface {
	getCore() core
	queryContext(ctx context.Context, query string, args ...any) (*sqlx.Rows, error)
	execContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type Tx struct {
	tx *sqlx.Tx
	db *DB
}

func (t *Tx) getCore() core {
	return t.db.core
}

func (t *Tx) queryContext(ctx context.Context, query string, args ...any) (*sqlx.Rows, error) {
	return t.tx.QueryxContext(ctx, query, args...)
}

func (t *Tx) execContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return t.tx.ExecContext(ctx, query, args...)
}

func (t *Tx) Commit() error {
	return t.tx.Commit()
}

func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

// 尝试回滚, 如果此时事务已经提交了, 或者被回滚掉了, 那么
// 就会得到sql.ErrTxDone错误, 这时候忽略这个错误就好
func (t *Tx) RollbackIfNotCommit() error {
	err := t.tx.Rollback()
	if !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}
