package orm

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/hzl091/dapper-rainbow-mysql/orm/internal/errs"
)

// GridReader 按顺序读取一条语句返回的多个结果集
// 读完之后必须调用 Close
type GridReader struct {
	c      core
	rows   *sqlx.Rows
	cancel context.CancelFunc

	// started 第一个结果集不需要调用 NextResultSet
	started bool
}

// QueryMultiple 执行返回多个结果集的 SQL, 比如存储过程或者多条 SELECT
func QueryMultiple(ctx context.Context, sess Session, query string, args Arguments) (*GridReader, error) {
	qc, err := rawQueryContext(sess, query, args)
	if err != nil {
		return nil, err
	}
	c := sess.getCore()
	// rows 的生命周期比这次调用长, 超时到 Close 的时候才取消
	ctx, cancel := c.withTimeout(ctx)
	res := c.chain(func(ctx context.Context, qc *QueryContext) *QueryResult {
		q, err := qc.Builder.Build()
		if err != nil {
			return &QueryResult{Err: err}
		}
		rows, err := sess.queryContext(ctx, q.SQL, q.Args...)
		if err != nil {
			return &QueryResult{Err: err}
		}
		return &QueryResult{Result: &GridReader{c: c, rows: rows, cancel: cancel}}
	})(ctx, qc)
	if res.Err != nil {
		cancel()
		return nil, res.Err
	}
	grid, ok := res.Result.(*GridReader)
	if !ok {
		cancel()
		return nil, errs.ErrNoMoreResultSets
	}
	return grid, nil
}

func (g *GridReader) next() error {
	if !g.started {
		g.started = true
		return nil
	}
	if g.rows.NextResultSet() {
		return nil
	}
	if err := g.rows.Err(); err != nil {
		return err
	}
	return errs.ErrNoMoreResultSets
}

// Read 读取下一个结果集
func Read[T any](g *GridReader) ([]*T, error) {
	if err := g.next(); err != nil {
		return nil, err
	}
	m, err := g.c.r.Get(new(T))
	if err != nil {
		return nil, err
	}
	return scanRows[T](g.c, m, g.rows.Rows, 0)
}

// ReadMaps 读取下一个结果集, 每一行是 列名 => 值
func (g *GridReader) ReadMaps() ([]map[string]any, error) {
	if err := g.next(); err != nil {
		return nil, err
	}
	return scanMaps(g.rows)
}

func (g *GridReader) Close() error {
	defer g.cancel()
	return g.rows.Close()
}
