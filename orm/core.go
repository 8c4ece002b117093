package orm

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hzl091/dapper-rainbow-mysql/orm/internal/valuer"
	"github.com/hzl091/dapper-rainbow-mysql/orm/model"
)

type core struct {
	dialect Dialect
	creator valuer.Creator
	r       model.Registry

	// timeout 每条语句的超时时间, 0 表示只依赖调用方的 ctx
	timeout time.Duration

	mdls []Middleware

	// stmts 为 nil 的时候不缓存编译结果
	stmts *stmtCache
}

func (c core) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

// chain 把 middleware 包装在 root 外面, 先注册的在最外层
func (c core) chain(root Handler) Handler {
	for i := len(c.mdls) - 1; i >= 0; i-- {
		root = c.mdls[i](root)
	}
	return root
}

func exec(ctx context.Context, sess Session, qc *QueryContext) *QueryResult {
	c := sess.getCore()
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return c.chain(func(ctx context.Context, qc *QueryContext) *QueryResult {
		return execHandler(ctx, sess, qc)
	})(ctx, qc)
}

func execHandler(ctx context.Context, sess Session, qc *QueryContext) *QueryResult {
	q, err := qc.Builder.Build()
	if err != nil {
		return &QueryResult{Err: err}
	}
	res, err := sess.execContext(ctx, q.SQL, q.Args...)
	return &QueryResult{Result: res, Err: err}
}

// querySlice 查询多行, limit 大于 0 的时候最多读取 limit 行
func querySlice[T any](ctx context.Context, sess Session, qc *QueryContext, limit int) *QueryResult {
	c := sess.getCore()
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return c.chain(func(ctx context.Context, qc *QueryContext) *QueryResult {
		return queryHandler[T](ctx, sess, qc, limit)
	})(ctx, qc)
}

func queryHandler[T any](ctx context.Context, sess Session, qc *QueryContext, limit int) *QueryResult {
	c := sess.getCore()
	m, err := c.r.Get(new(T))
	if err != nil {
		return &QueryResult{Err: err}
	}
	q, err := qc.Builder.Build()
	if err != nil {
		return &QueryResult{Err: err}
	}
	rows, err := sess.queryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return &QueryResult{Err: err}
	}
	defer rows.Close()

	res, err := scanRows[T](c, m, rows.Rows, limit)
	return &QueryResult{Result: res, Err: err}
}

// scanRows 读取当前结果集, 不会关闭 rows
func scanRows[T any](c core, m *model.Model, rows *sql.Rows, limit int) ([]*T, error) {
	var res []*T
	for rows.Next() {
		// 利用 columns 来解决 select 的列顺序 和 列字段类型的问题
		entity := new(T)
		if err := c.creator(m, entity).SetColumns(rows); err != nil {
			return nil, err
		}
		res = append(res, entity)
		if limit > 0 && len(res) >= limit {
			break
		}
	}
	return res, rows.Err()
}

// queryID 用于带 RETURNING 的 INSERT, 读取第一行第一列作为主键
func queryID(ctx context.Context, sess Session, qc *QueryContext) *QueryResult {
	c := sess.getCore()
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return c.chain(func(ctx context.Context, qc *QueryContext) *QueryResult {
		q, err := qc.Builder.Build()
		if err != nil {
			return &QueryResult{Err: err}
		}
		rows, err := sess.queryContext(ctx, q.SQL, q.Args...)
		if err != nil {
			return &QueryResult{Err: err}
		}
		defer rows.Close()
		if !rows.Next() {
			if err := rows.Err(); err != nil {
				return &QueryResult{Err: err}
			}
			return &QueryResult{Err: sql.ErrNoRows}
		}
		var id int64
		if err := rows.Scan(&id); err != nil {
			return &QueryResult{Err: err}
		}
		return &QueryResult{Result: id, Err: rows.Err()}
	})(ctx, qc)
}

func queryMaps(ctx context.Context, sess Session, qc *QueryContext) *QueryResult {
	c := sess.getCore()
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return c.chain(func(ctx context.Context, qc *QueryContext) *QueryResult {
		q, err := qc.Builder.Build()
		if err != nil {
			return &QueryResult{Err: err}
		}
		rows, err := sess.queryContext(ctx, q.SQL, q.Args...)
		if err != nil {
			return &QueryResult{Err: err}
		}
		defer rows.Close()
		res, err := scanMaps(rows)
		return &QueryResult{Result: res, Err: err}
	})(ctx, qc)
}

func scanMaps(rows *sqlx.Rows) ([]map[string]any, error) {
	var res []map[string]any
	for rows.Next() {
		row := make(map[string]any)
		if err := rows.MapScan(row); err != nil {
			return nil, err
		}
		res = append(res, row)
	}
	return res, rows.Err()
}
