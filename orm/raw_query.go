package orm

import (
	"context"
	"database/sql"
)

const typeRaw = "RAW"

func rawQueryContext(sess Session, query string, args Arguments) (*QueryContext, error) {
	c := sess.getCore()
	params, err := resolve(c, args)
	if err != nil {
		return nil, err
	}
	return &QueryContext{
		Type:    typeRaw,
		Builder: newStatement(c, query, params),
	}, nil
}

// Execute 执行任意 SQL, 参数使用 :name 占位, args 可以为 nil
// 字面量的冒号要写成 ::, 例如 PostgreSQL 的类型转换 a::int 要写成 a::::int
func Execute(ctx context.Context, sess Session, query string, args Arguments) (sql.Result, error) {
	qc, err := rawQueryContext(sess, query, args)
	if err != nil {
		return nil, err
	}
	res := exec(ctx, sess, qc)
	if res.Err != nil {
		return nil, res.Err
	}
	sqlRes, _ := res.Result.(sql.Result)
	return sqlRes, nil
}

// RawQuery 执行任意查询, 每一行按列名映射到 T 的字段上
func RawQuery[T any](ctx context.Context, sess Session, query string, args Arguments) ([]*T, error) {
	qc, err := rawQueryContext(sess, query, args)
	if err != nil {
		return nil, err
	}
	res := querySlice[T](ctx, sess, qc, 0)
	if res.Err != nil {
		return nil, res.Err
	}
	rows, _ := res.Result.([]*T)
	return rows, nil
}

// QueryMaps 执行任意查询, 每一行是 列名 => 值
func QueryMaps(ctx context.Context, sess Session, query string, args Arguments) ([]map[string]any, error) {
	qc, err := rawQueryContext(sess, query, args)
	if err != nil {
		return nil, err
	}
	res := queryMaps(ctx, sess, qc)
	if res.Err != nil {
		return nil, res.Err
	}
	rows, _ := res.Result.([]map[string]any)
	return rows, nil
}
