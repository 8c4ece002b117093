package safedml

import (
	"context"
	"fmt"
	"strings"

	"github.com/hzl091/dapper-rainbow-mysql/orm"
)

// MiddlewareBuilder 强制 UPDATE, DELETE 必须带 WHERE
// 原生 SQL 按语句开头的关键字判断
type MiddlewareBuilder struct {
}

func NewMiddlewareBuilder() *MiddlewareBuilder {
	return &MiddlewareBuilder{}
}

func (m MiddlewareBuilder) Build() orm.Middleware {
	return func(next orm.Handler) orm.Handler {
		return func(ctx context.Context, qc *orm.QueryContext) *orm.QueryResult {
			if qc.Type == "SELECT" || qc.Type == "INSERT" {
				return next(ctx, qc)
			}
			q, err := qc.Builder.Build()
			if err != nil {
				return &orm.QueryResult{
					Err: err,
				}
			}
			sql := strings.ToUpper(strings.TrimSpace(q.SQL))
			typ := qc.Type
			if typ == "RAW" {
				if !strings.HasPrefix(sql, "UPDATE") && !strings.HasPrefix(sql, "DELETE") {
					return next(ctx, qc)
				}
				typ = sql[:6]
			}
			if !strings.Contains(sql, "WHERE") {
				return &orm.QueryResult{
					Err: fmt.Errorf("禁止执行没有WHERE的 %s 语句", typ),
				}
			}
			return next(ctx, qc)
		}
	}
}
