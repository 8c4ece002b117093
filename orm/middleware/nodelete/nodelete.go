package nodelete

import (
	"context"
	"errors"

	"github.com/hzl091/dapper-rainbow-mysql/orm"
)

var ErrDeleteForbidden = errors.New("禁止使用DELETE语句")

type MiddlewareBuilder struct {
}

func NewMiddlewareBuilder() *MiddlewareBuilder {
	return &MiddlewareBuilder{}
}

func (m MiddlewareBuilder) Build() orm.Middleware {
	return func(next orm.Handler) orm.Handler {
		return func(ctx context.Context, qc *orm.QueryContext) *orm.QueryResult {
			// 禁用 DELETE 语句
			if qc.Type == "DELETE" {
				return &orm.QueryResult{
					Err: ErrDeleteForbidden,
				}
			}
			return next(ctx, qc)
		}
	}
}
