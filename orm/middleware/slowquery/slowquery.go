package slowquery

import (
	"context"
	"time"

	"github.com/hzl091/dapper-rainbow-mysql/orm"
	"github.com/hzl091/dapper-rainbow-mysql/orm/middleware/querylog"
)

type MiddlewareBuilder struct {
	logFunc querylog.LogFunc

	// 慢查询阈值, 设置需要考虑公司实际情况, 如100ms
	threshold time.Duration
}

func NewMiddlewareBuilder(threshold time.Duration, fn querylog.LogFunc) *MiddlewareBuilder {
	return &MiddlewareBuilder{
		logFunc:   fn,
		threshold: threshold,
	}
}

func (m MiddlewareBuilder) Build() orm.Middleware {
	return func(next orm.Handler) orm.Handler {
		return func(ctx context.Context, qc *orm.QueryContext) *orm.QueryResult {
			startTime := time.Now()
			defer func() {
				if time.Since(startTime) <= m.threshold {
					return
				}

				// 是慢查询, 记录一下, 不处理错误(如果错误了, 证明SQL都没构造出来)
				q, err := qc.Builder.Build()
				if err == nil && m.logFunc != nil {
					m.logFunc(q.SQL, q.Args)
				}
			}()
			return next(ctx, qc)
		}
	}
}
