package querylog

import (
	"context"

	"go.uber.org/zap"

	"github.com/hzl091/dapper-rainbow-mysql/orm"
)

type LogFunc func(query string, args []any)

type MiddlewareBuilder struct {
	// SQL参数可能存在敏感数据, 是否打印参数由 logFunc 决定
	logFunc LogFunc
}

func NewMiddlewareBuilder(fn LogFunc) *MiddlewareBuilder {
	return &MiddlewareBuilder{
		logFunc: fn,
	}
}

// NewZapLogFunc 用 zap 输出 SQL, withArgs 为 false 的时候不记录参数
func NewZapLogFunc(l *zap.Logger, withArgs bool) LogFunc {
	return func(query string, args []any) {
		fields := []zap.Field{zap.String("sql", query)}
		if withArgs {
			fields = append(fields, zap.Any("args", args))
		}
		l.Debug("orm query", fields...)
	}
}

func (m MiddlewareBuilder) Build() orm.Middleware {
	return func(next orm.Handler) orm.Handler {
		return func(ctx context.Context, qc *orm.QueryContext) *orm.QueryResult {
			q, err := qc.Builder.Build()
			if err != nil {
				return &orm.QueryResult{
					Err: err,
				}
			}
			if m.logFunc != nil {
				m.logFunc(q.SQL, q.Args)
			}
			return next(ctx, qc)
		}
	}
}
