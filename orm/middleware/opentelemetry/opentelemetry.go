package opentelemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/hzl091/dapper-rainbow-mysql/orm"
)

const instrumentationName = "github.com/hzl091/dapper-rainbow-mysql/orm/middleware/opentelemetry"

type MiddlewareBuilder struct {
	Tracer trace.Tracer
}

func (m MiddlewareBuilder) Build() orm.Middleware {
	if m.Tracer == nil {
		m.Tracer = otel.GetTracerProvider().Tracer(instrumentationName)
	}
	return func(next orm.Handler) orm.Handler {
		return func(ctx context.Context, qc *orm.QueryContext) *orm.QueryResult {
			// span name: SELECT-TABLE_NAME
			spanCtx, span := m.Tracer.Start(ctx, fmt.Sprintf("%s-%s", qc.Type, qc.TableName))
			defer span.End()

			q, _ := qc.Builder.Build()
			if q != nil {
				// tracing这里没必要记录参数, 防止数据过大(如 blob), 防止敏感数据被记录到tracing(如 用户密码)
				span.SetAttributes(attribute.String("sql", q.SQL))
			}
			span.SetAttributes(attribute.String("table", qc.TableName))
			span.SetAttributes(attribute.String("component", "orm"))

			res := next(spanCtx, qc)
			if res.Err != nil {
				span.RecordError(res.Err)
			}
			return res
		}
	}
}
