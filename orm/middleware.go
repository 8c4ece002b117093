package orm

import (
	"context"
)

type QueryContext struct {
	// Type 声明查询类型 即 SELECT, UPDATE, DELETE, INSERT 和 RAW
	Type string

	// TableName 原生查询的时候为空
	TableName string

	// Builder 使用的时候, 大多数情况下你需要转换到具体的类型才能篡改查询
	Builder QueryBuilder
}

type Middleware func(next Handler) Handler

type Handler func(ctx context.Context, qc *QueryContext) *QueryResult

type QueryResult struct {
	// Result 在不同的查询里面, 类型是不同的
	// SELECT 是 []*T
	// INSERT 是新行的主键 int64
	// UPDATE, DELETE 和 RAW 的 Execute 是 sql.Result
	Result any
	Err    error
}
