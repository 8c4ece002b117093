package orm

import (
	"context"
)

// Querier 用于 `SELECT` 语句
type Querier[T any, TId any] interface {
	Get(ctx context.Context, id TId) (*T, error)
	First(ctx context.Context, where Arguments) (*T, error)
	All(ctx context.Context, where Arguments) ([]*T, error)
}

// Executor 用于 `INSERT`, `UPDATE`, `DELETE` 语句
type Executor[TId any] interface {
	Insert(ctx context.Context, data Arguments) (int64, error)
	Update(ctx context.Context, id TId, data Arguments) (int64, error)
	UpdateWhere(ctx context.Context, where Arguments, data Arguments) (int64, error)
	InsertOrUpdate(ctx context.Context, id TId, data Arguments) (int64, error)
	InsertOrUpdateWhere(ctx context.Context, key Arguments, data Arguments) (int64, error)
	Delete(ctx context.Context, id TId) (bool, error)
}

type QueryBuilder interface {
	Build() (*Query, error)
}

type Query struct {
	SQL  string
	Args []any
}
