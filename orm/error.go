package orm

import (
	"github.com/hzl091/dapper-rainbow-mysql/orm/internal/errs"
)

// 通过桥接的方式将内部错误导出外部
var (
	ErrEmptyParams      = errs.ErrEmptyParams
	ErrUpsertKey        = errs.ErrUpsertKey
	ErrPointerOnly      = errs.ErrPointerOnly
	ErrNilArgument      = errs.ErrNilArgument
	ErrNoMoreResultSets = errs.ErrNoMoreResultSets
)
