package valuer

import (
	"database/sql"
	"reflect"

	"github.com/hzl091/dapper-rainbow-mysql/orm/internal/errs"
	"github.com/hzl091/dapper-rainbow-mysql/orm/model"
)

type reflectValue struct {
	model *model.Model

	// val 是 entity 指向的结构体
	val reflect.Value
}

// 确保类型变更 我们能得到通知
var _ Creator = NewReflectValue

func NewReflectValue(model *model.Model, val any) Value {
	return reflectValue{
		model: model,
		val:   reflect.ValueOf(val).Elem(),
	}
}

func (r reflectValue) Field(name string) (any, error) {
	if _, ok := r.model.FieldMap[name]; !ok {
		return nil, errs.NewErrUnknownField(name)
	}
	return r.val.FieldByName(name).Interface(), nil
}

func (r reflectValue) Pointers(columns []string) []any {
	vals := make([]any, 0, len(columns))
	for _, colName := range columns {
		fd, ok := r.model.FieldByColumn(colName)
		if !ok {
			vals = append(vals, new(any))
			continue
		}
		// 字段本身是可寻址的, 直接把字段的地址交给 Scan
		vals = append(vals, r.val.FieldByName(fd.GoName).Addr().Interface())
	}
	return vals
}

func (r reflectValue) SetColumns(rows *sql.Rows) error {
	return setColumns(r, rows)
}
