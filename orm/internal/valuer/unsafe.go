package valuer

import (
	"database/sql"
	"reflect"
	"unsafe"

	"github.com/hzl091/dapper-rainbow-mysql/orm/internal/errs"
	"github.com/hzl091/dapper-rainbow-mysql/orm/model"
)

type unsafeValue struct {
	model *model.Model

	// 结构体的起始地址
	address unsafe.Pointer
}

// 确保类型变更 我们能得到通知
var _ Creator = NewUnsafeValue

func NewUnsafeValue(model *model.Model, val any) Value {
	return unsafeValue{
		model:   model,
		address: reflect.ValueOf(val).UnsafePointer(),
	}
}

func (u unsafeValue) Field(name string) (any, error) {
	fd, ok := u.model.FieldMap[name]
	if !ok {
		return nil, errs.NewErrUnknownField(name)
	}
	// 字段地址 = 起始地址 + 偏移量
	fdAddress := unsafe.Pointer(uintptr(u.address) + fd.Offset)
	return reflect.NewAt(fd.Type, fdAddress).Elem().Interface(), nil
}

func (u unsafeValue) Pointers(columns []string) []any {
	vals := make([]any, 0, len(columns))
	for _, colName := range columns {
		fd, ok := u.model.FieldByColumn(colName)
		if !ok {
			vals = append(vals, new(any))
			continue
		}
		fdAddress := unsafe.Pointer(uintptr(u.address) + fd.Offset)
		// 在字段的地址上创建一个指针, Scan 的时候直接给字段赋值
		vals = append(vals, reflect.NewAt(fd.Type, fdAddress).Interface())
	}
	return vals
}

func (u unsafeValue) SetColumns(rows *sql.Rows) error {
	return setColumns(u, rows)
}
