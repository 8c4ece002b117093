package valuer

import (
	"database/sql"

	"github.com/hzl091/dapper-rainbow-mysql/orm/model"
)

// Value 是对结构体实例的内部抽象
type Value interface {
	// Field 返回字段对应的值
	Field(name string) (any, error)
	// Pointers 按查询结果的列顺序返回字段地址, 用作 Scan 的目标
	// 没有对应字段的列扫描到一个丢弃的变量上
	Pointers(columns []string) []any
	// SetColumns 把当前行的数据写入结构体
	SetColumns(rows *sql.Rows) error
}

type Creator func(model *model.Model, entity any) Value

func setColumns(val Value, rows *sql.Rows) error {
	columns, err := rows.Columns()
	if err != nil {
		return err
	}
	if err := rows.Scan(val.Pointers(columns)...); err != nil {
		return err
	}
	return rows.Err()
}
