package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONColumn 把 T 以 JSON 的形式存进一列
// Valid 为 false 的时候对应 NULL
type JSONColumn[T any] struct {
	Val T

	Valid bool
}

func NewJSONColumn[T any](val T) JSONColumn[T] {
	return JSONColumn[T]{Val: val, Valid: true}
}

// Value 参考 sql.NullXXX 类型定义的
func (j JSONColumn[T]) Value() (driver.Value, error) {
	if !j.Valid {
		// NULL
		return nil, nil
	}
	return json.Marshal(j.Val)
}

func (j *JSONColumn[T]) Scan(src any) error {
	var bs []byte
	switch data := src.(type) {
	case string:
		bs = []byte(data)
	case []byte:
		bs = data
	case nil:
		// 说明数据库里面存的就是 NULL
		j.Valid = false
		return nil
	default:
		return fmt.Errorf("不合法类型 %T", src)
	}
	if len(bs) == 0 {
		j.Valid = false
		return nil
	}
	if err := json.Unmarshal(bs, &j.Val); err != nil {
		return err
	}
	j.Valid = true
	return nil
}
