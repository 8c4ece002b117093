// Package test 是用于辅助测试的包。仅限于内部使用
package test

import (
	"database/sql"

	"github.com/hzl091/dapper-rainbow-mysql/orm/types"
)

// User 对应 users 表, 列名和字段名只有大小写的区别
type User struct {
	Id    int64
	Name  string
	Email string
}

func (u User) TableName() string {
	return "users"
}

// Post 对应 posts 表, 用于多表映射
type Post struct {
	Id      int64
	OwnerId int64 `orm:"column=OwnerId"`
	Title   string
	Meta    types.JSONColumn[PostMeta]
}

func (p Post) TableName() string {
	return "posts"
}

type PostMeta struct {
	Tags []string `json:"tags"`
}

// SimpleStruct 包含常用的列类型, 用于验证读写一致
type SimpleStruct struct {
	Id      int64
	Bool    bool
	Int     int
	Int8    int8
	Int16   int16
	Int32   int32
	Int64   int64
	Uint    uint
	Uint8   uint8
	Uint16  uint16
	Uint32  uint32
	Uint64  uint64
	Float32 float32
	Float64 float64

	ByteArray []byte
	String    string

	// 特殊类型
	NullStringPtr  *sql.NullString
	NullInt64Ptr   *sql.NullInt64
	NullBoolPtr    *sql.NullBool
	NullFloat64Ptr *sql.NullFloat64
	JsonColumn     types.JSONColumn[User]
}

func NewSimpleStruct(id int64) *SimpleStruct {
	return &SimpleStruct{
		Id:             id,
		Bool:           true,
		Int:            12,
		Int8:           -8,
		Int16:          16,
		Int32:          32,
		Int64:          64,
		Uint:           14,
		Uint8:          8,
		Uint16:         16,
		Uint32:         32,
		Uint64:         64,
		Float32:        3.2,
		Float64:        6.4,
		ByteArray:      []byte("hello"),
		String:         "world",
		NullStringPtr:  &sql.NullString{String: "null string", Valid: true},
		NullInt64Ptr:   &sql.NullInt64{Int64: 64, Valid: true},
		NullBoolPtr:    &sql.NullBool{Bool: true, Valid: true},
		NullFloat64Ptr: &sql.NullFloat64{Float64: 6.4, Valid: true},
		JsonColumn:     types.NewJSONColumn(User{Name: "Tom"}),
	}
}
