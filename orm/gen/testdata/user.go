package testdata

import (
	"database/sql"
	"time"
)

type User struct {
	Id       int64
	Name     string
	NickName *sql.NullString `orm:"column=nick"`
	Picture  []byte
	Tags     map[string]string
	Ignore   int `orm:"column=-"`
	password string
}

type UserDetail struct {
	Address string
}

type Status uint8

type Page[T any] struct {
	Items []T
}

func (u User) CreatedAt() time.Time {
	return time.Now()
}
