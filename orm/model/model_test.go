package model

import (
	"database/sql"
	"github.com/hzl091/dapper-rainbow-mysql/orm/internal/errs"
	"github.com/stretchr/testify/assert"
	"reflect"
	"testing"
)

func Test_Register(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		entity    any
		wantModel *Model
		wantErr   error
		fields    []*Field
		opts      []ModelOption
	}{
		{
			name:   "test pointer model",
			entity: &TestModel{},
			wantModel: &Model{
				TableName: "test_model",
			},
			fields: []*Field{
				{
					ColName: "id",
					GoName:  "ID",
					Type:    reflect.TypeOf(int64(0)),
				},
				{
					ColName: "first_name",
					GoName:  "FirstName",
					Type:    reflect.TypeOf(""),
					Offset:  8,
				},
				{
					ColName: "age",
					GoName:  "Age",
					Type:    reflect.TypeOf(int8(0)),
					Offset:  24,
				},
				{
					ColName: "last_name",
					GoName:  "LastName",
					Type:    reflect.TypeOf(&sql.NullString{}),
					Offset:  32,
				},
			},
		},

		{
			name:   "test pointer model with opts",
			entity: &TestModel{},
			wantModel: &Model{
				TableName: "TEST_MODEL",
			},
			fields: []*Field{
				{
					ColName: "id",
					GoName:  "ID",
					Type:    reflect.TypeOf(int64(0)),
				},
				{
					ColName: "firstname",
					GoName:  "FirstName",
					Type:    reflect.TypeOf(""),
					Offset:  8,
				},
				{
					ColName: "age",
					GoName:  "Age",
					Type:    reflect.TypeOf(int8(0)),
					Offset:  24,
				},
				{
					ColName: "last_name",
					GoName:  "LastName",
					Type:    reflect.TypeOf(&sql.NullString{}),
					Offset:  32,
				},
			},
			opts: []ModelOption{
				ModelWithTableName("TEST_MODEL"),
				ModelWithColumnName("FirstName", "firstname"),
			},
		},

		{
			name:    "test struct model",
			entity:  TestModel{},
			wantErr: errs.ErrPointerOnly,
		},
		{
			name:    "primitive type",
			entity:  0,
			wantErr: errs.ErrPointerOnly,
		},
		{
			name:    "map",
			entity:  map[string]string{"1": "1"},
			wantErr: errs.ErrPointerOnly,
		},
		{
			name:    "slice",
			entity:  []int{1, 2, 3},
			wantErr: errs.ErrPointerOnly,
		},
	}

	r := NewRegistry()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m, err := r.Register(c.entity, c.opts...)
			assert.Equal(t, c.wantErr, err)
			if err != nil {
				return
			}
			fillModel(c.wantModel, c.fields)
			assert.Equal(t, c.wantModel, m)
		})
	}
}

func Test_RegistryGet(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string

		entity    any
		wantModel *Model
		wantErr   error

		fields []*Field
	}{
		{
			name:   "test pointer model",
			entity: &TestModel{},
			wantModel: &Model{
				TableName: "test_model",
			},
			fields: []*Field{
				{
					ColName: "id",
					GoName:  "ID",
					Type:    reflect.TypeOf(int64(0)),
				},
				{
					ColName: "first_name",
					GoName:  "FirstName",
					Type:    reflect.TypeOf(""),
					Offset:  8,
				},
				{
					ColName: "age",
					GoName:  "Age",
					Type:    reflect.TypeOf(int8(0)),
					Offset:  24,
				},
				{
					ColName: "last_name",
					GoName:  "LastName",
					Type:    reflect.TypeOf(&sql.NullString{}),
					Offset:  32,
				},
			},
		},

		{
			name: "tag",
			entity: func() any {
				type TagTable struct {
					FirstName string `orm:"column=first_name_t"`
				}
				return &TagTable{}
			}(),
			wantModel: &Model{
				TableName: "tag_table",
			},

			fields: []*Field{
				{
					ColName: "first_name_t",
					GoName:  "FirstName",
					Type:    reflect.TypeOf(""),
				},
			},
		},

		{
			name: "empty column",
			entity: func() any {
				type TagTable struct {
					FirstName string `orm:"column="`
				}
				return &TagTable{}
			}(),
			wantModel: &Model{
				TableName: "tag_table",
			},
			fields: []*Field{
				{
					ColName: "first_name",
					GoName:  "FirstName",
					Type:    reflect.TypeOf(""),
				},
			},
		},

		{
			name: "ignore column",
			entity: func() any {
				type TagTable struct {
					FirstName string `orm:"abc=abc"`
				}
				return &TagTable{}
			}(),
			wantModel: &Model{
				TableName: "tag_table",
			},
			fields: []*Field{
				{
					ColName: "first_name",
					GoName:  "FirstName",
					Type:    reflect.TypeOf(""),
				},
			},
		},

		{
			name:   "empty table name",
			entity: &EmptyTableName{},
			wantModel: &Model{
				TableName: "empty_table_name",
			},
			fields: []*Field{
				{
					ColName: "first_name",
					GoName:  "FirstName",
					Type:    reflect.TypeOf(""),
				},
			},
		},

		{
			// 值接收者的 TableName 不能在 nil 指针上调用
			name:   "nil pointer custom table name",
			entity: (*CustomTableName)(nil),
			wantModel: &Model{
				TableName: "custom_table_name_t",
			},
			fields: []*Field{
				{
					ColName: "first_name",
					GoName:  "FirstName",
					Type:    reflect.TypeOf(""),
				},
			},
		},

		{
			name:   "custom table name",
			entity: &CustomTableName{},
			wantModel: &Model{
				TableName: "custom_table_name_t",
			},
			fields: []*Field{
				{
					ColName: "first_name",
					GoName:  "FirstName",
					Type:    reflect.TypeOf(""),
				},
			},
		},

		{
			name:   "custom table name for ptr",
			entity: &CustomTableNamePtr{},
			wantModel: &Model{
				TableName: "custom_table_name_ptr_t",
			},
			fields: []*Field{
				{
					ColName: "first_name",
					GoName:  "FirstName",
					Type:    reflect.TypeOf(""),
				},
			},
		},

		{
			name: "invalid column",
			entity: func() any {
				type TagTable struct {
					FirstName string `orm:"column"`
				}
				return &TagTable{}
			}(),
			wantErr: errs.NewErrInvalidTagContent("column"),
		},
	}

	r := NewRegistry()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m, err := r.Get(c.entity)
			assert.Equal(t, c.wantErr, err)
			if err != nil {
				return
			}

			fillModel(c.wantModel, c.fields)

			assert.Equal(t, c.wantModel, m)
			typ := reflect.TypeOf(c.entity)
			m, ok := r.(*registry).models[typ]
			assert.True(t, ok)

			assert.Equal(t, c.wantModel, m)
		})
	}
}

type EmptyTableName struct {
	FirstName string
}

func (e EmptyTableName) TableName() string {
	return ""
}

type CustomTableName struct {
	FirstName string
}

func (c CustomTableName) TableName() string {
	return "custom_table_name_t"
}

type CustomTableNamePtr struct {
	FirstName string
}

func (c *CustomTableNamePtr) TableName() string {
	return "custom_table_name_ptr_t"
}

type TestModel struct {
	ID        int64
	FirstName string
	Age       int8
	LastName  *sql.NullString
}

func fillModel(m *Model, fields []*Field) {
	m.Fields = fields
	m.FieldMap = make(map[string]*Field, len(fields))
	m.ColumnMap = make(map[string]*Field, len(fields))
	for _, field := range fields {
		m.FieldMap[field.GoName] = field
		m.ColumnMap[field.ColName] = field
	}
}

func TestModel_FieldByColumn(t *testing.T) {
	m, err := NewRegistry().Get(&TestModel{})
	assert.NoError(t, err)

	cases := []struct {
		name   string
		col    string
		wantGo string
		wantOK bool
	}{
		{name: "exact", col: "first_name", wantGo: "FirstName", wantOK: true},
		{name: "upper case column", col: "ID", wantGo: "ID", wantOK: true},
		{name: "go name", col: "LastName", wantGo: "LastName", wantOK: true},
		{name: "unknown", col: "nickname"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			fd, ok := m.FieldByColumn(c.col)
			assert.Equal(t, c.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, c.wantGo, fd.GoName)
		})
	}
}

func TestRegistry_SkipColumn(t *testing.T) {
	type SkipTable struct {
		ID       int64
		Password string `orm:"column=-"`
		internal int
	}
	m, err := NewRegistry().Get(&SkipTable{})
	assert.NoError(t, err)
	assert.Len(t, m.Fields, 1)
	assert.Equal(t, "id", m.Fields[0].ColName)
}

func Test_UnderscoreName(t *testing.T) {
	cases := map[string]string{
		"ID":        "id",
		"Id":        "id",
		"FirstName": "first_name",
		"UserID":    "user_id",
		"HTTPCode":  "http_code",
		"email":     "email",
	}
	for in, want := range cases {
		assert.Equal(t, want, UnderscoreName(in), in)
	}
}
