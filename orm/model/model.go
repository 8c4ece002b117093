package model

import (
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/hzl091/dapper-rainbow-mysql/orm/internal/errs"
)

const (
	tagName      = "orm"
	tagKeyColumn = "column"
)

// TableName 用户可以实现这个接口来自定义表名
type TableName interface {
	TableName() string
}

type Model struct {
	TableName string

	// Fields 按结构体声明顺序排列, 用于生成稳定的 SQL
	Fields []*Field

	// FieldMap Go 字段名 => 字段
	FieldMap map[string]*Field
	// ColumnMap 列名 => 字段
	ColumnMap map[string]*Field
}

// FieldByColumn 先按列名精确匹配, 找不到再忽略大小写匹配
// MySQL 的列名是大小写不敏感的, 查询结果的列名不一定和结构体定义的一致
func (m *Model) FieldByColumn(col string) (*Field, bool) {
	if fd, ok := m.ColumnMap[col]; ok {
		return fd, true
	}
	for _, fd := range m.Fields {
		if strings.EqualFold(fd.ColName, col) || strings.EqualFold(fd.GoName, col) {
			return fd, true
		}
	}
	return nil, false
}

type Field struct {
	// 列名
	ColName string
	// Go 字段名
	GoName string
	Type   reflect.Type
	// 字段相对于结构体起始地址的偏移量
	Offset uintptr
}

type ModelOption func(m *Model) error

func ModelWithTableName(name string) ModelOption {
	return func(m *Model) error {
		m.TableName = name
		return nil
	}
}

func ModelWithColumnName(field string, colName string) ModelOption {
	return func(m *Model) error {
		fd, ok := m.FieldMap[field]
		if !ok {
			return errs.NewErrUnknownField(field)
		}
		delete(m.ColumnMap, fd.ColName)
		fd.ColName = colName
		m.ColumnMap[colName] = fd
		return nil
	}
}

type Registry interface {
	Get(val any) (*Model, error)
	Register(val any, opts ...ModelOption) (*Model, error)
}

// registry 代表元数据的注册中心
type registry struct {
	// 为什么要用reflect.Type作为key
	// 因为有同名结构体但表名不一样的需求
	// 如: buyer下的User 和 seller下的User
	models map[reflect.Type]*Model

	// 使用严格的读写锁, 采用double check的写法就没有线程覆盖的问题
	lock sync.RWMutex
}

func NewRegistry() Registry {
	return &registry{
		models: make(map[reflect.Type]*Model, 64),
	}
}

func (r *registry) Get(val any) (*Model, error) {
	typ := reflect.TypeOf(val)
	r.lock.RLock()
	m, ok := r.models[typ]
	r.lock.RUnlock()
	if ok {
		return m, nil
	}

	r.lock.Lock()
	defer r.lock.Unlock()
	// double check 写法, 保证不重复创建对象
	m, ok = r.models[typ]
	if ok {
		return m, nil
	}

	m, err := r.parseModel(val)
	if err != nil {
		return nil, err
	}
	r.models[typ] = m
	return m, nil
}

func (r *registry) Register(val any, opts ...ModelOption) (*Model, error) {
	m, err := r.parseModel(val)
	if err != nil {
		return nil, err
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	r.lock.Lock()
	r.models[reflect.TypeOf(val)] = m
	r.lock.Unlock()
	return m, nil
}

// 只支持输入指针类型的结构体
func (r *registry) parseModel(entity any) (*Model, error) {
	typ := reflect.TypeOf(entity)
	if typ == nil || typ.Kind() != reflect.Pointer || typ.Elem().Kind() != reflect.Struct {
		return nil, errs.ErrPointerOnly
	}
	elem := typ.Elem()
	numField := elem.NumField()
	fields := make([]*Field, 0, numField)
	fieldMap := make(map[string]*Field, numField)
	columnMap := make(map[string]*Field, numField)
	for i := 0; i < numField; i++ {
		fd := elem.Field(i)
		if !fd.IsExported() {
			continue
		}
		pair, err := r.parseTag(fd.Tag)
		if err != nil {
			return nil, err
		}
		colName := pair[tagKeyColumn]
		if colName == "-" {
			continue
		}
		if colName == "" {
			colName = UnderscoreName(fd.Name)
		}
		f := &Field{
			ColName: colName,
			GoName:  fd.Name,
			Type:    fd.Type,
			Offset:  fd.Offset,
		}
		fields = append(fields, f)
		fieldMap[fd.Name] = f
		columnMap[colName] = f
	}

	var tableName string
	// entity 可能是 nil 指针, 用新建的零值取表名
	if tn, ok := reflect.New(elem).Interface().(TableName); ok {
		tableName = tn.TableName()
	}
	if tableName == "" {
		tableName = UnderscoreName(elem.Name())
	}

	return &Model{
		TableName: tableName,
		Fields:    fields,
		FieldMap:  fieldMap,
		ColumnMap: columnMap,
	}, nil
}

func (r *registry) parseTag(tag reflect.StructTag) (map[string]string, error) {
	ormTag, ok := tag.Lookup(tagName)
	if !ok {
		return map[string]string{}, nil
	}
	pairs := strings.Split(ormTag, ",")
	tags := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		segs := strings.Split(pair, "=")
		if len(segs) != 2 {
			return nil, errs.NewErrInvalidTagContent(pair)
		}
		tags[segs[0]] = segs[1]
	}
	return tags, nil
}

// UnderscoreName 驼峰名字符串转下划线命名, 是默认的列名和表名规则
func UnderscoreName(name string) string {
	runes := []rune(name)
	var buf []rune
	for i, v := range runes {
		if unicode.IsUpper(v) {
			if i != 0 && (!unicode.IsUpper(runes[i-1]) ||
				(i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				buf = append(buf, '_')
			}
			buf = append(buf, unicode.ToLower(v))
		} else {
			buf = append(buf, v)
		}
	}
	return string(buf)
}
