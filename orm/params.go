package orm

import (
	"reflect"
	"sort"
	"strings"
	"unicode"

	"github.com/samber/lo"

	"github.com/hzl091/dapper-rainbow-mysql/orm/internal/errs"
)

// Arguments 代表一组具名参数, 每个参数名同时也是列名
// 可以是 Params, Map 或者 Entity
type Arguments interface {
	params(c core) (Params, error)
}

var (
	_ Arguments = Params{}
	_ Arguments = Map{}
	_ Arguments = entity{}
)

type Param struct {
	Name  string
	Value any
}

// P 创建一个参数
func P(name string, val any) Param {
	return Param{Name: name, Value: val}
}

// Params 有序的 列名 => 参数值
// 生成的 SQL 里面列的顺序和 Params 的顺序一致
type Params []Param

func (p Params) params(c core) (Params, error) {
	return p, p.validate()
}

func (p Params) Names() []string {
	return lo.Map(p, func(item Param, _ int) string {
		return item.Name
	})
}

// Get 按参数名查找参数值
func (p Params) Get(name string) (any, bool) {
	param, ok := lo.Find(p, func(item Param) bool {
		return item.Name == name
	})
	return param.Value, ok
}

// Without 去掉指定的列, 忽略大小写
func (p Params) Without(name string) Params {
	return lo.Reject(p, func(item Param, _ int) bool {
		return strings.EqualFold(item.Name, name)
	})
}

// Map 转换成 sqlx 绑定具名参数需要的 map
func (p Params) Map() map[string]any {
	return lo.Associate(p, func(item Param) (string, any) {
		return item.Name, item.Value
	})
}

func (p Params) validate() error {
	for idx, item := range p {
		if item.Name == "" {
			return errs.NewErrEmptyParamName(idx)
		}
		if !validName(item.Name) {
			return errs.NewErrInvalidParamName(item.Name)
		}
	}
	if dup := lo.FindDuplicates(p.Names()); len(dup) > 0 {
		return errs.NewErrDuplicateParam(dup[0])
	}
	return nil
}

// validName 参数名同时用作占位符, 只能包含 sqlx 能识别的字符
func validName(name string) bool {
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}

// Map 松散的参数集合, 按参数名排序后生成 SQL
type Map map[string]any

func (m Map) params(c core) (Params, error) {
	names := lo.Keys(m)
	sort.Strings(names)
	p := make(Params, 0, len(names))
	for _, name := range names {
		p = append(p, Param{Name: name, Value: m[name]})
	}
	return p, p.validate()
}

type entity struct {
	val any
}

// Entity 把结构体指针的字段当成参数, 列名来自元数据
// 字段按照结构体声明的顺序排列
func Entity(val any) Arguments {
	return entity{val: val}
}

func (e entity) params(c core) (Params, error) {
	if e.val == nil {
		return nil, errs.ErrNilArgument
	}
	if rv := reflect.ValueOf(e.val); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil, errs.ErrNilArgument
	}
	m, err := c.r.Get(e.val)
	if err != nil {
		return nil, err
	}
	val := c.creator(m, e.val)
	p := make(Params, 0, len(m.Fields))
	for _, fd := range m.Fields {
		v, err := val.Field(fd.GoName)
		if err != nil {
			return nil, err
		}
		p = append(p, Param{Name: fd.ColName, Value: v})
	}
	return p, p.validate()
}

// resolve 允许 args 为 nil, 代表没有参数
func resolve(c core, args Arguments) (Params, error) {
	if args == nil {
		return nil, nil
	}
	return args.params(c)
}

// resolveRequired 至少要有一个参数
func resolveRequired(c core, args Arguments) (Params, error) {
	p, err := resolve(c, args)
	if err != nil {
		return nil, err
	}
	if len(p) == 0 {
		return nil, errs.ErrEmptyParams
	}
	return p, nil
}
