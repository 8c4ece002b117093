package gen

import (
	"go/ast"
	"go/types"
	"reflect"
	"strconv"
	"strings"

	"github.com/hzl091/dapper-rainbow-mysql/orm/internal/errs"
	"github.com/hzl091/dapper-rainbow-mysql/orm/model"
)

type SingleFileVisitor struct {
	file *FileVisitor
}

func (spv *SingleFileVisitor) Get() (*File, error) {
	if spv.file == nil {
		return &File{}, nil
	}
	if spv.file.err != nil {
		return nil, spv.file.err
	}
	types := make([]Type, 0, len(spv.file.types))
	for _, typ := range spv.file.types {
		if typ.err != nil {
			return nil, typ.err
		}
		// 只有结构体才会生成代码
		if !typ.isStruct || len(typ.fields) == 0 {
			continue
		}
		types = append(types, Type{
			Name:   typ.name,
			Fields: typ.fields,
		})
	}
	return &File{
		Package: spv.file.Package,
		Imports: spv.file.Imports,
		Types:   types,
	}, nil
}

var _ ast.Visitor = &SingleFileVisitor{}

func (spv *SingleFileVisitor) Visit(node ast.Node) ast.Visitor {
	fn, ok := node.(*ast.File)
	if !ok {
		// 不是我们要的文件节点
		return spv
	}

	fv := &FileVisitor{
		// 用对象保存go文件包名
		Package: fn.Name.String(),
	}
	spv.file = fv
	return fv
}

type FileVisitor struct {
	Package string
	Imports []string
	types   []*TypeVisitor
	err     error
}

var _ ast.Visitor = &FileVisitor{}

func (fv *FileVisitor) Visit(node ast.Node) ast.Visitor {
	switch n := node.(type) {
	case *ast.TypeSpec:
		// 泛型结构体没办法生成确定类型的参数
		if n.TypeParams != nil {
			return nil
		}
		v := &TypeVisitor{name: n.Name.String()}
		fv.types = append(fv.types, v)
		return v
	case *ast.ImportSpec:
		path := n.Path.Value
		if n.Name != nil && n.Name.String() != "" {
			// 处理导入包有别名的情况, 如 a "import/bbb"
			path = n.Name.String() + " " + path
		}
		fv.Imports = append(fv.Imports, path)
	}

	return fv
}

type TypeVisitor struct {
	name     string
	isStruct bool
	fields   []Field
	err      error
}

var _ ast.Visitor = &TypeVisitor{}

func (tv *TypeVisitor) Visit(node ast.Node) ast.Visitor {
	switch n := node.(type) {
	case *ast.StructType:
		tv.isStruct = true
		tv.visitFields(n.Fields)
	}
	// 只看最外层的字段, 嵌套的结构体不展开
	return nil
}

func (tv *TypeVisitor) visitFields(list *ast.FieldList) {
	if list == nil {
		return
	}
	for _, n := range list.List {
		// 和 model 一样, 匿名字段不处理
		if len(n.Names) == 0 {
			continue
		}
		col, err := columnOf(n.Tag)
		if err != nil {
			tv.err = err
			return
		}
		if col == "-" {
			continue
		}
		typ := types.ExprString(n.Type)
		for _, name := range n.Names {
			if !name.IsExported() {
				continue
			}
			c := col
			if c == "" {
				c = model.UnderscoreName(name.String())
			}
			tv.fields = append(tv.fields, Field{
				Name:   name.String(),
				Type:   typ,
				Column: c,
			})
		}
	}
}

// columnOf 解析 orm:"column=xxx", 规则和 model 一致
func columnOf(tag *ast.BasicLit) (string, error) {
	if tag == nil {
		return "", nil
	}
	raw, err := strconv.Unquote(tag.Value)
	if err != nil {
		return "", err
	}
	ormTag, ok := reflect.StructTag(raw).Lookup("orm")
	if !ok {
		return "", nil
	}
	for _, pair := range strings.Split(ormTag, ",") {
		segs := strings.Split(pair, "=")
		if len(segs) != 2 {
			return "", errs.NewErrInvalidTagContent(pair)
		}
		if segs[0] == "column" {
			return segs[1], nil
		}
	}
	return "", nil
}

type File struct {
	Package string
	Imports []string
	Types   []Type
}

type Type struct {
	Name   string
	Fields []Field
}

type Field struct {
	// Name Go 字段名
	Name string
	// Type 字段类型的源码形式, 如 *sql.NullString
	Type string
	// Column 列名, 同时也是参数名
	Column string
}
