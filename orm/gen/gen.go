// Package gen 为结构体生成列名常量和强类型的参数构造函数
// 这样列名和参数类型写错的时候在编译期就能发现
package gen

import (
	"bytes"
	_ "embed"
	"go/ast"
	"go/parser"
	"go/token"
	"io"
	"text/template"

	"golang.org/x/tools/imports"
)

//go:embed tpl.gohtml
var genOrm string

const ormPkg = `"github.com/hzl091/dapper-rainbow-mysql/orm"`

type Data struct {
	*File
	OrmImport string
}

// Gen 解析 srcFile, 生成的代码写入 w
func Gen(w io.Writer, srcFile string) error {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, srcFile, nil, parser.ParseComments)
	if err != nil {
		return err
	}
	v := &SingleFileVisitor{}
	ast.Walk(v, f)
	file, err := v.Get()
	if err != nil {
		return err
	}

	tpl, err := template.New("gen-orm").Parse(genOrm)
	if err != nil {
		return err
	}
	buf := &bytes.Buffer{}
	if err = tpl.Execute(buf, Data{File: file, OrmImport: ormPkg}); err != nil {
		return err
	}
	// 格式化, 顺便去掉源文件里面没用上的 import
	src, err := imports.Process(srcFile, buf.Bytes(), nil)
	if err != nil {
		return err
	}
	_, err = w.Write(src)
	return err
}
