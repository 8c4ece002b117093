// ormgen 为源文件里面的结构体生成列名常量和参数构造函数
//
//	ormgen ./model/user.go
//
// 会在同目录下生成 user.gen.go
package main

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/hzl091/dapper-rainbow-mysql/orm/gen"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if len(os.Args) < 2 {
		logger.Fatal("用法: ormgen <src.go>...")
	}
	for _, src := range os.Args[1:] {
		dst := genFileName(src)
		if err := genFile(src, dst); err != nil {
			logger.Fatal("生成失败", zap.String("src", src), zap.Error(err))
		}
		logger.Info("生成成功", zap.String("src", src), zap.String("dst", dst))
	}
}

// genFileName user.go => user.gen.go
func genFileName(src string) string {
	dir := filepath.Dir(src)
	fileName := filepath.Base(src)
	idx := strings.LastIndexByte(fileName, '.')
	if idx < 0 {
		idx = len(fileName)
	}
	return filepath.Join(dir, fileName[:idx]+".gen.go")
}

func genFile(src, dst string) (err error) {
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return gen.Gen(f, src)
}
