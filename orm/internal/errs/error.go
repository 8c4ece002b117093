package errs

import (
	"errors"
	"fmt"
)

var (
	ErrPointerOnly = errors.New("orm: 只支持指向结构体的一级指针")
	ErrEmptyParams = errors.New("orm: 参数列表为空")
	// ErrUpsertKey upsert 的键必须有且只有一个字段
	ErrUpsertKey   = errors.New("orm: upsert 的键必须只包含一个字段")
	ErrNilArgument = errors.New("orm: 参数不能为 nil")
	// ErrNoMoreResultSets GridReader 中所有的结果集都已经读完
	ErrNoMoreResultSets = errors.New("orm: 没有更多的结果集")
)

func NewErrDuplicateParam(name string) error {
	return fmt.Errorf("orm: 重复的参数 %s", name)
}

func NewErrEmptyParamName(idx int) error {
	return fmt.Errorf("orm: 第 %d 个参数名为空", idx)
}

func NewErrInvalidParamName(name string) error {
	return fmt.Errorf("orm: 非法的参数名 %q", name)
}

func NewErrMissingParam(name string) error {
	return fmt.Errorf("orm: 缺少参数 %s", name)
}

func NewErrUnknownField(name string) error {
	return fmt.Errorf("orm: 未知字段 %s", name)
}

func NewErrInvalidTagContent(pair string) error {
	return fmt.Errorf("orm: 非法标签值 %s", pair)
}

func NewErrInvalidSplitOn(splitOn string, want, got int) error {
	return fmt.Errorf("orm: 按列 %s 切分结果集, 期望 %d 段, 实际 %d 段", splitOn, want, got)
}

// NewErrFailedToRollbackTx 在事务回滚的场景下包装业务错误
func NewErrFailedToRollbackTx(bizErr error, rbErr error, panicked bool) error {
	if rbErr == nil {
		if panicked && bizErr == nil {
			return errors.New("orm: 事务执行过程中发生 panic, 已回滚")
		}
		return bizErr
	}
	return fmt.Errorf("orm: 事务回滚失败, 业务错误: %w, 回滚错误: %s, 是否 panic: %t",
		bizErr, rbErr.Error(), panicked)
}
