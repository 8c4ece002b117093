package orm

import (
	"context"
	"reflect"
	"strings"

	"github.com/hzl091/dapper-rainbow-mysql/orm/internal/errs"
	"github.com/hzl091/dapper-rainbow-mysql/orm/model"
)

// DefaultSplitOn 多表映射时默认按 Id 列切分
const DefaultSplitOn = "Id"

// QueryMap2 把每一行切分成两段, 分别映射到 A 和 B, 再由 fn 组合成结果
// splitOn 是每一段起始的列名, 多个切分列用逗号隔开, 为空的时候使用 Id
// 切分列从左往右查找, 第 i 段从第 i-1 段之后第一个匹配的列开始
// 除第一段外, 切分列为 NULL 的段 (例如 LEFT JOIN 没有匹配) 传给 fn 的是 nil
//
//	SELECT p.*, u.* FROM post p JOIN user u ON u.Id = p.OwnerId
func QueryMap2[A, B, R any](ctx context.Context, sess Session, query string, args Arguments,
	splitOn string, fn func(*A, *B) R) ([]R, error) {
	return queryMap(ctx, sess, query, args, splitOn,
		func() []any { return []any{new(A), new(B)} },
		func(vals []any) R {
			return fn(vals[0].(*A), vals[1].(*B))
		})
}

func QueryMap3[A, B, C, R any](ctx context.Context, sess Session, query string, args Arguments,
	splitOn string, fn func(*A, *B, *C) R) ([]R, error) {
	return queryMap(ctx, sess, query, args, splitOn,
		func() []any { return []any{new(A), new(B), new(C)} },
		func(vals []any) R {
			return fn(vals[0].(*A), vals[1].(*B), vals[2].(*C))
		})
}

func QueryMap4[A, B, C, D, R any](ctx context.Context, sess Session, query string, args Arguments,
	splitOn string, fn func(*A, *B, *C, *D) R) ([]R, error) {
	return queryMap(ctx, sess, query, args, splitOn,
		func() []any { return []any{new(A), new(B), new(C), new(D)} },
		func(vals []any) R {
			return fn(vals[0].(*A), vals[1].(*B), vals[2].(*C), vals[3].(*D))
		})
}

func QueryMap5[A, B, C, D, E, R any](ctx context.Context, sess Session, query string, args Arguments,
	splitOn string, fn func(*A, *B, *C, *D, *E) R) ([]R, error) {
	return queryMap(ctx, sess, query, args, splitOn,
		func() []any { return []any{new(A), new(B), new(C), new(D), new(E)} },
		func(vals []any) R {
			return fn(vals[0].(*A), vals[1].(*B), vals[2].(*C), vals[3].(*D), vals[4].(*E))
		})
}

func queryMap[R any](ctx context.Context, sess Session, query string, args Arguments, splitOn string,
	newEntities func() []any, combine func(vals []any) R) ([]R, error) {
	qc, err := rawQueryContext(sess, query, args)
	if err != nil {
		return nil, err
	}
	c := sess.getCore()
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	res := c.chain(func(ctx context.Context, qc *QueryContext) *QueryResult {
		// 元数据只需要解析一次
		entities := newEntities()
		models := make([]*model.Model, 0, len(entities))
		for _, e := range entities {
			m, err := c.r.Get(e)
			if err != nil {
				return &QueryResult{Err: err}
			}
			models = append(models, m)
		}

		q, err := qc.Builder.Build()
		if err != nil {
			return &QueryResult{Err: err}
		}
		rows, err := sess.queryContext(ctx, q.SQL, q.Args...)
		if err != nil {
			return &QueryResult{Err: err}
		}
		defer rows.Close()

		columns, err := rows.Columns()
		if err != nil {
			return &QueryResult{Err: err}
		}
		bounds, err := splitColumns(columns, splitOn, len(entities))
		if err != nil {
			return &QueryResult{Err: err}
		}

		var list []R
		for rows.Next() {
			entities := newEntities()
			fields := make([][]any, len(entities))
			dests := make([]any, 0, len(columns))
			for i, e := range entities {
				fields[i] = c.creator(models[i], e).Pointers(columns[bounds[i]:bounds[i+1]])
				if i == 0 {
					dests = append(dests, fields[i]...)
					continue
				}
				// 后面的段可能来自 LEFT JOIN, 先扫描到可以为 nil 的指针上
				for _, fd := range fields[i] {
					dests = append(dests, reflect.New(reflect.TypeOf(fd)).Interface())
				}
			}
			if err := rows.Scan(dests...); err != nil {
				return &QueryResult{Err: err}
			}
			for i := 1; i < len(entities); i++ {
				entities[i] = fillSegment(entities[i], fields[i], dests[bounds[i]:bounds[i+1]])
			}
			list = append(list, combine(entities))
		}
		return &QueryResult{Result: list, Err: rows.Err()}
	})(ctx, qc)
	if res.Err != nil {
		return nil, res.Err
	}
	list, _ := res.Result.([]R)
	return list, nil
}

// fillSegment 把扫描结果写回字段
// 切分列是 NULL 的时候这一段没有数据, 返回同类型的 nil 指针
func fillSegment(entity any, fields []any, holders []any) any {
	if reflect.ValueOf(holders[0]).Elem().IsNil() {
		return reflect.Zero(reflect.TypeOf(entity)).Interface()
	}
	for i, h := range holders {
		hv := reflect.ValueOf(h).Elem()
		// NULL 的列保持零值
		if hv.IsNil() {
			continue
		}
		reflect.ValueOf(fields[i]).Elem().Set(hv.Elem())
	}
	return entity
}

// splitColumns 返回 n+1 个下标, 第 i 段是 columns[bounds[i]:bounds[i+1]]
// 从左往右找, 每一段从 splitOn 指定的列开始, 第一段总是从第 0 列开始
func splitColumns(columns []string, splitOn string, n int) ([]int, error) {
	if splitOn == "" {
		splitOn = DefaultSplitOn
	}
	keys := strings.Split(splitOn, ",")
	for i := range keys {
		keys[i] = strings.TrimSpace(keys[i])
	}

	bounds := make([]int, 0, n+1)
	bounds = append(bounds, 0)
	idx := 1
	for seg := 1; seg < n; seg++ {
		key := keys[0]
		if len(keys) > 1 {
			if seg-1 >= len(keys) {
				return nil, errs.NewErrInvalidSplitOn(splitOn, n, len(keys)+1)
			}
			key = keys[seg-1]
		}
		for ; idx < len(columns); idx++ {
			if strings.EqualFold(columns[idx], key) {
				break
			}
		}
		if idx >= len(columns) {
			return nil, errs.NewErrInvalidSplitOn(splitOn, n, len(bounds))
		}
		bounds = append(bounds, idx)
		idx++
	}
	bounds = append(bounds, len(columns))
	return bounds, nil
}
