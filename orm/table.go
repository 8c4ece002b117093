package orm

import (
	"context"
	"database/sql"

	"github.com/samber/lo"

	"github.com/hzl091/dapper-rainbow-mysql/orm/internal/errs"
)

// DefaultKey 默认的主键列名
const DefaultKey = "Id"

// whereNamePrefix WHERE 里面的参数和 SET 里面的参数重名的时候, 给 WHERE 的占位符加上前缀
const whereNamePrefix = "where_"

var (
	_ Querier[any, int64] = &Table[any, int64]{}
	_ Executor[int64]     = &Table[any, int64]{}
)

type tableConfig struct {
	key string
}

type TableOption func(cfg *tableConfig)

// TableWithKey 指定主键列名, 默认是 Id
func TableWithKey(key string) TableOption {
	return func(cfg *tableConfig) {
		cfg.key = key
	}
}

// Table 绑定一张表, T 是行的类型, TId 是主键的类型
// Table 不持有任何可变状态, 可以在多个 goroutine 里面共用
type Table[T any, TId any] struct {
	sess Session
	core core
	name string
	key  string
}

func NewTable[T any, TId any](sess Session, name string, opts ...TableOption) *Table[T, TId] {
	cfg := &tableConfig{key: DefaultKey}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Table[T, TId]{
		sess: sess,
		core: sess.getCore(),
		name: name,
		key:  cfg.key,
	}
}

// TableFor 表名取自 T 的元数据
// T 实现了 model.TableName 的时候使用它的返回值, 否则是结构体名的下划线形式
func TableFor[T any, TId any](sess Session, opts ...TableOption) (*Table[T, TId], error) {
	m, err := sess.getCore().r.Get(new(T))
	if err != nil {
		return nil, err
	}
	return NewTable[T, TId](sess, m.TableName, opts...), nil
}

func (t *Table[T, TId]) Name() string {
	return t.name
}

func (t *Table[T, TId]) Key() string {
	return t.key
}

// Session 返回绑定到另外一个 Session 的副本, 一般用于事务
func (t *Table[T, TId]) Session(sess Session) *Table[T, TId] {
	return &Table[T, TId]{
		sess: sess,
		core: sess.getCore(),
		name: t.name,
		key:  t.key,
	}
}

func (t *Table[T, TId]) newBuilder() *builder {
	return newBuilder(t.core.dialect)
}

func (t *Table[T, TId]) queryContext(typ string, named string, params Params) *QueryContext {
	return &QueryContext{
		Type:      typ,
		TableName: t.name,
		Builder:   newStatement(t.core, named, params),
	}
}

// Insert 插入一行, data 里面的主键列会被忽略, 返回新行的主键
func (t *Table[T, TId]) Insert(ctx context.Context, data Arguments) (int64, error) {
	params, err := resolveRequired(t.core, data)
	if err != nil {
		return 0, err
	}
	params = params.Without(t.key)
	if len(params) == 0 {
		return 0, errs.ErrEmptyParams
	}

	names := params.Names()
	b := t.newBuilder()
	b.sb.WriteString("INSERT INTO ")
	b.quote(t.name)
	b.sb.WriteString(" (")
	b.columns(names)
	b.sb.WriteString(") VALUES (")
	b.placeholders(names)
	b.sb.WriteByte(')')
	return t.insert(ctx, b, params)
}

// insert 根据方言决定通过 RETURNING 还是 LastInsertId 拿到主键
func (t *Table[T, TId]) insert(ctx context.Context, b *builder, params Params) (int64, error) {
	if t.core.dialect.returning() {
		b.sb.WriteString(" RETURNING ")
		b.quote(t.key)
		b.sb.WriteByte(';')
		res := queryID(ctx, t.sess, t.queryContext("INSERT", b.String(), params))
		if res.Err != nil {
			return 0, res.Err
		}
		id, _ := res.Result.(int64)
		return id, nil
	}

	b.sb.WriteByte(';')
	res := exec(ctx, t.sess, t.queryContext("INSERT", b.String(), params))
	if res.Err != nil {
		return 0, res.Err
	}
	sqlRes, ok := res.Result.(sql.Result)
	if !ok {
		return 0, nil
	}
	return sqlRes.LastInsertId()
}

// Update 按主键更新, 等价于 UpdateWhere(Params{{Key, id}}, data)
func (t *Table[T, TId]) Update(ctx context.Context, id TId, data Arguments) (int64, error) {
	return t.UpdateWhere(ctx, t.keyParams(id), data)
}

// UpdateWhere 返回受影响的行数, 没有匹配的行不算错误
func (t *Table[T, TId]) UpdateWhere(ctx context.Context, where Arguments, data Arguments) (int64, error) {
	set, err := resolveRequired(t.core, data)
	if err != nil {
		return 0, err
	}
	cond, err := resolveRequired(t.core, where)
	if err != nil {
		return 0, err
	}

	cols := set.Names()
	b := t.newBuilder()
	b.sb.WriteString("UPDATE ")
	b.quote(t.name)
	b.sb.WriteString(" SET ")
	b.assignments(cols)

	// WHERE 的参数和 SET 的参数重名的时候要分开绑定
	params := append(Params{}, set...)
	whereCols := cond.Names()
	whereNames := make([]string, 0, len(cond))
	for _, p := range cond {
		name := p.Name
		if lo.Contains(cols, name) {
			name = whereNamePrefix + name
		}
		whereNames = append(whereNames, name)
		params = append(params, Param{Name: name, Value: p.Value})
	}
	if err := params.validate(); err != nil {
		return 0, err
	}
	b.where(whereCols, whereNames)
	b.sb.WriteByte(';')

	res := exec(ctx, t.sess, t.queryContext("UPDATE", b.String(), params))
	return rowsAffected(res)
}

// InsertOrUpdate 按主键 upsert, 等价于 InsertOrUpdateWhere(Params{{Key, id}}, data)
func (t *Table[T, TId]) InsertOrUpdate(ctx context.Context, id TId, data Arguments) (int64, error) {
	return t.InsertOrUpdateWhere(ctx, t.keyParams(id), data)
}

// InsertOrUpdateWhere 插入一行, key 冲突的时候更新 data 里面的列, 返回这一行的主键
// 只适用于自增主键: MySQL 依赖 LAST_INSERT_ID(key) 的写法取回已存在的主键,
// SQLite 和 PostgreSQL 依赖 ON CONFLICT ... RETURNING
func (t *Table[T, TId]) InsertOrUpdateWhere(ctx context.Context, key Arguments, data Arguments) (int64, error) {
	keyParams, err := resolveRequired(t.core, key)
	if err != nil {
		return 0, err
	}
	if len(keyParams) != 1 {
		return 0, errs.ErrUpsertKey
	}
	k := keyParams[0]

	set, err := resolveRequired(t.core, data)
	if err != nil {
		return 0, err
	}
	set = set.Without(k.Name)
	if len(set) == 0 {
		return 0, errs.ErrEmptyParams
	}

	cols := set.Names()
	names := append(append([]string{}, cols...), k.Name)
	params := append(append(Params{}, set...), k)

	b := t.newBuilder()
	b.sb.WriteString("INSERT INTO ")
	b.quote(t.name)
	b.sb.WriteString(" (")
	b.columns(names)
	b.sb.WriteString(") VALUES (")
	b.placeholders(names)
	b.sb.WriteByte(')')
	t.core.dialect.buildUpsert(b, k.Name, cols)

	// upsert 的键不一定是主键列, 返回的总是主键
	return t.insert(ctx, b, params)
}

// Delete 至少删除了一行的时候返回 true
func (t *Table[T, TId]) Delete(ctx context.Context, id TId) (bool, error) {
	b := t.newBuilder()
	b.sb.WriteString("DELETE FROM ")
	b.quote(t.name)
	b.where([]string{t.key}, []string{t.key})
	b.sb.WriteByte(';')

	res := exec(ctx, t.sess, t.queryContext("DELETE", b.String(), t.keyParams(id)))
	affected, err := rowsAffected(res)
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Get 按主键查询, 找不到的时候返回 nil, nil
func (t *Table[T, TId]) Get(ctx context.Context, id TId) (*T, error) {
	return t.First(ctx, t.keyParams(id))
}

// First 返回第一条满足条件的行, where 为 nil 的时候不加条件
// 找不到的时候返回 nil, nil
func (t *Table[T, TId]) First(ctx context.Context, where Arguments) (*T, error) {
	cond, err := resolve(t.core, where)
	if err != nil {
		return nil, err
	}
	b := t.selectFrom(cond)
	b.sb.WriteString(" LIMIT 1;")

	res, err := t.query(ctx, b.String(), cond, 1)
	if err != nil || len(res) == 0 {
		return nil, err
	}
	return res[0], nil
}

// All 返回所有满足条件的行, where 为 nil 的时候返回整张表
// 每次调用都会重新查询
func (t *Table[T, TId]) All(ctx context.Context, where Arguments) ([]*T, error) {
	cond, err := resolve(t.core, where)
	if err != nil {
		return nil, err
	}
	b := t.selectFrom(cond)
	b.sb.WriteByte(';')
	return t.query(ctx, b.String(), cond, 0)
}

func (t *Table[T, TId]) selectFrom(cond Params) *builder {
	b := t.newBuilder()
	b.sb.WriteString("SELECT * FROM ")
	b.quote(t.name)
	names := cond.Names()
	b.where(names, names)
	return b
}

func (t *Table[T, TId]) query(ctx context.Context, named string, params Params, limit int) ([]*T, error) {
	res := querySlice[T](ctx, t.sess, t.queryContext("SELECT", named, params), limit)
	if res.Err != nil {
		return nil, res.Err
	}
	rows, _ := res.Result.([]*T)
	return rows, nil
}

func (t *Table[T, TId]) keyParams(id TId) Params {
	return Params{{Name: t.key, Value: id}}
}

func rowsAffected(res *QueryResult) (int64, error) {
	if res.Err != nil {
		return 0, res.Err
	}
	sqlRes, ok := res.Result.(sql.Result)
	if !ok {
		return 0, nil
	}
	return sqlRes.RowsAffected()
}
