package orm

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jmoiron/sqlx"

	"github.com/hzl091/dapper-rainbow-mysql/orm/internal/errs"
)

// builder 负责拼接具名 SQL, 列名加引号, 参数用 :name 占位
type builder struct {
	sb     strings.Builder
	quoter byte
}

func newBuilder(d Dialect) *builder {
	return &builder{quoter: d.quoter()}
}

func (b *builder) quote(name string) {
	b.sb.WriteByte(b.quoter)
	b.sb.WriteString(name)
	b.sb.WriteByte(b.quoter)
}

func (b *builder) placeholder(name string) {
	b.sb.WriteByte(':')
	b.sb.WriteString(name)
}

// columns 构造 `a`,`b`
func (b *builder) columns(cols []string) {
	for idx, col := range cols {
		if idx > 0 {
			b.sb.WriteByte(',')
		}
		b.quote(col)
	}
}

// placeholders 构造 :a,:b
func (b *builder) placeholders(names []string) {
	for idx, name := range names {
		if idx > 0 {
			b.sb.WriteByte(',')
		}
		b.placeholder(name)
	}
}

// assign 构造 `col`=:name
func (b *builder) assign(col, name string) {
	b.quote(col)
	b.sb.WriteByte('=')
	b.placeholder(name)
}

// assignments 构造 `a`=:a,`b`=:b
func (b *builder) assignments(cols []string) {
	for idx, col := range cols {
		if idx > 0 {
			b.sb.WriteByte(',')
		}
		b.assign(col, col)
	}
}

// where 构造 WHERE `a` = :a AND `b` = :b
// names 和 cols 一一对应, 列名和占位符不一定相同
func (b *builder) where(cols []string, names []string) {
	if len(cols) == 0 {
		return
	}
	b.sb.WriteString(" WHERE ")
	for idx, col := range cols {
		if idx > 0 {
			b.sb.WriteString(" AND ")
		}
		b.quote(col)
		b.sb.WriteString(" = ")
		b.placeholder(names[idx])
	}
}

func (b *builder) String() string {
	return b.sb.String()
}

// compiled 是编译之后的具名 SQL, names 是占位符按出现顺序对应的参数名
type compiled struct {
	query string
	names []string
}

// stmtCache 缓存具名 SQL 的编译结果, key 是具名 SQL
// Table 生成的 SQL 只和列名有关, 命中率很高
type stmtCache = lru.Cache[string, *compiled]

// compile 把参数名本身当作参数值交给 sqlx, 得到的 args 就是参数名的绑定顺序
func compile(named string, params Params, bindType int) (*compiled, error) {
	names := make(map[string]any, len(params))
	for _, p := range params {
		names[p.Name] = p.Name
	}
	q, args, err := sqlx.Named(named, names)
	if err != nil {
		return nil, err
	}
	res := &compiled{
		query: sqlx.Rebind(bindType, q),
		names: make([]string, 0, len(args)),
	}
	for _, arg := range args {
		res.names = append(res.names, arg.(string))
	}
	return res, nil
}

// statement 是一条具名 SQL 和它的参数
// Build 的时候交给 sqlx 把具名参数编译成方言对应的占位符
// 不管有没有参数都会经过编译, 所以 SQL 里的 :: 总是被还原成一个 :
type statement struct {
	named    string
	params   Params
	bindType int
	cache    *stmtCache

	query *Query
}

var _ QueryBuilder = &statement{}

func newStatement(c core, named string, params Params) *statement {
	return &statement{
		named:    named,
		params:   params,
		bindType: c.dialect.bindType(),
		cache:    c.stmts,
	}
}

func (s *statement) Build() (*Query, error) {
	if s.query != nil {
		return s.query, nil
	}
	cmp, ok := s.lookup()
	if !ok {
		var err error
		cmp, err = compile(s.named, s.params, s.bindType)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			s.cache.Add(s.named, cmp)
		}
	}

	// 没有参数的时候 Args 为 nil
	var args []any
	vals := s.params.Map()
	for _, name := range cmp.names {
		val, ok := vals[name]
		if !ok {
			return nil, errs.NewErrMissingParam(name)
		}
		args = append(args, val)
	}
	s.query = &Query{SQL: cmp.query, Args: args}
	return s.query, nil
}

func (s *statement) lookup() (*compiled, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.Get(s.named)
}
