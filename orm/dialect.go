package orm

import (
	"github.com/jmoiron/sqlx"
)

var (
	DialectMySQL      Dialect = mysqlDialect{}
	DialectSQLite     Dialect = sqliteDialect{}
	DialectPostgreSQL Dialect = postgreDialect{}
)

type Dialect interface {
	// quoter 就是为了解决引号问题
	// MySQL 反引号 `
	// PostgreSQL 是双引号
	quoter() byte

	// bindType 占位符的风格, 取值为 sqlx.QUESTION, sqlx.DOLLAR 等
	bindType() int

	// returning 为 true 的时候, INSERT 语句通过 RETURNING 取回主键
	// 否则使用 sql.Result.LastInsertId
	returning() bool

	// buildUpsert 在 INSERT 语句后面拼接冲突处理的部分
	// key 是冲突的列, cols 是需要更新的列
	buildUpsert(b *builder, key string, cols []string)
}

// dialectOf 根据驱动名推断方言, 未知的驱动按 MySQL 处理
func dialectOf(driver string) Dialect {
	switch driver {
	case "sqlite3", "sqlite":
		return DialectSQLite
	case "postgres", "pgx":
		return DialectPostgreSQL
	default:
		return DialectMySQL
	}
}

type mysqlDialect struct{}

func (d mysqlDialect) quoter() byte {
	return '`'
}

func (d mysqlDialect) bindType() int {
	return sqlx.QUESTION
}

func (d mysqlDialect) returning() bool {
	return false
}

// buildUpsert 主键冲突的时候把主键更新成它自己, 这样 LAST_INSERT_ID 就是已存在的那一行
// 这个写法依赖 MySQL 的行为, 只适用于自增主键
func (d mysqlDialect) buildUpsert(b *builder, key string, cols []string) {
	b.sb.WriteString(" ON DUPLICATE KEY UPDATE ")
	b.quote(key)
	b.sb.WriteString("=LAST_INSERT_ID(")
	b.quote(key)
	b.sb.WriteByte(')')
	for _, col := range cols {
		b.sb.WriteByte(',')
		b.assign(col, col)
	}
}

// onConflict 是 SQLite 和 PostgreSQL 共用的 upsert 写法
type onConflict struct{}

func (onConflict) returning() bool {
	return true
}

func (onConflict) buildUpsert(b *builder, key string, cols []string) {
	b.sb.WriteString(" ON CONFLICT(")
	b.quote(key)
	b.sb.WriteString(") DO UPDATE SET ")
	for idx, col := range cols {
		if idx > 0 {
			b.sb.WriteByte(',')
		}
		b.quote(col)
		b.sb.WriteString("=excluded.")
		b.quote(col)
	}
}

type sqliteDialect struct {
	onConflict
}

func (d sqliteDialect) quoter() byte {
	return '`'
}

func (d sqliteDialect) bindType() int {
	return sqlx.QUESTION
}

type postgreDialect struct {
	onConflict
}

func (d postgreDialect) quoter() byte {
	return '"'
}

func (d postgreDialect) bindType() int {
	return sqlx.DOLLAR
}
