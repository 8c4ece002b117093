package orm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hzl091/dapper-rainbow-mysql/orm/internal/test"
	"github.com/hzl091/dapper-rainbow-mysql/orm/types"
)

const createPosts = `
CREATE TABLE IF NOT EXISTS posts(
	Id INTEGER PRIMARY KEY AUTOINCREMENT,
	OwnerId INTEGER NOT NULL,
	Title TEXT NOT NULL,
	Meta TEXT
)`

func usersTable(t *testing.T, opts ...DBOption) (*DB, *Table[test.User, int64]) {
	db := memoryDB(t, opts...)
	_, err := Execute(context.Background(), db, createUsers, nil)
	require.NoError(t, err)
	users, err := TableFor[test.User, int64](db)
	require.NoError(t, err)
	return db, users
}

func TestTable_SQLite(t *testing.T) {
	testCases := []struct {
		name string
		opts []DBOption
	}{
		{name: "unsafe"},
		{name: "reflect", opts: []DBOption{DBUseReflect()}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, users := usersTable(t, tc.opts...)
			ctx := context.Background()

			id, err := users.Insert(ctx, Params{P("Name", "A"), P("Email", "a@x.com")})
			require.NoError(t, err)
			assert.Equal(t, int64(1), id)

			u, err := users.Get(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, &test.User{Id: 1, Name: "A", Email: "a@x.com"}, u)

			n, err := users.Update(ctx, id, Params{P("Email", "b@x.com")})
			require.NoError(t, err)
			assert.Equal(t, int64(1), n)

			u, err = users.Get(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, "b@x.com", u.Email)

			// 没有匹配的行不是错误
			n, err = users.Update(ctx, 100, Params{P("Email", "c@x.com")})
			require.NoError(t, err)
			assert.Equal(t, int64(0), n)

			ok, err := users.Delete(ctx, id)
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = users.Delete(ctx, id)
			require.NoError(t, err)
			assert.False(t, ok)

			u, err = users.Get(ctx, id)
			require.NoError(t, err)
			assert.Nil(t, u)
		})
	}
}

func TestTable_SQLite_InsertOrUpdate(t *testing.T) {
	_, users := usersTable(t)
	ctx := context.Background()

	id, err := users.InsertOrUpdate(ctx, 5, Params{P("Name", "A"), P("Email", "a@x.com")})
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)

	// 同样的数据再来一次, 行数不变, 主键不变
	id, err = users.InsertOrUpdate(ctx, 5, Params{P("Name", "A"), P("Email", "a@x.com")})
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)

	id, err = users.InsertOrUpdate(ctx, 5, Params{P("Name", "B"), P("Email", "a@x.com")})
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)

	// 按唯一列冲突, 返回的是已存在那一行的主键
	id, err = users.InsertOrUpdateWhere(ctx, Params{P("Email", "a@x.com")}, Params{P("Name", "C")})
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)

	all, err := users.All(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []*test.User{{Id: 5, Name: "C", Email: "a@x.com"}}, all)
}

func TestTable_SQLite_Query(t *testing.T) {
	_, users := usersTable(t)
	ctx := context.Background()

	for _, u := range []*test.User{
		{Name: "A", Email: "a@x.com"},
		{Name: "B", Email: "b@x.com"},
		{Name: "A", Email: "c@x.com"},
	} {
		_, err := users.Insert(ctx, Entity(u))
		require.NoError(t, err)
	}

	first, err := users.First(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, &test.User{Id: 1, Name: "A", Email: "a@x.com"}, first)

	first, err = users.First(ctx, Params{P("Name", "B")})
	require.NoError(t, err)
	assert.Equal(t, &test.User{Id: 2, Name: "B", Email: "b@x.com"}, first)

	first, err = users.First(ctx, Map{"Name": "D"})
	require.NoError(t, err)
	assert.Nil(t, first)

	all, err := users.All(ctx, Map{"Name": "A"})
	require.NoError(t, err)
	assert.Equal(t, []*test.User{
		{Id: 1, Name: "A", Email: "a@x.com"},
		{Id: 3, Name: "A", Email: "c@x.com"},
	}, all)

	all, err = users.All(ctx, Params{P("Name", "A"), P("Email", "c@x.com")})
	require.NoError(t, err)
	assert.Len(t, all, 1)

	all, err = users.All(ctx, Params{P("Name", "D")})
	require.NoError(t, err)
	assert.Empty(t, all)

	// 每次都重新查询
	_, err = users.Insert(ctx, Params{P("Name", "D"), P("Email", "d@x.com")})
	require.NoError(t, err)
	all, err = users.All(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	n, err := users.UpdateWhere(ctx, Params{P("Name", "A")}, Params{P("Name", "E")})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestTable_SQLite_NarrowRow(t *testing.T) {
	type userName struct {
		Id   int64
		Name string
	}
	db, users := usersTable(t)
	ctx := context.Background()
	id, err := users.Insert(ctx, Params{P("Name", "A"), P("Email", "a@x.com")})
	require.NoError(t, err)

	// 表里的 Email 列在结构体里没有, SELECT * 的时候忽略
	names := NewTable[userName, int64](db, "users")
	u, err := names.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, &userName{Id: id, Name: "A"}, u)

	all, err := names.All(ctx, Params{P("Name", "A")})
	require.NoError(t, err)
	assert.Equal(t, []*userName{{Id: id, Name: "A"}}, all)
}

func TestTable_SQLite_JSONColumn(t *testing.T) {
	db := memoryDB(t)
	ctx := context.Background()
	_, err := Execute(ctx, db, createPosts, nil)
	require.NoError(t, err)
	posts, err := TableFor[test.Post, int64](db)
	require.NoError(t, err)

	meta := types.NewJSONColumn(test.PostMeta{Tags: []string{"go", "sql"}})
	id, err := posts.Insert(ctx, Params{P("OwnerId", 1), P("Title", "hello"), P("Meta", meta)})
	require.NoError(t, err)
	_, err = posts.Insert(ctx, Params{P("OwnerId", 1), P("Title", "empty")})
	require.NoError(t, err)

	p, err := posts.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, &test.Post{Id: id, OwnerId: 1, Title: "hello", Meta: meta}, p)

	p, err = posts.First(ctx, Params{P("Title", "empty")})
	require.NoError(t, err)
	assert.False(t, p.Meta.Valid)
}

func TestTable_SQLite_Tx(t *testing.T) {
	db, users := usersTable(t)
	ctx := context.Background()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	txUsers := users.Session(tx)
	assert.Equal(t, users.Name(), txUsers.Name())
	_, err = txUsers.Insert(ctx, Params{P("Name", "A"), P("Email", "a@x.com")})
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, tx.RollbackIfNotCommit())

	all, err := users.All(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}
