//go:build integration

package integration

import (
	"context"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/hzl091/dapper-rainbow-mysql/orm"
	"github.com/hzl091/dapper-rainbow-mysql/orm/middleware/querylog"
)

const createSimpleStruct = "CREATE TABLE IF NOT EXISTS `simple_struct`(" +
	"`id` BIGINT AUTO_INCREMENT PRIMARY KEY," +
	"`bool` BOOL," +
	"`int` INT," +
	"`int8` TINYINT," +
	"`int16` SMALLINT," +
	"`int32` INT," +
	"`int64` BIGINT," +
	"`uint` INT UNSIGNED," +
	"`uint8` TINYINT UNSIGNED," +
	"`uint16` SMALLINT UNSIGNED," +
	"`uint32` INT UNSIGNED," +
	"`uint64` BIGINT UNSIGNED," +
	"`float32` FLOAT," +
	"`float64` DOUBLE," +
	"`byte_array` BLOB," +
	"`string` VARCHAR(128)," +
	"`null_string_ptr` VARCHAR(128) NULL," +
	"`null_int64_ptr` BIGINT NULL," +
	"`null_bool_ptr` BOOL NULL," +
	"`null_float64_ptr` DOUBLE NULL," +
	"`json_column` JSON NULL" +
	")"

const createUsers = "CREATE TABLE IF NOT EXISTS `users`(" +
	"`Id` BIGINT AUTO_INCREMENT PRIMARY KEY," +
	"`Name` VARCHAR(64) NOT NULL," +
	"`Email` VARCHAR(128) NOT NULL UNIQUE" +
	")"

// Suite 连接 docker 里面的 MySQL, 每个测试结束之后清空表
type Suite struct {
	suite.Suite

	cfg *mysql.Config
	db  *orm.DB
}

func newMySQLConfig() *mysql.Config {
	cfg := mysql.NewConfig()
	cfg.User = "root"
	cfg.Passwd = "root"
	cfg.Net = "tcp"
	cfg.Addr = "localhost:13306"
	cfg.DBName = "integration_test"
	// QueryMultiple 需要一次发送多条语句
	cfg.MultiStatements = true
	return cfg
}

func (s *Suite) SetupSuite() {
	t := s.T()
	db, err := orm.OpenMySQL(s.cfg,
		orm.DBWithTimeout(10*time.Second),
		orm.DBWithMiddlewares(querylog.NewMiddlewareBuilder(querylog.NewZapLogFunc(zap.NewExample(), true)).Build()))
	require.NoError(t, err)
	s.db = db

	ctx := context.Background()
	for _, ddl := range []string{createSimpleStruct, createUsers} {
		_, err = orm.Execute(ctx, db, ddl, nil)
		require.NoError(t, err)
	}
}

func (s *Suite) TearDownTest() {
	ctx := context.Background()
	for _, tbl := range []string{"simple_struct", "users"} {
		_, err := orm.Execute(ctx, s.db, "TRUNCATE TABLE `"+tbl+"`", nil)
		require.NoError(s.T(), err)
	}
}

func (s *Suite) TearDownSuite() {
	require.NoError(s.T(), s.db.Close())
}
