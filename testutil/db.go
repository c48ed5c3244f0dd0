// Package testutil 提供测试用的内存数据库与常用数据构造函数。
package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Xushengqwer/actor_hub/core"
	"github.com/Xushengqwer/actor_hub/models/entities"
)

// NewTestDB 创建一个独立的内存 SQLite 数据库并迁移全部表。
// 只保留一个连接，事务内的查询必须使用事务句柄。
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(entities.AllModels()...))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// NewLogger 返回丢弃所有输出的日志器
func NewLogger() *core.ZapLogger {
	return core.NewZapLoggerFrom(zap.NewNop())
}
