package dependencies

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/Xushengqwer/actor_hub/config"
	"github.com/Xushengqwer/actor_hub/core"
	"github.com/Xushengqwer/actor_hub/models/entities"
)

// InitMySQL 初始化 MySQL 连接并返回 *gorm.DB
func InitMySQL(cfg *config.ActorHubConfig, logger *core.ZapLogger) (*gorm.DB, error) {
	if cfg.MySQLConfig.DSN == "" {
		logger.Error("MySQL DSN 未配置")
		return nil, fmt.Errorf("MySQL DSN is empty in configuration")
	}

	gormConfig := &gorm.Config{
		Logger: core.NewGormLogger(logger, cfg.GormLogConfig),
		// 唯一索引冲突转换为 gorm.ErrDuplicatedKey，仓库层据此返回 ErrRepoDuplicate
		TranslateError: true,
	}

	var db *gorm.DB
	var err error
	maxRetries := 5
	retryInterval := 2 * time.Second

	logger.Info("尝试连接 MySQL", zap.String("dsn_preview", previewDSN(cfg.MySQLConfig.DSN)))

	for i := 0; i < maxRetries; i++ {
		db, err = gorm.Open(mysql.Open(cfg.MySQLConfig.DSN), gormConfig)
		if err == nil {
			sqlDB, pingErr := db.DB()
			if pingErr == nil {
				if err = sqlDB.Ping(); err == nil {
					break
				}
			} else {
				err = pingErr
			}
		}
		logger.Warn("无法连接到 MySQL，尝试重试",
			zap.Int("retry", i+1),
			zap.Int("maxRetries", maxRetries),
			zap.Error(err),
		)
		if i < maxRetries-1 {
			time.Sleep(retryInterval)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("无法连接到数据库 (DSN: %s): %w", previewDSN(cfg.MySQLConfig.DSN), err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("无法获取数据库对象: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MySQLConfig.MaxIdleConn)
	sqlDB.SetMaxOpenConns(cfg.MySQLConfig.MaxOpenConn)
	lifetime := time.Duration(cfg.MySQLConfig.ConnMaxLifetime) * time.Minute
	if lifetime <= 0 {
		lifetime = time.Hour
	}
	sqlDB.SetConnMaxLifetime(lifetime)

	if cfg.MySQLConfig.AutoMigrate {
		if err := db.AutoMigrate(entities.AllModels()...); err != nil {
			return nil, fmt.Errorf("数据库迁移失败: %w", err)
		}
		logger.Info("数据库表结构自动迁移完成")
	}

	logger.Info("成功连接到 MySQL 数据库")
	return db, nil
}

// previewDSN 返回隐藏了密码的 DSN，仅用于日志
func previewDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	if at == -1 {
		return dsn
	}
	colon := strings.Index(dsn[:at], ":")
	if colon == -1 {
		return dsn
	}
	return dsn[:colon+1] + "****" + dsn[at:]
}
