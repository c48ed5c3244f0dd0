package initialization

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Xushengqwer/actor_hub/config"
	"github.com/Xushengqwer/actor_hub/core"
	"github.com/Xushengqwer/actor_hub/dependencies"
	"github.com/Xushengqwer/actor_hub/utils"
)

// AppDependencies 封装了应用运行所需的所有基础依赖项。
// 数据库连接、Redis 客户端、对象存储等在这里聚合，再传给服务层和路由层。
type AppDependencies struct {
	Config      *config.ActorHubConfig
	Logger      *core.ZapLogger
	DB          *gorm.DB
	RedisClient *redis.Client
	JwtToken    dependencies.JWTTokenInterface
	Storage     dependencies.ObjectStorage
}

// SetupDependencies 按顺序初始化所有基础依赖项，任何一项失败都返回错误，由 main 决定退出。
func SetupDependencies(cfg *config.ActorHubConfig, logger *core.ZapLogger) (*AppDependencies, error) {
	deps := AppDependencies{Config: cfg, Logger: logger}

	// 1. 注册自定义验证器
	if err := utils.RegisterCustomValidators(); err != nil {
		return nil, fmt.Errorf("注册自定义验证器失败: %w", err)
	}
	logger.Info("自定义验证器注册成功")

	// 2. MySQL
	db, err := dependencies.InitMySQL(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("初始化数据库失败: %w", err)
	}
	deps.DB = db

	// 3. Redis
	redisClient, err := dependencies.InitRedis(&cfg.RedisConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("初始化 Redis 失败: %w", err)
	}
	deps.RedisClient = redisClient

	// 4. JWT
	deps.JwtToken = dependencies.NewJWTUtility(&cfg.JWTConfig)
	logger.Info("JWT 工具初始化成功")

	// 5. 对象存储 (COS 或 MinIO)
	storage, err := dependencies.InitObjectStorage(&cfg.StorageConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("初始化对象存储失败: %w", err)
	}
	deps.Storage = storage

	logger.Info("所有基础依赖项初始化完成")
	return &deps, nil
}
