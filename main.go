package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/Xushengqwer/actor_hub/config"
	"github.com/Xushengqwer/actor_hub/constants"
	"github.com/Xushengqwer/actor_hub/core"
	"github.com/Xushengqwer/actor_hub/core/tracing"
	_ "github.com/Xushengqwer/actor_hub/docs" // Swagger 文档，匿名导入以执行其 init()
	"github.com/Xushengqwer/actor_hub/initialization"
	"github.com/Xushengqwer/actor_hub/models/dto"
	"github.com/Xushengqwer/actor_hub/router"
)

// @title           Actor Hub API
// @version         1.0
// @description     演员经纪管理后台 API 文档
// @host      localhost:8000
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	var configFile string
	flag.StringVar(&configFile, "config", "config/config.development.yaml", "Path to configuration file")
	flag.Parse()

	// .env 可选，不存在时忽略
	if err := godotenv.Load(); err == nil {
		log.Println("已加载 .env 文件")
	}

	// 1. 加载配置
	var cfg config.ActorHubConfig
	if err := core.LoadConfig(configFile, &cfg); err != nil {
		log.Fatalf("FATAL: 加载配置失败 (%s): %v", configFile, err)
	}
	applyEnvOverrides(&cfg)

	// 2. 初始化 Logger
	logger, err := core.NewZapLogger(cfg.ZapConfig)
	if err != nil {
		log.Fatalf("FATAL: 初始化 ZapLogger 失败: %v", err)
	}
	defer func() {
		if err := logger.Logger().Sync(); err != nil {
			log.Printf("WARN: ZapLogger Sync 失败: %v\n", err)
		}
	}()
	logger.Info("Logger 初始化成功")

	// 3. 初始化 TracerProvider (如果启用)
	if cfg.TracerConfig.Enabled {
		tracerShutdown, err := tracing.InitTracerProvider(constants.ServiceName, constants.ServiceVersion, cfg.TracerConfig)
		if err != nil {
			logger.Fatal("初始化 TracerProvider 失败", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerShutdown(ctx); err != nil {
				logger.Error("关闭 TracerProvider 失败", zap.Error(err))
			}
		}()
		logger.Info("分布式追踪已初始化")
	} else {
		logger.Info("分布式追踪已禁用")
	}

	// 4. 基础依赖
	appDeps, err := initialization.SetupDependencies(&cfg, logger)
	if err != nil {
		logger.Fatal("初始化基础依赖失败", zap.Error(err))
	}

	// 5. 服务层
	appServices := initialization.SetupServices(appDeps)
	logger.Info("服务层初始化成功")

	// 6. 初始管理员
	if admin := cfg.BootstrapAdmin; admin.Username != "" {
		req := &dto.RegisterStaffDTO{Username: admin.Username, Password: admin.Password, Phone: admin.Phone}
		if admin.Email != "" {
			req.Email = &admin.Email
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if _, err := appServices.Register.EnsureAdmin(ctx, req); err != nil {
			logger.Error("创建初始管理员失败", zap.Error(err))
		}
		cancel()
	}

	// 7. 路由
	engine := router.SetupRouter(logger, &cfg, appServices)

	// 8. HTTP 服务器
	serverAddress := fmt.Sprintf(":%s", cfg.ServerConfig.Port)
	srv := &http.Server{
		Addr:              serverAddress,
		Handler:           otelhttp.NewHandler(engine, "HTTPServer"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器开始监听", zap.String("address", serverAddress))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP 服务器启动失败", zap.Error(err))
		}
	}()

	// 9. 优雅关停
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	recSignal := <-quit
	logger.Info("接收到关停信号", zap.String("signal", recSignal.String()))

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Error("HTTP 服务器优雅关停失败", zap.Error(err))
	} else {
		logger.Info("HTTP 服务器已成功关闭")
	}

	if sqlDB, err := appDeps.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = appDeps.RedisClient.Close()
	logger.Info("服务已完全关闭")
}

// applyEnvOverrides 用环境变量覆盖部署相关的关键配置，敏感值不打印
func applyEnvOverrides(cfg *config.ActorHubConfig) {
	log.Println("检查环境变量以覆盖文件配置...")

	if level := os.Getenv("ZAPCONFIG_LEVEL"); level != "" {
		cfg.ZapConfig.Level = level
		log.Printf("通过环境变量覆盖了 ZapConfig.Level: %s\n", level)
	}
	if level := os.Getenv("GORMLOGCONFIG_LEVEL"); level != "" {
		cfg.GormLogConfig.Level = level
		log.Printf("通过环境变量覆盖了 GormLogConfig.Level: %s\n", level)
	}
	if port := os.Getenv("SERVERCONFIG_LISTEN_ADDR"); port != "" {
		cfg.ServerConfig.Port = port
		log.Printf("通过环境变量覆盖了 ServerConfig.Port: %s\n", port)
	}
	if mode := os.Getenv("SERVERCONFIG_MODE"); mode != "" {
		cfg.ServerConfig.Mode = mode
		log.Printf("通过环境变量覆盖了 ServerConfig.Mode: %s\n", mode)
	}
	if enabled, err := strconv.ParseBool(os.Getenv("TRACERCONFIG_ENABLED")); err == nil {
		cfg.TracerConfig.Enabled = enabled
		log.Printf("通过环境变量覆盖了 TracerConfig.Enabled: %t\n", enabled)
	}
	if endpoint := os.Getenv("TRACERCONFIG_EXPORTER_ENDPOINT"); endpoint != "" {
		cfg.TracerConfig.ExporterEndpoint = endpoint
		log.Printf("通过环境变量覆盖了 TracerConfig.ExporterEndpoint: %s\n", endpoint)
	}

	// JWT
	if key := os.Getenv("JWTCONFIG_SECRET_KEY"); key != "" {
		cfg.JWTConfig.SecretKey = key
		log.Printf("通过环境变量覆盖了 JWTConfig.SecretKey")
	}

	// MySQL & Redis
	if dsn := os.Getenv("MYSQLCONFIG_DSN"); dsn != "" {
		cfg.MySQLConfig.DSN = dsn
		log.Printf("通过环境变量覆盖了 MySQLConfig.DSN")
	}
	if addr := os.Getenv("REDISCONFIG_ADDRESS"); addr != "" {
		cfg.RedisConfig.Address = addr
		log.Printf("通过环境变量覆盖了 RedisConfig.Address: %s\n", addr)
	}
	if port, err := strconv.Atoi(os.Getenv("REDISCONFIG_PORT")); err == nil {
		cfg.RedisConfig.Port = port
		log.Printf("通过环境变量覆盖了 RedisConfig.Port: %d\n", port)
	}
	if pass := os.Getenv("REDISCONFIG_PASSWORD"); pass != "" {
		cfg.RedisConfig.Password = pass
		log.Printf("通过环境变量覆盖了 RedisConfig.Password")
	}

	// 对象存储
	if backend := os.Getenv("STORAGECONFIG_BACKEND"); backend != "" {
		cfg.StorageConfig.Backend = backend
		log.Printf("通过环境变量覆盖了 StorageConfig.Backend: %s\n", backend)
	}
	if id := os.Getenv("COSCONFIG_SECRET_ID"); id != "" {
		cfg.StorageConfig.COS.SecretID = id
		log.Printf("通过环境变量覆盖了 COSConfig.SecretID")
	}
	if key := os.Getenv("COSCONFIG_SECRET_KEY"); key != "" {
		cfg.StorageConfig.COS.SecretKey = key
		log.Printf("通过环境变量覆盖了 COSConfig.SecretKey")
	}
	if name := os.Getenv("COSCONFIG_BUCKET_NAME"); name != "" {
		cfg.StorageConfig.COS.BucketName = name
		log.Printf("通过环境变量覆盖了 COSConfig.BucketName: %s\n", name)
	}
	if region := os.Getenv("COSCONFIG_REGION"); region != "" {
		cfg.StorageConfig.COS.Region = region
		log.Printf("通过环境变量覆盖了 COSConfig.Region: %s\n", region)
	}
	if endpoint := os.Getenv("MINIOCONFIG_ENDPOINT"); endpoint != "" {
		cfg.StorageConfig.MinIO.Endpoint = endpoint
		log.Printf("通过环境变量覆盖了 MinIOConfig.Endpoint: %s\n", endpoint)
	}
	if key := os.Getenv("MINIOCONFIG_ACCESS_KEY"); key != "" {
		cfg.StorageConfig.MinIO.AccessKey = key
		log.Printf("通过环境变量覆盖了 MinIOConfig.AccessKey")
	}
	if key := os.Getenv("MINIOCONFIG_SECRET_KEY"); key != "" {
		cfg.StorageConfig.MinIO.SecretKey = key
		log.Printf("通过环境变量覆盖了 MinIOConfig.SecretKey")
	}
	if url := os.Getenv("MINIOCONFIG_EXTERNAL_BASE_URL"); url != "" {
		cfg.StorageConfig.MinIO.ExternalBaseURL = url
		log.Printf("通过环境变量覆盖了 MinIOConfig.ExternalBaseURL: %s\n", url)
	}
	if path := os.Getenv("MEDIACONFIG_FFMPEG_PATH"); path != "" {
		cfg.MediaConfig.FFmpegPath = path
		log.Printf("通过环境变量覆盖了 MediaConfig.FFmpegPath: %s\n", path)
	}

	// 初始管理员
	if pass := os.Getenv("BOOTSTRAPADMIN_PASSWORD"); pass != "" {
		cfg.BootstrapAdmin.Password = pass
		log.Printf("通过环境变量覆盖了 BootstrapAdmin.Password")
	}
}
