package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Xushengqwer/actor_hub/config"
	"github.com/Xushengqwer/actor_hub/constants"
	"github.com/Xushengqwer/actor_hub/controller"
	"github.com/Xushengqwer/actor_hub/core"
	_ "github.com/Xushengqwer/actor_hub/docs" // 引入 docs 包以注册 Swagger 信息
	"github.com/Xushengqwer/actor_hub/initialization"
	"github.com/Xushengqwer/actor_hub/middleware"
)

// SetupRouter 初始化 Gin 引擎，注册全局中间件与所有业务路由。
// 中间件顺序:
//  1. otelgin 最先，后续中间件和日志都能拿到 trace id
//  2. panic 恢复
//  3. 访问日志
//  4. CORS
//  5. 请求超时
//  6. 按 IP 限流 (可选)
//
// 认证在各控制器的路由分组上按需挂载，公开接口 (登录、演员注册、邀请码校验) 不经过认证。
func SetupRouter(logger *core.ZapLogger, cfg *config.ActorHubConfig, appServices *initialization.AppServices) *gin.Engine {
	logger.Info("开始设置 Gin 路由...")

	if cfg.ServerConfig.Mode != "" {
		gin.SetMode(cfg.ServerConfig.Mode)
	}
	router := gin.New()

	router.Use(otelgin.Middleware(constants.ServiceName))
	router.Use(middleware.ErrorHandlingMiddleware(logger))
	router.Use(middleware.RequestLoggerMiddleware(logger.Logger()))
	router.Use(cors.New(corsConfig(cfg.CORSConfig)))

	requestTimeout := time.Duration(cfg.ServerConfig.RequestTimeout) * time.Second
	if requestTimeout > 0 {
		router.Use(middleware.RequestTimeoutMiddleware(logger, requestTimeout))
	}
	if cfg.RateLimitConfig.Enabled {
		router.Use(middleware.NewIPRateLimiter(cfg.RateLimitConfig).Middleware())
		logger.Info("已启用按 IP 限流")
	}

	v1 := router.Group("/api/v1")
	authMW := middleware.AuthMiddleware(appServices.Auth)

	controller.NewAuthController(appServices.Auth, logger).RegisterRoutes(v1, authMW)
	controller.NewRegisterController(appServices.Register, logger).RegisterRoutes(v1, authMW)
	controller.NewInviteController(appServices.Invite, logger).RegisterRoutes(v1, authMW)
	controller.NewUserManageController(appServices.UserManage, logger).RegisterRoutes(v1, authMW)
	controller.NewActorController(appServices.Profile, appServices.ActorList, appServices.Agent, logger).RegisterRoutes(v1, authMW)
	controller.NewMediaController(appServices.Media, logger).RegisterRoutes(v1, authMW)
	controller.NewTagController(appServices.Tag, logger).RegisterRoutes(v1, authMW)
	logger.Info("所有业务路由已成功注册，前缀 /api/v1")

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	logger.Info("Swagger UI 路由已注册，访问路径: /swagger/index.html")

	return router
}

// corsConfig 把配置转换为 gin-contrib/cors 的配置，"*" 表示放行所有来源
func corsConfig(cfg config.CORSConfig) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           time.Duration(cfg.MaxAgeHours) * time.Hour,
	}
	for _, origin := range cfg.AllowOrigins {
		if origin == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	if len(cfg.AllowOrigins) == 0 {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = cfg.AllowOrigins
	return c
}
