package server

import (
	_ "mth-wallet/docs" // swagger 文档
	"mth-wallet/internal/handler"
	"mth-wallet/internal/handler/response"
	"mth-wallet/internal/server/routes"
	"mth-wallet/pkg/monitor"
	"mth-wallet/pkg/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// NewHTTPRouter 初始化并返回一个 Gin Engine
func NewHTTPRouter(walletHandler *handler.WalletHandler) (*gin.Engine, error) {
	// 0. 初始化监控指标和自定义校验规则
	monitor.Init()
	if err := validator.Init(); err != nil {
		return nil, err
	}

	// 1. 创建 Engine (使用默认中间件: Logger, Recovery)
	r := gin.Default()

	// 2. 注册通用中间件
	r.Use(monitor.PrometheusMiddleware())

	// 3. 注册基础路由
	r.GET("/health", handler.HealthCheck)
	r.GET("/metrics", monitor.Handler())
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 4. 注册 API 路由组
	api := r.Group("/api/v1")
	{
		api.GET("/ping", func(c *gin.Context) {
			response.Success(c, gin.H{"pong": true})
		})

		routes.RegisterWalletRoutes(api, walletHandler)
	}

	return r, nil
}
