package routers

import (
	"time"

	"github.com/kanbanstr/board-sync-service/internal/app"
	"github.com/kanbanstr/board-sync-service/internal/middleware"
	"github.com/kanbanstr/board-sync-service/internal/routers/api_router"
	"github.com/kanbanstr/board-sync-service/pkg/limiter"

	ut "github.com/go-playground/universal-translator"
	"github.com/gin-gonic/gin"
)

var methodLimiters = limiter.NewMethodLimiter().AddBuckets(
	limiter.BucketRule{
		Key:          "/api/board/migrate",
		FillInterval: time.Second,
		Capacity:     10,
		Quantum:      10,
	},
)

// NewRouter 创建公共 API 路由
func NewRouter(appContainer *app.App, uni *ut.UniversalTranslator) *gin.Engine {

	// 获取配置
	cfg := appContainer.Config()

	r := gin.New()

	api := r.Group("/api")
	{
		api.Use(middleware.AppInfoWithConfig(app.Name, appContainer.Version().Version))
		api.Use(gin.Logger())
		api.Use(middleware.Trace()) // Trace ID 中间件
		api.Use(middleware.RateLimiter(methodLimiters))
		api.Use(middleware.ContextTimeout(time.Duration(cfg.App.DefaultContextTimeout) * time.Second))
		api.Use(middleware.Cors())
		api.Use(middleware.LangWithTranslator(uni))
		api.Use(middleware.AccessLogWithLogger(appContainer.Logger()))
		api.Use(middleware.RecoveryWithLogger(appContainer.Logger()))

		// 创建 Handlers（注入 App Container）
		boardHandler := api_router.NewBoardHandler(appContainer)
		cardHandler := api_router.NewCardHandler(appContainer)
		migrationHandler := api_router.NewMigrationHandler(appContainer)
		versionHandler := api_router.NewVersionHandler(appContainer)

		// 服务端版本号接口
		api.GET("/version", versionHandler.ServerVersion)

		api.GET("/boards", boardHandler.List)
		api.GET("/board", boardHandler.Get)
		api.POST("/board", boardHandler.Create)
		api.PUT("/board", boardHandler.Update)
		api.POST("/board/migrate", migrationHandler.Migrate)

		api.POST("/card", cardHandler.Create)
		api.PUT("/card", cardHandler.Update)
		api.PUT("/card/move", cardHandler.Move)
	}

	r.Use(middleware.Cors())
	r.NoRoute(middleware.NoFound())

	return r
}
