// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/kanbanstr/board-sync-service/internal/domain"
	"github.com/kanbanstr/board-sync-service/internal/eventstore"
	"github.com/kanbanstr/board-sync-service/internal/nostr"
	"github.com/kanbanstr/board-sync-service/internal/service"
	pkgapp "github.com/kanbanstr/board-sync-service/pkg/app"
	"github.com/kanbanstr/board-sync-service/pkg/workerpool"

	"go.uber.org/zap"
)

// App 应用容器，封装所有依赖和服务
type App struct {
	// 基础设施（注入的依赖）
	config *AppConfig
	logger *zap.Logger
	pool   *nostr.Pool
	client nostr.Client

	// 并发控制组件
	workerPool *workerpool.Pool

	// Repository 层
	BoardRepo domain.BoardRepository
	CardRepo  domain.CardRepository

	// 事件流组件
	Tracking   *eventstore.TrackingResolver
	Projection *service.Projection

	// Service 层
	BoardService     service.BoardService
	CardService      service.CardService
	MigrationService service.MigrationService
}

// NewApp 创建应用容器实例
// 初始化所有依赖并进行依赖注入
// cfg: 应用配置（必须）
// logger: zap 日志器（必须）
// signer: 事件签名器（必须，只读部署传 ReadOnlySigner）
func NewApp(cfg *AppConfig, logger *zap.Logger, signer nostr.Signer) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if signer == nil {
		return nil, fmt.Errorf("signer is required")
	}
	if len(cfg.Relays.URLs) == 0 {
		return nil, fmt.Errorf("at least one relay is required")
	}

	a := &App{
		config: cfg,
		logger: logger,
	}

	// 初始化 Worker Pool
	wpConfig := cfg.GetWorkerPoolConfig()
	a.workerPool = workerpool.New(&wpConfig, logger)

	// 初始化中继连接池
	a.pool = nostr.NewPool(nostr.PoolConfig{
		Relays:         cfg.Relays.URLs,
		FetchTimeout:   cfg.GetFetchTimeout(),
		PublishTimeout: cfg.GetPublishTimeout(),
	}, signer, logger)
	a.client = a.pool

	// 初始化 Repository 层
	a.Tracking = eventstore.NewTrackingResolver(a.client, logger)
	a.BoardRepo = eventstore.NewBoardRepository(a.client, logger)
	a.CardRepo = eventstore.NewCardRepository(a.client, a.Tracking, a.workerPool, logger)

	// 初始化快照投影
	a.Projection = service.NewProjection(a.BoardRepo, a.CardRepo, logger)

	// 初始化 Service 层（依赖注入）
	svcOpts := service.Options{
		Client:     a.client,
		Boards:     a.BoardRepo,
		Cards:      a.CardRepo,
		Projection: a.Projection,
		Logger:     logger,
	}
	a.BoardService = service.NewBoardService(svcOpts)
	a.CardService = service.NewCardService(svcOpts)
	a.MigrationService = service.NewMigrationService(svcOpts)

	logger.Info("App container initialized successfully",
		zap.Int("relays", len(cfg.Relays.URLs)),
		zap.Int("workerPoolMaxWorkers", wpConfig.MaxWorkers))

	return a, nil
}

// Shutdown 优雅关闭应用容器持有的资源
func (a *App) Shutdown(ctx context.Context) error {
	if a.workerPool != nil {
		if err := a.workerPool.Shutdown(ctx); err != nil {
			a.logger.Warn("Worker pool shutdown timed out", zap.Error(err))
		}
	}
	if a.pool != nil {
		a.pool.Close()
		a.logger.Info("Relay connections closed")
	}
	return nil
}

// Close 释放应用容器持有的资源
func (a *App) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return a.Shutdown(ctx)
}

// Config 获取应用配置
func (a *App) Config() *AppConfig {
	return a.config
}

// Logger 获取日志器
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Client 获取事件客户端
func (a *App) Client() nostr.Client {
	return a.client
}

// SubmitTask 提交任务到 Worker Pool
// 返回错误如果池已满或已关闭
func (a *App) SubmitTask(ctx context.Context, task func(context.Context) error) error {
	return a.workerPool.Submit(ctx, task)
}

// SubmitTaskAsync 异步提交任务到 Worker Pool（不等待结果）
// 返回错误如果池已满或已关闭
func (a *App) SubmitTaskAsync(ctx context.Context, task func(context.Context) error) error {
	return a.workerPool.SubmitAsync(ctx, task)
}

// Version 获取版本信息
func (a *App) Version() pkgapp.VersionInfo {
	return pkgapp.VersionInfo{
		Version:   Version,
		GitTag:    GitTag,
		BuildTime: BuildTime,
	}
}

// IsReturnSuccess 是否返回成功响应
func (a *App) IsReturnSuccess() bool {
	return a.config.App.IsReturnSussess
}

// IsProductionMode 是否为生产模式
// 根据日志配置中的 Production 字段判断
func (a *App) IsProductionMode() bool {
	return a.config.Log.Production
}

// WorkerPool 获取 Worker Pool（用于高级操作）
func (a *App) WorkerPool() *workerpool.Pool {
	return a.workerPool
}
