package api_router

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/kanbanstr/board-sync-service/internal/app"
	"github.com/kanbanstr/board-sync-service/internal/dto"
	"github.com/kanbanstr/board-sync-service/internal/middleware"
	pkgapp "github.com/kanbanstr/board-sync-service/pkg/app"
	"github.com/kanbanstr/board-sync-service/pkg/code"
	apperrors "github.com/kanbanstr/board-sync-service/pkg/errors"
	"go.uber.org/zap"
)

// MigrationHandler 旧格式迁移 API 路由处理器
type MigrationHandler struct {
	*Handler
}

// NewMigrationHandler 创建 MigrationHandler 实例
func NewMigrationHandler(a *app.App) *MigrationHandler {
	return &MigrationHandler{
		Handler: NewHandler(a),
	}
}

// Migrate 迁移旧格式看板
// @Summary 迁移旧格式看板
// @Description 把 JSON 内容格式的看板及其卡片重写为当前标签格式并重新发布，只有所有者可以迁移
// @Tags 看板
// @Accept json
// @Produce json
// @Param params body dto.MigrateRequest true "迁移参数"
// @Success 200 {object} pkgapp.Res{data=dto.MigrationResult} "成功"
// @Router /api/board/migrate [post]
func (h *MigrationHandler) Migrate(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.MigrateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("MigrationHandler.Migrate.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	result, err := h.App.MigrationService.Migrate(ctx, params)
	if err != nil {
		h.logError(ctx, "MigrationHandler.Migrate", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.SuccessUpdate.WithData(result))
}

func (h *MigrationHandler) logError(ctx context.Context, method string, err error) {
	traceID := middleware.GetTraceID(ctx)
	h.App.Logger().Error(method,
		zap.Error(err),
		zap.String("traceId", traceID),
	)
}
