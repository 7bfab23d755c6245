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

// CardHandler 卡片 API 路由处理器
// 使用 App Container 注入依赖，支持统一错误处理
type CardHandler struct {
	*Handler
}

// NewCardHandler 创建 CardHandler 实例
func NewCardHandler(a *app.App) *CardHandler {
	return &CardHandler{
		Handler: NewHandler(a),
	}
}

// Create 创建卡片
// @Summary 创建卡片
// @Description 在看板上发布新卡片，所有者与维护者可以创建
// @Tags 卡片
// @Accept json
// @Produce json
// @Param params body dto.CardCreateRequest true "卡片参数"
// @Success 200 {object} pkgapp.Res{data=dto.Card} "成功"
// @Router /api/card [post]
func (h *CardHandler) Create(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.CardCreateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("CardHandler.Create.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	card, err := h.App.CardService.Create(ctx, params)
	if err != nil {
		h.logError(ctx, "CardHandler.Create", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.SuccessCreate.WithData(card))
}

// Update 更新卡片
// @Summary 更新卡片
// @Description 发布卡片的新修订，只有卡片作者可以更新
// @Tags 卡片
// @Accept json
// @Produce json
// @Param params body dto.CardUpdateRequest true "卡片参数"
// @Success 200 {object} pkgapp.Res{data=dto.Card} "成功"
// @Router /api/card [put]
func (h *CardHandler) Update(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.CardUpdateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("CardHandler.Update.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	card, err := h.App.CardService.Update(ctx, params)
	if err != nil {
		h.logError(ctx, "CardHandler.Update", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.SuccessUpdate.WithData(card))
}

// Move 移动卡片
// @Summary 移动卡片
// @Description 把卡片移动到目标列的目标位置，重新计算排序值
// @Tags 卡片
// @Accept json
// @Produce json
// @Param params body dto.CardMoveRequest true "移动参数"
// @Success 200 {object} pkgapp.Res{data=dto.Card} "成功"
// @Router /api/card/move [put]
func (h *CardHandler) Move(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.CardMoveRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("CardHandler.Move.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	card, err := h.App.CardService.Move(ctx, params)
	if err != nil {
		h.logError(ctx, "CardHandler.Move", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.SuccessUpdate.WithData(card))
}

func (h *CardHandler) logError(ctx context.Context, method string, err error) {
	traceID := middleware.GetTraceID(ctx)
	h.App.Logger().Error(method,
		zap.Error(err),
		zap.String("traceId", traceID),
	)
}
