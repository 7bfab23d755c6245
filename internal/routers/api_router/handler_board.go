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

// BoardHandler 看板 API 路由处理器
// 使用 App Container 注入依赖，支持统一错误处理
type BoardHandler struct {
	*Handler
}

// NewBoardHandler 创建 BoardHandler 实例
func NewBoardHandler(a *app.App) *BoardHandler {
	return &BoardHandler{
		Handler: NewHandler(a),
	}
}

// List 获取看板列表
// @Summary 获取看板列表
// @Description 按可见范围列出看板，scope 可选 all/mine/maintained
// @Tags 看板
// @Produce json
// @Param scope query string false "范围"
// @Success 200 {object} pkgapp.Res{data=[]dto.Board} "成功"
// @Router /api/boards [get]
func (h *BoardHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.BoardListRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("BoardHandler.List.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	boards, err := h.App.BoardService.List(ctx, params.Scope)
	if err != nil {
		h.logError(ctx, "BoardHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(boards))
}

// Get 获取看板详情
// @Summary 获取看板详情
// @Description 按所有者公钥和标识获取看板，连同其全部卡片
// @Tags 看板
// @Produce json
// @Param pubkey query string true "所有者公钥"
// @Param id query string true "看板标识"
// @Success 200 {object} pkgapp.Res{data=dto.BoardWithCards} "成功"
// @Router /api/board [get]
func (h *BoardHandler) Get(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.BoardGetRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("BoardHandler.Get.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	board, err := h.App.BoardService.Get(ctx, params.PubKey, params.ID)
	if err != nil {
		h.logError(ctx, "BoardHandler.Get", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(board))
}

// Create 创建看板
// @Summary 创建看板
// @Description 以本地身份发布一个新的看板记录
// @Tags 看板
// @Accept json
// @Produce json
// @Param params body dto.BoardCreateRequest true "看板参数"
// @Success 200 {object} pkgapp.Res{data=dto.Board} "成功"
// @Router /api/board [post]
func (h *BoardHandler) Create(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.BoardCreateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("BoardHandler.Create.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	board, err := h.App.BoardService.Create(ctx, params)
	if err != nil {
		h.logError(ctx, "BoardHandler.Create", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.SuccessCreate.WithData(board))
}

// Update 更新看板
// @Summary 更新看板
// @Description 发布看板的新修订，只有所有者可以更新
// @Tags 看板
// @Accept json
// @Produce json
// @Param params body dto.BoardUpdateRequest true "看板参数"
// @Success 200 {object} pkgapp.Res{data=dto.Board} "成功"
// @Router /api/board [put]
func (h *BoardHandler) Update(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.BoardUpdateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("BoardHandler.Update.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	board, err := h.App.BoardService.Update(ctx, params)
	if err != nil {
		h.logError(ctx, "BoardHandler.Update", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.SuccessUpdate.WithData(board))
}

func (h *BoardHandler) logError(ctx context.Context, method string, err error) {
	traceID := middleware.GetTraceID(ctx)
	h.App.Logger().Error(method,
		zap.Error(err),
		zap.String("traceId", traceID),
	)
}
