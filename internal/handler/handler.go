package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/user/decideflix/internal/config"
	"github.com/user/decideflix/internal/service"
	"github.com/user/decideflix/internal/utils"
)

// healthTimeout 健康检查探活超时
const healthTimeout = 2 * time.Second

// Handler HTTP 处理器
type Handler struct {
	Catalog *service.CatalogService
	Config  *config.Config
}

// NewHandler 创建处理器
func NewHandler(catalog *service.CatalogService, cfg *config.Config) *Handler {
	return &Handler{
		Catalog: catalog,
		Config:  cfg,
	}
}

// Home 首页
func (h *Handler) Home(c *gin.Context) {
	c.String(http.StatusOK, "API DecideFlix funcionando")
}

// Health 健康检查，同时探测存储
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := h.Catalog.Ping(ctx); err != nil {
		log.Error().Err(err).Msg("存储探活失败")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// fail 将服务层错误映射为 HTTP 响应，notFound 为 404 时的提示
func (h *Handler) fail(c *gin.Context, err error, notFound string) {
	switch {
	case service.IsClientError(err):
		utils.BadRequest(c, clientMessage(err))
	case errors.Is(err, service.ErrNotFound):
		utils.NotFound(c, notFound)
	case errors.Is(err, service.ErrPurgeDisabled):
		utils.Forbidden(c, "Limpeza da coleção desabilitada")
	default:
		h.internal(c, err)
	}
}

// internal 记录并返回 500，不回显底层错误
func (h *Handler) internal(c *gin.Context, err error) {
	_ = c.Error(err)
	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("请求处理失败")
	utils.InternalServerError(c, "")
}

func clientMessage(err error) string {
	var inputErr *service.InputError
	if errors.As(err, &inputErr) {
		return inputErr.Msg
	}
	return "ID inválido"
}
