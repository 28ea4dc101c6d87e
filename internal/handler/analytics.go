package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/decideflix/internal/model"
	"github.com/user/decideflix/internal/utils"
)

// ==================== 统计 ====================

// 聚合没有未找到的情况，空集合返回 []，失败只可能是存储错误

// CountByCategory 按分类统计数量
func (h *Handler) CountByCategory(c *gin.Context) {
	counts, err := h.Catalog.CountByCategory(c.Request.Context())
	if err != nil {
		h.internal(c, err)
		return
	}
	utils.Success(c, counts)
}

// CountByDecade 按年代统计数量
func (h *Handler) CountByDecade(c *gin.Context) {
	counts, err := h.Catalog.CountByDecade(c.Request.Context())
	if err != nil {
		h.internal(c, err)
		return
	}
	utils.Success(c, counts)
}

// ==================== 随机抽取 ====================

// DecadeSample 年代抽样结果，回显请求的年代
type DecadeSample struct {
	model.TitleView
	Decada int `json:"decada"`
}

// SampleTitle 全集随机
func (h *Handler) SampleTitle(c *gin.Context) {
	title, err := h.Catalog.Sample(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Nenhum filme encontrado")
		return
	}
	utils.Success(c, title)
}

// SampleTitleByCategory 分类内随机
func (h *Handler) SampleTitleByCategory(c *gin.Context) {
	title, err := h.Catalog.SampleByCategory(c.Request.Context(), c.Param("categoria"))
	if err != nil {
		h.fail(c, err, "Nenhum filme encontrado para essa categoria")
		return
	}
	utils.Success(c, title)
}

// SampleTitleByDecade 年代内随机
func (h *Handler) SampleTitleByDecade(c *gin.Context) {
	decada, err := strconv.Atoi(c.Param("decada"))
	if err != nil {
		utils.BadRequest(c, "Década inválida")
		return
	}

	title, err := h.Catalog.SampleByDecade(c.Request.Context(), decada)
	if err != nil {
		h.fail(c, err, "Nenhum filme encontrado para essa década")
		return
	}
	utils.Success(c, DecadeSample{TitleView: title, Decada: decada})
}
