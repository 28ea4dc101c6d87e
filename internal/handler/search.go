package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/decideflix/internal/model"
	"github.com/user/decideflix/internal/service"
	"github.com/user/decideflix/internal/utils"
)

// SearchByCategory 按分类精确查询，/busca/* 均返回 {quantidade, resultados}
func (h *Handler) SearchByCategory(c *gin.Context) {
	titles, err := h.Catalog.ByCategory(c.Request.Context(), c.Query("categoria"))
	if err != nil {
		h.fail(c, err, msgNotFound)
		return
	}
	utils.Success(c, model.NewSearchResult(titles))
}

// SearchByText 名称全文检索
func (h *Handler) SearchByText(c *gin.Context) {
	hits, err := h.Catalog.SearchText(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.fail(c, err, msgNotFound)
		return
	}
	utils.Success(c, model.NewSearchResult(hits))
}

// SearchByLocation 半径检索，dist 单位为米
func (h *Handler) SearchByLocation(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		utils.BadRequest(c, "Parâmetros 'lat' e 'lng' devem ser numéricos")
		return
	}

	dist := service.DefaultGeoDistance
	if raw := c.Query("dist"); raw != "" {
		d, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			utils.BadRequest(c, "Parâmetro 'dist' deve ser numérico")
			return
		}
		dist = d
	}

	hits, err := h.Catalog.Near(c.Request.Context(), lat, lng, dist)
	if err != nil {
		h.fail(c, err, msgNotFound)
		return
	}
	utils.Success(c, model.NewSearchResult(hits))
}
