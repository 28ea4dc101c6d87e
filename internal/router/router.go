package router

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/user/decideflix/internal/handler"
	"github.com/user/decideflix/internal/middleware"
	"github.com/user/decideflix/internal/utils"
)

// New 创建 gin 引擎并挂载中间件与路由
func New(h *handler.Handler) *gin.Engine {
	r := gin.New()

	r.Use(middleware.Recovery())
	// 启用 gzip，默认压缩级别
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))
	r.Use(middleware.Logger())
	r.Use(middleware.Security())
	r.Use(middleware.CORS())

	r.NoRoute(func(c *gin.Context) {
		utils.NotFound(c, "Rota não encontrada")
	})

	RegisterRoutes(r, h)
	return r
}

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	// 健康检查
	r.GET("/", h.Home)
	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ==================== 影片 CRUD ====================
	titulos := r.Group("/titulos")
	{
		titulos.GET("", h.ListTitles)
		titulos.POST("", h.CreateTitle)
		titulos.POST("/lote", h.CreateTitlesBatch)
		titulos.GET("/:id", h.GetTitle)
		titulos.PUT("/:id", h.UpdateTitle)
		titulos.DELETE("/:id", h.DeleteTitle)
		titulos.GET("/ano/:year", h.TitlesByYear)

		// 统计
		titulos.GET("/quantidade-por-categoria", h.CountByCategory)
		titulos.GET("/decadas", h.CountByDecade)

		// 随机抽取
		titulos.GET("/sortear", h.SampleTitle)
		titulos.GET("/sortear/categoria/:categoria", h.SampleTitleByCategory)
		titulos.GET("/sortear/decada/:decada", h.SampleTitleByDecade)

		// 清空集合（仅管理员）
		titulos.DELETE("/limpar", middleware.RequireAdmin(h.Config.Security.AppSecret), h.PurgeTitles)
	}

	// ==================== 检索 ====================
	busca := r.Group("/busca")
	{
		busca.GET("/simples", h.SearchByCategory)
		busca.GET("/texto", h.SearchByText)
		busca.GET("/geo", h.SearchByLocation)
	}
}
