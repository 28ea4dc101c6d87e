package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // 确保在精简镜像中也能识别时区

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/user/decideflix/internal/config"
	"github.com/user/decideflix/internal/handler"
	"github.com/user/decideflix/internal/logging"
	"github.com/user/decideflix/internal/repository"
	"github.com/user/decideflix/internal/router"
	"github.com/user/decideflix/internal/service"
)

func main() {
	// 加载环境变量
	envErr := godotenv.Load()

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		logging.Init(logging.Config{})
		log.Fatal().Err(err).Msg("配置加载失败")
	}

	format := cfg.Logging.Format
	if !cfg.IsProduction() && os.Getenv("LOG_FORMAT") == "" {
		format = "console"
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: format})

	if envErr != nil {
		log.Info().Msg("未找到 .env 文件，使用系统环境变量")
	}
	if cfg.IsProduction() && cfg.UsesDefaultSecret() {
		log.Warn().Msg("【严重警告】生产环境正在使用默认密钥！请立即设置 APP_SECRET 环境变量。")
	}

	// 初始化存储，连不上直接退出
	repos, err := repository.Open(cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("数据库连接失败")
	}
	defer repos.Close()
	log.Info().Str("backend", repos.Backend).Msg("存储连接成功")

	catalog := service.NewCatalogService(repos.Title, service.Options{
		CacheTTL:   cfg.Cache.TTL,
		CacheSize:  cfg.Cache.Size,
		AllowPurge: cfg.Security.AllowPurge,
	})

	// 初始化 Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	h := handler.NewHandler(catalog, cfg)
	r := router.New(h)

	// 配置 HTTP 服务器
	srv := &http.Server{
		Addr:           ":" + cfg.Server.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// 在 goroutine 中启动服务器，这样我们就可以监听信号
	go func() {
		log.Info().Str("addr", "http://localhost:"+cfg.Server.Port).Msg("服务器启动")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("服务器启动失败")
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("正在关闭服务器...")

	// 5 秒超时上下文用于关闭过程
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("服务器强制关闭")
	}

	log.Info().Msg("服务器已退出")
}
