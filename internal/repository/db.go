package repository

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/user/decideflix/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// 支持的存储后端
const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// pingTimeout 启动时探活超时
const pingTimeout = 5 * time.Second

// Backend 根据连接串判断存储后端
func Backend(databaseURL string) (string, error) {
	if databaseURL == "" {
		return "", fmt.Errorf("连接串为空")
	}
	u, err := url.Parse(databaseURL)
	if err != nil {
		return "", fmt.Errorf("连接串格式错误: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "postgres", "postgresql":
		return BackendPostgres, nil
	case "memory":
		return BackendMemory, nil
	default:
		return "", fmt.Errorf("不支持的存储类型: %q", u.Scheme)
	}
}

// InitDB 初始化 Postgres 连接并完成表结构迁移
func InitDB(databaseURL string) (*gorm.DB, error) {
	sqlDB, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("无法连接数据库: %w", err)
	}

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("数据库 ping 失败: %w", err)
	}

	// 设置连接池
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("gorm 初始化失败: %w", err)
	}

	if err := Migrate(db); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// Migrate 建表及索引
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Title{}); err != nil {
		return fmt.Errorf("迁移 titulos 失败: %w", err)
	}
	// 全文检索索引
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_titulos_nome_fts ON titulos USING GIN (to_tsvector('simple', nome))`).Error; err != nil {
		return fmt.Errorf("创建全文索引失败: %w", err)
	}
	return nil
}

// Repositories 仓库集合
type Repositories struct {
	Backend string
	Title   TitleStore
}

// Open 按连接串打开存储
func Open(databaseURL string) (*Repositories, error) {
	backend, err := Backend(databaseURL)
	if err != nil {
		return nil, err
	}

	var store TitleStore
	switch backend {
	case BackendMemory:
		store = NewMemoryTitleStore()
	default:
		db, err := InitDB(databaseURL)
		if err != nil {
			return nil, err
		}
		store = NewTitleRepository(db)
	}

	return &Repositories{
		Backend: backend,
		Title:   Instrument(store, backend),
	}, nil
}

// Close 关闭底层连接
func (r *Repositories) Close() error {
	return r.Title.Close()
}
