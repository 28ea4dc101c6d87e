package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultAppSecret 开发环境默认密钥
const DefaultAppSecret = "your-secret-key-change-in-production"

// ConfigPathEnvVar 指定配置文件路径的环境变量
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths 配置文件查找顺序
var DefaultConfigPaths = []string{"config.yaml", "config.yml"}

// Config 应用配置
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Security SecurityConfig `koanf:"security"`
	Cache    CacheConfig    `koanf:"cache"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig HTTP 服务
type ServerConfig struct {
	Env  string `koanf:"env"`
	Port string `koanf:"port"`
}

// DatabaseConfig 存储连接串，scheme 决定后端（postgres:// 或 memory://）
type DatabaseConfig struct {
	URL string `koanf:"url"`
}

// SecurityConfig 管理员令牌与清空开关
type SecurityConfig struct {
	AppSecret  string `koanf:"app_secret"`
	AllowPurge bool   `koanf:"allow_purge"`
}

// CacheConfig 读缓存
type CacheConfig struct {
	TTL  time.Duration `koanf:"ttl"`
	Size int           `koanf:"size"`
}

// LoggingConfig 日志
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// UsesDefaultSecret 是否仍在使用默认密钥
func (c *Config) UsesDefaultSecret() bool {
	return c.Security.AppSecret == DefaultAppSecret
}

// IsProduction 是否生产环境
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Env:  "development",
			Port: "5000",
		},
		Security: SecurityConfig{
			AppSecret:  DefaultAppSecret,
			AllowPurge: false,
		},
		Cache: CacheConfig{
			TTL:  time.Minute,
			Size: 256,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// envMappings 环境变量到配置键
var envMappings = map[string]string{
	"database_url": "database.url",
	"mongo_uri":    "database.url",
	"app_env":      "server.env",
	"port":         "server.port",
	"app_secret":   "security.app_secret",
	"allow_purge":  "security.allow_purge",
	"cache_ttl":    "cache.ttl",
	"cache_size":   "cache.size",
	"log_level":    "logging.level",
	"log_format":   "logging.format",
}

func envTransform(key string) string {
	return envMappings[strings.ToLower(key)]
}

// Load 加载配置：默认值 -> 配置文件 -> 环境变量
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("加载默认配置失败: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("加载配置文件 %s 失败: %w", path, err)
		}
	}

	// DATABASE_URL 优先于 MONGO_URI
	if err := k.Load(env.Provider("MONGO_URI", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("加载环境变量失败: %w", err)
	}
	if err := k.Load(env.Provider("", ".", func(key string) string {
		if strings.EqualFold(key, "MONGO_URI") {
			return ""
		}
		return envTransform(key)
	}), nil); err != nil {
		return nil, fmt.Errorf("加载环境变量失败: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 启动前校验，缺少连接串直接失败
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.URL) == "" {
		return errors.New("DATABASE_URL não definida")
	}
	if c.Server.Port == "" {
		return errors.New("PORT inválida")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL inválido: %s", c.Cache.TTL)
	}
	if c.Cache.Size <= 0 {
		return fmt.Errorf("CACHE_SIZE inválido: %d", c.Cache.Size)
	}
	return nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
