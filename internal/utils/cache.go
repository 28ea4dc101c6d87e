package utils

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/patrickmn/go-cache"
)

// TTLCache 进程内 TTL 缓存（聚合结果用）
type TTLCache struct {
	store *cache.Cache
	ttl   time.Duration
}

// NewTTLCache 创建缓存，清理间隔为 TTL 的两倍
func NewTTLCache(ttl time.Duration) *TTLCache {
	return &TTLCache{
		store: cache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

// Get 获取缓存值
func (c *TTLCache) Get(key string) (interface{}, bool) {
	return c.store.Get(key)
}

// Set 使用默认 TTL 写入
func (c *TTLCache) Set(key string, value interface{}) {
	c.store.Set(key, value, c.ttl)
}

// Flush 清空所有缓存
func (c *TTLCache) Flush() {
	c.store.Flush()
}

// Len 当前条目数
func (c *TTLCache) Len() int {
	return c.store.ItemCount()
}

// CacheItem 包装实际的数据，增加过期时间
type CacheItem[T any] struct {
	Value     T
	ExpiredAt time.Time
}

// SearchCache 搜索结果缓存封装
type SearchCache[T any] struct {
	storage *lru.Cache[string, CacheItem[T]]
	ttl     time.Duration
}

// NewSearchCache 初始化，size 是最大缓存条数，ttl 是数据有效期
func NewSearchCache[T any](size int, ttl time.Duration) *SearchCache[T] {
	if size <= 0 {
		size = 1
	}
	// lru.New 是线程安全的，size > 0 时不会返回错误
	c, _ := lru.New[string, CacheItem[T]](size)
	return &SearchCache[T]{
		storage: c,
		ttl:     ttl,
	}
}

// Set 写入（LRU 中 Add 会自动处理 Update）
func (c *SearchCache[T]) Set(key string, value T) {
	item := CacheItem[T]{
		Value:     value,
		ExpiredAt: time.Now().Add(c.ttl),
	}
	c.storage.Add(key, item)
}

// Get 读取（带过期检查）
func (c *SearchCache[T]) Get(key string) (T, bool) {
	var zero T
	item, ok := c.storage.Get(key)
	if !ok {
		return zero, false
	}

	if time.Now().After(item.ExpiredAt) {
		c.storage.Remove(key)
		return zero, false
	}

	return item.Value, true
}

// Clear 清空
func (c *SearchCache[T]) Clear() {
	c.storage.Purge()
}

// Len 当前长度
func (c *SearchCache[T]) Len() int {
	return c.storage.Len()
}
