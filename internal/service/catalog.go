package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/user/decideflix/internal/metrics"
	"github.com/user/decideflix/internal/model"
	"github.com/user/decideflix/internal/repository"
	"github.com/user/decideflix/internal/utils"
	"github.com/user/decideflix/internal/validation"
	"golang.org/x/sync/singleflight"
)

// DefaultGeoDistance 地理搜索默认半径（米）
const DefaultGeoDistance = 500000.0

const (
	cacheKeyCategories = "agg:categorias"
	cacheKeyDecades    = "agg:decadas"
)

// Options 服务配置
type Options struct {
	CacheTTL   time.Duration
	CacheSize  int
	AllowPurge bool
}

// CatalogService 影片目录服务
type CatalogService struct {
	store      repository.TitleStore
	aggregates *utils.TTLCache
	searches   *utils.SearchCache[[]model.TextHit]
	sf         singleflight.Group
	allowPurge bool

	// gen 每次写入后递增；读缓存只接受与当前代一致的结果
	mu  sync.Mutex
	gen uint64
}

// NewCatalogService 创建目录服务
func NewCatalogService(store repository.TitleStore, opts Options) *CatalogService {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = time.Minute
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 256
	}
	return &CatalogService{
		store:      store,
		aggregates: utils.NewTTLCache(opts.CacheTTL),
		searches:   utils.NewSearchCache[[]model.TextHit](opts.CacheSize, opts.CacheTTL),
		allowPurge: opts.AllowPurge,
	}
}

// Ping 存储探活
func (s *CatalogService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// invalidate 任何写操作成功后清空读缓存，并使进行中的加载作废
func (s *CatalogService) invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.aggregates.Flush()
	s.searches.Clear()
	metrics.SetCacheEntries("agregados", s.aggregates.Len())
	metrics.SetCacheEntries("texto", s.searches.Len())
}

func (s *CatalogService) generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// storeIfCurrent 仅当加载期间没有写入时才回填缓存
func (s *CatalogService) storeIfCurrent(gen uint64, fill func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen == gen {
		fill()
	}
}

// parseID 在访问存储前校验 ID
func parseID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", ErrInvalidID
	}
	return parsed.String(), nil
}

func validateInput(in *model.TitleInput) error {
	if err := validation.ValidateStruct(in); err != nil {
		return invalid(err.Error())
	}
	return nil
}

func views(titles []*model.Title) []model.TitleView {
	res := make([]model.TitleView, 0, len(titles))
	for _, t := range titles {
		res = append(res, t.View())
	}
	return res
}

// List 全部影片
func (s *CatalogService) List(ctx context.Context) ([]model.TitleView, error) {
	titles, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return views(titles), nil
}

// Create 新增单条，返回新 ID
func (s *CatalogService) Create(ctx context.Context, in model.TitleInput) (string, error) {
	if err := validateInput(&in); err != nil {
		return "", err
	}

	title := in.ToTitle()
	if err := s.store.Create(ctx, title); err != nil {
		return "", err
	}
	s.invalidate()
	return title.ID, nil
}

// CreateBatch 批量新增，所有条目校验通过后才写入
func (s *CatalogService) CreateBatch(ctx context.Context, inputs []model.TitleInput) (int, error) {
	if len(inputs) == 0 {
		return 0, invalid("Envie uma lista de títulos")
	}

	titles := make([]*model.Title, 0, len(inputs))
	for i := range inputs {
		if err := validation.ValidateStruct(&inputs[i]); err != nil {
			return 0, invalid(fmt.Sprintf("item %d: %s", i, err.Error()))
		}
		titles = append(titles, inputs[i].ToTitle())
	}

	if err := s.store.CreateBatch(ctx, titles); err != nil {
		return 0, err
	}
	s.invalidate()
	return len(titles), nil
}

// Get 按 ID 读取
func (s *CatalogService) Get(ctx context.Context, id string) (model.TitleView, error) {
	id, err := parseID(id)
	if err != nil {
		return model.TitleView{}, err
	}

	title, err := s.store.FindByID(ctx, id)
	if err != nil {
		return model.TitleView{}, err
	}
	if title == nil {
		return model.TitleView{}, ErrNotFound
	}
	return title.View(), nil
}

// Update 整体替换三个核心字段
func (s *CatalogService) Update(ctx context.Context, id string, in model.TitleInput) error {
	id, err := parseID(id)
	if err != nil {
		return err
	}
	if err := validateInput(&in); err != nil {
		return err
	}

	title := in.ToTitle()
	title.ID = id
	ok, err := s.store.Update(ctx, title, in.Localizacao != nil)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	s.invalidate()
	return nil
}

// Delete 按 ID 删除
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	id, err := parseID(id)
	if err != nil {
		return err
	}

	ok, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	s.invalidate()
	return nil
}

// DeleteAll 清空集合，需显式开启
func (s *CatalogService) DeleteAll(ctx context.Context) (int64, error) {
	if !s.allowPurge {
		return 0, ErrPurgeDisabled
	}

	n, err := s.store.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	s.invalidate()
	log.Warn().Int64("removed", n).Msg("coleção titulos esvaziada")
	return n, nil
}

// ByYear 按年份过滤
func (s *CatalogService) ByYear(ctx context.Context, ano int) ([]model.TitleView, error) {
	titles, err := s.store.FindByYear(ctx, ano)
	if err != nil {
		return nil, err
	}
	return views(titles), nil
}

// ByCategory 按分类过滤
func (s *CatalogService) ByCategory(ctx context.Context, categoria string) ([]model.TitleView, error) {
	if strings.TrimSpace(categoria) == "" {
		return nil, invalid("Parâmetro 'categoria' é obrigatório")
	}
	titles, err := s.store.FindByCategory(ctx, categoria)
	if err != nil {
		return nil, err
	}
	return views(titles), nil
}

// SearchText 名称全文检索，结果按相关度降序
func (s *CatalogService) SearchText(ctx context.Context, query string) ([]model.TextHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalid("Parâmetro 'q' é obrigatório")
	}

	key := strings.ToLower(query)
	gen := s.generation()
	if hits, ok := s.searches.Get(key); ok {
		metrics.RecordCache("texto", true)
		return hits, nil
	}
	metrics.RecordCache("texto", false)

	hits, err := s.store.SearchText(ctx, query)
	if err != nil {
		return nil, err
	}
	s.storeIfCurrent(gen, func() {
		s.searches.Set(key, hits)
		metrics.SetCacheEntries("texto", s.searches.Len())
	})
	return hits, nil
}

// Near 半径检索，结果按距离升序
func (s *CatalogService) Near(ctx context.Context, lat, lng, maxDistance float64) ([]model.GeoHit, error) {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return nil, invalid("Latitude inválida")
	}
	if math.IsNaN(lng) || lng < -180 || lng > 180 {
		return nil, invalid("Longitude inválida")
	}
	if math.IsNaN(maxDistance) || math.IsInf(maxDistance, 0) || maxDistance <= 0 {
		return nil, invalid("Distância inválida")
	}
	return s.store.Near(ctx, lng, lat, maxDistance)
}

// cachedAggregate 读缓存，未命中时合并同一代内的并发请求
func cachedAggregate[T any](s *CatalogService, key string, load func() (T, error)) (T, error) {
	gen := s.generation()
	if v, ok := s.aggregates.Get(key); ok {
		metrics.RecordCache(key, true)
		return v.(T), nil
	}
	metrics.RecordCache(key, false)

	// 写入之后到达的请求不能复用写入之前开始的加载
	v, err, _ := s.sf.Do(key+"#"+strconv.FormatUint(gen, 10), func() (interface{}, error) {
		res, err := load()
		if err != nil {
			return nil, err
		}
		s.storeIfCurrent(gen, func() {
			s.aggregates.Set(key, res)
			metrics.SetCacheEntries("agregados", s.aggregates.Len())
		})
		return res, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// CountByCategory 按分类统计
func (s *CatalogService) CountByCategory(ctx context.Context) ([]model.CategoryCount, error) {
	return cachedAggregate(s, cacheKeyCategories, func() ([]model.CategoryCount, error) {
		return s.store.CountByCategory(ctx)
	})
}

// CountByDecade 按年代统计
func (s *CatalogService) CountByDecade(ctx context.Context) ([]model.DecadeCount, error) {
	return cachedAggregate(s, cacheKeyDecades, func() ([]model.DecadeCount, error) {
		return s.store.CountByDecade(ctx)
	})
}

func (s *CatalogService) sample(ctx context.Context, filter repository.SampleFilter) (model.TitleView, error) {
	title, err := s.store.Sample(ctx, filter)
	if err != nil {
		return model.TitleView{}, err
	}
	if title == nil {
		return model.TitleView{}, ErrNotFound
	}
	return title.View(), nil
}

// Sample 全集随机抽取一条
func (s *CatalogService) Sample(ctx context.Context) (model.TitleView, error) {
	return s.sample(ctx, repository.SampleFilter{})
}

// SampleByCategory 指定分类内随机抽取
func (s *CatalogService) SampleByCategory(ctx context.Context, categoria string) (model.TitleView, error) {
	return s.sample(ctx, repository.SampleFilter{Categoria: &categoria})
}

// SampleByDecade 指定年代内随机抽取
func (s *CatalogService) SampleByDecade(ctx context.Context, decada int) (model.TitleView, error) {
	return s.sample(ctx, repository.SampleFilter{Decada: &decada})
}

// IsClientError 判断是否为调用方错误（400）
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidID) || errors.Is(err, ErrInvalidInput)
}
