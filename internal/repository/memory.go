package repository

import (
	"context"
	"math"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/user/decideflix/internal/model"
)

// MemoryTitleStore 进程内影片集合（memory:// 连接串）
type MemoryTitleStore struct {
	mu     sync.RWMutex
	titles map[string]*model.Title
	order  []string // 插入顺序
}

// NewMemoryTitleStore 创建内存仓库
func NewMemoryTitleStore() *MemoryTitleStore {
	return &MemoryTitleStore{titles: make(map[string]*model.Title)}
}

func (s *MemoryTitleStore) Ping(ctx context.Context) error { return ctx.Err() }

func (s *MemoryTitleStore) Close() error { return nil }

// each 按插入顺序遍历，调用方需持有读锁
func (s *MemoryTitleStore) each(fn func(t *model.Title)) {
	for _, id := range s.order {
		fn(s.titles[id])
	}
}

func (s *MemoryTitleStore) filter(pred func(t *model.Title) bool) []*model.Title {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := []*model.Title{}
	s.each(func(t *model.Title) {
		if pred(t) {
			res = append(res, clone(t))
		}
	})
	return res
}

func (s *MemoryTitleStore) List(ctx context.Context) ([]*model.Title, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.filter(func(*model.Title) bool { return true }), nil
}

func (s *MemoryTitleStore) Create(ctx context.Context, title *model.Title) error {
	return s.CreateBatch(ctx, []*model.Title{title})
}

func (s *MemoryTitleStore) CreateBatch(ctx context.Context, titles []*model.Title) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for _, t := range titles {
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		t.CreatedAt, t.UpdatedAt = now, now
		s.titles[t.ID] = clone(t)
		s.order = append(s.order, t.ID)
	}
	return nil
}

func (s *MemoryTitleStore) FindByID(ctx context.Context, id string) (*model.Title, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.titles[id]
	if !ok {
		return nil, nil
	}
	return clone(t), nil
}

func (s *MemoryTitleStore) Update(ctx context.Context, title *model.Title, withLocation bool) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.titles[title.ID]
	if !ok {
		return false, nil
	}
	t.Nome, t.Categoria, t.Ano = title.Nome, title.Categoria, title.Ano
	if withLocation {
		t.SetLocalizacao(title.Localizacao())
	}
	t.UpdatedAt = time.Now()
	return true, nil
}

func (s *MemoryTitleStore) Delete(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.titles[id]; !ok {
		return false, nil
	}
	delete(s.titles, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (s *MemoryTitleStore) DeleteAll(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	n := int64(len(s.titles))
	s.titles = make(map[string]*model.Title)
	s.order = nil
	return n, nil
}

func (s *MemoryTitleStore) FindByYear(ctx context.Context, ano int) ([]*model.Title, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.filter(func(t *model.Title) bool { return t.Ano == ano }), nil
}

func (s *MemoryTitleStore) FindByCategory(ctx context.Context, categoria string) ([]*model.Title, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.filter(func(t *model.Title) bool { return t.Categoria == categoria }), nil
}

// SearchText 相关度 = 名称中命中查询词的词数
func (s *MemoryTitleStore) SearchText(ctx context.Context, query string) ([]model.TextHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	terms := make(map[string]struct{})
	for _, w := range tokenize(query) {
		terms[w] = struct{}{}
	}

	hits := []model.TextHit{}
	for _, t := range s.filter(func(*model.Title) bool { return true }) {
		score := 0
		for _, w := range tokenize(t.Nome) {
			if _, ok := terms[w]; ok {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, model.TextHit{TitleView: t.View(), Score: float64(score)})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Nome < hits[j].Nome
	})
	return hits, nil
}

func (s *MemoryTitleStore) Near(ctx context.Context, lng, lat, maxDistance float64) ([]model.GeoHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	hits := []model.GeoHit{}
	for _, t := range s.filter(func(t *model.Title) bool { return t.Longitude != nil && t.Latitude != nil }) {
		d := Haversine(lng, lat, *t.Longitude, *t.Latitude)
		if d <= maxDistance {
			hits = append(hits, model.NewGeoHit(t, d))
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distancia < hits[j].Distancia })
	return hits, nil
}

func (s *MemoryTitleStore) CountByCategory(ctx context.Context) ([]model.CategoryCount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	groups := map[string]*model.CategoryCount{}
	for _, t := range s.filter(func(*model.Title) bool { return true }) {
		g, ok := groups[t.Categoria]
		if !ok {
			g = &model.CategoryCount{Categoria: t.Categoria}
			groups[t.Categoria] = g
		}
		g.QuantidadeFilmes++
		g.Filmes = append(g.Filmes, t.Nome)
	}

	counts := make([]model.CategoryCount, 0, len(groups))
	for _, g := range groups {
		sort.Strings(g.Filmes)
		counts = append(counts, *g)
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].QuantidadeFilmes != counts[j].QuantidadeFilmes {
			return counts[i].QuantidadeFilmes > counts[j].QuantidadeFilmes
		}
		return counts[i].Categoria < counts[j].Categoria
	})
	return counts, nil
}

func (s *MemoryTitleStore) CountByDecade(ctx context.Context) ([]model.DecadeCount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	groups := map[int]*model.DecadeCount{}
	for _, t := range s.filter(func(*model.Title) bool { return true }) {
		d := t.Decada()
		g, ok := groups[d]
		if !ok {
			g = &model.DecadeCount{Decada: d}
			groups[d] = g
		}
		g.QuantidadeFilmes++
		g.Filmes = append(g.Filmes, model.DecadeEntry{Nome: t.Nome, Ano: t.Ano})
	}

	counts := make([]model.DecadeCount, 0, len(groups))
	for _, g := range groups {
		sort.Slice(g.Filmes, func(i, j int) bool {
			if g.Filmes[i].Ano != g.Filmes[j].Ano {
				return g.Filmes[i].Ano < g.Filmes[j].Ano
			}
			return g.Filmes[i].Nome < g.Filmes[j].Nome
		})
		counts = append(counts, *g)
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Decada < counts[j].Decada })
	return counts, nil
}

func (s *MemoryTitleStore) Sample(ctx context.Context, filter SampleFilter) (*model.Title, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pool := s.filter(func(t *model.Title) bool {
		if filter.Categoria != nil && t.Categoria != *filter.Categoria {
			return false
		}
		if filter.Decada != nil && t.Decada() != *filter.Decada {
			return false
		}
		return true
	})
	if len(pool) == 0 {
		return nil, nil
	}
	return pool[rand.IntN(len(pool))], nil
}

// Haversine 两点球面距离（米），参数顺序为 (经度, 纬度)
func Haversine(lng1, lat1, lng2, lat2 float64) float64 {
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := rad(lat2 - lat1)
	dLng := rad(lng2 - lng1)
	a := math.Pow(math.Sin(dLat/2), 2) + math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Pow(math.Sin(dLng/2), 2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(a)))
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

func clone(t *model.Title) *model.Title {
	c := *t
	if t.Longitude != nil {
		lng := *t.Longitude
		c.Longitude = &lng
	}
	if t.Latitude != nil {
		lat := *t.Latitude
		c.Latitude = &lat
	}
	return &c
}
