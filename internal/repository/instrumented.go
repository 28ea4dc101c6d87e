package repository

import (
	"context"
	"time"

	"github.com/user/decideflix/internal/metrics"
	"github.com/user/decideflix/internal/model"
)

// instrumentedStore 为每个存储操作记录耗时与错误
type instrumentedStore struct {
	next    TitleStore
	backend string
}

// Instrument 包装存储，记录 Prometheus 指标
func Instrument(next TitleStore, backend string) TitleStore {
	return &instrumentedStore{next: next, backend: backend}
}

func (s *instrumentedStore) observe(op string, start time.Time, err error) {
	metrics.RecordStoreOperation(s.backend, op, time.Since(start), err)
}

func (s *instrumentedStore) Ping(ctx context.Context) error {
	start := time.Now()
	err := s.next.Ping(ctx)
	s.observe("ping", start, err)
	return err
}

func (s *instrumentedStore) Close() error {
	return s.next.Close()
}

func (s *instrumentedStore) List(ctx context.Context) ([]*model.Title, error) {
	start := time.Now()
	titles, err := s.next.List(ctx)
	s.observe("list", start, err)
	return titles, err
}

func (s *instrumentedStore) Create(ctx context.Context, title *model.Title) error {
	start := time.Now()
	err := s.next.Create(ctx, title)
	s.observe("create", start, err)
	return err
}

func (s *instrumentedStore) CreateBatch(ctx context.Context, titles []*model.Title) error {
	start := time.Now()
	err := s.next.CreateBatch(ctx, titles)
	s.observe("create_batch", start, err)
	return err
}

func (s *instrumentedStore) FindByID(ctx context.Context, id string) (*model.Title, error) {
	start := time.Now()
	title, err := s.next.FindByID(ctx, id)
	s.observe("find_by_id", start, err)
	return title, err
}

func (s *instrumentedStore) Update(ctx context.Context, title *model.Title, withLocation bool) (bool, error) {
	start := time.Now()
	ok, err := s.next.Update(ctx, title, withLocation)
	s.observe("update", start, err)
	return ok, err
}

func (s *instrumentedStore) Delete(ctx context.Context, id string) (bool, error) {
	start := time.Now()
	ok, err := s.next.Delete(ctx, id)
	s.observe("delete", start, err)
	return ok, err
}

func (s *instrumentedStore) DeleteAll(ctx context.Context) (int64, error) {
	start := time.Now()
	n, err := s.next.DeleteAll(ctx)
	s.observe("delete_all", start, err)
	return n, err
}

func (s *instrumentedStore) FindByYear(ctx context.Context, ano int) ([]*model.Title, error) {
	start := time.Now()
	titles, err := s.next.FindByYear(ctx, ano)
	s.observe("find_by_year", start, err)
	return titles, err
}

func (s *instrumentedStore) FindByCategory(ctx context.Context, categoria string) ([]*model.Title, error) {
	start := time.Now()
	titles, err := s.next.FindByCategory(ctx, categoria)
	s.observe("find_by_category", start, err)
	return titles, err
}

func (s *instrumentedStore) SearchText(ctx context.Context, query string) ([]model.TextHit, error) {
	start := time.Now()
	hits, err := s.next.SearchText(ctx, query)
	s.observe("search_text", start, err)
	return hits, err
}

func (s *instrumentedStore) Near(ctx context.Context, lng, lat, maxDistance float64) ([]model.GeoHit, error) {
	start := time.Now()
	hits, err := s.next.Near(ctx, lng, lat, maxDistance)
	s.observe("near", start, err)
	return hits, err
}

func (s *instrumentedStore) CountByCategory(ctx context.Context) ([]model.CategoryCount, error) {
	start := time.Now()
	counts, err := s.next.CountByCategory(ctx)
	s.observe("count_by_category", start, err)
	return counts, err
}

func (s *instrumentedStore) CountByDecade(ctx context.Context) ([]model.DecadeCount, error) {
	start := time.Now()
	counts, err := s.next.CountByDecade(ctx)
	s.observe("count_by_decade", start, err)
	return counts, err
}

func (s *instrumentedStore) Sample(ctx context.Context, filter SampleFilter) (*model.Title, error) {
	start := time.Now()
	title, err := s.next.Sample(ctx, filter)
	s.observe("sample", start, err)
	return title, err
}
