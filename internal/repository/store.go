package repository

import (
	"context"

	"github.com/user/decideflix/internal/model"
)

// SampleFilter 抽样过滤条件，nil 字段表示不过滤
type SampleFilter struct {
	Categoria *string
	Decada    *int
}

// TitleStore 影片集合存储接口
//
// 查找类方法在记录不存在时返回 (nil, nil)；Update/Delete 以 bool 表示是否命中。
type TitleStore interface {
	Ping(ctx context.Context) error
	Close() error

	List(ctx context.Context) ([]*model.Title, error)
	Create(ctx context.Context, title *model.Title) error
	CreateBatch(ctx context.Context, titles []*model.Title) error
	FindByID(ctx context.Context, id string) (*model.Title, error)
	Update(ctx context.Context, title *model.Title, withLocation bool) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	DeleteAll(ctx context.Context) (int64, error)

	FindByYear(ctx context.Context, ano int) ([]*model.Title, error)
	FindByCategory(ctx context.Context, categoria string) ([]*model.Title, error)
	SearchText(ctx context.Context, query string) ([]model.TextHit, error)
	Near(ctx context.Context, lng, lat, maxDistance float64) ([]model.GeoHit, error)

	CountByCategory(ctx context.Context) ([]model.CategoryCount, error)
	CountByDecade(ctx context.Context) ([]model.DecadeCount, error)
	Sample(ctx context.Context, filter SampleFilter) (*model.Title, error)
}

// earthRadiusMeters 球面距离使用的地球半径
const earthRadiusMeters = 6378100.0
