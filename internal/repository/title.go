package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/user/decideflix/internal/model"
	"gorm.io/gorm"
)

// decadeExpr 与应用层 DecadeOf 保持一致
const decadeExpr = "(FLOOR(ano / 10.0) * 10)::int"

// batchSize 批量插入每批条数
const batchSize = 500

// TitleRepository Postgres 影片仓库
type TitleRepository struct {
	db *gorm.DB
}

// NewTitleRepository 创建影片仓库
func NewTitleRepository(db *gorm.DB) *TitleRepository {
	return &TitleRepository{db: db}
}

// Ping 探活
func (r *TitleRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close 关闭连接池
func (r *TitleRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// List 全部影片
func (r *TitleRepository) List(ctx context.Context) ([]*model.Title, error) {
	var titles []*model.Title
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&titles).Error; err != nil {
		return nil, fmt.Errorf("titulos: list: %w", err)
	}
	return titles, nil
}

// Create 插入单条，ID 由仓库分配
func (r *TitleRepository) Create(ctx context.Context, title *model.Title) error {
	if title.ID == "" {
		title.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(title).Error; err != nil {
		return fmt.Errorf("titulos: create: %w", err)
	}
	return nil
}

// CreateBatch 单事务批量插入，任一失败则全部回滚
func (r *TitleRepository) CreateBatch(ctx context.Context, titles []*model.Title) error {
	for _, t := range titles {
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(titles, batchSize).Error
	})
	if err != nil {
		return fmt.Errorf("titulos: create batch: %w", err)
	}
	return nil
}

// FindByID 根据 ID 查找影片
func (r *TitleRepository) FindByID(ctx context.Context, id string) (*model.Title, error) {
	var title model.Title
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&title).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("titulos: find %s: %w", id, err)
	}
	return &title, nil
}

// Update 整体替换 nome/categoria/ano，withLocation 时同时替换位置
func (r *TitleRepository) Update(ctx context.Context, title *model.Title, withLocation bool) (bool, error) {
	fields := map[string]interface{}{
		"nome":      title.Nome,
		"categoria": title.Categoria,
		"ano":       title.Ano,
	}
	if withLocation {
		fields["longitude"] = title.Longitude
		fields["latitude"] = title.Latitude
	}

	result := r.db.WithContext(ctx).Model(&model.Title{}).Where("id = ?", title.ID).Updates(fields)
	if result.Error != nil {
		return false, fmt.Errorf("titulos: update %s: %w", title.ID, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Delete 物理删除
func (r *TitleRepository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Title{})
	if result.Error != nil {
		return false, fmt.Errorf("titulos: delete %s: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// DeleteAll 清空集合
func (r *TitleRepository) DeleteAll(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Title{})
	if result.Error != nil {
		return 0, fmt.Errorf("titulos: delete all: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// FindByYear 按年份精确匹配
func (r *TitleRepository) FindByYear(ctx context.Context, ano int) ([]*model.Title, error) {
	var titles []*model.Title
	if err := r.db.WithContext(ctx).Where("ano = ?", ano).Find(&titles).Error; err != nil {
		return nil, fmt.Errorf("titulos: find by year: %w", err)
	}
	return titles, nil
}

// FindByCategory 按分类精确匹配（走 categoria 索引）
func (r *TitleRepository) FindByCategory(ctx context.Context, categoria string) ([]*model.Title, error) {
	var titles []*model.Title
	if err := r.db.WithContext(ctx).Where("categoria = ?", categoria).Find(&titles).Error; err != nil {
		return nil, fmt.Errorf("titulos: find by category: %w", err)
	}
	return titles, nil
}

// scoredRow 带附加计算列的查询行
type scoredRow struct {
	ID        string
	Nome      string
	Categoria string
	Ano       int
	Longitude *float64
	Latitude  *float64
	Score     float64
	Distancia float64
}

func (row *scoredRow) title() *model.Title {
	return &model.Title{
		ID:        row.ID,
		Nome:      row.Nome,
		Categoria: row.Categoria,
		Ano:       row.Ano,
		Longitude: row.Longitude,
		Latitude:  row.Latitude,
	}
}

// SearchText 全文检索，按 ts_rank 降序
func (r *TitleRepository) SearchText(ctx context.Context, query string) ([]model.TextHit, error) {
	var rows []scoredRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, nome, categoria, ano, longitude, latitude,
		       ts_rank(to_tsvector('simple', nome), plainto_tsquery('simple', @q)) AS score
		FROM titulos
		WHERE to_tsvector('simple', nome) @@ plainto_tsquery('simple', @q)
		ORDER BY score DESC, nome ASC
	`, map[string]interface{}{"q": query}).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("titulos: text search: %w", err)
	}

	hits := make([]model.TextHit, 0, len(rows))
	for i := range rows {
		hits = append(hits, model.TextHit{TitleView: rows[i].title().View(), Score: rows[i].Score})
	}
	return hits, nil
}

// Near 球面距离检索，按距离升序
func (r *TitleRepository) Near(ctx context.Context, lng, lat, maxDistance float64) ([]model.GeoHit, error) {
	var rows []scoredRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT * FROM (
			SELECT id, nome, categoria, ano, longitude, latitude,
			       2 * CAST(@radius AS float8) * ASIN(LEAST(1, SQRT(
			           POWER(SIN(RADIANS(latitude - CAST(@lat AS float8)) / 2), 2) +
			           COS(RADIANS(CAST(@lat AS float8))) * COS(RADIANS(latitude)) *
			           POWER(SIN(RADIANS(longitude - CAST(@lng AS float8)) / 2), 2)
			       ))) AS distancia
			FROM titulos
			WHERE longitude IS NOT NULL AND latitude IS NOT NULL
		) AS t
		WHERE distancia <= CAST(@dist AS float8)
		ORDER BY distancia ASC
	`, map[string]interface{}{
		"radius": earthRadiusMeters,
		"lat":    lat,
		"lng":    lng,
		"dist":   maxDistance,
	}).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("titulos: near: %w", err)
	}

	hits := make([]model.GeoHit, 0, len(rows))
	for i := range rows {
		hits = append(hits, model.NewGeoHit(rows[i].title(), rows[i].Distancia))
	}
	return hits, nil
}

// CountByCategory 按分类聚合，数量降序
func (r *TitleRepository) CountByCategory(ctx context.Context) ([]model.CategoryCount, error) {
	rows, err := r.db.WithContext(ctx).Raw(`
		SELECT categoria, COUNT(*) AS quantidade_filmes, array_agg(nome ORDER BY nome) AS filmes
		FROM titulos
		GROUP BY categoria
		ORDER BY quantidade_filmes DESC, categoria ASC
	`).Rows()
	if err != nil {
		return nil, fmt.Errorf("titulos: count by category: %w", err)
	}
	defer rows.Close()

	counts := []model.CategoryCount{}
	for rows.Next() {
		var c model.CategoryCount
		if err := rows.Scan(&c.Categoria, &c.QuantidadeFilmes, pq.Array(&c.Filmes)); err != nil {
			return nil, fmt.Errorf("titulos: count by category: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// CountByDecade 按年代聚合，年代升序
func (r *TitleRepository) CountByDecade(ctx context.Context) ([]model.DecadeCount, error) {
	rows, err := r.db.WithContext(ctx).Raw(`
		SELECT ` + decadeExpr + ` AS decada, COUNT(*) AS quantidade_filmes,
		       json_agg(json_build_object('nome', nome, 'ano', ano) ORDER BY ano, nome) AS filmes
		FROM titulos
		GROUP BY 1
		ORDER BY 1 ASC
	`).Rows()
	if err != nil {
		return nil, fmt.Errorf("titulos: count by decade: %w", err)
	}
	defer rows.Close()

	counts := []model.DecadeCount{}
	for rows.Next() {
		var c model.DecadeCount
		var filmesJSON []byte
		if err := rows.Scan(&c.Decada, &c.QuantidadeFilmes, &filmesJSON); err != nil {
			return nil, fmt.Errorf("titulos: count by decade: %w", err)
		}
		if err := json.Unmarshal(filmesJSON, &c.Filmes); err != nil {
			return nil, fmt.Errorf("titulos: decode decade entries: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// Sample 在过滤后的集合中均匀随机抽取一条
func (r *TitleRepository) Sample(ctx context.Context, filter SampleFilter) (*model.Title, error) {
	query := r.db.WithContext(ctx).Model(&model.Title{})
	if filter.Categoria != nil {
		query = query.Where("categoria = ?", *filter.Categoria)
	}
	if filter.Decada != nil {
		query = query.Where(decadeExpr+" = ?", *filter.Decada)
	}

	var titles []*model.Title
	if err := query.Order("random()").Limit(1).Find(&titles).Error; err != nil {
		return nil, fmt.Errorf("titulos: sample: %w", err)
	}
	if len(titles) == 0 {
		return nil, nil
	}
	return titles[0], nil
}
