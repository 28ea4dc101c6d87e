package model

import (
	"time"
)

// Title 影片模型（titulos 集合）
type Title struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	Nome      string    `json:"nome" gorm:"not null"`
	Categoria string    `json:"categoria" gorm:"not null;index"`
	Ano       int       `json:"ano" gorm:"not null;index"`
	Longitude *float64  `json:"-"`
	Latitude  *float64  `json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TableName 固定表名
func (Title) TableName() string {
	return "titulos"
}

// Decada 由年份推导年代：floor(ano/10)*10
func (t *Title) Decada() int {
	return DecadeOf(t.Ano)
}

// Localizacao 返回 GeoJSON 点（未设置位置时为 nil）
func (t *Title) Localizacao() *GeoPoint {
	if t.Longitude == nil || t.Latitude == nil {
		return nil
	}
	return NewGeoPoint(*t.Longitude, *t.Latitude)
}

// SetLocalizacao 写入位置，nil 表示清空
func (t *Title) SetLocalizacao(p *GeoPoint) {
	if p == nil {
		t.Longitude, t.Latitude = nil, nil
		return
	}
	lng, lat := p.Lng(), p.Lat()
	t.Longitude, t.Latitude = &lng, &lat
}

// View 对外投影 {id, nome, categoria, ano}
func (t *Title) View() TitleView {
	return TitleView{
		ID:          t.ID,
		Nome:        t.Nome,
		Categoria:   t.Categoria,
		Ano:         t.Ano,
		Localizacao: t.Localizacao(),
	}
}

// DecadeOf 年代计算，负数年份同样向下取整
func DecadeOf(ano int) int {
	d := ano / 10
	if ano < 0 && ano%10 != 0 {
		d--
	}
	return d * 10
}

// GeoPoint GeoJSON Point，坐标顺序为 [经度, 纬度]
type GeoPoint struct {
	Type        string    `json:"type" yaml:"type"`
	Coordinates []float64 `json:"coordinates" yaml:"coordinates"`
}

// NewGeoPoint 创建点
func NewGeoPoint(lng, lat float64) *GeoPoint {
	return &GeoPoint{Type: "Point", Coordinates: []float64{lng, lat}}
}

// Lng 经度
func (p *GeoPoint) Lng() float64 { return p.Coordinates[0] }

// Lat 纬度
func (p *GeoPoint) Lat() float64 { return p.Coordinates[1] }

// Valid 类型为 Point 且经纬度在合法范围内
func (p *GeoPoint) Valid() bool {
	if p.Type != "Point" || len(p.Coordinates) != 2 {
		return false
	}
	lng, lat := p.Coordinates[0], p.Coordinates[1]
	return lng >= -180 && lng <= 180 && lat >= -90 && lat <= 90
}

// TitleInput 创建/更新请求体
type TitleInput struct {
	Nome        string    `json:"nome" yaml:"nome" validate:"required,notblank,max=300"`
	Categoria   string    `json:"categoria" yaml:"categoria" validate:"required,notblank,max=100"`
	Ano         *int      `json:"ano" yaml:"ano" validate:"required,gte=1,lte=9999"`
	Localizacao *GeoPoint `json:"localizacao,omitempty" yaml:"localizacao,omitempty" validate:"omitempty"`
}

// ToTitle 转换为存储模型
func (in *TitleInput) ToTitle() *Title {
	t := &Title{Nome: in.Nome, Categoria: in.Categoria}
	if in.Ano != nil {
		t.Ano = *in.Ano
	}
	t.SetLocalizacao(in.Localizacao)
	return t
}

// TitleView 影片投影
type TitleView struct {
	ID          string    `json:"id"`
	Nome        string    `json:"nome"`
	Categoria   string    `json:"categoria"`
	Ano         int       `json:"ano"`
	Localizacao *GeoPoint `json:"localizacao,omitempty"`
}

// TextHit 全文搜索结果，带相关度
type TextHit struct {
	TitleView
	Score float64 `json:"score_relevancia"`
}

// GeoHit 地理搜索结果，带坐标 [经度, 纬度] 与距离（米）
type GeoHit struct {
	TitleView
	Coordenadas []float64 `json:"coordenadas"`
	Distancia   float64   `json:"distancia"`
}

// NewGeoHit 由带位置的影片构造结果
func NewGeoHit(t *Title, distancia float64) GeoHit {
	hit := GeoHit{TitleView: t.View(), Distancia: distancia}
	if p := t.Localizacao(); p != nil {
		hit.Coordenadas = p.Coordinates
	}
	return hit
}

// SearchResult 检索接口统一返回 {quantidade, resultados}
type SearchResult[T any] struct {
	Quantidade int `json:"quantidade"`
	Resultados []T `json:"resultados"`
}

// NewSearchResult 包装结果列表，nil 输出为空数组
func NewSearchResult[T any](items []T) SearchResult[T] {
	if items == nil {
		items = []T{}
	}
	return SearchResult[T]{Quantidade: len(items), Resultados: items}
}

// CategoryCount 按分类统计
type CategoryCount struct {
	Categoria        string   `json:"categoria"`
	QuantidadeFilmes int      `json:"quantidade_filmes"`
	Filmes           []string `json:"filmes"`
}

// DecadeEntry 年代统计中的单部影片
type DecadeEntry struct {
	Nome string `json:"nome"`
	Ano  int    `json:"ano"`
}

// DecadeCount 按年代统计
type DecadeCount struct {
	Decada           int           `json:"decada"`
	QuantidadeFilmes int           `json:"quantidade_filmes"`
	Filmes           []DecadeEntry `json:"filmes"`
}
