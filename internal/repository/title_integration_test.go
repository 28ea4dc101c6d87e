//go:build integration

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/user/decideflix/internal/model"
	"github.com/user/decideflix/internal/repository"
	"gorm.io/gorm"
)

type PostgresStoreSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	store     *repository.TitleRepository
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("decideflix"),
		postgres.WithUsername("decideflix"),
		postgres.WithPassword("decideflix"),
		postgres.BasicWaitStrategies(),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.db, err = repository.InitDB(dsn)
	s.Require().NoError(err)
	s.store = repository.NewTitleRepository(s.db)
}

func (s *PostgresStoreSuite) TearDownSuite() {
	if s.store != nil {
		_ = s.store.Close()
	}
	if s.container != nil {
		_ = testcontainers.TerminateContainer(s.container)
	}
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.db.Exec("TRUNCATE TABLE titulos").Error)
}

func title(nome, categoria string, ano int) *model.Title {
	return &model.Title{Nome: nome, Categoria: categoria, Ano: ano}
}

func (s *PostgresStoreSuite) TestCRUD() {
	ctx := context.Background()
	t := title("Matrix", "Ficção", 1999)
	s.Require().NoError(s.store.Create(ctx, t))
	s.NotEmpty(t.ID)

	found, err := s.store.FindByID(ctx, t.ID)
	s.Require().NoError(err)
	s.Require().NotNil(found)
	s.Equal("Matrix", found.Nome)
	s.Nil(found.Localizacao())

	upd := title("Matrix Reloaded", "Ficção", 2003)
	upd.ID = t.ID
	upd.SetLocalizacao(model.NewGeoPoint(151.2, -33.86))
	ok, err := s.store.Update(ctx, upd, true)
	s.Require().NoError(err)
	s.True(ok)

	found, err = s.store.FindByID(ctx, t.ID)
	s.Require().NoError(err)
	s.Equal(2003, found.Ano)
	s.Require().NotNil(found.Localizacao())

	ok, err = s.store.Delete(ctx, t.ID)
	s.Require().NoError(err)
	s.True(ok)

	found, err = s.store.FindByID(ctx, t.ID)
	s.Require().NoError(err)
	s.Nil(found)
}

func (s *PostgresStoreSuite) TestSearchAndAggregates() {
	ctx := context.Background()
	rio := title("Cidade de Deus", "Drama", 2002)
	rio.SetLocalizacao(model.NewGeoPoint(-43.2, -22.9))
	s.Require().NoError(s.store.CreateBatch(ctx, []*model.Title{
		rio,
		title("Star Wars", "Ficção", 1977),
		title("Star Trek", "Ficção", 1979),
		title("Toy Story", "Animação", 1995),
	}))

	hits, err := s.store.SearchText(ctx, "star wars")
	s.Require().NoError(err)
	s.Require().NotEmpty(hits)
	s.Equal("Star Wars", hits[0].Nome)

	near, err := s.store.Near(ctx, -43.2, -22.9, 1000)
	s.Require().NoError(err)
	s.Require().Len(near, 1)
	s.Equal("Cidade de Deus", near[0].Nome)

	categories, err := s.store.CountByCategory(ctx)
	s.Require().NoError(err)
	s.Require().NotEmpty(categories)
	s.Equal("Ficção", categories[0].Categoria)
	s.Equal(2, categories[0].QuantidadeFilmes)

	decades, err := s.store.CountByDecade(ctx)
	s.Require().NoError(err)
	s.Require().Len(decades, 3)
	s.Equal(1970, decades[0].Decada)
	s.Equal(2, decades[0].QuantidadeFilmes)

	decada := 1990
	sample, err := s.store.Sample(ctx, repository.SampleFilter{Decada: &decada})
	s.Require().NoError(err)
	s.Require().NotNil(sample)
	s.Equal("Toy Story", sample.Nome)

	n, err := s.store.DeleteAll(ctx)
	s.Require().NoError(err)
	s.Equal(int64(4), n)
}
