package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/user/decideflix/internal/model"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *MemoryTitleStore
	ctx   context.Context
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewMemoryTitleStore()
	s.ctx = context.Background()
}

func newTitle(nome, categoria string, ano int) *model.Title {
	return &model.Title{Nome: nome, Categoria: categoria, Ano: ano}
}

func (s *MemoryStoreSuite) seed(titles ...*model.Title) {
	s.Require().NoError(s.store.CreateBatch(s.ctx, titles))
}

func (s *MemoryStoreSuite) TestCreateAndFind() {
	s.Run("assigns id and returns copy", func() {
		t := newTitle("Matrix", "Ficção", 1999)
		s.Require().NoError(s.store.Create(s.ctx, t))
		s.NotEmpty(t.ID)

		found, err := s.store.FindByID(s.ctx, t.ID)
		s.Require().NoError(err)
		s.Require().NotNil(found)
		s.Equal("Matrix", found.Nome)

		found.Nome = "alterado"
		again, _ := s.store.FindByID(s.ctx, t.ID)
		s.Equal("Matrix", again.Nome)
	})

	s.Run("missing id returns nil without error", func() {
		found, err := s.store.FindByID(s.ctx, "00000000-0000-0000-0000-000000000000")
		s.Require().NoError(err)
		s.Nil(found)
	})
}

func (s *MemoryStoreSuite) TestListKeepsInsertionOrder() {
	s.seed(newTitle("A", "x", 2000), newTitle("B", "x", 2001), newTitle("C", "y", 2002))

	titles, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(titles, 3)
	s.Equal([]string{"A", "B", "C"}, []string{titles[0].Nome, titles[1].Nome, titles[2].Nome})
}

func (s *MemoryStoreSuite) TestUpdate() {
	lng, lat := -43.2, -22.9
	t := newTitle("Cidade de Deus", "Drama", 2002)
	t.Longitude, t.Latitude = &lng, &lat
	s.seed(t)

	s.Run("keeps location when not supplied", func() {
		ok, err := s.store.Update(s.ctx, &model.Title{ID: t.ID, Nome: "Cidade de Deus", Categoria: "Crime", Ano: 2002}, false)
		s.Require().NoError(err)
		s.True(ok)

		found, _ := s.store.FindByID(s.ctx, t.ID)
		s.Equal("Crime", found.Categoria)
		s.NotNil(found.Localizacao())
	})

	s.Run("replaces location when supplied", func() {
		upd := &model.Title{ID: t.ID, Nome: "Cidade de Deus", Categoria: "Crime", Ano: 2002}
		upd.SetLocalizacao(model.NewGeoPoint(2.35, 48.85))
		ok, err := s.store.Update(s.ctx, upd, true)
		s.Require().NoError(err)
		s.True(ok)

		found, _ := s.store.FindByID(s.ctx, t.ID)
		s.InDelta(2.35, found.Localizacao().Lng(), 1e-9)
	})

	s.Run("unknown id reports no match", func() {
		ok, err := s.store.Update(s.ctx, &model.Title{ID: "nope"}, false)
		s.Require().NoError(err)
		s.False(ok)
	})
}

func (s *MemoryStoreSuite) TestDelete() {
	a, b := newTitle("A", "x", 2000), newTitle("B", "x", 2001)
	s.seed(a, b)

	ok, err := s.store.Delete(s.ctx, a.ID)
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.store.Delete(s.ctx, a.ID)
	s.Require().NoError(err)
	s.False(ok)

	titles, _ := s.store.List(s.ctx)
	s.Require().Len(titles, 1)
	s.Equal(b.ID, titles[0].ID)

	n, err := s.store.DeleteAll(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), n)
	titles, _ = s.store.List(s.ctx)
	s.Empty(titles)
}

func (s *MemoryStoreSuite) TestFilters() {
	s.seed(newTitle("Matrix", "Ficção", 1999), newTitle("Tropa de Elite", "Ação", 2007), newTitle("Shrek", "Animação", 2001), newTitle("Toy Story", "Animação", 1995))

	byYear, err := s.store.FindByYear(s.ctx, 1999)
	s.Require().NoError(err)
	s.Require().Len(byYear, 1)
	s.Equal("Matrix", byYear[0].Nome)

	byCategory, err := s.store.FindByCategory(s.ctx, "Animação")
	s.Require().NoError(err)
	s.Len(byCategory, 2)

	none, err := s.store.FindByCategory(s.ctx, "animação")
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *MemoryStoreSuite) TestSearchTextRanksByMatches() {
	s.seed(newTitle("Star Wars", "Ficção", 1977), newTitle("Star Trek", "Ficção", 1979), newTitle("Wars of the Stars", "Ficção", 1980), newTitle("Up", "Animação", 2009))

	hits, err := s.store.SearchText(s.ctx, "star wars")
	s.Require().NoError(err)
	s.Require().Len(hits, 3)
	s.Equal("Star Wars", hits[0].Nome)
	s.Equal(2.0, hits[0].Score)
	for i := 1; i < len(hits); i++ {
		s.LessOrEqual(hits[i].Score, hits[i-1].Score)
	}
}

func (s *MemoryStoreSuite) TestNear() {
	rio := newTitle("Cidade de Deus", "Drama", 2002)
	rio.SetLocalizacao(model.NewGeoPoint(-43.2, -22.9))
	sp := newTitle("Carandiru", "Drama", 2003)
	sp.SetLocalizacao(model.NewGeoPoint(-46.63, -23.55))
	paris := newTitle("Amélie", "Comédia", 2001)
	paris.SetLocalizacao(model.NewGeoPoint(2.35, 48.85))
	s.seed(rio, sp, paris, newTitle("Sem Lugar", "Drama", 2000))

	hits, err := s.store.Near(s.ctx, -43.2, -22.9, 500000)
	s.Require().NoError(err)
	s.Require().Len(hits, 2)
	s.Equal("Cidade de Deus", hits[0].Nome)
	s.Equal([]float64{-43.2, -22.9}, hits[0].Coordenadas)
	s.InDelta(0, hits[0].Distancia, 1)
	s.Equal("Carandiru", hits[1].Nome)
	s.LessOrEqual(hits[1].Distancia, 500000.0)
}

func (s *MemoryStoreSuite) TestCountByCategory() {
	s.seed(newTitle("Shrek", "Animação", 2001), newTitle("Up", "Animação", 2009), newTitle("Matrix", "Ficção", 1999))

	counts, err := s.store.CountByCategory(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(counts, 2)
	s.Equal("Animação", counts[0].Categoria)
	s.Equal(2, counts[0].QuantidadeFilmes)
	s.Equal([]string{"Shrek", "Up"}, counts[0].Filmes)

	total := 0
	for _, c := range counts {
		total += c.QuantidadeFilmes
	}
	s.Equal(3, total)
}

func (s *MemoryStoreSuite) TestCountByDecade() {
	s.seed(newTitle("Toy Story", "Animação", 1995), newTitle("Matrix", "Ficção", 1999), newTitle("Shrek", "Animação", 2001), newTitle("Pulp Fiction", "Crime", 1994))

	counts, err := s.store.CountByDecade(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(counts, 2)
	s.Equal(1990, counts[0].Decada)
	s.Equal(3, counts[0].QuantidadeFilmes)
	s.Equal(model.DecadeEntry{Nome: "Pulp Fiction", Ano: 1994}, counts[0].Filmes[0])
	s.Equal(2000, counts[1].Decada)
}

func (s *MemoryStoreSuite) TestSample() {
	s.Run("empty collection returns nil", func() {
		t, err := s.store.Sample(s.ctx, SampleFilter{})
		s.Require().NoError(err)
		s.Nil(t)
	})

	s.seed(newTitle("Matrix", "Ficção", 1999), newTitle("Shrek", "Animação", 2001))

	s.Run("honours category filter", func() {
		categoria := "Animação"
		for i := 0; i < 10; i++ {
			t, err := s.store.Sample(s.ctx, SampleFilter{Categoria: &categoria})
			s.Require().NoError(err)
			s.Equal("Shrek", t.Nome)
		}
	})

	s.Run("honours decade filter", func() {
		decada := 1990
		t, err := s.store.Sample(s.ctx, SampleFilter{Decada: &decada})
		s.Require().NoError(err)
		s.Equal("Matrix", t.Nome)

		decada = 1980
		t, err = s.store.Sample(s.ctx, SampleFilter{Decada: &decada})
		s.Require().NoError(err)
		s.Nil(t)
	})
}

func (s *MemoryStoreSuite) TestCancelledContext() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, err := s.store.List(ctx)
	s.ErrorIs(err, context.Canceled)
}

func TestHaversine(t *testing.T) {
	if d := Haversine(0, 0, 0, 0); d != 0 {
		t.Fatalf("expected 0, got %f", d)
	}
	// 赤道上一度经度约 111.3km
	d := Haversine(0, 0, 1, 0)
	if d < 111000 || d > 111500 {
		t.Fatalf("unexpected distance %f", d)
	}
}

func TestBackend(t *testing.T) {
	cases := map[string]string{
		"postgres://u:p@localhost:5432/db":   BackendPostgres,
		"postgresql://u:p@localhost:5432/db": BackendPostgres,
		"memory://":                          BackendMemory,
	}
	for url, want := range cases {
		got, err := Backend(url)
		if err != nil {
			t.Fatalf("%s: %v", url, err)
		}
		if got != want {
			t.Fatalf("%s: expected %s, got %s", url, want, got)
		}
	}

	for _, url := range []string{"", "mongodb://localhost:27017/decideflix"} {
		if _, err := Backend(url); err == nil {
			t.Fatalf("%q: expected error", url)
		}
	}
}
