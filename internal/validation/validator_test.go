package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/decideflix/internal/model"
)

func ano(v int) *int { return &v }

func TestValidateStruct(t *testing.T) {
	valid := model.TitleInput{Nome: "Matrix", Categoria: "Ficção", Ano: ano(1999)}
	require.NoError(t, ValidateStruct(&valid))

	withPoint := valid
	withPoint.Localizacao = model.NewGeoPoint(-43.2, -22.9)
	require.NoError(t, ValidateStruct(&withPoint))

	cases := []struct {
		name  string
		in    model.TitleInput
		field string
		tag   string
	}{
		{"missing nome", model.TitleInput{Categoria: "Drama", Ano: ano(2000)}, "nome", "required"},
		{"blank nome", model.TitleInput{Nome: "  ", Categoria: "Drama", Ano: ano(2000)}, "nome", "notblank"},
		{"missing categoria", model.TitleInput{Nome: "X", Ano: ano(2000)}, "categoria", "required"},
		{"missing ano", model.TitleInput{Nome: "X", Categoria: "Drama"}, "ano", "required"},
		{"zero ano", model.TitleInput{Nome: "X", Categoria: "Drama", Ano: ano(0)}, "ano", "gte"},
		{"bad point", model.TitleInput{Nome: "X", Categoria: "Drama", Ano: ano(2000), Localizacao: &model.GeoPoint{Type: "Point", Coordinates: []float64{0, 95}}}, "localizacao", "geopoint"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateStruct(&tc.in)
			require.Error(t, err)

			var fe *FieldError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tc.field, fe.Field)
			assert.Equal(t, tc.tag, fe.Tag)
			assert.Contains(t, fe.Error(), tc.field)
		})
	}
}
