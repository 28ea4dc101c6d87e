// Package validation 请求结构体校验（go-playground/validator），错误信息面向 API 调用方。
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/user/decideflix/internal/model"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError 单个字段的校验失败
type FieldError struct {
	Field string
	Tag   string
	Param string
}

// Error 返回可直接给调用方的信息
func (e *FieldError) Error() string {
	switch e.Tag {
	case "required":
		return fmt.Sprintf("campo '%s' é obrigatório", e.Field)
	case "notblank":
		return fmt.Sprintf("campo '%s' não pode ser vazio", e.Field)
	case "max":
		return fmt.Sprintf("campo '%s' excede o tamanho máximo (%s)", e.Field, e.Param)
	case "gte":
		return fmt.Sprintf("campo '%s' deve ser maior ou igual a %s", e.Field, e.Param)
	case "lte":
		return fmt.Sprintf("campo '%s' deve ser menor ou igual a %s", e.Field, e.Param)
	case "geopoint":
		return fmt.Sprintf("campo '%s' deve ser um Point com coordenadas [longitude, latitude] válidas", e.Field)
	default:
		return fmt.Sprintf("campo '%s' inválido", e.Field)
	}
}

func get() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// 错误中使用 JSON 字段名
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		// 注册失败只可能是编程错误
		if err := validate.RegisterValidation("notblank", validators.NotBlank); err != nil {
			panic(err)
		}
		validate.RegisterStructValidation(geoPointLevel, model.GeoPoint{})
	})
	return validate
}

func geoPointLevel(sl validator.StructLevel) {
	p := sl.Current().Interface().(model.GeoPoint)
	if !p.Valid() {
		sl.ReportError(p.Coordinates, "coordinates", "Coordinates", "geopoint", "")
	}
}

// ValidateStruct 校验结构体，返回第一个失败字段
func ValidateStruct(s interface{}) error {
	err := get().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	field := fe.Field()
	if fe.Tag() == "geopoint" {
		field = "localizacao"
	}
	return &FieldError{Field: field, Tag: fe.Tag(), Param: fe.Param()}
}
