package service

import "errors"

var (
	// ErrInvalidID ID 不是合法的 UUID
	ErrInvalidID = errors.New("id inválido")
	// ErrNotFound 没有匹配的影片
	ErrNotFound = errors.New("título não encontrado")
	// ErrInvalidInput 请求参数不合法
	ErrInvalidInput = errors.New("entrada inválida")
	// ErrPurgeDisabled 未开启清空集合
	ErrPurgeDisabled = errors.New("limpeza da coleção desabilitada")
)

// InputError 带具体提示的参数错误
type InputError struct {
	Msg string
}

func (e *InputError) Error() string { return e.Msg }

func (e *InputError) Unwrap() error { return ErrInvalidInput }

func invalid(msg string) error {
	return &InputError{Msg: msg}
}
