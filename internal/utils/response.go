package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse 统一错误结构
type ErrorResponse struct {
	Erro string `json:"erro"`
}

// MessageResponse 操作结果
type MessageResponse struct {
	Mensagem   string `json:"mensagem"`
	ID         string `json:"id,omitempty"`
	Quantidade *int64 `json:"quantidade,omitempty"`
}

// Success 返回 200 及数据
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 返回 201
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Message 返回 200 及提示信息
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, MessageResponse{Mensagem: message})
}

// Error 返回错误响应并中止后续处理
func Error(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, ErrorResponse{Erro: message})
}

// BadRequest 返回400错误
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized 返回401错误
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Não autenticado"
	}
	Error(c, http.StatusUnauthorized, message)
}

// Forbidden 返回403错误
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Acesso negado"
	}
	Error(c, http.StatusForbidden, message)
}

// NotFound 返回404错误
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Recurso não encontrado"
	}
	Error(c, http.StatusNotFound, message)
}

// InternalServerError 返回500错误
func InternalServerError(c *gin.Context, message string) {
	if message == "" {
		message = "Erro interno do servidor"
	}
	Error(c, http.StatusInternalServerError, message)
}
