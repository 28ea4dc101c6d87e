package handler

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/decideflix/internal/model"
	"github.com/user/decideflix/internal/utils"
)

const msgNotFound = "Título não encontrado"

// ListTitles 列出全部影片
func (h *Handler) ListTitles(c *gin.Context) {
	titles, err := h.Catalog.List(c.Request.Context())
	if err != nil {
		h.internal(c, err)
		return
	}
	utils.Success(c, titles)
}

// CreateTitle 新增单条
func (h *Handler) CreateTitle(c *gin.Context) {
	var in model.TitleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.BadRequest(c, "Corpo da requisição inválido")
		return
	}

	id, err := h.Catalog.Create(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err, msgNotFound)
		return
	}

	utils.Created(c, utils.MessageResponse{
		Mensagem: "Título inserido com sucesso!",
		ID:       id,
	})
}

// CreateTitlesBatch 批量新增，请求体必须是非空数组
func (h *Handler) CreateTitlesBatch(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		utils.BadRequest(c, "Corpo da requisição inválido")
		return
	}

	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil || len(items) == 0 {
		utils.BadRequest(c, "Envie uma lista de títulos")
		return
	}

	inputs := make([]model.TitleInput, len(items))
	for i, raw := range items {
		if err := json.Unmarshal(raw, &inputs[i]); err != nil {
			utils.BadRequest(c, fmt.Sprintf("item %d: formato inválido", i))
			return
		}
	}

	n, err := h.Catalog.CreateBatch(c.Request.Context(), inputs)
	if err != nil {
		h.fail(c, err, msgNotFound)
		return
	}

	count := int64(n)
	utils.Created(c, utils.MessageResponse{
		Mensagem:   fmt.Sprintf("%d títulos inseridos com sucesso", n),
		Quantidade: &count,
	})
}

// GetTitle 按 ID 读取
func (h *Handler) GetTitle(c *gin.Context) {
	title, err := h.Catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, msgNotFound)
		return
	}
	utils.Success(c, title)
}

// UpdateTitle 整体替换
func (h *Handler) UpdateTitle(c *gin.Context) {
	var in model.TitleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.BadRequest(c, "Corpo da requisição inválido")
		return
	}

	if err := h.Catalog.Update(c.Request.Context(), c.Param("id"), in); err != nil {
		h.fail(c, err, msgNotFound)
		return
	}
	utils.Message(c, "Título atualizado com sucesso")
}

// DeleteTitle 按 ID 删除
func (h *Handler) DeleteTitle(c *gin.Context) {
	if err := h.Catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, msgNotFound)
		return
	}
	utils.Message(c, "Título removido com sucesso")
}

// PurgeTitles 清空集合（需管理员令牌、ALLOW_PURGE 与 confirmar=true）
func (h *Handler) PurgeTitles(c *gin.Context) {
	if c.Query("confirmar") != "true" {
		utils.BadRequest(c, "Confirme a limpeza com ?confirmar=true")
		return
	}

	n, err := h.Catalog.DeleteAll(c.Request.Context())
	if err != nil {
		h.fail(c, err, msgNotFound)
		return
	}

	utils.Success(c, utils.MessageResponse{
		Mensagem:   fmt.Sprintf("%d títulos removidos", n),
		Quantidade: &n,
	})
}

// TitlesByYear 按年份过滤
func (h *Handler) TitlesByYear(c *gin.Context) {
	ano, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		utils.BadRequest(c, "Ano inválido")
		return
	}

	titles, err := h.Catalog.ByYear(c.Request.Context(), ano)
	if err != nil {
		h.internal(c, err)
		return
	}
	utils.Success(c, titles)
}
