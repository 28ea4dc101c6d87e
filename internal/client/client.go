// Package client DecideFlix API 的 Go 客户端，供 catalogctl 使用。
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/user/decideflix/internal/model"
)

// APIError 服务端返回的 {"erro": ...}
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// Client HTTP 客户端
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New 创建客户端，token 为空时不携带 Authorization
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// do 发送请求并解析 JSON 响应
func (c *Client) do(ctx context.Context, method, path string, body, target interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("序列化请求失败: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("读取响应失败: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Erro string `json:"erro"`
		}
		if json.Unmarshal(data, &apiErr) != nil || apiErr.Erro == "" {
			apiErr.Erro = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: apiErr.Erro}
	}

	if target == nil {
		return nil
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("解析JSON失败: %w", err)
	}
	return nil
}

// List 全部影片
func (c *Client) List(ctx context.Context) ([]model.TitleView, error) {
	var titles []model.TitleView
	err := c.do(ctx, http.MethodGet, "/titulos", nil, &titles)
	return titles, err
}

// CreateBatch 批量新增，返回插入条数
func (c *Client) CreateBatch(ctx context.Context, titles []model.TitleInput) (int, error) {
	var resp struct {
		Quantidade int `json:"quantidade"`
	}
	if err := c.do(ctx, http.MethodPost, "/titulos/lote", titles, &resp); err != nil {
		return 0, err
	}
	return resp.Quantidade, nil
}

// Sample 随机抽取，categoria 与 decada 至多指定一个
func (c *Client) Sample(ctx context.Context, categoria string, decada *int) (model.TitleView, error) {
	path := "/titulos/sortear"
	switch {
	case categoria != "":
		path += "/categoria/" + url.PathEscape(categoria)
	case decada != nil:
		path += "/decada/" + strconv.Itoa(*decada)
	}

	var title model.TitleView
	err := c.do(ctx, http.MethodGet, path, nil, &title)
	return title, err
}

// CountByCategory 分类统计
func (c *Client) CountByCategory(ctx context.Context) ([]model.CategoryCount, error) {
	var counts []model.CategoryCount
	err := c.do(ctx, http.MethodGet, "/titulos/quantidade-por-categoria", nil, &counts)
	return counts, err
}

// CountByDecade 年代统计
func (c *Client) CountByDecade(ctx context.Context) ([]model.DecadeCount, error) {
	var counts []model.DecadeCount
	err := c.do(ctx, http.MethodGet, "/titulos/decadas", nil, &counts)
	return counts, err
}
