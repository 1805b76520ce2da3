package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/DvUo/Sistema-de-recomendacion/core"
)

// HTTPEmbedder 通过 OpenAI 兼容的 embeddings 接口生成文本向量，
// 用于把电影的类型文本编码成目录 embedding。
//
// REST API 格式：
//   - 端点：POST {endpoint}/v1/embeddings
//   - 请求体：{"model": ..., "input": "..."}
//   - 响应：data[0].embedding
type HTTPEmbedder struct {
	// Endpoint 服务端点
	Endpoint string

	// Model 模型名称
	Model string

	// APIKey Bearer 认证令牌
	APIKey string

	// Dim 向量维度（集合创建时需要预先声明）
	Dim int

	// Timeout 超时时间
	Timeout time.Duration

	httpClient *http.Client
}

// NewHTTPEmbedder 创建一个新的 embedding 客户端。
func NewHTTPEmbedder(endpoint, model, apiKey string, dim int, opts ...HTTPEmbedderOption) *HTTPEmbedder {
	e := &HTTPEmbedder{
		Endpoint: endpoint,
		Model:    model,
		APIKey:   apiKey,
		Dim:      dim,
		Timeout:  30 * time.Second,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.httpClient == nil {
		e.httpClient = &http.Client{Timeout: e.Timeout}
	}

	return e
}

// HTTPEmbedderOption embedding 客户端配置选项
type HTTPEmbedderOption func(*HTTPEmbedder)

// WithEmbedderTimeout 设置超时时间
func WithEmbedderTimeout(timeout time.Duration) HTTPEmbedderOption {
	return func(e *HTTPEmbedder) {
		e.Timeout = timeout
		if e.httpClient != nil {
			e.httpClient.Timeout = timeout
		}
	}
}

// WithEmbedderHTTPClient 设置自定义 HTTP 客户端
func WithEmbedderHTTPClient(httpClient *http.Client) HTTPEmbedderOption {
	return func(e *HTTPEmbedder) {
		e.httpClient = httpClient
	}
}

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// Embed 实现 core.Embedder 接口。
func (e *HTTPEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	data, err := json.Marshal(embeddingRequest{Model: e.Model, Input: text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.Endpoint+"/v1/embeddings", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if e.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+e.APIKey)
	}

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return nil, core.NewDomainError(core.ModuleService, core.ErrorCodeUnavailable, "embedder request failed: "+err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, core.NewDomainError(core.ModuleService, core.ErrorCodeUnavailable,
			fmt.Sprintf("embedder error: status=%d, body=%s", resp.StatusCode, string(respBody)))
	}

	var parsed embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Data) == 0 {
		return nil, core.NewDomainError(core.ModuleService, core.ErrorCodeInternalError, "embedder: empty data in response")
	}

	return parsed.Data[0].Embedding, nil
}

// Dimension 实现 core.Embedder 接口。
func (e *HTTPEmbedder) Dimension() int {
	return e.Dim
}

var _ core.Embedder = (*HTTPEmbedder)(nil)

// HashEmbedder 是本地的特征哈希 embedder，无外部依赖。
// 把文本按空白切词，每个词经 FNV 哈希落到固定维度的桶里，向量做 L2 归一化。
// 没有语义，但同类型文本的向量相近，足够开发与测试环境跑通类型检索。
type HashEmbedder struct {
	Dim int
}

func NewHashEmbedder(dim int) *HashEmbedder {
	if dim <= 0 {
		dim = 64
	}
	return &HashEmbedder{Dim: dim}
}

// Embed 实现 core.Embedder 接口。
func (e *HashEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	vec := make([]float64, e.Dim)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(word))
		vec[int(h.Sum32())%e.Dim]++
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec, nil
}

// Dimension 实现 core.Embedder 接口。
func (e *HashEmbedder) Dimension() int {
	return e.Dim
}

var _ core.Embedder = (*HashEmbedder)(nil)
