package vector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/DvUo/Sistema-de-recomendacion/core"
)

// ChromaService 是 Chroma 向量数据库的 REST 客户端，
// 实现 core.VectorDatabaseService 接口。
//
// REST API 格式（v1）：
//   - 集合管理：GET/POST /api/v1/collections
//   - 写入：POST /api/v1/collections/{id}/add
//   - 检索：POST /api/v1/collections/{id}/query
//   - 读取：POST /api/v1/collections/{id}/get
//   - 删除：POST /api/v1/collections/{id}/delete
//
// 接口层按集合名寻址，Chroma 端点按集合 UUID 寻址，
// 名称到 UUID 的映射在客户端内缓存。
type ChromaService struct {
	// Endpoint 服务端点，如 "http://localhost:8000"
	Endpoint string

	// Token Bearer 认证令牌（可选）
	Token string

	// Timeout 超时时间
	Timeout time.Duration

	httpClient *http.Client

	mu            sync.RWMutex
	collectionIDs map[string]string
}

// NewChromaService 创建一个新的 Chroma 客户端。
func NewChromaService(endpoint string, opts ...ChromaOption) *ChromaService {
	s := &ChromaService{
		Endpoint:      endpoint,
		Timeout:       30 * time.Second,
		collectionIDs: make(map[string]string),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.httpClient == nil {
		s.httpClient = &http.Client{Timeout: s.Timeout}
	}

	return s
}

// ChromaOption Chroma 客户端配置选项
type ChromaOption func(*ChromaService)

// WithChromaToken 设置 Bearer 认证令牌
func WithChromaToken(token string) ChromaOption {
	return func(s *ChromaService) {
		s.Token = token
	}
}

// WithChromaTimeout 设置超时时间
func WithChromaTimeout(timeout time.Duration) ChromaOption {
	return func(s *ChromaService) {
		s.Timeout = timeout
		if s.httpClient != nil {
			s.httpClient.Timeout = timeout
		}
	}
}

// WithChromaHTTPClient 设置自定义 HTTP 客户端
func WithChromaHTTPClient(httpClient *http.Client) ChromaOption {
	return func(s *ChromaService) {
		s.httpClient = httpClient
	}
}

func (s *ChromaService) Name() string { return "chroma" }

// Search 实现 core.VectorService 接口
func (s *ChromaService) Search(ctx context.Context, req *core.VectorSearchRequest) (*core.VectorSearchResult, error) {
	if req == nil || req.Collection == "" {
		return nil, core.NewDomainError(core.ModuleVector, core.ErrorCodeInvalidInput, "chroma: collection is required")
	}
	if len(req.Vector) == 0 {
		return nil, core.NewDomainError(core.ModuleVector, core.ErrorCodeInvalidInput, "chroma: query vector is required")
	}

	colID, err := s.collectionID(ctx, req.Collection)
	if err != nil {
		return nil, err
	}

	topK := req.TopK
	if topK <= 0 {
		topK = 10
	}

	body := map[string]any{
		"query_embeddings": [][]float64{req.Vector},
		"n_results":        topK,
		"include":          []string{"metadatas", "distances"},
	}
	if len(req.Filter) > 0 {
		body["where"] = req.Filter
	}

	var resp struct {
		IDs       [][]string         `json:"ids"`
		Distances [][]float64        `json:"distances"`
		Metadatas [][]map[string]any `json:"metadatas"`
	}
	if err := s.do(ctx, http.MethodPost, "/api/v1/collections/"+colID+"/query", body, &resp); err != nil {
		return nil, err
	}

	result := &core.VectorSearchResult{Items: []core.VectorSearchItem{}}
	if len(resp.IDs) == 0 {
		return result, nil
	}

	for i, id := range resp.IDs[0] {
		item := core.VectorSearchItem{ID: id}
		if len(resp.Distances) > 0 && i < len(resp.Distances[0]) {
			// Chroma 返回距离，余弦空间下 score = 1 - distance
			item.Score = 1 - resp.Distances[0][i]
		}
		if len(resp.Metadatas) > 0 && i < len(resp.Metadatas[0]) {
			item.Metadata = resp.Metadatas[0][i]
		}
		result.Items = append(result.Items, item)
	}

	return result, nil
}

// Get 实现 core.VectorService 接口
func (s *ChromaService) Get(ctx context.Context, collection, id string) (*core.VectorRecord, error) {
	colID, err := s.collectionID(ctx, collection)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"ids":     []string{id},
		"include": []string{"embeddings", "metadatas"},
	}

	var resp struct {
		IDs        []string         `json:"ids"`
		Embeddings [][]float64      `json:"embeddings"`
		Metadatas  []map[string]any `json:"metadatas"`
	}
	if err := s.do(ctx, http.MethodPost, "/api/v1/collections/"+colID+"/get", body, &resp); err != nil {
		return nil, err
	}

	if len(resp.IDs) == 0 {
		return nil, core.NewDomainError(core.ModuleVector, core.ErrorCodeNotFound, "chroma: record not found: "+id)
	}

	rec := &core.VectorRecord{ID: resp.IDs[0]}
	if len(resp.Embeddings) > 0 {
		rec.Vector = resp.Embeddings[0]
	}
	if len(resp.Metadatas) > 0 {
		rec.Metadata = resp.Metadatas[0]
	}
	return rec, nil
}

// Insert 实现 core.VectorDatabaseService 接口
func (s *ChromaService) Insert(ctx context.Context, req *core.VectorInsertRequest) error {
	if req == nil || req.Collection == "" {
		return core.NewDomainError(core.ModuleVector, core.ErrorCodeInvalidInput, "chroma: collection is required")
	}
	if len(req.IDs) != len(req.Vectors) {
		return core.NewDomainError(core.ModuleVector, core.ErrorCodeInvalidInput, "chroma: vectors and ids length mismatch")
	}

	colID, err := s.collectionID(ctx, req.Collection)
	if err != nil {
		return err
	}

	body := map[string]any{
		"ids":        req.IDs,
		"embeddings": req.Vectors,
	}
	if len(req.Metadata) > 0 {
		body["metadatas"] = req.Metadata
	}

	return s.do(ctx, http.MethodPost, "/api/v1/collections/"+colID+"/add", body, nil)
}

// Delete 实现 core.VectorDatabaseService 接口
func (s *ChromaService) Delete(ctx context.Context, collection string, ids []string) error {
	colID, err := s.collectionID(ctx, collection)
	if err != nil {
		return err
	}
	return s.do(ctx, http.MethodPost, "/api/v1/collections/"+colID+"/delete", map[string]any{"ids": ids}, nil)
}

// CreateCollection 实现 core.VectorDatabaseService 接口。
// 距离度量通过集合元数据的 hnsw:space 指定，get_or_create 保证幂等。
func (s *ChromaService) CreateCollection(ctx context.Context, req *core.VectorCreateCollectionRequest) error {
	if req == nil || req.Name == "" {
		return core.NewDomainError(core.ModuleVector, core.ErrorCodeInvalidInput, "chroma: collection name is required")
	}

	metric := req.Metric
	if !core.ValidateVectorMetric(metric) {
		metric = "cosine"
	}
	space := "cosine"
	if metric == "euclidean" {
		space = "l2"
	}

	body := map[string]any{
		"name":          req.Name,
		"metadata":      map[string]any{"hnsw:space": space},
		"get_or_create": true,
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := s.do(ctx, http.MethodPost, "/api/v1/collections", body, &resp); err != nil {
		return err
	}

	if resp.ID != "" {
		s.mu.Lock()
		s.collectionIDs[req.Name] = resp.ID
		s.mu.Unlock()
	}
	return nil
}

// HasCollection 实现 core.VectorDatabaseService 接口
func (s *ChromaService) HasCollection(ctx context.Context, collection string) (bool, error) {
	_, err := s.collectionID(ctx, collection)
	if err != nil {
		if core.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Close 实现 core.VectorService 接口
func (s *ChromaService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collectionIDs = make(map[string]string)
	return nil
}

// collectionID 解析集合名到 UUID，带缓存。
func (s *ChromaService) collectionID(ctx context.Context, name string) (string, error) {
	s.mu.RLock()
	id, ok := s.collectionIDs[name]
	s.mu.RUnlock()
	if ok {
		return id, nil
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := s.do(ctx, http.MethodGet, "/api/v1/collections/"+name, nil, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", core.NewDomainError(core.ModuleVector, core.ErrorCodeNotFound, "chroma: collection not found: "+name)
	}

	s.mu.Lock()
	s.collectionIDs[name] = resp.ID
	s.mu.Unlock()
	return resp.ID, nil
}

// do 发送请求并解码响应；网络错误与 5xx 映射为 UNAVAILABLE，404 映射为 NOT_FOUND。
func (s *ChromaService) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, s.Endpoint+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if s.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+s.Token)
	}

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return core.NewDomainError(core.ModuleVector, core.ErrorCodeUnavailable, "chroma request failed: "+err.Error())
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return core.NewDomainError(core.ModuleVector, core.ErrorCodeNotFound, "chroma: not found: "+path)
	case resp.StatusCode >= http.StatusInternalServerError:
		data, _ := io.ReadAll(resp.Body)
		return core.NewDomainError(core.ModuleVector, core.ErrorCodeUnavailable,
			fmt.Sprintf("chroma error: status=%d, body=%s", resp.StatusCode, string(data)))
	default:
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("chroma error: status=%d, body=%s", resp.StatusCode, string(data))
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

var (
	_ core.VectorService         = (*ChromaService)(nil)
	_ core.VectorDatabaseService = (*ChromaService)(nil)
)
