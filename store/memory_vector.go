package store

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/DvUo/Sistema-de-recomendacion/core"
)

// MemoryVectorService 是内存实现的向量服务，用于测试/开发/原型。
// 平替 Chroma 等向量数据库，支持集合管理、按 ID 读取、余弦相似度检索。
//
// 特点：
//   - 纯内存实现，进程重启后数据丢失
//   - 支持余弦相似度、欧氏距离
//   - 线程安全
type MemoryVectorService struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

type collection struct {
	name      string
	dimension int
	metric    string
	vectors   map[string][]float64
	metadata  map[string]map[string]any
}

// NewMemoryVectorService 创建内存向量服务实例。
func NewMemoryVectorService() *MemoryVectorService {
	return &MemoryVectorService{
		collections: make(map[string]*collection),
	}
}

func (m *MemoryVectorService) Name() string { return "memory_vector" }

// Search 实现 core.VectorService 接口
func (m *MemoryVectorService) Search(ctx context.Context, req *core.VectorSearchRequest) (*core.VectorSearchResult, error) {
	if req == nil {
		return nil, core.NewDomainError(core.ModuleVector, core.ErrorCodeInvalidInput, "vector search request is nil")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	col, ok := m.collections[req.Collection]
	if !ok {
		return &core.VectorSearchResult{Items: []core.VectorSearchItem{}}, nil
	}

	if len(req.Vector) != col.dimension {
		return nil, core.NewDomainError(core.ModuleVector, core.ErrorCodeInvalidInput, "vector dimension mismatch")
	}

	topK := req.TopK
	if topK <= 0 {
		topK = 10
	}

	metric := req.Metric
	if metric == "" {
		metric = col.metric
	}
	if metric == "" {
		metric = "cosine"
	}

	type scoredRecord struct {
		id    string
		score float64
	}
	scored := make([]scoredRecord, 0, len(col.vectors))

	for id, vec := range col.vectors {
		if req.Filter != nil && !matchFilter(req.Filter, col.metadata[id]) {
			continue
		}

		var score float64
		switch metric {
		case "euclidean":
			// 欧氏距离转换为相似度分数（距离越小，分数越高）
			score = 1.0 / (1.0 + euclideanDistance(req.Vector, vec))
		default:
			score = cosineSimilarity(req.Vector, vec)
		}

		scored = append(scored, scoredRecord{id: id, score: score})
	}

	// 按分数降序排序；同分时按 ID 升序，保证结果稳定
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score == scored[j].score {
			return scored[i].id < scored[j].id
		}
		return scored[i].score > scored[j].score
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}

	items := make([]core.VectorSearchItem, len(scored))
	for i, s := range scored {
		items[i] = core.VectorSearchItem{
			ID:       s.id,
			Score:    s.score,
			Metadata: col.metadata[s.id],
		}
	}

	return &core.VectorSearchResult{Items: items}, nil
}

// Get 实现 core.VectorService 接口
func (m *MemoryVectorService) Get(ctx context.Context, collectionName, id string) (*core.VectorRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	col, ok := m.collections[collectionName]
	if !ok {
		return nil, core.NewDomainError(core.ModuleVector, core.ErrorCodeNotFound, "collection not found: "+collectionName)
	}

	vec, ok := col.vectors[id]
	if !ok {
		return nil, core.NewDomainError(core.ModuleVector, core.ErrorCodeNotFound, "record not found: "+id)
	}

	return &core.VectorRecord{
		ID:       id,
		Vector:   vec,
		Metadata: col.metadata[id],
	}, nil
}

// Close 实现 core.VectorService 接口
func (m *MemoryVectorService) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collections = make(map[string]*collection)
	return nil
}

// Insert 实现 core.VectorDatabaseService 接口
func (m *MemoryVectorService) Insert(ctx context.Context, req *core.VectorInsertRequest) error {
	if req == nil {
		return core.NewDomainError(core.ModuleVector, core.ErrorCodeInvalidInput, "insert request is nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	col, ok := m.collections[req.Collection]
	if !ok {
		return core.NewDomainError(core.ModuleVector, core.ErrorCodeNotFound, "collection not found: "+req.Collection)
	}

	if len(req.Vectors) != len(req.IDs) {
		return core.NewDomainError(core.ModuleVector, core.ErrorCodeInvalidInput, "vectors and ids length mismatch")
	}

	for i, vector := range req.Vectors {
		if len(vector) != col.dimension {
			return core.NewDomainError(core.ModuleVector, core.ErrorCodeInvalidInput, "vector dimension mismatch")
		}
		col.vectors[req.IDs[i]] = vector
		if len(req.Metadata) > i {
			col.metadata[req.IDs[i]] = req.Metadata[i]
		}
	}

	return nil
}

// Delete 实现 core.VectorDatabaseService 接口
func (m *MemoryVectorService) Delete(ctx context.Context, collectionName string, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	col, ok := m.collections[collectionName]
	if !ok {
		return core.NewDomainError(core.ModuleVector, core.ErrorCodeNotFound, "collection not found: "+collectionName)
	}

	for _, id := range ids {
		delete(col.vectors, id)
		delete(col.metadata, id)
	}

	return nil
}

// CreateCollection 实现 core.VectorDatabaseService 接口
func (m *MemoryVectorService) CreateCollection(ctx context.Context, req *core.VectorCreateCollectionRequest) error {
	if req == nil {
		return core.NewDomainError(core.ModuleVector, core.ErrorCodeInvalidInput, "create collection request is nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if req.Name == "" {
		return core.NewDomainError(core.ModuleVector, core.ErrorCodeInvalidInput, "collection name is required")
	}

	if req.Dimension <= 0 {
		return core.NewDomainError(core.ModuleVector, core.ErrorCodeInvalidInput, "dimension must be greater than 0")
	}

	if _, exists := m.collections[req.Name]; exists {
		return core.NewDomainError(core.ModuleVector, core.ErrorCodeInvalidInput, "collection already exists: "+req.Name)
	}

	metric := req.Metric
	if !core.ValidateVectorMetric(metric) {
		metric = "cosine"
	}

	m.collections[req.Name] = &collection{
		name:      req.Name,
		dimension: req.Dimension,
		metric:    metric,
		vectors:   make(map[string][]float64),
		metadata:  make(map[string]map[string]any),
	}

	return nil
}

// HasCollection 实现 core.VectorDatabaseService 接口
func (m *MemoryVectorService) HasCollection(ctx context.Context, collectionName string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.collections[collectionName]
	return exists, nil
}

// matchFilter 检查元数据是否匹配过滤条件（简单的相等比较）
func matchFilter(filter map[string]any, metadata map[string]any) bool {
	if metadata == nil {
		return false
	}

	for key, filterValue := range filter {
		metaValue, ok := metadata[key]
		if !ok {
			return false
		}
		if metaValue != filterValue {
			return false
		}
	}

	return true
}

// 相似度计算函数

// cosineSimilarity 计算余弦相似度
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// euclideanDistance 计算欧氏距离
func euclideanDistance(a, b []float64) float64 {
	if len(a) != len(b) {
		return math.MaxFloat64
	}

	var sum float64
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}

	return math.Sqrt(sum)
}

// 确保实现了接口
var (
	_ core.VectorService         = (*MemoryVectorService)(nil)
	_ core.VectorDatabaseService = (*MemoryVectorService)(nil)
)
