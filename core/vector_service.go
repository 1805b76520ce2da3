package core

import "context"

// VectorService 是向量检索服务的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（vector / store）实现
//   - 只包含查询能力，专注检索场景；完整 CRUD 见 VectorDatabaseService
//
// 使用场景：
//   - 候选用户发现：用目标用户的评分向量在 "users" 集合中检索近邻
//   - 电影相似检索："movies" 集合（genre 文本向量）
type VectorService interface {
	// Search 向量搜索
	Search(ctx context.Context, req *VectorSearchRequest) (*VectorSearchResult, error)

	// Get 按 ID 读取一条向量记录（含 metadata）；不存在时返回 NOT_FOUND
	Get(ctx context.Context, collection, id string) (*VectorRecord, error)

	// Close 关闭连接
	Close() error
}

// VectorSearchRequest 向量搜索请求
type VectorSearchRequest struct {
	// Collection 集合名称
	Collection string

	// Vector 查询向量
	Vector []float64

	// TopK 返回 TopK 个最相似的结果
	TopK int

	// Metric 距离度量方式：cosine / euclidean
	Metric string

	// Filter 对 metadata 的等值过滤条件（可选）
	Filter map[string]any
}

// VectorSearchItem 单个向量搜索结果项
type VectorSearchItem struct {
	// ID 记录 ID（向量存储层统一为字符串，领域层 int64 的转换在适配器完成）
	ID string

	// Score 相似度分数
	Score float64

	// Metadata 记录的元数据
	Metadata map[string]any
}

// VectorSearchResult 向量搜索结果
type VectorSearchResult struct {
	// Items 搜索结果项列表（按相似度降序）
	Items []VectorSearchItem
}

// VectorRecord 是按 ID 读取的单条向量记录。
type VectorRecord struct {
	ID       string
	Vector   []float64
	Metadata map[string]any
}

// ValidateVectorMetric 验证距离度量类型
func ValidateVectorMetric(metric string) bool {
	switch metric {
	case "cosine", "euclidean":
		return true
	default:
		return false
	}
}
