package core

import "context"

// VectorDatabaseService 是完整的向量数据库服务接口。
//
// 设计原则：
//   - 嵌入 VectorService（检索场景接口），符合接口组合原则
//   - 数据集构建（cmd/seed）使用完整接口写入 movies / users 两个集合；
//     在线服务只依赖 VectorService
//
// 实现：
//   - store.MemoryVectorService（内存实现，测试/开发）
//   - vector.ChromaService（Chroma 兼容 REST 服务，生产）
type VectorDatabaseService interface {
	VectorService

	// Insert 批量插入向量
	Insert(ctx context.Context, req *VectorInsertRequest) error

	// Delete 按 ID 删除向量
	Delete(ctx context.Context, collection string, ids []string) error

	// CreateCollection 创建集合；调用方先用 HasCollection 判断存在性
	CreateCollection(ctx context.Context, req *VectorCreateCollectionRequest) error

	// HasCollection 检查集合是否存在
	HasCollection(ctx context.Context, collection string) (bool, error)
}

// VectorInsertRequest 向量插入请求
type VectorInsertRequest struct {
	// Collection 集合名称
	Collection string

	// IDs 记录 ID 列表
	IDs []string

	// Vectors 与 IDs 一一对应的向量列表
	Vectors [][]float64

	// Metadata 与 IDs 一一对应的元数据（可选，可短于 IDs）
	Metadata []map[string]any
}

// VectorCreateCollectionRequest 创建集合请求
type VectorCreateCollectionRequest struct {
	// Name 集合名称
	Name string

	// Dimension 向量维度
	Dimension int

	// Metric 距离度量方式
	Metric string
}
