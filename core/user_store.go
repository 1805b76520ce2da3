package core

import "context"

// UserStore 是用户记录读取的领域接口（核心算法与存储之间的唯一边界）。
//
// 实现：recall.StoreUserAdapter（KV 存储读取记录 + 向量存储发现候选）。
type UserStore interface {
	// GetUser 读取单个用户；不存在时返回 NOT_FOUND
	GetUser(ctx context.Context, userID int64) (*User, error)

	// GetUsers 批量读取；缺失的 ID 直接不出现在结果中，不报错
	GetUsers(ctx context.Context, userIDs []int64) ([]*User, error)

	// SimilarUserIDs 取该用户的评分向量，在用户集合中检索近邻，返回候选用户 ID。
	// 结果可能包含目标用户自身，由调用方按 ID 排除。
	SimilarUserIDs(ctx context.Context, userID int64, topK int) ([]int64, error)
}

// Catalog 是电影目录查询接口，仅补全阶段使用。
//
// 实现：enrich.StoreCatalog（KV Hash 读取）。
type Catalog interface {
	// LookupMovie 按 ID 查询目录条目；缺失时返回 NOT_FOUND
	LookupMovie(ctx context.Context, movieID int64) (*Movie, error)
}

// 领域错误定义

var (
	// ErrUserNotFound 表示目标用户不存在于存储中
	ErrUserNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: user not found")

	// ErrNoOverlap 表示没有候选用户与目标用户共同评分的电影数超过阈值，
	// 推荐链路在此短路（对外表现为空结果，日志上与 NOT_FOUND 区分）
	ErrNoOverlap = NewDomainError(ModuleRecall, ErrorCodeNoOverlap, "recall: no candidate shares enough rated movies")

	// ErrCatalogMiss 表示电影缺失目录条目（补全阶段跳过该条，不中断请求）
	ErrCatalogMiss = NewDomainError(ModuleCatalog, ErrorCodeNotFound, "catalog: movie not found")
)
