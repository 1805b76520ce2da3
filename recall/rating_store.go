package recall

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/DvUo/Sistema-de-recomendacion/core"
)

const (
	// DefaultUserKeyPrefix 用户记录在 KV 存储中的键前缀（user:{id} → JSON）
	DefaultUserKeyPrefix = "user:"
	// DefaultUserCollection 用户评分向量所在的向量集合
	DefaultUserCollection = "users"
)

// StoreUserAdapter 把 KV 存储 + 向量存储组合成 core.UserStore。
//
// 职责划分：
//   - 用户记录（评分表）从 KV 存储读取，JSON 反序列化
//   - 候选发现走向量存储：取目标用户的评分向量做近邻检索
//   - 瞬时错误（网络抖动、存储超时）做有限次指数退避重试；
//     NOT_FOUND 是明确答案，永不重试
//
// ID 在 KV/向量边界统一转为十进制字符串，领域层内保持 int64。
type StoreUserAdapter struct {
	kv      core.Store
	vectors core.VectorService

	KeyPrefix  string
	Collection string

	// MaxRetries 瞬时错误的最大重试次数（不含首次尝试）
	MaxRetries uint64
	// RetryInterval 首次重试间隔，之后指数增长
	RetryInterval time.Duration
}

// NewStoreUserAdapter 创建默认配置的适配器。
func NewStoreUserAdapter(kv core.Store, vectors core.VectorService) *StoreUserAdapter {
	return &StoreUserAdapter{
		kv:            kv,
		vectors:       vectors,
		KeyPrefix:     DefaultUserKeyPrefix,
		Collection:    DefaultUserCollection,
		MaxRetries:    2,
		RetryInterval: 100 * time.Millisecond,
	}
}

// GetUser 实现 core.UserStore 接口
func (a *StoreUserAdapter) GetUser(ctx context.Context, userID int64) (*core.User, error) {
	data, err := a.getWithRetry(ctx, a.userKey(userID))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, core.ErrUserNotFound
		}
		return nil, err
	}
	return a.decodeUser(userID, data)
}

// GetUsers 实现 core.UserStore 接口。
// 缺失或无法解析的记录直接跳过，结果保持输入 ID 的顺序。
func (a *StoreUserAdapter) GetUsers(ctx context.Context, userIDs []int64) ([]*core.User, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = a.userKey(id)
	}

	var kvs map[string][]byte
	err := a.retry(ctx, func() error {
		var batchErr error
		kvs, batchErr = a.kv.BatchGet(ctx, keys)
		return batchErr
	})
	if err != nil {
		return nil, err
	}

	users := make([]*core.User, 0, len(userIDs))
	for i, id := range userIDs {
		data, ok := kvs[keys[i]]
		if !ok {
			continue
		}
		u, decodeErr := a.decodeUser(id, data)
		if decodeErr != nil {
			continue
		}
		users = append(users, u)
	}
	return users, nil
}

// SimilarUserIDs 实现 core.UserStore 接口。
// 先取目标用户的评分向量，再在用户集合中做近邻检索。
// 返回结果可能含目标用户自身，由调用方排除。
func (a *StoreUserAdapter) SimilarUserIDs(ctx context.Context, userID int64, topK int) ([]int64, error) {
	if topK <= 0 {
		topK = 30
	}

	var rec *core.VectorRecord
	err := a.retry(ctx, func() error {
		var getErr error
		rec, getErr = a.vectors.Get(ctx, a.Collection, strconv.FormatInt(userID, 10))
		if getErr != nil && core.IsNotFound(getErr) {
			return backoff.Permanent(getErr)
		}
		return getErr
	})
	if err != nil {
		if core.IsNotFound(err) {
			return nil, core.ErrUserNotFound
		}
		return nil, err
	}

	var result *core.VectorSearchResult
	err = a.retry(ctx, func() error {
		var searchErr error
		result, searchErr = a.vectors.Search(ctx, &core.VectorSearchRequest{
			Collection: a.Collection,
			Vector:     rec.Vector,
			TopK:       topK,
		})
		return searchErr
	})
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(result.Items))
	for _, item := range result.Items {
		id, parseErr := strconv.ParseInt(item.ID, 10, 64)
		if parseErr != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (a *StoreUserAdapter) userKey(userID int64) string {
	prefix := a.KeyPrefix
	if prefix == "" {
		prefix = DefaultUserKeyPrefix
	}
	return prefix + strconv.FormatInt(userID, 10)
}

// decodeUser 反序列化用户 JSON；评分表的字符串键由 encoding/json 直接映射为 int64。
// 记录中缺失 user_id 字段时以键中的 ID 为准。
func (a *StoreUserAdapter) decodeUser(userID int64, data []byte) (*core.User, error) {
	var u core.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeInternalError,
			"store: corrupt user record "+strconv.FormatInt(userID, 10)+": "+err.Error())
	}
	if u.ID == 0 {
		u.ID = userID
	}
	if u.Ratings == nil {
		u.Ratings = core.Ratings{}
	}
	return &u, nil
}

// getWithRetry 带重试的单键读取；NOT_FOUND 直接返回，不消耗重试预算。
func (a *StoreUserAdapter) getWithRetry(ctx context.Context, key string) ([]byte, error) {
	var out []byte
	err := a.retry(ctx, func() error {
		data, getErr := a.kv.Get(ctx, key)
		if getErr != nil {
			if core.IsStoreNotFound(getErr) {
				return backoff.Permanent(getErr)
			}
			return getErr
		}
		out = data
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (a *StoreUserAdapter) retry(ctx context.Context, op backoff.Operation) error {
	bo := backoff.NewExponentialBackOff()
	if a.RetryInterval > 0 {
		bo.InitialInterval = a.RetryInterval
	}
	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, a.MaxRetries), ctx))
}

var _ core.UserStore = (*StoreUserAdapter)(nil)
