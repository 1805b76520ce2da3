package enrich

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/DvUo/Sistema-de-recomendacion/core"
)

const (
	// DefaultMovieKeyPrefix 电影目录在 KV 存储中的键前缀（movie:{id} → Hash）
	DefaultMovieKeyPrefix = "movie:"

	fieldTitle   = "title"
	fieldGenres  = "genres"
	fieldSummary = "summary"
)

// StoreCatalog 把 KV 存储的 Hash 结构适配成 core.Catalog。
// 每部电影一个 Hash：title / genres（JSON 数组）/ summary。
// summary 字段允许缺失（摘要生成失败时数据集留空）。
type StoreCatalog struct {
	kv        core.KeyValueStore
	KeyPrefix string
}

func NewStoreCatalog(kv core.KeyValueStore) *StoreCatalog {
	return &StoreCatalog{
		kv:        kv,
		KeyPrefix: DefaultMovieKeyPrefix,
	}
}

// LookupMovie 实现 core.Catalog 接口；缺失条目返回 NOT_FOUND。
func (c *StoreCatalog) LookupMovie(ctx context.Context, movieID int64) (*core.Movie, error) {
	fields, err := c.kv.HGetAll(ctx, c.movieKey(movieID))
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, core.ErrCatalogMiss
	}

	movie := &core.Movie{ID: movieID}
	if title, ok := fields[fieldTitle]; ok {
		movie.Title = string(title)
	}
	if raw, ok := fields[fieldGenres]; ok {
		if err := json.Unmarshal(raw, &movie.Genres); err != nil {
			return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInternalError,
				"catalog: corrupt genres for movie "+strconv.FormatInt(movieID, 10))
		}
	}
	if summary, ok := fields[fieldSummary]; ok {
		movie.Summary = string(summary)
	}
	return movie, nil
}

// SaveMovie 写入一条目录条目，数据集构建时使用。
func (c *StoreCatalog) SaveMovie(ctx context.Context, movie *core.Movie) error {
	if movie == nil {
		return core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput, "catalog: movie is nil")
	}

	key := c.movieKey(movie.ID)
	genres, err := json.Marshal(movie.Genres)
	if err != nil {
		return err
	}

	if err := c.kv.HSet(ctx, key, fieldTitle, []byte(movie.Title)); err != nil {
		return err
	}
	if err := c.kv.HSet(ctx, key, fieldGenres, genres); err != nil {
		return err
	}
	return c.kv.HSet(ctx, key, fieldSummary, []byte(movie.Summary))
}

func (c *StoreCatalog) movieKey(movieID int64) string {
	prefix := c.KeyPrefix
	if prefix == "" {
		prefix = DefaultMovieKeyPrefix
	}
	return prefix + strconv.FormatInt(movieID, 10)
}

var _ core.Catalog = (*StoreCatalog)(nil)
