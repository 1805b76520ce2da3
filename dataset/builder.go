package dataset

import (
	"context"
	"encoding/json"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DvUo/Sistema-de-recomendacion/core"
	"github.com/DvUo/Sistema-de-recomendacion/enrich"
	"github.com/DvUo/Sistema-de-recomendacion/recall"
)

// Builder 负责把演示数据集灌进存储：
//   - 电影目录 → KV Hash（movie:{id}）+ 向量集合 movies（类型文本 embedding）
//   - 用户记录 → KV String（user:{id} → JSON）+ 向量集合 users（稠密评分向量）
//
// 摘要与 embedding 生成并发执行（errgroup 限流）。
// 摘要生成失败只告警并留空，不中断构建；embedding 失败中断构建，
// 没有向量的电影在类型检索里是不可见的脏数据。
type Builder struct {
	KV         core.KeyValueStore
	Vectors    core.VectorDatabaseService
	Summarizer core.Summarizer
	Embedder   core.Embedder
	Logger     *zap.Logger

	// Concurrency 摘要/embedding 生成的最大并发数
	Concurrency int

	// MovieCollection / UserCollection 向量集合名
	MovieCollection string
	UserCollection  string
}

func NewBuilder(kv core.KeyValueStore, vectors core.VectorDatabaseService, embedder core.Embedder) *Builder {
	return &Builder{
		KV:              kv,
		Vectors:         vectors,
		Embedder:        embedder,
		Logger:          zap.NewNop(),
		Concurrency:     4,
		MovieCollection: "movies",
		UserCollection:  recall.DefaultUserCollection,
	}
}

// Build 构建完整数据集。movies 的顺序决定用户评分向量的维度顺序。
func (b *Builder) Build(ctx context.Context, movies []*core.Movie, users []*core.User) error {
	if b.Embedder == nil {
		return core.NewDomainError(core.ModuleService, core.ErrorCodeInvalidInput, "dataset: embedder is required")
	}

	logger := b.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := b.ensureCollections(ctx, len(movies)); err != nil {
		return err
	}

	if err := b.enrichMovies(ctx, movies, logger); err != nil {
		return err
	}

	if err := b.persistMovies(ctx, movies); err != nil {
		return err
	}
	logger.Info("movie catalog persisted", zap.Int("count", len(movies)))

	if err := b.persistUsers(ctx, movies, users); err != nil {
		return err
	}
	logger.Info("user records persisted", zap.Int("count", len(users)))

	return nil
}

func (b *Builder) ensureCollections(ctx context.Context, userDim int) error {
	collections := []struct {
		name string
		dim  int
	}{
		{b.MovieCollection, b.Embedder.Dimension()},
		{b.UserCollection, userDim},
	}

	for _, c := range collections {
		exists, err := b.Vectors.HasCollection(ctx, c.name)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		err = b.Vectors.CreateCollection(ctx, &core.VectorCreateCollectionRequest{
			Name:      c.name,
			Dimension: c.dim,
			Metric:    "cosine",
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// enrichMovies 并发生成摘要与类型文本 embedding，结果就地写回 movie。
func (b *Builder) enrichMovies(ctx context.Context, movies []*core.Movie, logger *zap.Logger) error {
	eg, ctx := errgroup.WithContext(ctx)
	if b.Concurrency > 0 {
		eg.SetLimit(b.Concurrency)
	}

	for _, movie := range movies {
		m := movie
		eg.Go(func() error {
			if b.Summarizer != nil {
				summary, err := b.Summarizer.Summarize(ctx, m.Title)
				if err != nil {
					logger.Warn("summary generation failed, leaving empty",
						zap.Int64("movie_id", m.ID),
						zap.String("title", m.Title),
						zap.Error(err))
				} else {
					m.Summary = summary
				}
			}

			vec, err := b.Embedder.Embed(ctx, m.GenreText())
			if err != nil {
				return err
			}
			m.Embedding = vec
			return nil
		})
	}

	return eg.Wait()
}

func (b *Builder) persistMovies(ctx context.Context, movies []*core.Movie) error {
	catalog := enrich.NewStoreCatalog(b.KV)

	ids := make([]string, 0, len(movies))
	vectors := make([][]float64, 0, len(movies))
	metadata := make([]map[string]any, 0, len(movies))

	for _, m := range movies {
		if err := catalog.SaveMovie(ctx, m); err != nil {
			return err
		}
		ids = append(ids, strconv.FormatInt(m.ID, 10))
		vectors = append(vectors, m.Embedding)
		metadata = append(metadata, map[string]any{
			"title":  m.Title,
			"genres": m.GenreText(),
		})
	}

	return b.Vectors.Insert(ctx, &core.VectorInsertRequest{
		Collection: b.MovieCollection,
		IDs:        ids,
		Vectors:    vectors,
		Metadata:   metadata,
	})
}

func (b *Builder) persistUsers(ctx context.Context, movies []*core.Movie, users []*core.User) error {
	movieIDs := MovieIDs(movies)

	for _, u := range users {
		data, err := json.Marshal(u)
		if err != nil {
			return err
		}
		key := recall.DefaultUserKeyPrefix + strconv.FormatInt(u.ID, 10)
		if err := b.KV.Set(ctx, key, data); err != nil {
			return err
		}

		err = b.Vectors.Insert(ctx, &core.VectorInsertRequest{
			Collection: b.UserCollection,
			IDs:        []string{strconv.FormatInt(u.ID, 10)},
			Vectors:    [][]float64{u.RatingVector(movieIDs)},
			Metadata:   []map[string]any{{"username": u.Name}},
		})
		if err != nil {
			return err
		}
	}
	return nil
}
