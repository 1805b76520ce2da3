package enrich

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/DvUo/Sistema-de-recomendacion/core"
	"github.com/DvUo/Sistema-de-recomendacion/pipeline"
	"github.com/DvUo/Sistema-de-recomendacion/pkg/utils"
)

// minDisplayScore 展示阈值：只保留加权分严格大于此值的候选
const minDisplayScore = 3

// CatalogNode 是目录补全节点（后处理阶段）。
//
// 对每个候选：
//   - 分数 <= minDisplayScore 的直接丢弃（阈值不依赖目录查询结果）
//   - 查目录，缺失条目告警并跳过该候选，请求继续
//   - 命中则写入 title / genres / summary 元信息与 genres 标签
//
// 输入顺序原样保留，补全永远不会调整排序。
type CatalogNode struct {
	Catalog core.Catalog
	Logger  *zap.Logger
}

func NewCatalogNode(catalog core.Catalog, logger *zap.Logger) *CatalogNode {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogNode{Catalog: catalog, Logger: logger}
}

func (n *CatalogNode) Name() string {
	return "enrich.catalog"
}

func (n *CatalogNode) Kind() pipeline.Kind {
	return pipeline.KindPostProcess
}

func (n *CatalogNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Catalog == nil {
		return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInternalError, "enrich: catalog is nil")
	}

	logger := n.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	out := make([]*core.Item, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		if item.Score <= minDisplayScore {
			continue
		}

		movie, err := n.Catalog.LookupMovie(ctx, item.ID)
		if err != nil {
			if core.IsNotFound(err) {
				logger.Warn("movie missing from catalog, skipping",
					zap.Int64("movie_id", item.ID),
					zap.Int64("user_id", rctx.UserID),
				)
				continue
			}
			return nil, err
		}

		item.Meta["title"] = movie.Title
		item.Meta["genres"] = movie.Genres
		item.Meta["summary"] = movie.Summary
		item.PutLabel("genres", utils.Label{
			Value:  strings.Join(movie.Genres, " "),
			Source: n.Name(),
		})

		out = append(out, item)
	}

	return out, nil
}

var _ pipeline.Node = (*CatalogNode)(nil)
