package config

import (
	"go.uber.org/zap"

	"github.com/DvUo/Sistema-de-recomendacion/core"
	"github.com/DvUo/Sistema-de-recomendacion/enrich"
	"github.com/DvUo/Sistema-de-recomendacion/filter"
	"github.com/DvUo/Sistema-de-recomendacion/pipeline"
	"github.com/DvUo/Sistema-de-recomendacion/pkg/conv"
	"github.com/DvUo/Sistema-de-recomendacion/recall"
	"github.com/DvUo/Sistema-de-recomendacion/rerank"
)

// Deps 是 Node 构建器需要的运行时依赖，由应用启动时组装好注入。
type Deps struct {
	UserStore core.UserStore
	Catalog   core.Catalog
	Logger    *zap.Logger
}

// NewNodeFactory 注册全部内置 Node 类型：
//   - recall.usercf：用户协同过滤召回（candidate_pool / top_n）
//   - filter.rule：CEL 规则过滤（expr）
//   - filter.watched：已看过滤
//   - rerank.topn：Top-N 截断（n）
//   - enrich.catalog：目录补全
func NewNodeFactory(deps Deps) *pipeline.NodeFactory {
	f := pipeline.NewNodeFactory()

	f.Register("recall.usercf", func(cfg map[string]any) (pipeline.Node, error) {
		node := recall.NewUserSimilarity(deps.UserStore)
		node.CandidatePool = conv.ConfigGetInt(cfg, "candidate_pool", 0)
		node.TopN = conv.ConfigGetInt(cfg, "top_n", 0)
		return node, nil
	})

	f.Register("filter.rule", func(cfg map[string]any) (pipeline.Node, error) {
		expr := conv.ConfigGet(cfg, "expr", "")
		return &filter.FilterNode{
			Filters: []filter.Filter{filter.NewRuleFilter(expr)},
		}, nil
	})

	f.Register("filter.watched", func(cfg map[string]any) (pipeline.Node, error) {
		return &filter.FilterNode{
			Filters: []filter.Filter{&filter.WatchedFilter{}},
		}, nil
	})

	f.Register("rerank.topn", func(cfg map[string]any) (pipeline.Node, error) {
		return &rerank.TopNNode{N: conv.ConfigGetInt(cfg, "n", 0)}, nil
	})

	f.Register("enrich.catalog", func(cfg map[string]any) (pipeline.Node, error) {
		return enrich.NewCatalogNode(deps.Catalog, deps.Logger), nil
	})

	return f
}

// BuildPipeline 按配置组装推荐链路。
func (c *Config) BuildPipeline(deps Deps) (*pipeline.Pipeline, error) {
	factory := NewNodeFactory(deps)

	nodes := make([]pipeline.Node, 0, len(c.Pipeline.Nodes))
	for _, nc := range c.Pipeline.Nodes {
		node, err := factory.Build(nc.Type, nc.Config)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return &pipeline.Pipeline{Nodes: nodes}, nil
}
