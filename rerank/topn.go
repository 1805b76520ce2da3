package rerank

import (
	"context"

	"github.com/DvUo/Sistema-de-recomendacion/core"
	"github.com/DvUo/Sistema-de-recomendacion/pipeline"
)

// TopNNode 是 Top-N 截断节点，在打分排序之后限制结果数量。
// 截断永远保留前缀，不改变顺序。
type TopNNode struct {
	// N 要保留的数量；请求上下文的 TopN 优先于此值。
	// 两者都 <= 0 时不截断。
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	limit := n.N
	if rctx != nil && rctx.TopN > 0 {
		limit = rctx.TopN
	}

	if limit <= 0 || len(items) <= limit {
		return items, nil
	}
	return items[:limit], nil
}

var _ pipeline.Node = (*TopNNode)(nil)
