package pipeline

import (
	"context"

	"github.com/DvUo/Sistema-de-recomendacion/core"
)

// Pipeline 是核心抽象：把推荐逻辑拆成可组合的 Node 链。
// 推荐链路：召回（用户协同过滤）→ 过滤 → 重排（TopN）→ 后处理（目录补全）。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
