package filter

import (
	"context"

	"github.com/DvUo/Sistema-de-recomendacion/core"
)

// WatchedFilter 过滤掉目标用户已经评过分的电影。
// 打分阶段本身不会产出已看电影，此过滤器用于 Pipeline 混入其他召回源时兜底。
// 依赖召回节点回填到请求上下文中的用户记录；记录缺失时不过滤。
type WatchedFilter struct{}

func (f *WatchedFilter) Name() string {
	return "filter.watched"
}

func (f *WatchedFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || rctx == nil || rctx.User == nil {
		return false, nil
	}
	return rctx.User.Ratings.Rated(item.ID), nil
}

var _ Filter = (*WatchedFilter)(nil)
