package filter

import (
	"context"

	"github.com/DvUo/Sistema-de-recomendacion/core"
	"github.com/DvUo/Sistema-de-recomendacion/pkg/dsl"
)

// RuleFilter 是基于 CEL 表达式的规则过滤器。
// 表达式对候选求值，结果为 true 时该候选被移除。
//
// 示例（放在补全节点之后时 label.genres 可用）：
//   - `label.genres.contains("Horror")` → 移除恐怖片
//   - `item.score <= 3.0` → 移除低分候选
//   - `label.recall_source != "recall.usercf"` → 只保留协同过滤召回
type RuleFilter struct {
	// Expr CEL 表达式；为空时不过滤任何候选
	Expr string
}

func NewRuleFilter(expr string) *RuleFilter {
	return &RuleFilter{Expr: expr}
}

func (f *RuleFilter) Name() string {
	return "filter.rule"
}

func (f *RuleFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if f.Expr == "" || item == nil {
		return false, nil
	}
	return dsl.NewEval(item, rctx).Evaluate(f.Expr)
}

var _ Filter = (*RuleFilter)(nil)
