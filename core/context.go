package core

import "github.com/DvUo/Sistema-de-recomendacion/pkg/utils"

// RecommendContext 承载一次推荐请求的用户与参数信息，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	// UserID 目标用户 ID（正整数，存储层主键）
	UserID int64

	// TopN 期望返回的推荐数量；<= 0 时各节点使用自身默认值
	TopN int

	// User 目标用户记录（含评分表）；由召回节点在读取存储后回填，
	// 供下游节点使用（已看排除、解释生成等）。请求期内只读。
	User *User

	// Labels 是请求级标签，可驱动整个 Pipeline 行为
	Labels map[string]utils.Label

	// Params 请求级上下文参数
	Params map[string]any
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
