package recommender

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/DvUo/Sistema-de-recomendacion/core"
	"github.com/DvUo/Sistema-de-recomendacion/pipeline"
)

// Recommender 是推荐链路的编排层：执行 Pipeline，把领域错误翻译成调用方语义。
//
// 错误语义：
//   - 用户不存在 / 没有足够重合的候选 → 空结果 + 解释文案，不是错误
//     （日志上两者分别记录，方便排查数据问题）
//   - 存储/向量服务不可用等上游失败 → 直接返回错误，由传输层映射为 503
type Recommender struct {
	pipeline *pipeline.Pipeline
	logger   *zap.Logger
}

func New(p *pipeline.Pipeline, logger *zap.Logger) *Recommender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recommender{pipeline: p, logger: logger}
}

// Recommend 为目标用户生成推荐。topN <= 0 时使用各节点默认值。
func (r *Recommender) Recommend(ctx context.Context, userID int64, topN int) (*core.RecommendResult, error) {
	if userID <= 0 {
		return nil, core.NewDomainError(core.ModuleService, core.ErrorCodeInvalidInput, "recommend: user id must be positive")
	}

	rctx := &core.RecommendContext{
		UserID: userID,
		TopN:   topN,
	}

	items, err := r.pipeline.Run(ctx, rctx, nil)
	if err != nil {
		switch {
		case core.IsNotFound(err):
			r.logger.Info("user not found, returning empty result",
				zap.Int64("user_id", userID))
			return emptyResult(userID, fmt.Sprintf("user %d not found", userID)), nil
		case core.IsNoOverlap(err):
			r.logger.Info("no candidate shares enough rated movies, returning empty result",
				zap.Int64("user_id", userID))
			return emptyResult(userID, fmt.Sprintf("no users share enough rated movies with user %d", userID)), nil
		default:
			r.logger.Error("recommendation pipeline failed",
				zap.Int64("user_id", userID),
				zap.Error(err))
			return nil, err
		}
	}

	recs := make([]core.Recommendation, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		recs = append(recs, toRecommendation(item))
	}

	r.logger.Info("recommendation generated",
		zap.Int64("user_id", userID),
		zap.Int("count", len(recs)))

	return &core.RecommendResult{
		UserID:          userID,
		Recommendations: recs,
		Explanation:     successExplanation,
	}, nil
}

// successExplanation 成功结果的通用解释文案
const successExplanation = "recommendations based on ratings from users with similar viewing patterns, " +
	"selected by their weighted average score among similar users"

func emptyResult(userID int64, explanation string) *core.RecommendResult {
	return &core.RecommendResult{
		UserID:          userID,
		Recommendations: []core.Recommendation{},
		Explanation:     explanation,
	}
}

// toRecommendation 把补全后的 Item 转成对外结构。
// 元信息由目录补全节点写入；类型不符时字段留零值，不中断请求。
func toRecommendation(item *core.Item) core.Recommendation {
	rec := core.Recommendation{Score: int(item.Score)}
	if title, ok := item.Meta["title"].(string); ok {
		rec.Title = title
	}
	if genres, ok := item.Meta["genres"].([]string); ok {
		rec.Genres = genres
	}
	if summary, ok := item.Meta["summary"].(string); ok {
		rec.Summary = summary
	}
	return rec
}
