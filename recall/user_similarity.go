package recall

import (
	"context"
	"sort"
	"strconv"

	"github.com/DvUo/Sistema-de-recomendacion/core"
	"github.com/DvUo/Sistema-de-recomendacion/pipeline"
	"github.com/DvUo/Sistema-de-recomendacion/pkg/utils"
)

const (
	// minCommonRated 候选用户必须与目标用户共同评分的电影数下限（严格大于）
	minCommonRated = 5
	// defaultTopN 截断后保留的推荐数量默认值
	defaultTopN = 5
	// defaultCandidatePool 近邻检索的候选池大小默认值
	defaultCandidatePool = 30
)

// UserSimilarity 是基于用户相似度的协同过滤召回节点。
//
// 流程：
//  1. 读取目标用户，向量近邻检索拿到候选用户池
//  2. 重合度过滤：保留与目标共同评分电影数 > minCommonRated 的候选（按 ID 排除目标自身）
//  3. 目标 + 候选构建效用矩阵，行两两算余弦相似度
//  4. 对目标未看过的电影做相似度加权平均打分；权重固定取候选与目标的相似度
//  5. 按分降序稳定排序（同分保持首次出现顺序），截断 TopN
//
// 打分只依赖评分数据，电影语义（标题、类型）在补全阶段才进入。
type UserSimilarity struct {
	Store core.UserStore

	// CandidatePool 近邻候选池大小；<= 0 时取 defaultCandidatePool
	CandidatePool int
	// TopN 截断数量；请求上下文的 TopN 优先，其次此值，最后 defaultTopN
	TopN int
}

func NewUserSimilarity(store core.UserStore) *UserSimilarity {
	return &UserSimilarity{Store: store}
}

func (r *UserSimilarity) Name() string { return "recall.usercf" }

func (r *UserSimilarity) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 pipeline.Node 接口。
// 输入 items 忽略（召回节点是链路起点），输出带分候选。
// 目标用户不存在返回 NOT_FOUND，无重合候选返回 NO_OVERLAP，由编排层转成空结果。
func (r *UserSimilarity) Process(ctx context.Context, rctx *core.RecommendContext, _ []*core.Item) ([]*core.Item, error) {
	if r.Store == nil {
		return nil, core.NewDomainError(core.ModuleRecall, core.ErrorCodeInternalError, "recall: user store is nil")
	}
	if rctx == nil || rctx.UserID <= 0 {
		return nil, core.NewDomainError(core.ModuleRecall, core.ErrorCodeInvalidInput, "recall: invalid user id")
	}

	target, err := r.Store.GetUser(ctx, rctx.UserID)
	if err != nil {
		return nil, err
	}
	rctx.User = target

	pool := r.CandidatePool
	if pool <= 0 {
		pool = defaultCandidatePool
	}
	candidateIDs, err := r.Store.SimilarUserIDs(ctx, target.ID, pool)
	if err != nil {
		return nil, err
	}

	candidates, err := r.Store.GetUsers(ctx, candidateIDs)
	if err != nil {
		return nil, err
	}

	similar := FilterSimilarUsers(target, candidates)
	if len(similar) == 0 {
		return nil, core.ErrNoOverlap
	}

	matrix := BuildUtilityMatrix(target, similar)
	sim := matrix.CosineMatrix()

	topN := rctx.TopN
	if topN <= 0 {
		topN = r.TopN
	}
	if topN <= 0 {
		topN = defaultTopN
	}

	scored := ScoreUnseen(target, similar, sim, topN)

	items := make([]*core.Item, 0, len(scored))
	for _, s := range scored {
		item := core.NewItem(s.MovieID)
		item.Score = float64(s.Score)
		item.PutLabel("recall_source", utils.Label{Value: r.Name(), Source: r.Name()})
		item.PutLabel("neighbor_count", utils.Label{Value: strconv.Itoa(len(similar)), Source: r.Name()})
		items = append(items, item)
	}
	return items, nil
}

// FilterSimilarUsers 重合度过滤：保留共同评分电影数严格大于 minCommonRated 的候选。
// 目标自身按 ID 排除（近邻检索的结果通常包含自己）。输入顺序原样保留。
func FilterSimilarUsers(target *core.User, candidates []*core.User) []*core.User {
	out := make([]*core.User, 0, len(candidates))
	for _, c := range candidates {
		if c == nil || c.ID == target.ID {
			continue
		}
		if c.Ratings.Common(target.Ratings) > minCommonRated {
			out = append(out, c)
		}
	}
	return out
}

// ScoreUnseen 对目标未评分的电影做相似度加权平均打分。
//
// 每个候选用户的权重固定为它与目标用户的余弦相似度，与被打分的电影无关。
// 加权平均 = Σ(sim × rating) / Σ(sim)，结果向零截断成整数分。
// 权重和为 0 的电影（全部来自零相似候选）直接丢弃。
// 排序降序稳定：同分电影保持首次出现顺序（候选顺序 × 各自电影 ID 升序）。
func ScoreUnseen(target *core.User, similar []*core.User, sim *SimilarityMatrix, topN int) []core.ScoredMovie {
	var order []int64
	scoreSum := make(map[int64]float64)
	weightSum := make(map[int64]float64)

	for _, u := range similar {
		weight := sim.Similarity(u.ID, target.ID)
		for _, movieID := range u.Ratings.SortedIDs() {
			if target.Ratings.Rated(movieID) {
				continue
			}
			if _, seen := scoreSum[movieID]; !seen {
				order = append(order, movieID)
			}
			scoreSum[movieID] += weight * float64(u.Ratings[movieID])
			weightSum[movieID] += weight
		}
	}

	scored := make([]core.ScoredMovie, 0, len(order))
	for _, movieID := range order {
		w := weightSum[movieID]
		if w == 0 {
			continue
		}
		scored = append(scored, core.ScoredMovie{
			MovieID: movieID,
			Score:   int(scoreSum[movieID] / w),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if topN > 0 && len(scored) > topN {
		scored = scored[:topN]
	}
	return scored
}

var _ pipeline.Node = (*UserSimilarity)(nil)
