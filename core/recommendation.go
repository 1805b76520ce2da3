package core

// ScoredMovie 是打分阶段的中间结果：电影 ID 与截断后的整数分。
type ScoredMovie struct {
	MovieID int64
	Score   int
}

// Recommendation 是返回给调用方的补全结果。
type Recommendation struct {
	Title   string   `json:"title"`
	Genres  []string `json:"genres"`
	Score   int      `json:"score"`
	Summary string   `json:"summary"`
}

// RecommendResult 是一次推荐调用的完整结果。
// Recommendations 可能为空（目标用户不存在 / 没有足够重合的候选用户），
// 此时 Explanation 说明原因；调用方始终拿到一个结构良好的结果。
type RecommendResult struct {
	UserID          int64            `json:"user_id"`
	Recommendations []Recommendation `json:"recommendations"`
	Explanation     string           `json:"explanation"`
}
