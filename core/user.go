package core

import "sort"

// Ratings 是一个用户的评分表：电影 ID → 评分（1–5 的整数）。
// 约定：0 永远不是合法评分，效用矩阵中的 0 只表示“未评分”。
type Ratings map[int64]int

// Rated 判断用户是否评过某部电影。
func (r Ratings) Rated(movieID int64) bool {
	_, ok := r[movieID]
	return ok
}

// Common 返回与另一份评分表的共同电影数（键集合交集大小）。
func (r Ratings) Common(other Ratings) int {
	a, b := r, other
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for id := range a {
		if _, ok := b[id]; ok {
			n++
		}
	}
	return n
}

// SortedIDs 返回按电影 ID 升序排列的键列表。
// map 遍历无序，打分与建矩阵需要稳定顺序时统一走这里。
func (r Ratings) SortedIDs() []int64 {
	ids := make([]int64, 0, len(r))
	for id := range r {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// User 是参与协同过滤的用户记录。
// Name 仅用于展示；矩阵行键一律使用 UserID，避免重名用户的行被静默合并。
// 一次请求内加载后只读。
type User struct {
	ID      int64   `json:"user_id"`
	Name    string  `json:"username"`
	Ratings Ratings `json:"ratings"`
}

// RatingVector 返回在给定电影 ID 全集上的稠密评分向量（未评分为 0）。
// 数据集构建时作为用户 embedding 写入向量存储。
func (u *User) RatingVector(movieIDs []int64) []float64 {
	vec := make([]float64, len(movieIDs))
	for i, id := range movieIDs {
		if score, ok := u.Ratings[id]; ok {
			vec[i] = float64(score)
		}
	}
	return vec
}
