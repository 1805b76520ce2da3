package recall

import (
	"math"

	"github.com/DvUo/Sistema-de-recomendacion/core"
)

// UtilityMatrix 是用户×电影的稠密效用矩阵。
//
// 约定：
//   - 行键一律使用用户 ID（展示名可能重复，用作行键会静默合并两个用户的行）
//   - 目标用户永远是第一行，候选用户按输入顺序排在其后
//   - 列是所有参与用户评过的电影 ID 的并集，按首次出现顺序
//   - 单元格是评分（1–5），未评分为 0；0 永远不表示真实评分
//   - 同一 (用户, 电影) 出现多次时保留最后一次的值（pivot 语义，不聚合）
type UtilityMatrix struct {
	UserIDs  []int64
	MovieIDs []int64
	Data     [][]float64

	rowIndex map[int64]int
	colIndex map[int64]int
}

// BuildUtilityMatrix 由目标用户与过滤后的候选用户构建效用矩阵。
// 每个用户内部按电影 ID 升序展开评分三元组，保证构建结果确定。
func BuildUtilityMatrix(target *core.User, similar []*core.User) *UtilityMatrix {
	m := &UtilityMatrix{
		rowIndex: make(map[int64]int),
		colIndex: make(map[int64]int),
	}

	users := make([]*core.User, 0, len(similar)+1)
	users = append(users, target)
	users = append(users, similar...)

	// 第一遍：登记行与列（首次出现顺序）
	for _, u := range users {
		if _, ok := m.rowIndex[u.ID]; !ok {
			m.rowIndex[u.ID] = len(m.UserIDs)
			m.UserIDs = append(m.UserIDs, u.ID)
		}
		for _, movieID := range u.Ratings.SortedIDs() {
			if _, ok := m.colIndex[movieID]; !ok {
				m.colIndex[movieID] = len(m.MovieIDs)
				m.MovieIDs = append(m.MovieIDs, movieID)
			}
		}
	}

	m.Data = make([][]float64, len(m.UserIDs))
	for i := range m.Data {
		m.Data[i] = make([]float64, len(m.MovieIDs))
	}

	// 第二遍：填充评分；重复三元组后写覆盖先写
	for _, u := range users {
		row := m.Data[m.rowIndex[u.ID]]
		for _, movieID := range u.Ratings.SortedIDs() {
			row[m.colIndex[movieID]] = float64(u.Ratings[movieID])
		}
	}

	return m
}

// Rating 返回 (用户, 电影) 单元格的值；行或列不存在时返回 0。
func (m *UtilityMatrix) Rating(userID, movieID int64) float64 {
	i, ok := m.rowIndex[userID]
	if !ok {
		return 0
	}
	j, ok := m.colIndex[movieID]
	if !ok {
		return 0
	}
	return m.Data[i][j]
}

// Row 返回某用户的评分向量；不存在时返回 nil。
func (m *UtilityMatrix) Row(userID int64) []float64 {
	i, ok := m.rowIndex[userID]
	if !ok {
		return nil
	}
	return m.Data[i]
}

// SimilarityMatrix 是效用矩阵行（用户）两两余弦相似度的方阵。
// 对称；对角线为 1（该用户至少有一条评分时），全零行的对角线为 0。
type SimilarityMatrix struct {
	UserIDs []int64
	Data    [][]float64

	index map[int64]int
}

// CosineMatrix 对效用矩阵的行计算两两余弦相似度。
// 纯数值变换，对电影语义一无所知。
func (m *UtilityMatrix) CosineMatrix() *SimilarityMatrix {
	n := len(m.UserIDs)
	sm := &SimilarityMatrix{
		UserIDs: append([]int64(nil), m.UserIDs...),
		Data:    make([][]float64, n),
		index:   make(map[int64]int, n),
	}
	for i, id := range sm.UserIDs {
		sm.index[id] = i
		sm.Data[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sim := cosine(m.Data[i], m.Data[j])
			sm.Data[i][j] = sim
			sm.Data[j][i] = sim
		}
	}

	return sm
}

// Similarity 返回两个用户之间的余弦相似度；任一用户不在矩阵中时返回 0。
func (sm *SimilarityMatrix) Similarity(a, b int64) float64 {
	i, ok := sm.index[a]
	if !ok {
		return 0
	}
	j, ok := sm.index[b]
	if !ok {
		return 0
	}
	return sm.Data[i][j]
}

// cosine 计算余弦相似度：点积除以模长之积；任一模长为 0 时定义为 0。
func cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
