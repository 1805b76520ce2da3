package core

import "strings"

// Movie 是电影目录中的一条记录。
// Summary 由外部大模型生成，可能为空；Embedding 由外部向量化服务
// 基于 genre 文本生成，维度由服务决定。
type Movie struct {
	ID        int64
	Title     string
	Genres    []string
	Summary   string
	Embedding []float64
}

// GenreText 返回以空格连接的 genre 文本，作为向量化输入。
func (m *Movie) GenreText() string {
	return strings.Join(m.Genres, " ")
}
