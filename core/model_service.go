package core

import "context"

// Summarizer 是文本摘要服务的领域接口（黑盒：标题 → 短摘要，可能失败）。
// 数据集构建时调用；失败时退化为空摘要，不中断构建。
//
// 实现：service.ChatSummarizer（OpenAI 兼容 chat-completions 服务）。
type Summarizer interface {
	// Summarize 为电影标题生成不超过三行的摘要
	Summarize(ctx context.Context, title string) (string, error)
}

// Embedder 是文本向量化服务的领域接口（黑盒：文本 → 定长数值向量）。
//
// 实现：service.HTTPEmbedder（OpenAI 兼容 /v1/embeddings 服务）。
type Embedder interface {
	// Embed 将文本编码为定长向量
	Embed(ctx context.Context, text string) ([]float64, error)

	// Dimension 返回向量维度（用于建集合）
	Dimension() int
}
