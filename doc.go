// Package recomendacion 是一个基于用户相似度的电影推荐服务。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（Recall → Filter → ReRank → PostProcess）
// - 协同过滤: 用户×电影效用矩阵 + 行两两余弦相似度 + 相似度加权平均打分
// - 依赖倒置: 领域接口定义在 core，KV/向量/模型服务在基础设施层实现
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 规则过滤
package recomendacion

import "github.com/DvUo/Sistema-de-recomendacion/pipeline"

// 轻量 facade：便于直接使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
