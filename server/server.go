// Package server 提供推荐服务的 HTTP 传输层。
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/DvUo/Sistema-de-recomendacion/core"
	"github.com/DvUo/Sistema-de-recomendacion/recommender"
)

// Server 是 gin 实现的 HTTP 服务。
//
// 路由：
//   - POST /recommend：生成推荐
//   - GET  /health：健康检查
//
// 状态码约定：
//   - 请求体非法 → 400
//   - 存储/向量服务等上游不可用 → 503
//   - 其他内部错误 → 500
//   - 用户不存在 / 候选不足 → 200 + 空结果（不是错误）
type Server struct {
	engine      *gin.Engine
	recommender *recommender.Recommender
	logger      *zap.Logger
}

func New(rec *recommender.Recommender, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		engine:      gin.New(),
		recommender: rec,
		logger:      logger,
	}

	s.engine.Use(gin.Recovery())
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.engine.POST("/recommend", s.handleRecommend)
	s.engine.GET("/health", s.handleHealth)
}

// Engine 暴露底层 gin.Engine，测试与自定义中间件使用。
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run 启动 HTTP 服务，阻塞直到退出。
func (s *Server) Run(addr string) error {
	s.logger.Info("http server listening", zap.String("addr", addr))
	return s.engine.Run(addr)
}

type recommendRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
	TopN   int   `json:"top_n"`
}

func (s *Server) handleRecommend(c *gin.Context) {
	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	topN := req.TopN
	if topN <= 0 {
		topN = 5
	}

	result, err := s.recommender.Recommend(c.Request.Context(), req.UserID, topN)
	if err != nil {
		switch {
		case core.IsUnavailable(err):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "upstream service unavailable"})
		case core.GetDomainError(err) != nil && core.GetDomainError(err).Code == core.ErrorCodeInvalidInput:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			s.logger.Error("recommend handler failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
