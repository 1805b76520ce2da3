package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/DvUo/Sistema-de-recomendacion/core"
)

const (
	defaultSummarizerModel = "deepseek-chat"

	summarizerSystemPrompt = "You are an assistant expert in movies and text summarization."
	summarizerUserPrompt   = "Summarize the movie in no more than 3 lines based on the title attached below: "
)

// ChatSummarizer 通过 OpenAI 兼容的 chat completions 接口为电影标题生成摘要。
// DeepSeek、OpenAI 等服务均暴露此协议，切换服务只需换 Endpoint 与 Model。
//
// REST API 格式：
//   - 端点：POST {endpoint}/chat/completions
//   - 请求体：{"model": ..., "messages": [...], "temperature": 0.2}
//   - 响应：choices[0].message.content
type ChatSummarizer struct {
	// Endpoint 服务端点，如 "https://api.deepseek.com"
	Endpoint string

	// Model 模型名称
	Model string

	// APIKey Bearer 认证令牌
	APIKey string

	// Temperature 采样温度；摘要任务用低温度保证稳定输出
	Temperature float64

	// Timeout 超时时间
	Timeout time.Duration

	httpClient *http.Client
}

// NewChatSummarizer 创建一个新的摘要客户端。
func NewChatSummarizer(endpoint, apiKey string, opts ...ChatSummarizerOption) *ChatSummarizer {
	s := &ChatSummarizer{
		Endpoint:    endpoint,
		Model:       defaultSummarizerModel,
		APIKey:      apiKey,
		Temperature: 0.2,
		Timeout:     60 * time.Second,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.httpClient == nil {
		s.httpClient = &http.Client{Timeout: s.Timeout}
	}

	return s
}

// ChatSummarizerOption 摘要客户端配置选项
type ChatSummarizerOption func(*ChatSummarizer)

// WithSummarizerModel 设置模型名称
func WithSummarizerModel(model string) ChatSummarizerOption {
	return func(s *ChatSummarizer) {
		s.Model = model
	}
}

// WithSummarizerTimeout 设置超时时间
func WithSummarizerTimeout(timeout time.Duration) ChatSummarizerOption {
	return func(s *ChatSummarizer) {
		s.Timeout = timeout
		if s.httpClient != nil {
			s.httpClient.Timeout = timeout
		}
	}
}

// WithSummarizerHTTPClient 设置自定义 HTTP 客户端
func WithSummarizerHTTPClient(httpClient *http.Client) ChatSummarizerOption {
	return func(s *ChatSummarizer) {
		s.httpClient = httpClient
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Summarize 实现 core.Summarizer 接口。
func (s *ChatSummarizer) Summarize(ctx context.Context, title string) (string, error) {
	if title == "" {
		return "", core.NewDomainError(core.ModuleService, core.ErrorCodeInvalidInput, "summarizer: title is required")
	}

	body := chatRequest{
		Model:       s.Model,
		Temperature: s.Temperature,
		Messages: []chatMessage{
			{Role: "system", Content: summarizerSystemPrompt},
			{Role: "user", Content: summarizerUserPrompt + "\n\n" + title},
		},
	}

	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if s.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+s.APIKey)
	}

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return "", core.NewDomainError(core.ModuleService, core.ErrorCodeUnavailable, "summarizer request failed: "+err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", core.NewDomainError(core.ModuleService, core.ErrorCodeUnavailable,
			fmt.Sprintf("summarizer error: status=%d, body=%s", resp.StatusCode, string(respBody)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", core.NewDomainError(core.ModuleService, core.ErrorCodeInternalError, "summarizer: empty choices in response")
	}

	return parsed.Choices[0].Message.Content, nil
}

var _ core.Summarizer = (*ChatSummarizer)(nil)
