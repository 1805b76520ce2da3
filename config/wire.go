package config

import (
	"fmt"
	"os"
	"time"

	"github.com/DvUo/Sistema-de-recomendacion/core"
	"github.com/DvUo/Sistema-de-recomendacion/service"
	"github.com/DvUo/Sistema-de-recomendacion/store"
	"github.com/DvUo/Sistema-de-recomendacion/vector"
)

// 环境变量优先于配置文件，方便容器化部署时注入密钥
const (
	envLLMAPIKey   = "LLM_API_KEY"
	envChromaToken = "CHROMA_TOKEN"
)

// BuildKV 按配置创建 KV 存储。
func (c *Config) BuildKV() (core.KeyValueStore, error) {
	switch c.Store.Driver {
	case "", "memory":
		return store.NewMemoryStore(), nil
	case "redis":
		return store.NewRedisStore(c.Store.Redis.Addr, c.Store.Redis.DB)
	default:
		return nil, fmt.Errorf("unknown store driver: %s", c.Store.Driver)
	}
}

// BuildVectors 按配置创建向量服务。
func (c *Config) BuildVectors() (core.VectorDatabaseService, error) {
	switch c.Vector.Driver {
	case "", "memory":
		return store.NewMemoryVectorService(), nil
	case "chroma":
		token := c.Vector.Chroma.Token
		if v := os.Getenv(envChromaToken); v != "" {
			token = v
		}
		return vector.NewChromaService(
			c.Vector.Chroma.Endpoint,
			vector.WithChromaToken(token),
			vector.WithChromaTimeout(time.Duration(c.Vector.Chroma.Timeout)*time.Second),
		), nil
	default:
		return nil, fmt.Errorf("unknown vector driver: %s", c.Vector.Driver)
	}
}

// BuildSummarizer 按配置创建摘要客户端；没有 API Key 时返回 nil（摘要留空）。
func (c *Config) BuildSummarizer() core.Summarizer {
	apiKey := c.LLM.APIKey
	if v := os.Getenv(envLLMAPIKey); v != "" {
		apiKey = v
	}
	if apiKey == "" {
		return nil
	}
	return service.NewChatSummarizer(
		c.LLM.Endpoint,
		apiKey,
		service.WithSummarizerModel(c.LLM.Model),
	)
}

// BuildEmbedder 按配置创建 embedding 服务。
func (c *Config) BuildEmbedder() (core.Embedder, error) {
	switch c.Embedding.Driver {
	case "", "hash":
		return service.NewHashEmbedder(c.Embedding.Dimension), nil
	case "http":
		return service.NewHTTPEmbedder(
			c.Embedding.Endpoint,
			c.Embedding.Model,
			c.Embedding.APIKey,
			c.Embedding.Dimension,
		), nil
	default:
		return nil, fmt.Errorf("unknown embedding driver: %s", c.Embedding.Driver)
	}
}
