// Package config 负责应用配置的加载与推荐链路的组装。
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/DvUo/Sistema-de-recomendacion/pipeline"
)

// Config 是应用级配置（YAML）。
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Store     StoreConfig     `yaml:"store"`
	Vector    VectorConfig    `yaml:"vector"`
	LLM       LLMConfig       `yaml:"llm"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Dataset   DatasetConfig   `yaml:"dataset"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
}

type ServerConfig struct {
	// Addr 监听地址，默认 ":8000"
	Addr string `yaml:"addr"`
	// Mode gin 运行模式：debug / release
	Mode string `yaml:"mode"`
}

type StoreConfig struct {
	// Driver 存储驱动：memory / redis
	Driver string      `yaml:"driver"`
	Redis  RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr string `yaml:"addr"`
	DB   int    `yaml:"db"`
}

type VectorConfig struct {
	// Driver 向量服务驱动：memory / chroma
	Driver string       `yaml:"driver"`
	Chroma ChromaConfig `yaml:"chroma"`
}

type ChromaConfig struct {
	Endpoint string `yaml:"endpoint"`
	Token    string `yaml:"token"`
	// Timeout 超时时间（秒）
	Timeout int `yaml:"timeout"`
}

type LLMConfig struct {
	// Endpoint OpenAI 兼容端点，如 "https://api.deepseek.com"
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
}

type EmbeddingConfig struct {
	// Driver embedding 驱动：hash（本地）/ http
	Driver    string `yaml:"driver"`
	Endpoint  string `yaml:"endpoint"`
	APIKey    string `yaml:"api_key"`
	Model     string `yaml:"model"`
	Dimension int    `yaml:"dimension"`
}

type DatasetConfig struct {
	// MoviesPath 电影文件路径（管道分隔的 MovieLens u.item 格式）
	MoviesPath string `yaml:"movies_path"`
	MovieLimit int    `yaml:"movie_limit"`
	UserCount  int    `yaml:"user_count"`
	// Seed 随机种子；固定种子可复现数据集
	Seed        int64 `yaml:"seed"`
	Concurrency int   `yaml:"concurrency"`
}

type PipelineConfig struct {
	Nodes []pipeline.NodeConfig `yaml:"nodes"`
}

// Load 从 YAML 文件加载配置并补默认值。
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Default 返回全内存的默认配置，无任何外部依赖即可运行。
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8000"
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "release"
	}
	if c.Store.Driver == "" {
		c.Store.Driver = "memory"
	}
	if c.Store.Redis.Addr == "" {
		c.Store.Redis.Addr = "localhost:6379"
	}
	if c.Vector.Driver == "" {
		c.Vector.Driver = "memory"
	}
	if c.Vector.Chroma.Endpoint == "" {
		c.Vector.Chroma.Endpoint = "http://localhost:8001"
	}
	if c.Vector.Chroma.Timeout <= 0 {
		c.Vector.Chroma.Timeout = 30
	}
	if c.LLM.Endpoint == "" {
		c.LLM.Endpoint = "https://api.deepseek.com"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "deepseek-chat"
	}
	if c.Embedding.Driver == "" {
		c.Embedding.Driver = "hash"
	}
	if c.Embedding.Dimension <= 0 {
		c.Embedding.Dimension = 64
	}
	if c.Dataset.MoviesPath == "" {
		c.Dataset.MoviesPath = "movies.tsv"
	}
	if c.Dataset.MovieLimit <= 0 {
		c.Dataset.MovieLimit = 200
	}
	if c.Dataset.UserCount <= 0 {
		c.Dataset.UserCount = 30
	}
	if c.Dataset.Concurrency <= 0 {
		c.Dataset.Concurrency = 4
	}
	if len(c.Pipeline.Nodes) == 0 {
		c.Pipeline.Nodes = []pipeline.NodeConfig{
			{Type: "recall.usercf"},
			{Type: "rerank.topn", Config: map[string]any{"n": 5}},
			{Type: "enrich.catalog"},
		}
	}
}
