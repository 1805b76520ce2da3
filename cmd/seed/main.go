// 数据集构建入口：解析电影文件，生成随机用户，灌入 KV 与向量存储。
package main

import (
	"context"
	"flag"
	"log"
	"math/rand"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/DvUo/Sistema-de-recomendacion/config"
	"github.com/DvUo/Sistema-de-recomendacion/dataset"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	moviesPath := flag.String("movies", "", "movies file path (overrides config)")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}
	if *moviesPath != "" {
		cfg.Dataset.MoviesPath = *moviesPath
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	kv, err := cfg.BuildKV()
	if err != nil {
		logger.Fatal("init kv store", zap.Error(err))
	}
	defer kv.Close()

	vectors, err := cfg.BuildVectors()
	if err != nil {
		logger.Fatal("init vector service", zap.Error(err))
	}
	defer vectors.Close()

	embedder, err := cfg.BuildEmbedder()
	if err != nil {
		logger.Fatal("init embedder", zap.Error(err))
	}

	movies, err := dataset.LoadMovies(cfg.Dataset.MoviesPath, cfg.Dataset.MovieLimit)
	if err != nil {
		logger.Fatal("load movies", zap.Error(err))
	}

	rng := rand.New(rand.NewSource(cfg.Dataset.Seed))
	users := dataset.GenerateUsers(dataset.MovieIDs(movies), cfg.Dataset.UserCount, rng)

	builder := dataset.NewBuilder(kv, vectors, embedder)
	builder.Summarizer = cfg.BuildSummarizer()
	builder.Logger = logger
	builder.Concurrency = cfg.Dataset.Concurrency

	if err := builder.Build(context.Background(), movies, users); err != nil {
		logger.Fatal("build dataset", zap.Error(err))
	}

	logger.Info("dataset ready",
		zap.Int("movies", len(movies)),
		zap.Int("users", len(users)))
}
