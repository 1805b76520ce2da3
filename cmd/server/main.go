// 推荐服务入口：加载配置，组装存储与推荐链路，启动 HTTP 服务。
package main

import (
	"flag"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/DvUo/Sistema-de-recomendacion/config"
	"github.com/DvUo/Sistema-de-recomendacion/enrich"
	"github.com/DvUo/Sistema-de-recomendacion/recall"
	"github.com/DvUo/Sistema-de-recomendacion/recommender"
	"github.com/DvUo/Sistema-de-recomendacion/server"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (empty = in-memory defaults)")
	flag.Parse()

	// .env 不存在时静默忽略
	_ = godotenv.Load()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	gin.SetMode(cfg.Server.Mode)

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

	deps := config.Deps{
		UserStore: recall.NewStoreUserAdapter(kv, vectors),
		Catalog:   enrich.NewStoreCatalog(kv),
		Logger:    logger,
	}
	p, err := cfg.BuildPipeline(deps)
	if err != nil {
		logger.Fatal("build pipeline", zap.Error(err))
	}

	srv := server.New(recommender.New(p, logger), logger)
	if err := srv.Run(cfg.Server.Addr); err != nil {
		logger.Fatal("http server exited", zap.Error(err))
	}
}
