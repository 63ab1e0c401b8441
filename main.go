package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"radar/config"
	"radar/controllers"
	"radar/db"
	"radar/dedup"
	"radar/ingest"
	"radar/router"
	"radar/workers"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	configPath := getenv("CONFIG", "config.json")
	cfg := config.Get(configPath)

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	db.SetConfigurations(cfg)
	controllers.SetConfigurations(cfg)

	database, err := db.Connect()
	if err != nil {
		logger.Fatal("conexão com o banco falhou", zap.Error(err))
	}
	defer database.Close()

	engine := dedup.NewEngine(database, dedup.Config{
		RejectThreshold:  cfg.Dedup.RejectThreshold,
		ReviewThreshold:  cfg.Dedup.ReviewThreshold,
		MinTextLength:    cfg.Dedup.MinTextLength,
		CorpusWindow:     cfg.Dedup.CorpusWindow,
		CorpusMaxAgeDays: cfg.Dedup.CorpusMaxAge,
	}, logger)
	controllers.SetDedupEngine(engine)

	httpClient := &http.Client{Timeout: time.Duration(cfg.Ingest.FetchTimeoutSeconds) * time.Second}
	registry := ingest.NewRegistry(httpClient)

	collector := workers.NewCollector(database, registry, logger, cfg)
	collector.Start()
	controllers.SetCollector(collector)

	reports := workers.NewReportsWorker(database, logger, cfg)
	reports.Start()

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(db.SetDBtoContext(database))
	router.Initialize(r, cfg, logger)

	logger.Info("radar no ar", zap.String("port", cfg.ApiPort))
	if err := r.Run(":" + cfg.ApiPort); err != nil {
		logger.Fatal("servidor caiu", zap.Error(err))
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
