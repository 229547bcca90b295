package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/KartikAmbupe/FactFeedAI/internal/api"
	"github.com/KartikAmbupe/FactFeedAI/internal/collector"
	"github.com/KartikAmbupe/FactFeedAI/internal/config"
	"github.com/KartikAmbupe/FactFeedAI/internal/scheduler"
	"github.com/KartikAmbupe/FactFeedAI/internal/source"
	"github.com/KartikAmbupe/FactFeedAI/internal/storage"
)

func main() {
	cfg := config.Load()

	store, err := storage.NewStore(cfg.PostgresDSN, cfg.RedisAddr)
	if err != nil {
		log.Fatalf("init store failed: %v", err)
	}

	catalog := loadCatalog(cfg)
	log.Printf("catalog loaded: %d sources", len(catalog))

	orch := collector.New(
		catalog,
		collector.NewHTTPAPIClient(),
		collector.NewGofeedParser(),
		collector.NewFrontPageScraper(),
		log.New(os.Stderr, "[collect] ", log.LstdFlags),
	)

	sched, err := scheduler.New(cfg.CronSpec, orch, store, log.Default())
	if err != nil {
		log.Fatalf("init scheduler failed: %v", err)
	}
	sched.Start()

	r := gin.Default()
	apiServer := api.NewServer(store, sched)
	apiServer.RegisterRoutes(r)

	addr := ":" + cfg.AppPort
	log.Printf("starting api server at %s ...", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server exit: %v", err)
	}
}

func loadCatalog(cfg *config.Config) source.Catalog {
	if cfg.SourcesFile != "" {
		catalog, err := source.Load(cfg.SourcesFile)
		if err != nil {
			log.Fatalf("load source catalog failed: %v", err)
		}
		return catalog
	}
	return source.Default(cfg.NewsAPIKey, cfg.NewsDataKey)
}
