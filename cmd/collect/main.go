package main

import (
	"context"
	"log"
	"os"

	"github.com/KartikAmbupe/FactFeedAI/internal/collector"
	"github.com/KartikAmbupe/FactFeedAI/internal/config"
	"github.com/KartikAmbupe/FactFeedAI/internal/scheduler"
	"github.com/KartikAmbupe/FactFeedAI/internal/source"
	"github.com/KartikAmbupe/FactFeedAI/internal/storage"
)

// One-shot entrypoint: run a single fetch cycle and exit. Suited to manual
// triggers and external schedulers.
func main() {
	cfg := config.Load()

	store, err := storage.NewStore(cfg.PostgresDSN, cfg.RedisAddr)
	if err != nil {
		log.Fatalf("init store failed: %v", err)
	}

	var catalog source.Catalog
	if cfg.SourcesFile != "" {
		catalog, err = source.Load(cfg.SourcesFile)
		if err != nil {
			log.Fatalf("load source catalog failed: %v", err)
		}
	} else {
		catalog = source.Default(cfg.NewsAPIKey, cfg.NewsDataKey)
	}

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

	newCount, report, err := sched.RunOnce(context.Background())
	if err != nil {
		// Commit failure loses the whole batch; surface it loudly.
		log.Fatalf("fetch cycle failed: %v", err)
	}
	log.Printf("cycle complete: fetched=%d new=%d skipped_sources=%d",
		report.TotalFetched(), newCount, report.SkippedSources())
}
