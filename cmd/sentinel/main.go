// Command sentinel runs the security news aggregator: it polls RSS sources,
// filters for security relevance, analyzes new items through a chain of AI
// providers and pushes notifications to Telegram.
package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sentinelai/sentinel/internal/brain"
	"github.com/sentinelai/sentinel/internal/config"
	"github.com/sentinelai/sentinel/internal/feeds"
	"github.com/sentinelai/sentinel/internal/feeds/rss"
	"github.com/sentinelai/sentinel/internal/logging"
	"github.com/sentinelai/sentinel/internal/notify"
	"github.com/sentinelai/sentinel/internal/pipeline"
	"github.com/sentinelai/sentinel/internal/scheduler"
	"github.com/sentinelai/sentinel/internal/store"
)

func main() {
	// .env first: the logger's level may come from it.
	dotenv := config.LoadDotEnv()
	logging.Init()
	if dotenv {
		logging.Debug("loaded .env file")
	}

	cfg := config.Load()

	sources, err := config.LoadSources(cfg.SourcesPath)
	if err != nil {
		logging.Fatal("failed to load sources", "error", err)
	}

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		logging.Fatal("failed to open database", "error", err)
	}
	defer db.Close()

	if counts, err := db.CountBySource(); err == nil && len(counts) > 0 {
		for source, count := range counts {
			logging.Info("stored items", "source", source, "count", count)
		}
	}
	if recent, err := db.Recent(3); err == nil {
		for _, item := range recent {
			logging.Debug("latest item", "title", item.Title, "source", item.Source)
		}
	}

	providers := brain.CreateProviders()
	orch := brain.NewOrchestrator(providers, brain.NewCooldowns())
	for name, status := range orch.Status() {
		logging.Info("provider status", "provider", name, "status", status)
	}

	var notifier pipeline.Notifier
	if cfg.NotifyEnabled() {
		notifier = notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
		logging.Info("telegram notifications enabled")
	} else {
		logging.Warn("telegram not configured, notifications disabled")
	}

	fetcher := rss.NewFetcher(15 * time.Second)
	pipe := pipeline.New(sources, feeds.DefaultFilter(), fetcher, db, orch, notifier)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info("sentinel starting", "sources", len(sources),
		"scan_interval", cfg.ScanInterval, "sweep_interval", cfg.SweepInterval)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		scheduler.Run(ctx, "scan", cfg.ScanInterval, pipe.Ingest)
	}()
	go func() {
		defer wg.Done()
		scheduler.Run(ctx, "sweep", cfg.SweepInterval, pipe.Sweep)
	}()

	<-ctx.Done()
	logging.Info("shutting down")
	wg.Wait()
}
