package main

import (
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"avtowatch/internal/config"
	"avtowatch/internal/feed"
	"avtowatch/internal/fetcher"
	"avtowatch/internal/notify"
	"avtowatch/internal/parser"
	"avtowatch/internal/seenstore"
	"avtowatch/internal/watcher"
)

// avtowatch performs one discovery pass per invocation; an external
// scheduler (cron, CI workflow) provides the cadence.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading configuration: %v", err)
	}

	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      config.ParseLogLevel(cfg.LogLevel),
		TimeFormat: "2006-01-02 15:04:05",
	})
	logger := slog.New(handler).With("service", "avtowatch")

	pageFetcher, err := fetcher.New(fetcher.Config{
		RandomDelay: 2 * time.Second,
		Logger:      logger,
	})
	if err != nil {
		logger.Error("failed to initialize fetcher", "error", err)
		os.Exit(1)
	}

	w := watcher.New(
		cfg,
		pageFetcher,
		parser.New(logger),
		feed.New(logger),
		seenstore.New(cfg.SeenFile, logger),
		notify.New(notify.Config{
			BotToken: cfg.Telegram.BotToken,
			ChatID:   cfg.Telegram.ChatID,
			Logger:   logger,
		}),
		logger,
	)

	logger.Info("starting discovery run", "source", string(cfg.Source))
	w.Run()
	logger.Info("discovery run completed")
}
