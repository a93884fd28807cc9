package main

import (
	"context"
	"fmt"
	"os"

	"trade-stats/internal/interfaces"
	"trade-stats/internal/logger"
	"trade-stats/internal/source"
	"trade-stats/internal/source/sourceobs"
	"trade-stats/internal/stats"
	"trade-stats/internal/stats/statsobs"
	"trade-stats/internal/statscache"
	"trade-stats/internal/store"
	"trade-stats/internal/trace"
	"trade-stats/internal/tradelog"
	"trade-stats/internal/types"

	"github.com/joho/godotenv"
)

// initializeSystem loads .env and initializes logger and tracer
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
	return nil
}

func loadConfig(ctx context.Context, path string) (*store.Config, error) {
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	return cfg, nil
}

// compressOldJournal archives journal files past the configured retention
func compressOldJournal(ctx context.Context, cfg *store.Config) {
	if cfg.Source.Kind != "JOURNAL" || cfg.Journal.RetentionDays <= 0 {
		return
	}
	if err := tradelog.CompressOlder(cfg.Source.JournalDir, cfg.Journal.RetentionDays); err != nil {
		logger.Warn(ctx, "Failed to compress old journal files", "error", err)
	}
}

// mirrorToJournal copies fetched HTML or Kite transactions into the journal
// so later runs can work offline
func mirrorToJournal(ctx context.Context, cfg *store.Config, txs []types.TransactionRecord) {
	if cfg.Source.Kind == "JOURNAL" || !cfg.Journal.Mirror {
		return
	}
	n, err := tradelog.Import(cfg.Source.JournalDir, txs)
	if err != nil {
		logger.Warn(ctx, "Failed to mirror transactions to journal", "error", err, "written", n)
		return
	}
	logger.Info(ctx, "Mirrored transactions to journal", "dir", cfg.Source.JournalDir, "new", n)
}

// initializeSource picks the transaction source named in config and wraps
// it with observability
func initializeSource(ctx context.Context, cfg *store.Config) (interfaces.TransactionSource, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	var src interfaces.TransactionSource
	switch cfg.Source.Kind {
	case "HTML":
		logger.Info(ctx, "Reading transactions from HTML export", "path", cfg.Source.HTMLPath)
		src = source.NewHTMLExportSource(cfg.Source.HTMLPath, loc)
	case "KITE":
		logger.Info(ctx, "Reading today's fills from Kite", "exchange", cfg.Source.Exchange)
		kite, err := source.NewKiteSource(source.KiteParams{
			APIKey:      os.Getenv("KITE_API_KEY"),
			AccessToken: os.Getenv("KITE_ACCESS_TOKEN"),
			Exchange:    cfg.Source.Exchange,
		})
		if err != nil {
			return nil, err
		}
		src = kite
	default:
		logger.Info(ctx, "Reading transactions from journal", "dir", cfg.Source.JournalDir)
		src = source.NewJournalSource(cfg.Source.JournalDir)
	}

	return sourceobs.Wrap(cfg.Source.Kind, src), nil
}

// initializeEngine builds the statistics engine with observability and a
// snapshot cache in front of it
func initializeEngine(cfg *store.Config) (*statscache.Cache, error) {
	eng, err := stats.New(cfg.StatsConfig())
	if err != nil {
		return nil, err
	}
	return statscache.New(statsobs.Wrap(eng), cfg.CacheTTL(), cfg.CacheResolution()), nil
}
