package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trade-stats/internal/interfaces"
	"trade-stats/internal/logger"
	"trade-stats/internal/report"
	"trade-stats/internal/statscache"
	"trade-stats/internal/store"
	"trade-stats/internal/trace"
)

type options struct {
	configPath string
	at         string
	outPath    string
	watch      time.Duration
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "config.yaml", "path to the YAML config")
	flag.StringVar(&opts.at, "at", "", "compute the snapshot as of this RFC3339 instant instead of now")
	flag.StringVar(&opts.outPath, "out", "", "write the snapshot JSON to this file instead of stdout")
	flag.DurationVar(&opts.watch, "watch", 0, "refresh the snapshot at this interval until interrupted")
	flag.Parse()

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "stats: %v\n", err)
		os.Exit(1)
	}
}

// run owns every deferred cleanup so failures still flush spans.
func run(opts options) error {
	if err := initializeSystem(); err != nil {
		return err
	}
	defer func() {
		if err := trace.Shutdown(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to shut down tracer: %v\n", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(ctx, opts.configPath)
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	var fixed time.Time
	if opts.at != "" {
		if fixed, err = time.Parse(time.RFC3339, opts.at); err != nil {
			return fmt.Errorf("invalid -at: %w", err)
		}
	}

	compressOldJournal(ctx, cfg)

	src, err := initializeSource(ctx, cfg)
	if err != nil {
		return err
	}
	cache, err := initializeEngine(cfg)
	if err != nil {
		return err
	}

	r := &refresher{cfg: cfg, src: src, cache: cache, outPath: opts.outPath, out: os.Stdout}
	clock := func() time.Time {
		if !fixed.IsZero() {
			return fixed.In(loc)
		}
		return time.Now().In(loc)
	}

	if _, err := r.refresh(ctx, clock()); err != nil {
		return err
	}
	if opts.watch <= 0 {
		return nil
	}

	logger.Info(ctx, "Watching for changes", "interval", opts.watch.String())
	ticker := time.NewTicker(opts.watch)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Stopping watch")
			return nil
		case <-ticker.C:
			if _, err := r.refresh(ctx, clock()); err != nil {
				logger.ErrorWithErr(ctx, "Snapshot refresh failed", err)
			}
		}
	}
}

// refresher fetches transactions and publishes a snapshot when the cached
// one no longer applies.
type refresher struct {
	cfg     *store.Config
	src     interfaces.TransactionSource
	cache   *statscache.Cache
	outPath string
	out     io.Writer
}

// refresh reports whether the snapshot came from the cache. Cached
// snapshots were already published and are not written again.
func (r *refresher) refresh(ctx context.Context, now time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	txs, err := r.src.FetchTransactions(ctx)
	if err != nil {
		return false, err
	}
	mirrorToJournal(ctx, r.cfg, txs)

	snap, hit, err := r.cache.Snapshot(ctx, statscache.VersionOf(txs), txs, now)
	if err != nil {
		return false, err
	}
	if hit {
		logger.Debug(ctx, "Snapshot unchanged", "as_of", snap.AsOf.Format(time.RFC3339))
		return true, nil
	}

	if r.cfg.Report.Enabled {
		paths, err := report.WriteBestSeller(r.cfg.Report.Dir, snap)
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to write best seller report", err, "dir", r.cfg.Report.Dir)
		} else {
			logger.Info(ctx, "Best seller report written", "files", paths)
		}
	}

	out := r.out
	if r.outPath != "" {
		f, err := os.Create(r.outPath)
		if err != nil {
			return false, err
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return false, err
	}
	return false, nil
}
