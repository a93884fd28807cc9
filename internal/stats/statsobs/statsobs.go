package statsobs

import (
	"context"
	"errors"
	"time"

	"trade-stats/internal/interfaces"
	"trade-stats/internal/logger"
	"trade-stats/internal/stats"
	"trade-stats/internal/trace"
	"trade-stats/internal/types"
)

type observableEngine struct {
	engine interfaces.StatsEngine
}

var _ interfaces.StatsEngine = (*observableEngine)(nil)

func Wrap(eng interfaces.StatsEngine) interfaces.StatsEngine {
	return &observableEngine{
		engine: eng,
	}
}

func (oe *observableEngine) Build(ctx context.Context, txs []types.TransactionRecord, now time.Time) (*types.StatisticsSnapshot, error) {
	ctx, span := trace.StartSpan(ctx, "stats.Build")
	defer span.End()

	start := time.Now()

	logger.DebugSkip(ctx, 1, "Building statistics snapshot",
		"transactions", len(txs),
		"as_of", now.Format(time.RFC3339),
	)

	snap, err := oe.engine.Build(ctx, txs, now)
	if err != nil {
		var verr *stats.ValidationError
		if errors.As(err, &verr) {
			logger.Rejected(ctx, verr.RecordID, verr.Field, verr.Reason)
		}
		logger.ErrorWithErrSkip(ctx, 1, "Statistics snapshot failed", err,
			"transactions", len(txs),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Statistics snapshot built",
		"transactions", len(txs),
		"items", len(snap.BestSeller.Items),
		"profit", snap.Total.Profit,
		"today_trades", snap.Today.TradeCount,
		"recent_days_trades", snap.RecentDays.TradeCount,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return snap, nil
}
