package sourceobs

import (
	"context"
	"time"

	"trade-stats/internal/interfaces"
	"trade-stats/internal/logger"
	"trade-stats/internal/trace"
	"trade-stats/internal/types"
)

// observableSource wraps a TransactionSource with logging & tracing
type observableSource struct {
	name   string
	source interfaces.TransactionSource
}

var _ interfaces.TransactionSource = (*observableSource)(nil)

// Wrap wraps a source with observability middleware
func Wrap(name string, src interfaces.TransactionSource) interfaces.TransactionSource {
	return &observableSource{
		name:   name,
		source: src,
	}
}

func (so *observableSource) FetchTransactions(ctx context.Context) ([]types.TransactionRecord, error) {
	ctx, span := trace.StartSpan(ctx, "source.FetchTransactions")
	defer span.End()

	start := time.Now()
	logger.DebugSkip(ctx, 1, "Fetching transactions", "source", so.name)

	txs, err := so.source.FetchTransactions(ctx)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch transactions", err,
			"source", so.name,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Transactions fetched",
		"source", so.name,
		"count", len(txs),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return txs, nil
}
