package interfaces

import (
	"context"
	"time"

	"trade-stats/internal/types"
)

// StatsEngine builds a statistics snapshot as of now. Implementations hold
// no mutable state between calls.
type StatsEngine interface {
	Build(ctx context.Context, txs []types.TransactionRecord, now time.Time) (*types.StatisticsSnapshot, error)
}
