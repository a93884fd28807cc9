package interfaces

import (
	"context"

	"trade-stats/internal/types"
)

// TransactionSource supplies the full transaction history in one call.
type TransactionSource interface {
	FetchTransactions(ctx context.Context) ([]types.TransactionRecord, error)
}
