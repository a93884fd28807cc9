package source

import (
	"context"

	"trade-stats/internal/interfaces"
	"trade-stats/internal/tradelog"
	"trade-stats/internal/types"
)

// JournalSource reads the on-disk transaction journal.
type JournalSource struct {
	Dir string
}

var _ interfaces.TransactionSource = (*JournalSource)(nil)

func NewJournalSource(dir string) *JournalSource {
	return &JournalSource{Dir: dir}
}

func (s *JournalSource) FetchTransactions(ctx context.Context) ([]types.TransactionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return tradelog.Load(s.Dir)
}
