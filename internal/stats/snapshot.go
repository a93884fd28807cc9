package stats

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"trade-stats/internal/interfaces"
	"trade-stats/internal/types"
)

// Config carries the caller's choices for one engine. RecentDays and
// RecentTransactionCount have no implicit defaults.
type Config struct {
	RecentDays             int
	RecentTransactionCount int
	ItemChartLimit         int // 0 charts every item
	CategoryRules          []types.CategoryRule
}

// DefaultConfig returns the stock settings: 10 days, 10 recent
// transactions, 10 items per chart and the default category rules.
func DefaultConfig() Config {
	return Config{
		RecentDays:             10,
		RecentTransactionCount: 10,
		ItemChartLimit:         10,
		CategoryRules:          DefaultCategoryRules(),
	}
}

func (c Config) Validate() error {
	if c.RecentDays <= 0 {
		return fmt.Errorf("recent days must be positive, got %d", c.RecentDays)
	}
	if c.RecentTransactionCount <= 0 {
		return fmt.Errorf("recent transaction count must be positive, got %d", c.RecentTransactionCount)
	}
	if c.ItemChartLimit < 0 {
		return fmt.Errorf("item chart limit must not be negative, got %d", c.ItemChartLimit)
	}
	for i, r := range c.CategoryRules {
		if strings.TrimSpace(r.Name) == "" {
			return fmt.Errorf("category rule %d has no name", i)
		}
		if strings.EqualFold(r.Name, OtherCategoryName) {
			return fmt.Errorf("category rule %d: %q is reserved for unmatched transactions", i, r.Name)
		}
	}
	return nil
}

// BuildSnapshot validates txs and composes every statistics section as of
// now. The result depends only on its arguments.
func BuildSnapshot(txs []types.TransactionRecord, now time.Time, cfg Config) (*types.StatisticsSnapshot, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid statistics config: %w", err)
	}
	if err := Validate(txs); err != nil {
		return nil, err
	}

	items := AggregateItems(txs)
	categories := RankCategories(ClassifyCategories(txs, cfg.CategoryRules))

	return &types.StatisticsSnapshot{
		AsOf: now,
		BestSeller: types.BestSeller{
			Items:           items,
			ItemsChart:      ItemsChart(items, cfg.ItemChartLimit),
			Categories:      categories,
			CategoriesChart: CategoriesChart(categories),
		},
		Total:              SelectTotal(txs, now),
		Today:              SelectToday(txs, now, cfg.ItemChartLimit),
		RecentDays:         SelectRecentDays(txs, now, cfg.RecentDays, cfg.ItemChartLimit),
		RecentTransactions: SelectRecentTransactions(txs, cfg.RecentTransactionCount),
	}, nil
}

// Engine binds a Config to BuildSnapshot.
type Engine struct {
	cfg Config
}

var _ interfaces.StatsEngine = (*Engine)(nil)

func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.CategoryRules = append([]types.CategoryRule(nil), cfg.CategoryRules...)
	return &Engine{cfg: cfg}, nil
}

func (e *Engine) Config() Config { return e.cfg }

func (e *Engine) Build(ctx context.Context, txs []types.TransactionRecord, now time.Time) (*types.StatisticsSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if now.IsZero() {
		return nil, errors.New("snapshot instant is required")
	}
	return BuildSnapshot(txs, now, e.cfg)
}
