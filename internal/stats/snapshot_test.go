package stats

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"trade-stats/internal/types"
)

func TestBuildSnapshot_Idempotent(t *testing.T) {
	txs := mixedTransactions()

	first, err := BuildSnapshot(txs, testNow, DefaultConfig())
	if err != nil {
		t.Fatalf("BuildSnapshot failed: %v", err)
	}
	second, err := BuildSnapshot(txs, testNow, DefaultConfig())
	if err != nil {
		t.Fatalf("BuildSnapshot failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("Expected identical snapshots for identical input")
	}
}

func TestBuildSnapshot_Sections(t *testing.T) {
	txs := mixedTransactions()

	snap, err := BuildSnapshot(txs, testNow, DefaultConfig())
	if err != nil {
		t.Fatalf("BuildSnapshot failed: %v", err)
	}

	if !snap.AsOf.Equal(testNow) {
		t.Errorf("Expected AsOf %v, got %v", testNow, snap.AsOf)
	}
	if len(snap.BestSeller.Items) != len(txs) {
		t.Errorf("Expected %d items, got %d", len(txs), len(snap.BestSeller.Items))
	}
	if snap.BestSeller.Items[0].ItemKey != "riven_soma" {
		t.Errorf("Expected riven_soma to rank first, got %s", snap.BestSeller.Items[0].ItemKey)
	}
	if len(snap.BestSeller.ItemsChart.Labels) != 9 {
		t.Errorf("Expected 9 item chart labels, got %d", len(snap.BestSeller.ItemsChart.Labels))
	}

	cats := snap.BestSeller.Categories
	if len(cats) != 7 {
		t.Fatalf("Expected 7 categories, got %d", len(cats))
	}
	for i := 1; i < len(cats); i++ {
		if cats[i-1].Profit < cats[i].Profit {
			t.Errorf("Categories not ranked by profit at %d: %f < %f", i, cats[i-1].Profit, cats[i].Profit)
		}
	}
	if len(snap.BestSeller.CategoriesChart.Labels) != len(cats) {
		t.Errorf("Expected one chart label per category")
	}

	if snap.Total.TradeCount != len(txs) {
		t.Errorf("Expected total trade count %d, got %d", len(txs), snap.Total.TradeCount)
	}
	if snap.Today.TradeCount != len(txs) {
		t.Errorf("Expected all transactions today, got %d", snap.Today.TradeCount)
	}
	if snap.RecentDays.Days != 10 || len(snap.RecentDays.Chart.Labels) != 10 {
		t.Errorf("Expected 10-day window, got %+v", snap.RecentDays.Chart.Labels)
	}
	if len(snap.RecentTransactions.Transactions) != 9 {
		t.Errorf("Expected 9 recent transactions, got %d", len(snap.RecentTransactions.Transactions))
	}
}

func TestBuildSnapshot_EmptyInput(t *testing.T) {
	snap, err := BuildSnapshot(nil, testNow, DefaultConfig())
	if err != nil {
		t.Fatalf("Expected empty input to succeed, got %v", err)
	}

	for _, s := range []types.ProfitSummary{
		snap.Total.ProfitSummary,
		snap.Today.ProfitSummary,
		snap.RecentDays.ProfitSummary,
		snap.RecentTransactions.ProfitSummary,
	} {
		if s != (types.ProfitSummary{}) {
			t.Errorf("Expected zero summary, got %+v", s)
		}
	}
	for _, chart := range []types.ChartSeries{snap.Today.Chart, snap.RecentDays.Chart, snap.Total.PresentYear.Chart} {
		for _, m := range types.Metrics {
			for _, v := range chart.Series[m] {
				if v != 0 || math.IsNaN(v) {
					t.Errorf("Expected zero chart values, got %f", v)
				}
			}
		}
	}
}

func TestBuildSnapshot_RejectsMalformedRecords(t *testing.T) {
	valid := sell("ok", "a", 10, testNow)

	tests := []struct {
		name   string
		mutate func(*types.TransactionRecord)
		field  string
	}{
		{"negative price", func(r *types.TransactionRecord) { r.Price = -1 }, "price"},
		{"nan price", func(r *types.TransactionRecord) { r.Price = math.NaN() }, "price"},
		{"negative quantity", func(r *types.TransactionRecord) { r.Quantity = -2 }, "quantity"},
		{"zero quantity", func(r *types.TransactionRecord) { r.Quantity = 0 }, "quantity"},
		{"missing timestamp", func(r *types.TransactionRecord) { r.OccurredAt = time.Time{} }, "occurred_at"},
		{"unknown direction", func(r *types.TransactionRecord) { r.Direction = "trade" }, "direction"},
		{"empty item key", func(r *types.TransactionRecord) { r.ItemKey = "" }, "item_key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := valid
			bad.ID = "bad"
			tt.mutate(&bad)

			_, err := BuildSnapshot([]types.TransactionRecord{valid, bad}, testNow, DefaultConfig())
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !errors.Is(err, ErrInvalidRecord) {
				t.Errorf("Expected ErrInvalidRecord, got %v", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Expected *ValidationError, got %T", err)
			}
			if verr.RecordID != "bad" || verr.Field != tt.field {
				t.Errorf("Expected record bad/%s, got %s/%s", tt.field, verr.RecordID, verr.Field)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"seven days", func(c *Config) { c.RecentDays = 7 }, false},
		{"no rules", func(c *Config) { c.CategoryRules = nil }, false},
		{"zero days", func(c *Config) { c.RecentDays = 0 }, true},
		{"zero recent count", func(c *Config) { c.RecentTransactionCount = 0 }, true},
		{"negative chart limit", func(c *Config) { c.ItemChartLimit = -1 }, true},
		{"unnamed rule", func(c *Config) { c.CategoryRules = []types.CategoryRule{{MatchTags: []string{"x"}}} }, true},
		{"reserved name", func(c *Config) { c.CategoryRules = []types.CategoryRule{{Name: "other"}} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEngine_Build(t *testing.T) {
	eng, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	snap, err := eng.Build(context.Background(), mixedTransactions(), testNow)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if snap.Total.TradeCount != 9 {
		t.Errorf("Expected 9 trades, got %d", snap.Total.TradeCount)
	}

	if _, err := eng.Build(context.Background(), nil, time.Time{}); err == nil {
		t.Error("Expected error for zero snapshot instant")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := eng.Build(ctx, nil, testNow); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RecentDays = 0
	if _, err := New(cfg); err == nil {
		t.Error("Expected error for zero recent days")
	}
}
