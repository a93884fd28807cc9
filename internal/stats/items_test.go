package stats

import (
	"testing"

	"trade-stats/internal/types"
)

func TestAggregateItems_GroupsAndRanks(t *testing.T) {
	txs := []types.TransactionRecord{
		buy("1", "loser", 50, testNow, "mod"),
		buy("2", "winner", 10, testNow, "prime"),
		sell("3", "winner", 100, testNow, "prime"),
		record("4", "winner", types.Sale, 20, 3, testNow, "prime"),
		sell("5", "loser", 20, testNow, "mod"),
	}

	items := AggregateItems(txs)

	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}
	if items[0].ItemKey != "winner" {
		t.Errorf("Expected winner first, got %s", items[0].ItemKey)
	}
	if items[0].Profit != 110 {
		t.Errorf("Expected winner profit 110, got %f", items[0].Profit)
	}
	if items[0].TotalQuantity != 5 {
		t.Errorf("Expected winner quantity 5, got %d", items[0].TotalQuantity)
	}
	if items[0].DisplayName != "winner name" || items[0].ItemType != "item" {
		t.Errorf("Expected metadata from first record, got %+v", items[0])
	}
	if len(items[0].Tags) != 1 || items[0].Tags[0] != "prime" {
		t.Errorf("Expected tags [prime], got %v", items[0].Tags)
	}
	if items[1].Profit != -30 {
		t.Errorf("Expected loser profit -30, got %f", items[1].Profit)
	}
}

func TestAggregateItems_TiesKeepEncounterOrder(t *testing.T) {
	txs := []types.TransactionRecord{
		buy("1", "c", 0, testNow),
		buy("2", "a", 0, testNow),
		buy("3", "b", 0, testNow),
		sell("4", "d", 5, testNow),
	}

	items := AggregateItems(txs)

	want := []string{"d", "c", "a", "b"}
	for i, key := range want {
		if items[i].ItemKey != key {
			t.Errorf("Position %d: expected %s, got %s", i, key, items[i].ItemKey)
		}
	}
}

func TestAggregateItems_Empty(t *testing.T) {
	items := AggregateItems(nil)
	if items == nil || len(items) != 0 {
		t.Errorf("Expected empty non-nil slice, got %v", items)
	}
}

func TestItemsChart_Limit(t *testing.T) {
	items := AggregateItems([]types.TransactionRecord{
		sell("1", "a", 30, testNow),
		sell("2", "b", 20, testNow),
		sell("3", "c", 10, testNow),
	})

	chart := ItemsChart(items, 2)

	if len(chart.Labels) != 2 {
		t.Fatalf("Expected 2 labels, got %d", len(chart.Labels))
	}
	if chart.Labels[0] != "a name" {
		t.Errorf("Expected first label 'a name', got %s", chart.Labels[0])
	}
	for _, m := range types.Metrics {
		if len(chart.Series[m]) != 2 {
			t.Errorf("Expected %s series of length 2, got %d", m, len(chart.Series[m]))
		}
	}
	if chart.Series[types.MetricProfit][0] != 30 {
		t.Errorf("Expected profit 30, got %f", chart.Series[types.MetricProfit][0])
	}

	if all := ItemsChart(items, 0); len(all.Labels) != 3 {
		t.Errorf("Expected limit 0 to keep all 3 items, got %d", len(all.Labels))
	}
}
