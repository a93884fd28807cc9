package stats

import (
	"testing"
	"time"

	"trade-stats/internal/types"
)

func TestBucketKey(t *testing.T) {
	at := time.Date(2026, 3, 7, 9, 45, 0, 0, time.UTC)

	tests := []struct {
		name string
		g    Granularity
		want string
	}{
		{"hour only", Hourly, "9:00"},
		{"daily", Daily, "7/3/2026"},
		{"monthly", Monthly, "3/2026"},
		{"year only", Granularity{Year: true}, "2026"},
		{"every component", Granularity{Year: true, Month: true, Day: true, Hour: true}, "7/9:00/3/2026"},
		{"day and hour", Granularity{Day: true, Hour: true}, "7/9:00"},
		{"nothing", Granularity{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BucketKey(at, tt.g); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestBucket_FirstSeenLabels(t *testing.T) {
	txs := []types.TransactionRecord{
		sell("1", "a", 10, time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)),
		sell("2", "a", 10, time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC)),
		buy("3", "a", 5, time.Date(2026, 5, 30, 0, 0, 0, 0, time.UTC)),
	}

	groups, labels := Bucket(txs, ByOccurredAt(time.UTC), Monthly, nil)

	if len(labels) != 2 || labels[0] != "5/2026" || labels[1] != "1/2026" {
		t.Errorf("Expected labels [5/2026 1/2026], got %v", labels)
	}
	if len(groups["5/2026"]) != 2 {
		t.Errorf("Expected 2 transactions in May, got %d", len(groups["5/2026"]))
	}
}

func TestBucket_ExplicitLabelsVerbatim(t *testing.T) {
	txs := []types.TransactionRecord{
		sell("1", "a", 10, time.Date(2026, 5, 2, 13, 0, 0, 0, time.UTC)),
	}
	explicit := []string{"12:00", "13:00", "14:00"}

	groups, labels := Bucket(txs, ByOccurredAt(time.UTC), Hourly, explicit)

	if len(labels) != 3 || labels[0] != "12:00" || labels[2] != "14:00" {
		t.Errorf("Expected explicit labels back, got %v", labels)
	}
	if len(groups["13:00"]) != 1 {
		t.Errorf("Expected one transaction in 13:00, got %d", len(groups["13:00"]))
	}
}

func TestBucket_UsesLocation(t *testing.T) {
	ist := time.FixedZone("IST", 19800)
	txs := []types.TransactionRecord{
		sell("1", "a", 10, time.Date(2026, 5, 2, 20, 0, 0, 0, time.UTC)),
	}

	_, labels := Bucket(txs, ByOccurredAt(ist), Daily, nil)

	if labels[0] != "3/5/2026" {
		t.Errorf("Expected bucket in IST day 3/5/2026, got %s", labels[0])
	}
}

func TestBuildChartSeries_CountsAndAlignment(t *testing.T) {
	groups := map[string][]types.TransactionRecord{
		"a": {
			sell("1", "x", 100, testNow),
			sell("2", "x", 50, testNow),
			buy("3", "x", 30, testNow),
		},
		"c": {buy("4", "y", 10, testNow)},
	}
	labels := []string{"a", "b", "c"}

	chart := BuildChartSeries(groups, labels)

	for _, m := range types.Metrics {
		if len(chart.Series[m]) != len(chart.Labels) {
			t.Errorf("Series %s has %d values for %d labels", m, len(chart.Series[m]), len(chart.Labels))
		}
	}
	if chart.Series[types.MetricSales][0] != 2 {
		t.Errorf("Expected sales count 2 (not revenue), got %f", chart.Series[types.MetricSales][0])
	}
	if chart.Series[types.MetricPurchases][0] != 1 {
		t.Errorf("Expected purchase count 1, got %f", chart.Series[types.MetricPurchases][0])
	}
	if chart.Series[types.MetricQuantity][0] != 3 {
		t.Errorf("Expected trade count 3, got %f", chart.Series[types.MetricQuantity][0])
	}
	if chart.Series[types.MetricProfit][0] != 120 {
		t.Errorf("Expected profit 120, got %f", chart.Series[types.MetricProfit][0])
	}
	for _, m := range types.Metrics {
		if chart.Series[m][1] != 0 {
			t.Errorf("Expected %s of missing bucket to be 0, got %f", m, chart.Series[m][1])
		}
	}
	if chart.Series[types.MetricProfit][2] != -10 {
		t.Errorf("Expected profit -10, got %f", chart.Series[types.MetricProfit][2])
	}
}
