package stats

import (
	"strconv"
	"strings"
	"time"

	"trade-stats/internal/types"
)

// Granularity selects which date components form a bucket key.
type Granularity struct {
	Year  bool
	Month bool
	Day   bool
	Hour  bool
}

var (
	Hourly  = Granularity{Hour: true}
	Daily   = Granularity{Day: true, Month: true, Year: true}
	Monthly = Granularity{Month: true, Year: true}
)

// BucketKey builds the composite key for t. Components are always emitted
// in the order day, hour, month, year and joined by "/"; hours render as
// "H:00" and months as 1..12.
func BucketKey(t time.Time, g Granularity) string {
	parts := make([]string, 0, 4)
	if g.Day {
		parts = append(parts, strconv.Itoa(t.Day()))
	}
	if g.Hour {
		parts = append(parts, strconv.Itoa(t.Hour())+":00")
	}
	if g.Month {
		parts = append(parts, strconv.Itoa(int(t.Month())))
	}
	if g.Year {
		parts = append(parts, strconv.Itoa(t.Year()))
	}
	return strings.Join(parts, "/")
}

// KeyFunc extracts the instant a transaction is bucketed by.
type KeyFunc func(types.TransactionRecord) time.Time

// ByOccurredAt buckets on OccurredAt converted to loc.
func ByOccurredAt(loc *time.Location) KeyFunc {
	return func(t types.TransactionRecord) time.Time {
		return t.OccurredAt.In(loc)
	}
}

// Bucket groups transactions by composite date key. When labels is nil the
// returned labels are the keys in first-seen order; otherwise labels is
// returned unchanged and keys outside it are still grouped but not
// labelled.
func Bucket(txs []types.TransactionRecord, key KeyFunc, g Granularity, labels []string) (map[string][]types.TransactionRecord, []string) {
	groups := map[string][]types.TransactionRecord{}
	var seen []string
	for _, t := range txs {
		k := BucketKey(key(t), g)
		if _, ok := groups[k]; !ok {
			seen = append(seen, k)
		}
		groups[k] = append(groups[k], t)
	}
	if labels != nil {
		return groups, labels
	}
	if seen == nil {
		seen = []string{}
	}
	return groups, seen
}

// BuildChartSeries summarises groups[label] for each label, using an empty
// group for labels with no transactions.
func BuildChartSeries(groups map[string][]types.TransactionRecord, labels []string) types.ChartSeries {
	chart := newChart(len(labels))
	for _, l := range labels {
		chart.append(l, ComputeProfit(groups[l]))
	}
	return chart.ChartSeries
}

type chartBuilder struct {
	types.ChartSeries
}

func newChart(capacity int) *chartBuilder {
	c := &chartBuilder{ChartSeries: types.ChartSeries{
		Labels: make([]string, 0, capacity),
		Series: make(map[types.Metric][]float64, len(types.Metrics)),
	}}
	for _, m := range types.Metrics {
		c.Series[m] = make([]float64, 0, capacity)
	}
	return c
}

// append adds one label. sales and purchases are counts, not amounts.
func (c *chartBuilder) append(label string, s types.ProfitSummary) {
	c.Labels = append(c.Labels, label)
	c.Series[types.MetricSales] = append(c.Series[types.MetricSales], float64(s.SaleCount))
	c.Series[types.MetricPurchases] = append(c.Series[types.MetricPurchases], float64(s.PurchaseCount))
	c.Series[types.MetricQuantity] = append(c.Series[types.MetricQuantity], float64(s.TradeCount))
	c.Series[types.MetricProfit] = append(c.Series[types.MetricProfit], s.Profit)
}
