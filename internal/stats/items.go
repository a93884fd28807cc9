package stats

import (
	"sort"

	"trade-stats/internal/types"
)

// AggregateItems groups transactions by item key and ranks the groups by
// profit, highest first. Groups with equal profit keep encounter order.
func AggregateItems(txs []types.TransactionRecord) []types.ItemProfitSummary {
	order := make([]string, 0)
	groups := map[string][]types.TransactionRecord{}
	for _, t := range txs {
		if _, ok := groups[t.ItemKey]; !ok {
			order = append(order, t.ItemKey)
		}
		groups[t.ItemKey] = append(groups[t.ItemKey], t)
	}

	out := make([]types.ItemProfitSummary, 0, len(order))
	for _, key := range order {
		g := groups[key]
		first := g[0]
		out = append(out, types.ItemProfitSummary{
			ProfitSummary: ComputeProfit(g),
			ItemKey:       key,
			DisplayName:   first.ItemName,
			ItemType:      first.ItemType,
			Tags:          append([]string(nil), first.Tags...),
			TotalQuantity: totalQuantity(g),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Profit > out[j].Profit
	})
	return out
}

// ItemsChart renders item summaries as a chart with one label per item.
// limit <= 0 keeps every item.
func ItemsChart(items []types.ItemProfitSummary, limit int) types.ChartSeries {
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	chart := newChart(len(items))
	for _, it := range items {
		label := it.DisplayName
		if label == "" {
			label = it.ItemKey
		}
		chart.append(label, it.ProfitSummary)
	}
	return chart.ChartSeries
}
