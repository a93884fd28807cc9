package stats

import "trade-stats/internal/types"

// ComputeProfit reduces a transaction subset to a single profit summary.
// Price is summed as recorded; it is not multiplied by quantity.
func ComputeProfit(txs []types.TransactionRecord) types.ProfitSummary {
	var s types.ProfitSummary
	for _, t := range txs {
		switch t.Direction {
		case types.Purchase:
			s.PurchaseCount++
			s.Expense += t.Price
		case types.Sale:
			s.SaleCount++
			s.Revenue += t.Price
		}
	}
	s.TradeCount = s.PurchaseCount + s.SaleCount
	s.Profit = s.Revenue - s.Expense
	s.ProfitMargin = safeDiv(s.Profit, s.Revenue)
	s.AverageRevenuePerTrade = safeDiv(s.Revenue, float64(s.TradeCount))
	return s
}

func safeDiv(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den
}

func totalQuantity(txs []types.TransactionRecord) int {
	n := 0
	for _, t := range txs {
		n += t.Quantity
	}
	return n
}
