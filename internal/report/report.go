package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"trade-stats/internal/types"
)

func itemsCSVPath(dir string, snap *types.StatisticsSnapshot) string {
	return filepath.Join(dir, "bestseller-items-"+snap.AsOf.Format("2006-01-02")+".csv")
}

func categoriesCSVPath(dir string, snap *types.StatisticsSnapshot) string {
	return filepath.Join(dir, "bestseller-categories-"+snap.AsOf.Format("2006-01-02")+".csv")
}

// WriteBestSeller writes the item and category rankings of snap as CSV
// files under dir and returns their paths. A report for the same day is
// overwritten.
func WriteBestSeller(dir string, snap *types.StatisticsSnapshot) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	itemsPath := itemsCSVPath(dir, snap)
	itemRows := make([][]string, 0, len(snap.BestSeller.Items))
	for _, it := range snap.BestSeller.Items {
		itemRows = append(itemRows, append([]string{
			it.ItemKey, it.DisplayName, it.ItemType, strings.Join(it.Tags, ","), strconv.Itoa(it.TotalQuantity),
		}, summaryColumns(it.ProfitSummary)...))
	}
	itemHeaders := append([]string{"item_key", "display_name", "item_type", "tags", "total_quantity"}, summaryHeaders...)
	itemTotal := append([]string{"TOTAL", "", "", "", ""}, summaryColumns(snap.Total.ProfitSummary)...)
	if err := writeCSV(itemsPath, itemHeaders, itemRows, itemTotal); err != nil {
		return nil, err
	}

	catPath := categoriesCSVPath(dir, snap)
	catRows := make([][]string, 0, len(snap.BestSeller.Categories))
	for _, c := range snap.BestSeller.Categories {
		catRows = append(catRows, append([]string{c.Name, strconv.Itoa(c.TotalQuantity)}, summaryColumns(c.ProfitSummary)...))
	}
	catHeaders := append([]string{"category", "total_quantity"}, summaryHeaders...)
	catTotal := append([]string{"TOTAL", ""}, summaryColumns(snap.Total.ProfitSummary)...)
	if err := writeCSV(catPath, catHeaders, catRows, catTotal); err != nil {
		return nil, err
	}

	return []string{itemsPath, catPath}, nil
}

var summaryHeaders = []string{"purchases", "sales", "trades", "expense", "revenue", "profit", "profit_margin", "avg_revenue_per_trade"}

func summaryColumns(s types.ProfitSummary) []string {
	return []string{
		strconv.Itoa(s.PurchaseCount),
		strconv.Itoa(s.SaleCount),
		strconv.Itoa(s.TradeCount),
		fmt.Sprintf("%.2f", s.Expense),
		fmt.Sprintf("%.2f", s.Revenue),
		fmt.Sprintf("%.2f", s.Profit),
		fmt.Sprintf("%.4f", s.ProfitMargin),
		fmt.Sprintf("%.2f", s.AverageRevenuePerTrade),
	}
}

func writeCSV(path string, headers []string, rows [][]string, total []string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	w := csv.NewWriter(out)
	if err := w.Write(headers); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	if err := w.Write(total); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return out.Close()
}
