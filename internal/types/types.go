package types

import "time"

// Direction classifies the cash flow of a transaction.
type Direction string

const (
	Purchase Direction = "buy"
	Sale     Direction = "sell"
)

// TransactionRecord is one historical buy or sell event for a tradable item.
// Price is the total for the record, not a unit price.
type TransactionRecord struct {
	ID         string    `json:"id"`
	ItemKey    string    `json:"item_key"`
	ItemName   string    `json:"item_name"`
	ItemType   string    `json:"item_type"`
	Tags       []string  `json:"tags"`
	Direction  Direction `json:"direction"`
	Price      float64   `json:"price"`
	Quantity   int       `json:"quantity"`
	OccurredAt time.Time `json:"occurred_at"`
}

type ProfitSummary struct {
	Expense                float64 `json:"expense"`
	Revenue                float64 `json:"revenue"`
	Profit                 float64 `json:"profit"`
	ProfitMargin           float64 `json:"profit_margin"`
	AverageRevenuePerTrade float64 `json:"average_revenue_per_trade"`
	PurchaseCount          int     `json:"purchase_count"`
	SaleCount              int     `json:"sale_count"`
	TradeCount             int     `json:"trade_count"`
}

type ItemProfitSummary struct {
	ProfitSummary
	ItemKey       string   `json:"item_key"`
	DisplayName   string   `json:"display_name"`
	ItemType      string   `json:"item_type"`
	Tags          []string `json:"tags"`
	TotalQuantity int      `json:"total_quantity"`
}

// CategoryRule matches a transaction when any of its tags is in MatchTags
// or its item type is in MatchTypes.
type CategoryRule struct {
	Name       string   `json:"name" yaml:"name"`
	Icon       string   `json:"icon" yaml:"icon"`
	MatchTags  []string `json:"match_tags" yaml:"match_tags"`
	MatchTypes []string `json:"match_types" yaml:"match_types"`
}

type CategoryProfitSummary struct {
	ProfitSummary
	Name          string `json:"name"`
	Icon          string `json:"icon"`
	TotalQuantity int    `json:"total_quantity"`
}

// Metric names a chart series.
type Metric string

const (
	MetricSales     Metric = "sales"
	MetricPurchases Metric = "purchases"
	MetricQuantity  Metric = "quantity"
	MetricProfit    Metric = "profit"
)

// Metrics lists every chart metric in display order.
var Metrics = []Metric{MetricSales, MetricPurchases, MetricQuantity, MetricProfit}

// ChartSeries holds one value per label for every metric.
type ChartSeries struct {
	Labels []string             `json:"labels"`
	Series map[Metric][]float64 `json:"series"`
}

type BestSeller struct {
	Items           []ItemProfitSummary     `json:"items"`
	ItemsChart      ChartSeries             `json:"items_chart"`
	Categories      []CategoryProfitSummary `json:"categories"`
	CategoriesChart ChartSeries             `json:"categories_chart"`
}

type YearWindow struct {
	ProfitSummary
	Year  int         `json:"year"`
	Chart ChartSeries `json:"chart"`
}

type TotalWindow struct {
	ProfitSummary
	Labels       []string   `json:"labels"`
	PresentYear  YearWindow `json:"present_year"`
	PreviousYear YearWindow `json:"previous_year"`
}

type TodayWindow struct {
	ProfitSummary
	Chart      ChartSeries `json:"chart"`
	ItemsChart ChartSeries `json:"items_chart"`
}

type RecentDaysWindow struct {
	ProfitSummary
	Days       int         `json:"days"`
	Chart      ChartSeries `json:"chart"`
	ItemsChart ChartSeries `json:"items_chart"`
}

type RecentTransactionsWindow struct {
	ProfitSummary
	Transactions []TransactionRecord `json:"transactions"`
}

// StatisticsSnapshot is the complete result of one statistics computation.
type StatisticsSnapshot struct {
	AsOf               time.Time                `json:"as_of"`
	BestSeller         BestSeller               `json:"best_seller"`
	Total              TotalWindow              `json:"total"`
	Today              TodayWindow              `json:"today"`
	RecentDays         RecentDaysWindow         `json:"recent_days"`
	RecentTransactions RecentTransactionsWindow `json:"recent_transactions"`
}
