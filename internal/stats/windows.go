package stats

import (
	"sort"
	"time"

	"trade-stats/internal/types"
)

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// within reports whether t lies in [from, to], both ends inclusive.
func within(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}

func filter(txs []types.TransactionRecord, keep func(types.TransactionRecord) bool) []types.TransactionRecord {
	out := make([]types.TransactionRecord, 0)
	for _, t := range txs {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// HourLabels returns the fixed hour-of-day axis "0:00".."23:00".
func HourLabels() []string {
	labels := make([]string, 0, 24)
	day := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	for h := 0; h < 24; h++ {
		labels = append(labels, BucketKey(day.Add(time.Duration(h)*time.Hour), Hourly))
	}
	return labels
}

// DayLabels returns n day keys ending with now, oldest first.
func DayLabels(now time.Time, n int) []string {
	labels := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		labels = append(labels, BucketKey(now.AddDate(0, 0, -i), Daily))
	}
	return labels
}

// MonthLabels returns the twelve month keys of year in loc.
func MonthLabels(year int, loc *time.Location) []string {
	labels := make([]string, 0, 12)
	for m := time.January; m <= time.December; m++ {
		labels = append(labels, BucketKey(time.Date(year, m, 1, 0, 0, 0, 0, loc), Monthly))
	}
	return labels
}

// MonthAxis is the display axis shared by both yearly charts.
func MonthAxis() []string {
	labels := make([]string, 0, 12)
	for m := time.January; m <= time.December; m++ {
		labels = append(labels, m.String()[:3])
	}
	return labels
}

// SelectToday summarises transactions that occurred on now's calendar day,
// bucketed by hour.
func SelectToday(txs []types.TransactionRecord, now time.Time, itemLimit int) types.TodayWindow {
	from, to := startOfDay(now), endOfDay(now)
	today := filter(txs, func(t types.TransactionRecord) bool {
		return within(t.OccurredAt, from, to)
	})
	groups, labels := Bucket(today, ByOccurredAt(now.Location()), Hourly, HourLabels())
	return types.TodayWindow{
		ProfitSummary: ComputeProfit(today),
		Chart:         BuildChartSeries(groups, labels),
		ItemsChart:    ItemsChart(AggregateItems(today), itemLimit),
	}
}

// SelectRecentDays summarises the trailing days window ending at the end of
// now's day.
func SelectRecentDays(txs []types.TransactionRecord, now time.Time, days, itemLimit int) types.RecentDaysWindow {
	from, to := endOfDay(now.AddDate(0, 0, -days)), endOfDay(now)
	recent := filter(txs, func(t types.TransactionRecord) bool {
		return within(t.OccurredAt, from, to)
	})
	groups, labels := Bucket(recent, ByOccurredAt(now.Location()), Daily, DayLabels(now, days))
	return types.RecentDaysWindow{
		ProfitSummary: ComputeProfit(recent),
		Days:          days,
		Chart:         BuildChartSeries(groups, labels),
		ItemsChart:    ItemsChart(AggregateItems(recent), itemLimit),
	}
}

func selectYear(txs []types.TransactionRecord, year int, loc *time.Location) types.YearWindow {
	inYear := filter(txs, func(t types.TransactionRecord) bool {
		return t.OccurredAt.In(loc).Year() == year
	})
	groups, labels := Bucket(inYear, ByOccurredAt(loc), Monthly, MonthLabels(year, loc))
	return types.YearWindow{
		ProfitSummary: ComputeProfit(inYear),
		Year:          year,
		Chart:         BuildChartSeries(groups, labels),
	}
}

// SelectTotal summarises all transactions and splits the current and the
// previous calendar year into monthly charts.
func SelectTotal(txs []types.TransactionRecord, now time.Time) types.TotalWindow {
	loc := now.Location()
	return types.TotalWindow{
		ProfitSummary: ComputeProfit(txs),
		Labels:        MonthAxis(),
		PresentYear:   selectYear(txs, now.Year(), loc),
		PreviousYear:  selectYear(txs, now.Year()-1, loc),
	}
}

// SelectRecentTransactions returns the n most recent transactions, newest
// first, with their summary.
func SelectRecentTransactions(txs []types.TransactionRecord, n int) types.RecentTransactionsWindow {
	sorted := append([]types.TransactionRecord(nil), txs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OccurredAt.After(sorted[j].OccurredAt)
	})
	if n >= 0 && n < len(sorted) {
		sorted = sorted[:n]
	}
	if sorted == nil {
		sorted = []types.TransactionRecord{}
	}
	return types.RecentTransactionsWindow{
		ProfitSummary: ComputeProfit(sorted),
		Transactions:  sorted,
	}
}
