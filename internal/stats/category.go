package stats

import (
	"sort"

	"trade-stats/internal/types"
)

const (
	OtherCategoryName = "Other"
	OtherCategoryIcon = "other"
)

// DefaultCategoryRules is the stock rule set; Other is appended implicitly.
func DefaultCategoryRules() []types.CategoryRule {
	return []types.CategoryRule{
		{Name: "Mod", Icon: "mod", MatchTags: []string{"mod"}},
		{Name: "Arcane", Icon: "arcane", MatchTags: []string{"arcane_enhancement"}},
		{Name: "Set", Icon: "set", MatchTags: []string{"set"}},
		{Name: "Prime", Icon: "prime", MatchTags: []string{"prime"}},
		{Name: "Relic", Icon: "relic", MatchTags: []string{"relic"}},
		{Name: "Riven", Icon: "riven", MatchTypes: []string{"riven"}},
	}
}

type classifierRule struct {
	types.CategoryRule
	tags     map[string]struct{}
	itemType map[string]struct{}
	catchAll bool
}

func compileRule(r types.CategoryRule) classifierRule {
	cr := classifierRule{
		CategoryRule: r,
		tags:         make(map[string]struct{}, len(r.MatchTags)),
		itemType:     make(map[string]struct{}, len(r.MatchTypes)),
	}
	for _, t := range r.MatchTags {
		cr.tags[t] = struct{}{}
	}
	for _, t := range r.MatchTypes {
		cr.itemType[t] = struct{}{}
	}
	return cr
}

func otherRule() classifierRule {
	return classifierRule{
		CategoryRule: types.CategoryRule{Name: OtherCategoryName, Icon: OtherCategoryIcon},
		catchAll:     true,
	}
}

func (r classifierRule) matches(t types.TransactionRecord) bool {
	if r.catchAll {
		return true
	}
	if _, ok := r.itemType[t.ItemType]; ok {
		return true
	}
	for _, tag := range t.Tags {
		if _, ok := r.tags[tag]; ok {
			return true
		}
	}
	return false
}

// split returns the transactions matching r and the ones left over.
func (r classifierRule) split(remaining []types.TransactionRecord) (matched, rest []types.TransactionRecord) {
	matched = make([]types.TransactionRecord, 0)
	rest = make([]types.TransactionRecord, 0, len(remaining))
	for _, t := range remaining {
		if r.matches(t) {
			matched = append(matched, t)
		} else {
			rest = append(rest, t)
		}
	}
	return matched, rest
}

// CategoryBucket is the transaction subset claimed by one rule.
type CategoryBucket struct {
	Rule         types.CategoryRule
	Transactions []types.TransactionRecord
}

// Partition assigns every transaction to the first rule it matches, in rule
// order. Transactions matching no rule land in a trailing Other bucket, so
// the result always has len(rules)+1 buckets.
func Partition(txs []types.TransactionRecord, rules []types.CategoryRule) []CategoryBucket {
	compiled := make([]classifierRule, 0, len(rules)+1)
	for _, r := range rules {
		compiled = append(compiled, compileRule(r))
	}
	compiled = append(compiled, otherRule())

	buckets := make([]CategoryBucket, 0, len(compiled))
	remaining := txs
	for _, r := range compiled {
		var matched []types.TransactionRecord
		matched, remaining = r.split(remaining)
		buckets = append(buckets, CategoryBucket{Rule: r.CategoryRule, Transactions: matched})
	}
	return buckets
}

// ClassifyCategories summarises each category in rule order, Other last.
func ClassifyCategories(txs []types.TransactionRecord, rules []types.CategoryRule) []types.CategoryProfitSummary {
	buckets := Partition(txs, rules)
	out := make([]types.CategoryProfitSummary, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, types.CategoryProfitSummary{
			ProfitSummary: ComputeProfit(b.Transactions),
			Name:          b.Rule.Name,
			Icon:          b.Rule.Icon,
			TotalQuantity: totalQuantity(b.Transactions),
		})
	}
	return out
}

// RankCategories returns a copy sorted by profit, highest first.
func RankCategories(cats []types.CategoryProfitSummary) []types.CategoryProfitSummary {
	out := append([]types.CategoryProfitSummary(nil), cats...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Profit > out[j].Profit
	})
	return out
}

// CategoriesChart renders category summaries with one label per category.
func CategoriesChart(cats []types.CategoryProfitSummary) types.ChartSeries {
	chart := newChart(len(cats))
	for _, c := range cats {
		chart.append(c.Name, c.ProfitSummary)
	}
	return chart.ChartSeries
}
