package stats

import (
	"time"

	"trade-stats/internal/types"
)

var testNow = time.Date(2026, 10, 15, 14, 30, 0, 0, time.UTC)

func buy(id, item string, price float64, at time.Time, tags ...string) types.TransactionRecord {
	return record(id, item, types.Purchase, price, 1, at, tags...)
}

func sell(id, item string, price float64, at time.Time, tags ...string) types.TransactionRecord {
	return record(id, item, types.Sale, price, 1, at, tags...)
}

func record(id, item string, dir types.Direction, price float64, qty int, at time.Time, tags ...string) types.TransactionRecord {
	return types.TransactionRecord{
		ID:         id,
		ItemKey:    item,
		ItemName:   item + " name",
		ItemType:   "item",
		Tags:       tags,
		Direction:  dir,
		Price:      price,
		Quantity:   qty,
		OccurredAt: at,
	}
}

func almostEqual(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-9
}
