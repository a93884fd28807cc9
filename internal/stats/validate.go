package stats

import (
	"errors"
	"fmt"
	"math"

	"trade-stats/internal/types"
)

// ErrInvalidRecord is wrapped by every ValidationError.
var ErrInvalidRecord = errors.New("invalid transaction record")

// ValidationError identifies the record and field that failed validation.
type ValidationError struct {
	RecordID string
	Field    string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("transaction %q: %s %s", e.RecordID, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidRecord }

// ValidateRecord checks a single record. Nothing is coerced.
func ValidateRecord(t types.TransactionRecord) error {
	fail := func(field, reason string) error {
		return &ValidationError{RecordID: t.ID, Field: field, Reason: reason}
	}
	switch {
	case t.ItemKey == "":
		return fail("item_key", "is empty")
	case t.Direction != types.Purchase && t.Direction != types.Sale:
		return fail("direction", fmt.Sprintf("has unknown value %q", t.Direction))
	case math.IsNaN(t.Price) || math.IsInf(t.Price, 0):
		return fail("price", "is not a finite number")
	case t.Price < 0:
		return fail("price", fmt.Sprintf("is negative (%.2f)", t.Price))
	case t.Quantity <= 0:
		return fail("quantity", fmt.Sprintf("must be positive, got %d", t.Quantity))
	case t.OccurredAt.IsZero():
		return fail("occurred_at", "is missing")
	}
	return nil
}

// Validate stops at the first invalid record.
func Validate(txs []types.TransactionRecord) error {
	for i, t := range txs {
		if err := ValidateRecord(t); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return nil
}
