package source

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"trade-stats/internal/interfaces"
	"trade-stats/internal/stats"
	"trade-stats/internal/types"
)

// tradeLister is the slice of the Kite client this source needs.
type tradeLister interface {
	GetTrades() (kiteconnect.Trades, error)
}

type KiteParams struct {
	APIKey      string
	AccessToken string
	Exchange    string // only fills on this exchange are kept; empty keeps all
}

// KiteSource turns the day's Kite fills into transaction records.
type KiteSource struct {
	p  KiteParams
	kc tradeLister
}

var _ interfaces.TransactionSource = (*KiteSource)(nil)

func NewKiteSource(p KiteParams) (*KiteSource, error) {
	if p.APIKey == "" || p.AccessToken == "" {
		return nil, errors.New("missing API key/access token")
	}
	kc := kiteconnect.New(p.APIKey)
	kc.SetAccessToken(p.AccessToken)
	return &KiteSource{p: p, kc: kc}, nil
}

func (s *KiteSource) FetchTransactions(ctx context.Context) ([]types.TransactionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	trades, err := s.kc.GetTrades()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch kite trades: %w", err)
	}

	out := make([]types.TransactionRecord, 0, len(trades))
	for _, t := range trades {
		if s.p.Exchange != "" && !strings.EqualFold(t.Exchange, s.p.Exchange) {
			continue
		}
		rec, err := tradeToRecord(t)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// tradeToRecord maps a fill; price becomes the fill total.
func tradeToRecord(t kiteconnect.Trade) (types.TransactionRecord, error) {
	rec := types.TransactionRecord{
		ID:       t.TradeID,
		ItemKey:  t.Exchange + ":" + t.TradingSymbol,
		ItemName: t.TradingSymbol,
		ItemType: "equity",
		Tags:     kiteTags(t),
		Quantity: int(math.Round(t.Quantity)),
		Price:    t.AveragePrice * t.Quantity,
	}

	switch strings.ToUpper(t.TransactionType) {
	case kiteconnect.TransactionTypeBuy:
		rec.Direction = types.Purchase
	case kiteconnect.TransactionTypeSell:
		rec.Direction = types.Sale
	default:
		return rec, &stats.ValidationError{
			RecordID: t.TradeID,
			Field:    "direction",
			Reason:   fmt.Sprintf("has unknown value %q", t.TransactionType),
		}
	}

	rec.OccurredAt = t.FillTimestamp.Time
	if rec.OccurredAt.IsZero() {
		rec.OccurredAt = t.ExchangeTimestamp.Time
	}

	return rec, stats.ValidateRecord(rec)
}

func kiteTags(t kiteconnect.Trade) []string {
	tags := make([]string, 0, 2)
	for _, v := range []string{t.Exchange, t.Product} {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			tags = append(tags, v)
		}
	}
	return tags
}
