// Package feed defines the upstream ports of the tracker: where setup
// candidates and the live reference price come from.
package feed

import (
	"context"

	"traq/internal/setup"
)

// Candle is a closed kline bar, used by the built-in scout.
type Candle struct {
	OpenTime  int64   `json:"open_time"`
	CloseTime int64   `json:"close_time"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// CandidateSource yields the current setup candidates for one symbol.
// A tick with an empty list is valid: it simply stops refreshing
// last-seen timestamps.
type CandidateSource interface {
	Candidates(ctx context.Context, symbol string) ([]setup.Candidate, error)
}

// PriceSource yields the live mid price used for excursion and closure.
type PriceSource interface {
	MidPrice(ctx context.Context, symbol string) (float64, error)
}

// HistorySource provides closed klines for local analysis.
type HistorySource interface {
	FetchHistory(ctx context.Context, symbol, interval string, limit int) ([]Candle, error)
}
