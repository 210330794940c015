package models

import "strings"

// TradeRating is the outcome of a trade-rating run.
type TradeRating string

const (
	RatingPositive TradeRating = "POSITIVE"
	RatingNegative TradeRating = "NEGATIVE"
	// RatingIndeterminate marks model output that was neither accepted token.
	// It is surfaced as its own state so callers can distinguish "uncertain"
	// from "bearish"; Normalize folds it into NEGATIVE for callers that need
	// the strict two-token contract.
	RatingIndeterminate TradeRating = "INDETERMINATE"
)

// ParseTradeRating maps raw model output onto a rating. Anything other than
// the two accepted tokens becomes RatingIndeterminate.
func ParseTradeRating(raw string) TradeRating {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(RatingPositive):
		return RatingPositive
	case string(RatingNegative):
		return RatingNegative
	default:
		return RatingIndeterminate
	}
}

// Normalize collapses the rating onto the binary contract, treating an
// indeterminate result as NEGATIVE.
func (r TradeRating) Normalize() TradeRating {
	if r == RatingPositive {
		return RatingPositive
	}
	return RatingNegative
}
