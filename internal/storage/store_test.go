package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"marketsage/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndLoadForecasts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	for i, symbol := range []string{"AAPL", "AAPL", "TSLA"} {
		_, err := s.SaveForecast(ctx, &models.ForecastData{
			Symbol:            symbol,
			TechnicalAnalysis: "tech",
			AIAnalysis:        "analysis",
			Timestamp:         base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("SaveForecast failed: %v", err)
		}
	}

	all, err := s.RecentForecasts(ctx, "", 10)
	if err != nil {
		t.Fatalf("RecentForecasts failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	// newest first
	if all[0].Symbol != "TSLA" {
		t.Errorf("first record = %s, want TSLA", all[0].Symbol)
	}

	apple, err := s.RecentForecasts(ctx, "AAPL", 10)
	if err != nil {
		t.Fatalf("RecentForecasts(AAPL) failed: %v", err)
	}
	if len(apple) != 2 {
		t.Errorf("AAPL records = %d, want 2", len(apple))
	}

	limited, err := s.RecentForecasts(ctx, "", 1)
	if err != nil {
		t.Fatalf("RecentForecasts limited failed: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limited records = %d, want 1", len(limited))
	}
}

func TestSaveAndLoadRatings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	if _, err := s.SaveRating(ctx, "AAPL", models.RatingPositive, "POSITIVE", now); err != nil {
		t.Fatalf("SaveRating failed: %v", err)
	}
	if _, err := s.SaveRating(ctx, "BTC", models.RatingIndeterminate, "looks bullish", now.Add(time.Hour)); err != nil {
		t.Fatalf("SaveRating failed: %v", err)
	}

	records, err := s.RecentRatings(ctx, "", 10)
	if err != nil {
		t.Fatalf("RecentRatings failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len = %d, want 2", len(records))
	}
	if records[0].Symbol != "BTC" || records[0].Rating != models.RatingIndeterminate {
		t.Errorf("first record = %+v", records[0])
	}
	if records[1].Raw != "POSITIVE" {
		t.Errorf("raw output = %q", records[1].Raw)
	}

	btc, err := s.RecentRatings(ctx, "BTC", 10)
	if err != nil {
		t.Fatalf("RecentRatings(BTC) failed: %v", err)
	}
	if len(btc) != 1 {
		t.Errorf("BTC records = %d, want 1", len(btc))
	}
}
