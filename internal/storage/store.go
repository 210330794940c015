// Package storage persists generated forecasts and trade ratings so the
// history command can replay past analyses.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"marketsage/internal/models"
	"marketsage/pkg/sqlite"
)

type Store struct {
	db *sql.DB
}

func NewStore(dbPath string) (*Store, error) {
	db, err := sqlite.Open(dbPath)
	if err != nil {
		return nil, err
	}
	s := &Store{db: db}
	if err := s.initTables(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS forecasts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol TEXT NOT NULL,
			technical_analysis TEXT,
			ai_analysis TEXT,
			created_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS ratings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol TEXT NOT NULL,
			rating TEXT NOT NULL,
			raw_output TEXT,
			created_at DATETIME NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_forecasts_symbol ON forecasts(symbol);`,
		`CREATE INDEX IF NOT EXISTS idx_ratings_symbol ON ratings(symbol);`,
	}
	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("init tables: %w", err)
		}
	}
	return nil
}

// SaveForecast stores one forecast record and returns its row id.
func (s *Store) SaveForecast(ctx context.Context, f *models.ForecastData) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO forecasts (symbol, technical_analysis, ai_analysis, created_at) VALUES (?, ?, ?, ?)`,
		f.Symbol, f.TechnicalAnalysis, f.AIAnalysis, f.Timestamp)
	if err != nil {
		return 0, fmt.Errorf("save forecast for %s: %w", f.Symbol, err)
	}
	return res.LastInsertId()
}

// SaveRating stores one trade rating and returns its row id.
func (s *Store) SaveRating(ctx context.Context, symbol string, rating models.TradeRating, raw string, at time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO ratings (symbol, rating, raw_output, created_at) VALUES (?, ?, ?, ?)`,
		symbol, string(rating), raw, at)
	if err != nil {
		return 0, fmt.Errorf("save rating for %s: %w", symbol, err)
	}
	return res.LastInsertId()
}

// RecentForecasts returns up to limit forecasts for a symbol, newest
// first. An empty symbol returns forecasts for all symbols.
func (s *Store) RecentForecasts(ctx context.Context, symbol string, limit int) ([]*models.ForecastData, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `SELECT symbol, technical_analysis, ai_analysis, created_at FROM forecasts`
	args := []any{}
	if symbol != "" {
		query += ` WHERE symbol = ?`
		args = append(args, symbol)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query forecasts: %w", err)
	}
	defer rows.Close()

	var out []*models.ForecastData
	for rows.Next() {
		f := &models.ForecastData{}
		if err := rows.Scan(&f.Symbol, &f.TechnicalAnalysis, &f.AIAnalysis, &f.Timestamp); err != nil {
			return nil, fmt.Errorf("scan forecast: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// RatingRecord is one persisted trade rating.
type RatingRecord struct {
	Symbol    string
	Rating    models.TradeRating
	Raw       string
	CreatedAt time.Time
}

// RecentRatings returns up to limit ratings for a symbol, newest first.
// An empty symbol returns ratings for all symbols.
func (s *Store) RecentRatings(ctx context.Context, symbol string, limit int) ([]*RatingRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `SELECT symbol, rating, raw_output, created_at FROM ratings`
	args := []any{}
	if symbol != "" {
		query += ` WHERE symbol = ?`
		args = append(args, symbol)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query ratings: %w", err)
	}
	defer rows.Close()

	var out []*RatingRecord
	for rows.Next() {
		r := &RatingRecord{}
		var rating string
		if err := rows.Scan(&r.Symbol, &rating, &r.Raw, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		r.Rating = models.TradeRating(rating)
		out = append(out, r)
	}
	return out, rows.Err()
}
