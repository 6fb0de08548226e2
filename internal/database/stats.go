// Honsemoe - Uma Musume Inheritance and Support Card Search
// Copyright 2026 Honsemoe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/honsemoe/backend

package database

import (
	"context"
	"fmt"
	"time"
)

// SiteTotals carries the live aggregate counters behind the stats endpoint.
type SiteTotals struct {
	UniqueVisitors7Day   float64
	TotalAccountsTracked int64
	TotalCirclesTracked  int64
	TotalCharacters      int64
}

// IncrementDailyVisitorCount bumps the visitor counter for a day and
// returns the new count. The increment lives in a database function so
// concurrent visits from many API instances stay a single atomic upsert.
func (db *DB) IncrementDailyVisitorCount(ctx context.Context, date time.Time) (int32, error) {
	var count int32
	err := db.pool.QueryRow(ctx,
		"SELECT increment_daily_visitor_count($1)", date).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("daily visitor increment failed: %w", err)
	}
	return count, nil
}

// SiteStats gathers every aggregate the stats endpoint needs in one query.
func (db *DB) SiteStats(ctx context.Context) (*SiteTotals, error) {
	var (
		uniqueVisitors7Day *float64
		totals             SiteTotals
	)
	err := db.pool.QueryRow(ctx, `
        WITH stats AS (
            SELECT
                (SELECT AVG(unique_visitors::float8)
                 FROM daily_stats
                 WHERE date >= CURRENT_DATE - INTERVAL '7 days') AS unique_visitors_7_day,
                (SELECT COUNT(*) FROM trainer) AS total_accounts_tracked,
                (SELECT COUNT(*) FROM circles) AS total_circles_tracked,
                (SELECT COUNT(*) FROM team_stadium) AS total_characters
        )
        SELECT * FROM stats`).
		Scan(&uniqueVisitors7Day, &totals.TotalAccountsTracked,
			&totals.TotalCirclesTracked, &totals.TotalCharacters)
	if err != nil {
		return nil, fmt.Errorf("site stats query failed: %w", err)
	}
	if uniqueVisitors7Day != nil {
		totals.UniqueVisitors7Day = *uniqueVisitors7Day
	}
	return &totals, nil
}
