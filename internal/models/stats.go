// Honsemoe - Uma Musume Inheritance and Support Card Search
// Copyright 2026 Honsemoe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/honsemoe/backend

package models

import "time"

// DailyVisitRequest tracks one visitor-day, date in YYYY-MM-DD.
type DailyVisitRequest struct {
	Date string `json:"date"`
}

// StatsResponse is the aggregate site statistics payload.
type StatsResponse struct {
	Today           TodayStats           `json:"today"`
	RollingAverages RollingStats         `json:"rolling_averages"`
	DailyData       []DailyStatsResponse `json:"daily_data"`
	Totals          TotalStats           `json:"totals"`
}

// TodayStats holds today's counters. Most are retired and pinned to zero;
// the fields remain for frontend compatibility.
type TodayStats struct {
	TotalVisitors           int32 `json:"total_visitors"`
	UniqueVisitors          int32 `json:"unique_visitors"`
	InheritanceUploads      int32 `json:"inheritance_uploads"`
	TotalInheritanceRecords int32 `json:"total_inheritance_records"`
	TotalSupportCardRecords int32 `json:"total_support_card_records"`
}

// DailyStatsResponse is one day's visit counters.
type DailyStatsResponse struct {
	Date               time.Time `json:"date"`
	TotalVisits        int64     `json:"total_visits"`
	UniqueVisitors     int64     `json:"unique_visitors"`
	InheritanceUploads int64     `json:"inheritance_uploads"`
	SupportCardUploads int64     `json:"support_card_uploads"`
}

// TotalStats holds lifetime totals.
type TotalStats struct {
	TotalRecords         int64 `json:"total_records"`
	InheritanceRecords   int64 `json:"inheritance_records"`
	SupportCardRecords   int64 `json:"support_card_records"`
	TotalVotes           int64 `json:"total_votes"`
	TotalVisitors        int64 `json:"total_visitors"`
	TotalAccountsTracked int64 `json:"total_accounts_tracked"`
	TotalCirclesTracked  int64 `json:"total_circles_tracked"`
	TotalCharacters      int64 `json:"total_characters"`
}

// RollingStats holds rolling averages; only the 7-day unique visitor
// average is currently computed.
type RollingStats struct {
	Visitors7Day        float64 `json:"visitors_7_day"`
	Visitors30Day       float64 `json:"visitors_30_day"`
	UniqueVisitors7Day  float64 `json:"unique_visitors_7_day"`
	UniqueVisitors30Day float64 `json:"unique_visitors_30_day"`
	Uploads7Day         float64 `json:"uploads_7_day"`
	Uploads30Day        float64 `json:"uploads_30_day"`
}

// FriendlistReportResponse acknowledges a friend-list-full report.
type FriendlistReportResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
