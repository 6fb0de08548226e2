// Honsemoe - Uma Musume Inheritance and Support Card Search
// Copyright 2026 Honsemoe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/honsemoe/backend

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"github.com/honsemoe/backend/internal/logging"
	"github.com/honsemoe/backend/internal/models"
)

// DailyVisitResponse acknowledges a visitor-day increment.
type DailyVisitResponse struct {
	Success    bool  `json:"success"`
	DailyCount int32 `json:"daily_count"`
}

// TrackDailyVisit counts one unique visitor for the given day. Counting is
// best effort: a database failure is logged and the response still
// succeeds, because losing a visitor tick must never break the frontend.
// POST /api/stats/daily-visit
func (h *Handler) TrackDailyVisit(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w)

	var payload models.DailyVisitRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		rw.BadRequest("Invalid JSON body")
		return
	}
	date, err := time.Parse("2006-01-02", payload.Date)
	if err != nil {
		rw.BadRequest("date must be YYYY-MM-DD")
		return
	}

	count, err := h.store.IncrementDailyVisitorCount(r.Context(), date)
	if err != nil {
		logging.Err(err).Str("date", payload.Date).Msg("failed to increment daily visitor count")
		rw.Success(DailyVisitResponse{Success: true, DailyCount: 1})
		return
	}
	rw.Success(DailyVisitResponse{Success: true, DailyCount: count})
}

// GetStats returns the aggregate site statistics. Retired counters are
// pinned to zero for frontend compatibility.
// GET /api/stats
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w)

	totals, err := h.store.SiteStats(r.Context())
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	rw.Success(models.StatsResponse{
		Today: models.TodayStats{},
		RollingAverages: models.RollingStats{
			UniqueVisitors7Day: totals.UniqueVisitors7Day,
		},
		DailyData: []models.DailyStatsResponse{},
		Totals: models.TotalStats{
			TotalAccountsTracked: totals.TotalAccountsTracked,
			TotalCirclesTracked:  totals.TotalCirclesTracked,
			TotalCharacters:      totals.TotalCharacters,
		},
	})
}

// GetDailyStats returns per-day visit history. Per-day tracking was retired;
// the endpoint stays for frontend compatibility and returns an empty list.
// GET /api/stats/daily
func (h *Handler) GetDailyStats(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w).Success([]models.DailyStatsResponse{})
}

// GetTodayStats returns today's counters, all retired and pinned to zero.
// GET /api/stats/today
func (h *Handler) GetTodayStats(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w).Success(models.TodayStats{})
}

// ReportFriendlistFull acknowledges a friend-list-full report.
// POST /api/stats/friendlist/{id}
func (h *Handler) ReportFriendlistFull(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w)

	id := chi.URLParam(r, "id")
	logging.Info().Str("trainer_id", id).Msg("friend list reported full")

	rw.Success(models.FriendlistReportResponse{
		Success: true,
		Message: "Report recorded",
	})
}
