// Honsemoe - Uma Musume Inheritance and Support Card Search
// Copyright 2026 Honsemoe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/honsemoe/backend

package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/honsemoe/backend/internal/database"
	"github.com/honsemoe/backend/internal/logging"
	"github.com/honsemoe/backend/internal/models"
)

// CircleResponse bundles a circle with its member fan data for one month.
type CircleResponse struct {
	Circle  models.Circle                    `json:"circle"`
	Members []models.CircleMemberFansMonthly `json:"members"`
}

// GetCircle returns one circle and its member fan counts, looked up either
// by circle_id or by a member's viewer_id. An unknown viewer_id enqueues a
// background fetch so the data exists on a later request.
// GET /api/circles
func (h *Handler) GetCircle(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w)
	q := r.URL.Query()

	viewerID := queryInt64(q, "viewer_id")
	circleID := queryInt64(q, "circle_id")
	if viewerID == nil && circleID == nil {
		rw.BadRequest("Either viewer_id or circle_id must be provided")
		return
	}

	id := int64(0)
	if viewerID != nil {
		found, err := h.store.CircleIDForViewer(r.Context(), *viewerID)
		if errors.Is(err, database.ErrNotFound) {
			if err := h.store.EnqueueCircleFetch(r.Context(), *viewerID); err != nil {
				logging.Err(err).Int64("viewer_id", *viewerID).Msg("failed to enqueue circle fetch")
			}
			rw.NotFound(fmt.Sprintf(
				"Viewer %d not found in any circle. Added to task queue for fetching.", *viewerID))
			return
		}
		if err != nil {
			rw.DatabaseError(err)
			return
		}
		id = found
	} else {
		id = *circleID
	}

	circle, err := h.store.CircleByID(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		rw.NotFound(fmt.Sprintf("Circle %d not found", id))
		return
	}
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	year, month := monthWindow(queryInt32(q, "year"), queryInt32(q, "month"))
	members, err := h.store.CircleMembers(r.Context(), circle.CircleID, year, month)
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	rw.Success(CircleResponse{Circle: *circle, Members: members})
}

// ListCircles lists circles with pagination, filtering and ranking.
// GET /api/circles/list
func (h *Handler) ListCircles(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w)
	q := r.URL.Query()

	req := &models.CircleListRequest{
		Name:       queryString(q, "name"),
		Query:      queryString(q, "query"),
		MinMembers: queryInt32(q, "min_members"),
		MaxRank:    queryInt32(q, "max_rank"),
		SortBy:     queryString(q, "sort_by"),
		SortDir:    queryString(q, "sort_dir"),
		Year:       queryInt32(q, "year"),
		Month:      queryInt32(q, "month"),
	}
	if p := queryInt64(q, "page"); p != nil && *p > 0 {
		req.Page = *p
	}
	if l := queryInt64(q, "limit"); l != nil && *l > 0 {
		req.Limit = *l
	}

	resp, err := h.store.ListCircles(r.Context(), req)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.Success(resp)
}

// monthWindow resolves an optional year/month pair, defaulting each missing
// part to the current date.
func monthWindow(year, month *int32) (int32, int32) {
	now := time.Now()
	y := int32(now.Year())
	m := int32(now.Month())
	if year != nil {
		y = *year
	}
	if month != nil {
		m = *month
	}
	return y, m
}
