// Honsemoe - Uma Musume Inheritance and Support Card Search
// Copyright 2026 Honsemoe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/honsemoe/backend

package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/honsemoe/backend/internal/logging"
	"github.com/honsemoe/backend/internal/metrics"
	"github.com/honsemoe/backend/internal/models"
)

// overCountThreshold is where filtered totals stop being exact: the count
// query gives up at 10001 rows and the total renders as "over 10000".
const overCountThreshold = 10000

// UnifiedSearch runs the inheritance and support card search.
// GET /api/v3/search
func (h *Handler) UnifiedSearch(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w)
	req := ParseSearchRequest(r.URL.Query())

	page, limit, offset := req.Pagination(
		int64(h.cfg.API.DefaultPageSize),
		int64(h.cfg.API.MaxPageSize),
	)
	blank := req.IsBlank()

	cacheKey := req.CacheKey(page, limit)
	var cached models.SearchResponse
	if h.cache.Get(cacheKey, &cached) {
		metrics.RecordCacheAccess("search", true)
		metrics.RecordSearchRequest(blank, true)
		rw.SuccessCached(cached, true)
		return
	}
	metrics.RecordCacheAccess("search", false)

	items, err := h.store.Search(r.Context(), req, limit, offset)
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	total, err := h.searchTotal(r.Context(), req)
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	totalDisplay := strconv.FormatInt(total, 10)
	if !blank && total > overCountThreshold {
		totalDisplay = "over 10000"
	}
	totalPages := int64(0)
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	resp := models.SearchResponse{
		Items:      items,
		Total:      totalDisplay,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}

	ttl := h.cfg.Cache.ResultTTL
	if blank {
		ttl = h.cfg.Cache.BlankTTL
	}
	if err := h.cache.Set(cacheKey, resp, ttl); err != nil {
		logging.Err(err).Msg("failed to cache search response")
	}

	metrics.RecordSearchRequest(blank, false)
	rw.Success(resp)
}

// searchTotal returns the matching row count, cached independently of
// pagination so page flips reuse one count query.
func (h *Handler) searchTotal(ctx context.Context, req *models.SearchRequest) (int64, error) {
	key := req.CountCacheKey()
	var total int64
	if h.cache.Get(key, &total) {
		metrics.RecordCacheAccess("count", true)
		return total, nil
	}
	metrics.RecordCacheAccess("count", false)

	total, err := h.store.Count(ctx, req)
	if err != nil {
		return 0, err
	}
	if err := h.cache.Set(key, total, h.cfg.Cache.CountTTL); err != nil {
		logging.Err(err).Msg("failed to cache search count")
	}
	return total, nil
}

// SearchSummary reports overall and friend-available record counts.
// GET /api/v3/count
func (h *Handler) SearchSummary(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w)

	summary, err := h.store.Summary(r.Context())
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.Success(summary)
}
