// Honsemoe - Uma Musume Inheritance and Support Card Search
// Copyright 2026 Honsemoe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/honsemoe/backend

package api

import (
	"context"
	"net/http"
	"runtime"
	"time"

	json "github.com/goccy/go-json"

	"github.com/honsemoe/backend/internal/cache"
	"github.com/honsemoe/backend/internal/config"
	"github.com/honsemoe/backend/internal/database"
	"github.com/honsemoe/backend/internal/metrics"
	"github.com/honsemoe/backend/internal/models"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// Store is the persistence surface the handlers depend on. *database.DB
// satisfies it; tests swap in stubs.
type Store interface {
	Ping(ctx context.Context) error

	Search(ctx context.Context, req *models.SearchRequest, limit, offset int64) ([]models.AccountRecord, error)
	Count(ctx context.Context, req *models.SearchRequest) (int64, error)
	Summary(ctx context.Context) (*models.SearchSummary, error)

	CircleIDForViewer(ctx context.Context, viewerID int64) (int64, error)
	CircleByID(ctx context.Context, circleID int64) (*models.Circle, error)
	CircleMembers(ctx context.Context, circleID int64, year, month int32) ([]models.CircleMemberFansMonthly, error)
	ListCircles(ctx context.Context, req *models.CircleListRequest) (*models.CircleListResponse, error)

	CreateTask(ctx context.Context, taskType string, taskData json.RawMessage, priority int32, accountID *string) (*models.Task, error)
	EnqueueFriendSearch(ctx context.Context, trainerID string, priority int32) (*models.Task, error)
	EnqueueCircleFetch(ctx context.Context, viewerID int64) error
	TrackTrainerCopy(ctx context.Context, trainerID string) (int32, bool, error)
	TrainerStatus(ctx context.Context, trainerID string) (*models.TrainerStatus, error)

	IncrementDailyVisitorCount(ctx context.Context, date time.Time) (int32, error)
	SiteStats(ctx context.Context) (*database.SiteTotals, error)

	InheritanceForShare(ctx context.Context, accountID string) (string, *models.Inheritance, error)
	SupportCardForShare(ctx context.Context, accountID string) (string, *models.SupportCard, error)
}

// Handler carries the dependencies shared by all HTTP handlers.
type Handler struct {
	store     Store
	cache     *cache.Cache
	cfg       *config.Config
	startTime time.Time
}

// NewHandler creates the handler set.
func NewHandler(store Store, c *cache.Cache, cfg *config.Config) *Handler {
	metrics.AppInfo.WithLabelValues(Version, runtime.Version()).Set(1)
	return &Handler{
		store:     store,
		cache:     c,
		cfg:       cfg,
		startTime: time.Now(),
	}
}

// Health reports service liveness and database connectivity.
// GET /api/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w)

	status := "healthy"
	dbStatus := "up"
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		status = "degraded"
		dbStatus = "down"
	}

	uptime := time.Since(h.startTime)
	metrics.AppUptime.Set(uptime.Seconds())

	payload := map[string]interface{}{
		"status":         status,
		"service":        "honsemoe-backend",
		"version":        Version,
		"database":       dbStatus,
		"uptime_seconds": int64(uptime.Seconds()),
		"endpoints": map[string]string{
			"search":  "/api/v3/search",
			"stats":   "/api/stats",
			"tasks":   "/api/tasks",
			"circles": "/api/circles",
			"health":  "/api/health",
		},
	}
	if status == "healthy" {
		rw.Success(payload)
		return
	}
	rw.writeJSON(http.StatusServiceUnavailable, models.APIResponse{
		Status:   "error",
		Data:     payload,
		Error:    &models.APIError{Code: ErrCodeServiceUnavailable, Message: "Database unreachable"},
		Metadata: rw.metadata(false),
	})
}
