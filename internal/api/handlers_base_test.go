// Honsemoe - Uma Musume Inheritance and Support Card Search
// Copyright 2026 Honsemoe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/honsemoe/backend

package api

import (
	"context"
	"time"

	json "github.com/goccy/go-json"

	"github.com/honsemoe/backend/internal/cache"
	"github.com/honsemoe/backend/internal/config"
	"github.com/honsemoe/backend/internal/database"
	"github.com/honsemoe/backend/internal/models"
)

// stubStore satisfies Store with overridable functions; unset functions
// return empty values.
type stubStore struct {
	pingFn    func(ctx context.Context) error
	searchFn  func(ctx context.Context, req *models.SearchRequest, limit, offset int64) ([]models.AccountRecord, error)
	countFn   func(ctx context.Context, req *models.SearchRequest) (int64, error)
	summaryFn func(ctx context.Context) (*models.SearchSummary, error)

	circleIDForViewerFn func(ctx context.Context, viewerID int64) (int64, error)
	circleByIDFn        func(ctx context.Context, circleID int64) (*models.Circle, error)
	circleMembersFn     func(ctx context.Context, circleID int64, year, month int32) ([]models.CircleMemberFansMonthly, error)
	listCirclesFn       func(ctx context.Context, req *models.CircleListRequest) (*models.CircleListResponse, error)

	createTaskFn          func(ctx context.Context, taskType string, taskData json.RawMessage, priority int32, accountID *string) (*models.Task, error)
	enqueueFriendSearchFn func(ctx context.Context, trainerID string, priority int32) (*models.Task, error)
	enqueueCircleFetchFn  func(ctx context.Context, viewerID int64) error
	trackTrainerCopyFn    func(ctx context.Context, trainerID string) (int32, bool, error)
	trainerStatusFn       func(ctx context.Context, trainerID string) (*models.TrainerStatus, error)

	incrementDailyVisitorCountFn func(ctx context.Context, date time.Time) (int32, error)
	siteStatsFn                  func(ctx context.Context) (*database.SiteTotals, error)

	inheritanceForShareFn func(ctx context.Context, accountID string) (string, *models.Inheritance, error)
	supportCardForShareFn func(ctx context.Context, accountID string) (string, *models.SupportCard, error)
}

func (s *stubStore) Ping(ctx context.Context) error {
	if s.pingFn != nil {
		return s.pingFn(ctx)
	}
	return nil
}

func (s *stubStore) Search(ctx context.Context, req *models.SearchRequest, limit, offset int64) ([]models.AccountRecord, error) {
	if s.searchFn != nil {
		return s.searchFn(ctx, req, limit, offset)
	}
	return []models.AccountRecord{}, nil
}

func (s *stubStore) Count(ctx context.Context, req *models.SearchRequest) (int64, error) {
	if s.countFn != nil {
		return s.countFn(ctx, req)
	}
	return 0, nil
}

func (s *stubStore) Summary(ctx context.Context) (*models.SearchSummary, error) {
	if s.summaryFn != nil {
		return s.summaryFn(ctx)
	}
	return &models.SearchSummary{}, nil
}

func (s *stubStore) CircleIDForViewer(ctx context.Context, viewerID int64) (int64, error) {
	if s.circleIDForViewerFn != nil {
		return s.circleIDForViewerFn(ctx, viewerID)
	}
	return 0, database.ErrNotFound
}

func (s *stubStore) CircleByID(ctx context.Context, circleID int64) (*models.Circle, error) {
	if s.circleByIDFn != nil {
		return s.circleByIDFn(ctx, circleID)
	}
	return nil, database.ErrNotFound
}

func (s *stubStore) CircleMembers(ctx context.Context, circleID int64, year, month int32) ([]models.CircleMemberFansMonthly, error) {
	if s.circleMembersFn != nil {
		return s.circleMembersFn(ctx, circleID, year, month)
	}
	return []models.CircleMemberFansMonthly{}, nil
}

func (s *stubStore) ListCircles(ctx context.Context, req *models.CircleListRequest) (*models.CircleListResponse, error) {
	if s.listCirclesFn != nil {
		return s.listCirclesFn(ctx, req)
	}
	return &models.CircleListResponse{Items: []models.Circle{}}, nil
}

func (s *stubStore) CreateTask(ctx context.Context, taskType string, taskData json.RawMessage, priority int32, accountID *string) (*models.Task, error) {
	if s.createTaskFn != nil {
		return s.createTaskFn(ctx, taskType, taskData, priority, accountID)
	}
	return &models.Task{TaskType: taskType, TaskData: taskData, Priority: priority, Status: "pending"}, nil
}

func (s *stubStore) EnqueueFriendSearch(ctx context.Context, trainerID string, priority int32) (*models.Task, error) {
	if s.enqueueFriendSearchFn != nil {
		return s.enqueueFriendSearchFn(ctx, trainerID, priority)
	}
	return &models.Task{TaskType: "friend/search", Priority: priority, Status: "pending"}, nil
}

func (s *stubStore) EnqueueCircleFetch(ctx context.Context, viewerID int64) error {
	if s.enqueueCircleFetchFn != nil {
		return s.enqueueCircleFetchFn(ctx, viewerID)
	}
	return nil
}

func (s *stubStore) TrackTrainerCopy(ctx context.Context, trainerID string) (int32, bool, error) {
	if s.trackTrainerCopyFn != nil {
		return s.trackTrainerCopyFn(ctx, trainerID)
	}
	return 1, false, nil
}

func (s *stubStore) TrainerStatus(ctx context.Context, trainerID string) (*models.TrainerStatus, error) {
	if s.trainerStatusFn != nil {
		return s.trainerStatusFn(ctx, trainerID)
	}
	return &models.TrainerStatus{TrainerID: trainerID, Available: true}, nil
}

func (s *stubStore) IncrementDailyVisitorCount(ctx context.Context, date time.Time) (int32, error) {
	if s.incrementDailyVisitorCountFn != nil {
		return s.incrementDailyVisitorCountFn(ctx, date)
	}
	return 1, nil
}

func (s *stubStore) SiteStats(ctx context.Context) (*database.SiteTotals, error) {
	if s.siteStatsFn != nil {
		return s.siteStatsFn(ctx)
	}
	return &database.SiteTotals{}, nil
}

func (s *stubStore) InheritanceForShare(ctx context.Context, accountID string) (string, *models.Inheritance, error) {
	if s.inheritanceForShareFn != nil {
		return s.inheritanceForShareFn(ctx, accountID)
	}
	return "", nil, database.ErrNotFound
}

func (s *stubStore) SupportCardForShare(ctx context.Context, accountID string) (string, *models.SupportCard, error) {
	if s.supportCardForShareFn != nil {
		return s.supportCardForShareFn(ctx, accountID)
	}
	return "", nil, database.ErrNotFound
}

func testConfig() *config.Config {
	return &config.Config{
		Cache: config.CacheConfig{
			Capacity:  100,
			BlankTTL:  time.Hour,
			ResultTTL: 5 * time.Minute,
			CountTTL:  5 * time.Minute,
		},
		API: config.APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
	}
}

func testHandler(store Store) *Handler {
	return NewHandler(store, cache.New(100), testConfig())
}
