// Honsemoe - Uma Musume Inheritance and Support Card Search
// Copyright 2026 Honsemoe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/honsemoe/backend

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/honsemoe/backend/internal/models"
)

func TestGetCircleRequiresAnIdentifier(t *testing.T) {
	h := testHandler(&stubStore{})

	rec := httptest.NewRecorder()
	h.GetCircle(rec, httptest.NewRequest(http.MethodGet, "/api/circles", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetCircleByViewerID(t *testing.T) {
	circle := &models.Circle{CircleID: 42, Name: "Team Spica"}
	var memberYear, memberMonth int32
	store := &stubStore{
		circleIDForViewerFn: func(ctx context.Context, viewerID int64) (int64, error) {
			return 42, nil
		},
		circleByIDFn: func(ctx context.Context, circleID int64) (*models.Circle, error) {
			if circleID != 42 {
				t.Errorf("circleID = %d, want 42", circleID)
			}
			return circle, nil
		},
		circleMembersFn: func(ctx context.Context, circleID int64, year, month int32) ([]models.CircleMemberFansMonthly, error) {
			memberYear, memberMonth = year, month
			return []models.CircleMemberFansMonthly{{CircleID: 42, ViewerID: 111222333}}, nil
		},
	}
	h := testHandler(store)

	rec := httptest.NewRecorder()
	h.GetCircle(rec, httptest.NewRequest(http.MethodGet,
		"/api/circles?viewer_id=111222333&year=2026&month=7", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if memberYear != 2026 || memberMonth != 7 {
		t.Errorf("member window = %d-%d, want 2026-7", memberYear, memberMonth)
	}
}

func TestGetCircleUnknownViewerEnqueuesFetch(t *testing.T) {
	var enqueued int64
	store := &stubStore{
		enqueueCircleFetchFn: func(ctx context.Context, viewerID int64) error {
			enqueued = viewerID
			return nil
		},
	}
	h := testHandler(store)

	rec := httptest.NewRecorder()
	h.GetCircle(rec, httptest.NewRequest(http.MethodGet, "/api/circles?viewer_id=555666777", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if enqueued != 555666777 {
		t.Errorf("enqueued viewer = %d, want 555666777", enqueued)
	}
}

func TestGetCircleMemberWindowDefaultsToCurrentMonth(t *testing.T) {
	var memberYear, memberMonth int32
	store := &stubStore{
		circleByIDFn: func(ctx context.Context, circleID int64) (*models.Circle, error) {
			return &models.Circle{CircleID: circleID}, nil
		},
		circleMembersFn: func(ctx context.Context, circleID int64, year, month int32) ([]models.CircleMemberFansMonthly, error) {
			memberYear, memberMonth = year, month
			return nil, nil
		},
	}
	h := testHandler(store)

	rec := httptest.NewRecorder()
	h.GetCircle(rec, httptest.NewRequest(http.MethodGet, "/api/circles?circle_id=9", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if memberYear == 0 || memberMonth < 1 || memberMonth > 12 {
		t.Errorf("member window = %d-%d, want current date defaults", memberYear, memberMonth)
	}
}

func TestListCirclesPassesFilters(t *testing.T) {
	var got *models.CircleListRequest
	store := &stubStore{
		listCirclesFn: func(ctx context.Context, req *models.CircleListRequest) (*models.CircleListResponse, error) {
			got = req
			return &models.CircleListResponse{Items: []models.Circle{}}, nil
		},
	}
	h := testHandler(store)

	rec := httptest.NewRecorder()
	h.ListCircles(rec, httptest.NewRequest(http.MethodGet,
		"/api/circles/list?page=2&limit=50&query=spica&min_members=10&sort_by=monthly_point&sort_dir=desc", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got.Page != 2 || got.Limit != 50 {
		t.Errorf("page/limit = %d/%d", got.Page, got.Limit)
	}
	if got.Query == nil || *got.Query != "spica" {
		t.Errorf("query = %v", got.Query)
	}
	if got.MinMembers == nil || *got.MinMembers != 10 {
		t.Errorf("min_members = %v", got.MinMembers)
	}
	if got.SortBy == nil || *got.SortBy != "monthly_point" || got.SortDir == nil || *got.SortDir != "desc" {
		t.Errorf("sort = %v %v", got.SortBy, got.SortDir)
	}
}
