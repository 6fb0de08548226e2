// Honsemoe - Uma Musume Inheritance and Support Card Search
// Copyright 2026 Honsemoe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/honsemoe/backend

package models

import (
	"strings"
	"testing"
)

func i32(v int32) *int32    { return &v }
func i64p(v int64) *int64   { return &v }
func str(v string) *string  { return &v }
func boolp(v bool) *bool    { return &v }

func TestIsBlankEmptyRequest(t *testing.T) {
	r := &SearchRequest{}
	if !r.IsBlank() {
		t.Error("empty request should be blank")
	}
}

func TestIsBlankIgnoresPaginationAndSort(t *testing.T) {
	r := &SearchRequest{
		Page:       i64p(3),
		Limit:      i64p(50),
		SearchType: str("inheritance"),
		SortBy:     str("win_count"),
		SortOrder:  str("desc"),
	}
	if !r.IsBlank() {
		t.Error("pagination and sort must not affect blankness")
	}
}

func TestIsBlankDefaultValuesStillBlank(t *testing.T) {
	cases := []struct {
		name string
		req  SearchRequest
	}{
		{"parent_rank 1", SearchRequest{ParentRank: i32(1)}},
		{"min_win_count 0", SearchRequest{MinWinCount: i32(0)}},
		{"min_white_count 0", SearchRequest{MinWhiteCount: i32(0)}},
		{"min_main_white_count 0", SearchRequest{MinMainWhiteCount: i32(0)}},
		{"max_follower_num 1000", SearchRequest{MaxFollowerNum: i32(1000)}},
		{"max_follower_num 999", SearchRequest{MaxFollowerNum: i32(999)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !tc.req.IsBlank() {
				t.Errorf("request with %s should still be blank", tc.name)
			}
		})
	}
}

func TestIsBlankWithFilters(t *testing.T) {
	cases := []struct {
		name string
		req  SearchRequest
	}{
		{"trainer_name", SearchRequest{TrainerName: str("kiryu")}},
		{"parent_rank 2", SearchRequest{ParentRank: i32(2)}},
		{"parent_rarity", SearchRequest{ParentRarity: i32(3)}},
		{"blue_sparks", SearchRequest{BlueSparks: []string{"11,21"}}},
		{"blue_sparks_9star", SearchRequest{BlueSparks9Star: boolp(true)}},
		{"main_parent_pink_sparks", SearchRequest{MainParentPinkSparks: []string{"3"}}},
		{"min_win_count 5", SearchRequest{MinWinCount: i32(5)}},
		{"support_card_id", SearchRequest{SupportCardID: i32(30028)}},
		{"optional_white_sparks", SearchRequest{OptionalWhiteSparks: []string{"42"}}},
		{"player_chara_id", SearchRequest{PlayerCharaID: i32(1001)}},
		{"desired_main_chara_id", SearchRequest{DesiredMainCharaID: i32(1003)}},
		{"max_follower_num 500", SearchRequest{MaxFollowerNum: i32(500)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.req.IsBlank() {
				t.Errorf("request with %s should not be blank", tc.name)
			}
		})
	}
}

func TestCacheKeyDeterministic(t *testing.T) {
	a := &SearchRequest{TrainerName: str("abc"), BlueSparks: []string{"11,21", "31"}}
	b := &SearchRequest{TrainerName: str("abc"), BlueSparks: []string{"11,21", "31"}}
	if a.CacheKey(0, 20) != b.CacheKey(0, 20) {
		t.Error("identical requests must share a cache key")
	}
}

func TestCacheKeyDistinguishesFilters(t *testing.T) {
	base := &SearchRequest{}
	cases := []*SearchRequest{
		{TrainerName: str("abc")},
		{BlueSparks: []string{"11"}},
		{BlueSparks: []string{"11", "21"}},
		{PinkSparks: []string{"11"}},
		{MinWinCount: i32(3)},
		{SortBy: str("win_count")},
		{SearchType: str("support_cards")},
		{DesiredMainCharaID: i32(1005)},
	}
	seen := map[string]int{base.CacheKey(0, 20): -1}
	for i, r := range cases {
		key := r.CacheKey(0, 20)
		if prev, dup := seen[key]; dup {
			t.Errorf("case %d collides with case %d: %s", i, prev, key)
		}
		seen[key] = i
	}
}

func TestCacheKeyIncludesPagination(t *testing.T) {
	r := &SearchRequest{}
	if r.CacheKey(0, 20) == r.CacheKey(1, 20) {
		t.Error("cache key must include page")
	}
	if r.CacheKey(0, 20) == r.CacheKey(0, 50) {
		t.Error("cache key must include limit")
	}
}

func TestCountCacheKeyIgnoresPaginationAndSort(t *testing.T) {
	a := &SearchRequest{TrainerName: str("abc"), Page: i64p(0), SortBy: str("win_count")}
	b := &SearchRequest{TrainerName: str("abc"), Page: i64p(5), SortBy: str("affinity")}
	if a.CountCacheKey() != b.CountCacheKey() {
		t.Error("count key must not depend on pagination or sort")
	}
	if !strings.HasPrefix(a.CountCacheKey(), "count:") {
		t.Errorf("unexpected count key prefix: %s", a.CountCacheKey())
	}
}

func TestCacheKeyVersioned(t *testing.T) {
	r := &SearchRequest{}
	if !strings.Contains(r.CacheKey(0, 20), ":"+cacheKeyVersion+":") {
		t.Errorf("cache key missing version segment: %s", r.CacheKey(0, 20))
	}
}

func TestPagination(t *testing.T) {
	cases := []struct {
		name                    string
		req                     SearchRequest
		wantPage, wantLimit, wantOffset int64
	}{
		{"defaults", SearchRequest{}, 0, 20, 0},
		{"explicit", SearchRequest{Page: i64p(2), Limit: i64p(50)}, 2, 50, 100},
		{"capped", SearchRequest{Limit: i64p(500)}, 0, 100, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page, limit, offset := tc.req.Pagination(20, 100)
			if page != tc.wantPage || limit != tc.wantLimit || offset != tc.wantOffset {
				t.Errorf("got (%d,%d,%d), want (%d,%d,%d)",
					page, limit, offset, tc.wantPage, tc.wantLimit, tc.wantOffset)
			}
		})
	}
}

func TestAffinityPlayerID(t *testing.T) {
	r := &SearchRequest{PlayerCharaID: i32(1001)}
	if got := r.AffinityPlayerID(); got == nil || *got != 1001 {
		t.Errorf("AffinityPlayerID() = %v, want 1001", got)
	}

	r.DesiredMainCharaID = i32(1007)
	if got := r.AffinityPlayerID(); got == nil || *got != 1007 {
		t.Errorf("desired main chara must take precedence, got %v", got)
	}

	empty := &SearchRequest{}
	if empty.AffinityPlayerID() != nil {
		t.Error("AffinityPlayerID() should be nil without player ids")
	}
}
