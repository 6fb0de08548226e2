// Honsemoe - Uma Musume Inheritance and Support Card Search
// Copyright 2026 Honsemoe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/honsemoe/backend

package models

import (
	"strconv"
	"strings"
)

// SearchRequest holds every filter accepted by the unified search endpoint.
// Optional scalars are pointers so "absent" and "zero" stay distinguishable;
// spark filters are raw repeatable-parameter groups (one string per group,
// comma-separated encoded values inside a group).
type SearchRequest struct {
	Page       *int64
	Limit      *int64
	SearchType *string

	MainParentID  *int32
	ParentLeftID  *int32
	ParentRightID *int32
	ParentRank    *int32
	ParentRarity  *int32

	BlueSparks  []string
	PinkSparks  []string
	GreenSparks []string
	WhiteSparks []string

	BlueSparks9Star  *bool
	PinkSparks9Star  *bool
	GreenSparks9Star *bool

	MainParentBlueSparks  []string
	MainParentPinkSparks  []string
	MainParentGreenSparks []string
	MainParentWhiteSparks []string

	MinWinCount   *int32
	MinWhiteCount *int32

	MinMainBlueFactors  *int32
	MinMainPinkFactors  *int32
	MinMainGreenFactors *int32
	MainWhiteFactors    []string
	MinMainWhiteCount   *int32

	// Soft preference scoring: factor type IDs only, not encoded values.
	OptionalWhiteSparks      []string
	OptionalMainWhiteFactors []string

	SupportCardID *int32
	MinLimitBreak *int32
	MaxLimitBreak *int32
	MinExperience *int32

	TrainerID      *string
	TrainerName    *string
	MaxFollowerNum *int32
	SortBy         *string
	SortOrder      *string

	PlayerCharaID *int32
	// PlayerCharaID2 is accepted for API compatibility (dual-parent
	// training) but does not participate in filtering yet.
	PlayerCharaID2     *int32
	DesiredMainCharaID *int32
}

// AffinityPlayerID returns the character id used for affinity calculation
// and player self-exclusion: the desired main character takes precedence
// over the player's own character.
func (r *SearchRequest) AffinityPlayerID() *int32 {
	if r.DesiredMainCharaID != nil {
		return r.DesiredMainCharaID
	}
	return r.PlayerCharaID
}

// Pagination resolves page/limit/offset. Limit defaults to defaultLimit and
// is capped at maxLimit; page counts from zero.
func (r *SearchRequest) Pagination(defaultLimit, maxLimit int64) (page, limit, offset int64) {
	if r.Page != nil {
		page = *r.Page
	}
	limit = defaultLimit
	if r.Limit != nil {
		limit = *r.Limit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit, page * limit
}

// IsBlank reports whether the request carries no effective filters. Spark
// groups, ids and text filters must be absent; a handful of numeric filters
// still count as blank at their UI default values (parent_rank 1, zero
// minimum counts, max_follower_num 1000 or 999). Pagination, sort and
// search_type never affect blankness.
func (r *SearchRequest) IsBlank() bool {
	return r.TrainerID == nil &&
		r.TrainerName == nil &&
		r.MainParentID == nil &&
		r.ParentLeftID == nil &&
		r.ParentRightID == nil &&
		(r.ParentRank == nil || *r.ParentRank == 1) &&
		r.ParentRarity == nil &&
		len(r.BlueSparks) == 0 &&
		len(r.PinkSparks) == 0 &&
		len(r.GreenSparks) == 0 &&
		len(r.WhiteSparks) == 0 &&
		r.BlueSparks9Star == nil &&
		r.PinkSparks9Star == nil &&
		r.GreenSparks9Star == nil &&
		len(r.MainParentBlueSparks) == 0 &&
		len(r.MainParentPinkSparks) == 0 &&
		len(r.MainParentGreenSparks) == 0 &&
		len(r.MainParentWhiteSparks) == 0 &&
		r.SupportCardID == nil &&
		r.MinLimitBreak == nil &&
		r.MaxLimitBreak == nil &&
		r.MinExperience == nil &&
		(r.MinWinCount == nil || *r.MinWinCount == 0) &&
		(r.MinWhiteCount == nil || *r.MinWhiteCount == 0) &&
		r.MinMainBlueFactors == nil &&
		r.MinMainPinkFactors == nil &&
		r.MinMainGreenFactors == nil &&
		len(r.MainWhiteFactors) == 0 &&
		len(r.OptionalWhiteSparks) == 0 &&
		len(r.OptionalMainWhiteFactors) == 0 &&
		(r.MinMainWhiteCount == nil || *r.MinMainWhiteCount == 0) &&
		r.DesiredMainCharaID == nil &&
		r.PlayerCharaID == nil &&
		(r.MaxFollowerNum == nil || *r.MaxFollowerNum == 1000 || *r.MaxFollowerNum == 999)
}

// cacheKeyVersion is bumped whenever the response or key shape changes, so
// stale entries from an older build become unreachable instead of
// deserializing into the wrong shape.
const cacheKeyVersion = "v1"

// CacheKey builds the response cache key: every filter field rendered as
// value-or-"any" plus pagination and sort. Two requests share a key exactly
// when they produce the same response.
func (r *SearchRequest) CacheKey(page, limit int64) string {
	var b strings.Builder
	b.Grow(256)
	b.WriteString("search:")
	b.WriteString(cacheKeyVersion)
	b.WriteString(":type=")
	b.WriteString(optStr(r.SearchType))
	b.WriteString(":sort=")
	b.WriteString(optStr(r.SortBy))
	b.WriteString(":")
	r.writeFilterFields(&b)
	b.WriteString(":page=")
	b.WriteString(strconv.FormatInt(page, 10))
	b.WriteString(":limit=")
	b.WriteString(strconv.FormatInt(limit, 10))
	return b.String()
}

// CountCacheKey builds the count cache key from every filter field; counts
// are independent of pagination and sort.
func (r *SearchRequest) CountCacheKey() string {
	var b strings.Builder
	b.Grow(256)
	b.WriteString("count:")
	b.WriteString(cacheKeyVersion)
	b.WriteString(":type=")
	b.WriteString(optStr(r.SearchType))
	b.WriteString(":")
	r.writeFilterFields(&b)
	return b.String()
}

func (r *SearchRequest) writeFilterFields(b *strings.Builder) {
	fields := []struct {
		name  string
		value string
	}{
		{"trainer", optStr(r.TrainerID)},
		{"trainer_name", optStr(r.TrainerName)},
		{"main_parent", optI32(r.MainParentID)},
		{"p_left", optI32(r.ParentLeftID)},
		{"p_right", optI32(r.ParentRightID)},
		{"p_rank", optI32(r.ParentRank)},
		{"p_rarity", optI32(r.ParentRarity)},
		{"blue", groupsKey(r.BlueSparks)},
		{"pink", groupsKey(r.PinkSparks)},
		{"green", groupsKey(r.GreenSparks)},
		{"white", groupsKey(r.WhiteSparks)},
		{"blue9", optBool(r.BlueSparks9Star)},
		{"pink9", optBool(r.PinkSparks9Star)},
		{"green9", optBool(r.GreenSparks9Star)},
		{"mp_blue", groupsKey(r.MainParentBlueSparks)},
		{"mp_pink", groupsKey(r.MainParentPinkSparks)},
		{"mp_green", groupsKey(r.MainParentGreenSparks)},
		{"mp_white", groupsKey(r.MainParentWhiteSparks)},
		{"win", optI32(r.MinWinCount)},
		{"wh_cnt", optI32(r.MinWhiteCount)},
		{"main_blue_min", optI32(r.MinMainBlueFactors)},
		{"main_pink_min", optI32(r.MinMainPinkFactors)},
		{"main_green_min", optI32(r.MinMainGreenFactors)},
		{"main_white", groupsKey(r.MainWhiteFactors)},
		{"main_white_cnt", optI32(r.MinMainWhiteCount)},
		{"opt_white", groupsKey(r.OptionalWhiteSparks)},
		{"opt_main_white", groupsKey(r.OptionalMainWhiteFactors)},
		{"sc_id", optI32(r.SupportCardID)},
		{"lb_min", optI32(r.MinLimitBreak)},
		{"lb_max", optI32(r.MaxLimitBreak)},
		{"exp_min", optI32(r.MinExperience)},
		{"followers", optI32(r.MaxFollowerNum)},
		{"player", optI32(r.PlayerCharaID)},
		{"desired_main", optI32(r.DesiredMainCharaID)},
	}
	for i, f := range fields {
		if i > 0 {
			b.WriteString(":")
		}
		b.WriteString(f.name)
		b.WriteString("=")
		b.WriteString(f.value)
	}
}

func optI32(p *int32) string {
	if p == nil {
		return "any"
	}
	return strconv.FormatInt(int64(*p), 10)
}

func optBool(p *bool) string {
	if p == nil {
		return "any"
	}
	return strconv.FormatBool(*p)
}

func optStr(p *string) string {
	if p == nil || *p == "" {
		return "any"
	}
	return *p
}

func groupsKey(groups []string) string {
	if len(groups) == 0 {
		return "any"
	}
	return strings.Join(groups, "|")
}
