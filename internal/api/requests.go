// Honsemoe - Uma Musume Inheritance and Support Card Search
// Copyright 2026 Honsemoe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/honsemoe/backend

package api

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/honsemoe/backend/internal/models"
)

// ParseSearchRequest decodes the unified search query string. Scalar
// parameters may repeat; the last occurrence wins. Spark-group parameters
// keep every occurrence, one filter group per occurrence. Values that fail
// to parse are treated as absent.
func ParseSearchRequest(q url.Values) *models.SearchRequest {
	req := &models.SearchRequest{
		Page:       queryInt64(q, "page"),
		Limit:      queryInt64(q, "limit"),
		SearchType: queryString(q, "search_type"),

		MainParentID:  queryInt32(q, "main_parent_id"),
		ParentLeftID:  queryInt32(q, "parent_left_id"),
		ParentRightID: queryInt32(q, "parent_right_id"),
		ParentRank:    queryInt32(q, "parent_rank"),
		ParentRarity:  queryInt32(q, "parent_rarity"),

		BlueSparks:  queryGroups(q, "blue_sparks"),
		PinkSparks:  queryGroups(q, "pink_sparks"),
		GreenSparks: queryGroups(q, "green_sparks"),
		WhiteSparks: queryGroups(q, "white_sparks"),

		BlueSparks9Star:  queryBool(q, "blue_sparks_9star"),
		PinkSparks9Star:  queryBool(q, "pink_sparks_9star"),
		GreenSparks9Star: queryBool(q, "green_sparks_9star"),

		MainParentBlueSparks:  queryGroups(q, "main_parent_blue_sparks"),
		MainParentPinkSparks:  queryGroups(q, "main_parent_pink_sparks"),
		MainParentGreenSparks: queryGroups(q, "main_parent_green_sparks"),
		MainParentWhiteSparks: queryGroups(q, "main_parent_white_sparks"),

		MinWinCount:   queryInt32(q, "min_win_count"),
		MinWhiteCount: queryInt32(q, "min_white_count"),

		MinMainBlueFactors:  queryInt32(q, "min_main_blue_factors"),
		MinMainPinkFactors:  queryInt32(q, "min_main_pink_factors"),
		MinMainGreenFactors: queryInt32(q, "min_main_green_factors"),
		MainWhiteFactors:    queryGroups(q, "main_white_factors"),
		MinMainWhiteCount:   queryInt32(q, "min_main_white_count"),

		OptionalWhiteSparks:      queryGroups(q, "optional_white_sparks"),
		OptionalMainWhiteFactors: queryGroups(q, "optional_main_white_factors"),

		SupportCardID: queryInt32(q, "support_card_id"),
		MinLimitBreak: queryInt32(q, "min_limit_break"),
		MaxLimitBreak: queryInt32(q, "max_limit_break"),
		MinExperience: queryInt32(q, "min_experience"),

		TrainerID:      queryString(q, "trainer_id"),
		TrainerName:    queryString(q, "trainer_name"),
		MaxFollowerNum: queryInt32(q, "max_follower_num"),
		SortBy:         queryString(q, "sort_by"),
		SortOrder:      queryString(q, "sort_order"),

		PlayerCharaID:      queryInt32(q, "player_chara_id"),
		PlayerCharaID2:     queryInt32(q, "player_chara_id_2"),
		DesiredMainCharaID: queryInt32(q, "desired_main_chara_id"),
	}

	// Older frontends send optional_main_white_sparks.
	if len(req.OptionalMainWhiteFactors) == 0 {
		req.OptionalMainWhiteFactors = queryGroups(q, "optional_main_white_sparks")
	}

	return req
}

// lastValue returns the final occurrence of key, or "" when absent.
func lastValue(q url.Values, key string) string {
	vals := q[key]
	if len(vals) == 0 {
		return ""
	}
	return vals[len(vals)-1]
}

func queryString(q url.Values, key string) *string {
	v := strings.TrimSpace(lastValue(q, key))
	if v == "" {
		return nil
	}
	return &v
}

func queryInt32(q url.Values, key string) *int32 {
	v, err := strconv.ParseInt(strings.TrimSpace(lastValue(q, key)), 10, 32)
	if err != nil {
		return nil
	}
	n := int32(v)
	return &n
}

func queryInt64(q url.Values, key string) *int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(lastValue(q, key)), 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

func queryBool(q url.Values, key string) *bool {
	v, err := strconv.ParseBool(strings.TrimSpace(lastValue(q, key)))
	if err != nil {
		return nil
	}
	return &v
}

func queryGroups(q url.Values, key string) []string {
	var groups []string
	for _, v := range q[key] {
		v = strings.TrimSpace(v)
		if v != "" {
			groups = append(groups, v)
		}
	}
	return groups
}
