// Honsemoe - Uma Musume Inheritance and Support Card Search
// Copyright 2026 Honsemoe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/honsemoe/backend

// Package models defines the API and database record types shared across
// handlers and the database layer.
//
// Spark encoding: each element of a spark array is factor_id*10 + level,
// with levels 1-9. A bare value below 10 in a filter is a wildcard meaning
// "any factor at this level or higher".
package models

import "time"

// Inheritance is one uploaded inheritance record. Spark arrays hold encoded
// factor values; main_* columns describe the main parent's own factors.
type Inheritance struct {
	InheritanceID    int32   `json:"inheritance_id"`
	AccountID        string  `json:"account_id"`
	MainParentID     int32   `json:"main_parent_id"`
	ParentLeftID     int32   `json:"parent_left_id"`
	ParentRightID    int32   `json:"parent_right_id"`
	ParentRank       int32   `json:"parent_rank"`
	ParentRarity     int32   `json:"parent_rarity"`
	BlueSparks       []int32 `json:"blue_sparks"`
	PinkSparks       []int32 `json:"pink_sparks"`
	GreenSparks      []int32 `json:"green_sparks"`
	WhiteSparks      []int32 `json:"white_sparks"`
	WinCount         int32   `json:"win_count"`
	WhiteCount       int32   `json:"white_count"`
	MainBlueFactors  int32   `json:"main_blue_factors"`
	MainPinkFactors  int32   `json:"main_pink_factors"`
	MainGreenFactors int32   `json:"main_green_factors"`
	MainWhiteFactors []int32 `json:"main_white_factors"`
	MainWhiteCount   int32   `json:"main_white_count"`
	AffinityScore    *int32  `json:"affinity_score,omitempty"`
}

// SupportCard is the best support card tracked for an account.
type SupportCard struct {
	AccountID       string `json:"account_id"`
	SupportCardID   int32  `json:"support_card_id"`
	LimitBreakCount *int32 `json:"limit_break_count"`
	Experience      int32  `json:"experience"`
}

// AccountRecord is one unified search result row: the trainer plus their
// inheritance and best support card, either of which may be absent.
type AccountRecord struct {
	AccountID   string       `json:"account_id"`
	TrainerName string       `json:"trainer_name"`
	FollowerNum *int32       `json:"follower_num"`
	LastUpdated *time.Time   `json:"last_updated"`
	Inheritance *Inheritance `json:"inheritance"`
	SupportCard *SupportCard `json:"support_card"`
}

// SearchResponse is the paginated search result. Total is a string because
// large filtered counts render as "over 10000" instead of a number.
type SearchResponse struct {
	Items      []AccountRecord `json:"items"`
	Total      string          `json:"total"`
	Page       int64           `json:"page"`
	Limit      int64           `json:"limit"`
	TotalPages int64           `json:"total_pages"`
}

// SearchSummary reports record counts for the landing page.
type SearchSummary struct {
	TotalInheritanceRecords      int64 `json:"total_inheritance_records"`
	TotalSupportCardAccounts     int64 `json:"total_support_card_accounts"`
	AvailableInheritanceRecords  int64 `json:"available_inheritance_records"`
	AvailableSupportCardAccounts int64 `json:"available_support_card_accounts"`
}
