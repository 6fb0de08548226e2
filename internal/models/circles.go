// Honsemoe - Uma Musume Inheritance and Support Card Search
// Copyright 2026 Honsemoe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/honsemoe/backend

package models

import "time"

// Circle is one tracked in-game circle. Rank and point fields come from the
// monthly leaderboard snapshots; live ranks are computed at query time.
type Circle struct {
	CircleID         int64      `json:"circle_id"`
	Name             string     `json:"name"`
	Comment          *string    `json:"comment"`
	LeaderViewerID   *int64     `json:"leader_viewer_id"`
	LeaderName       *string    `json:"leader_name"`
	MemberCount      *int32     `json:"member_count"`
	JoinStyle        *int32     `json:"join_style"`
	Policy           *int32     `json:"policy"`
	CreatedAt        *time.Time `json:"created_at"`
	LastUpdated      *time.Time `json:"last_updated"`
	MonthlyRank      *int32     `json:"monthly_rank"`
	MonthlyPoint     *int64     `json:"monthly_point"`
	LastMonthRank    *int32     `json:"last_month_rank"`
	LastMonthPoint   *int64     `json:"last_month_point"`
	Archived         *bool      `json:"archived"`
	YesterdayUpdated *time.Time `json:"yesterday_updated"`
	YesterdayPoints  *int64     `json:"yesterday_points"`
	YesterdayRank    *int32     `json:"yesterday_rank"`
}

// CircleMemberFansMonthly is one member's daily fan gains for a month.
type CircleMemberFansMonthly struct {
	ID          int32      `json:"id"`
	CircleID    int64      `json:"circle_id"`
	ViewerID    int64      `json:"viewer_id"`
	TrainerName *string    `json:"trainer_name"`
	Year        int32      `json:"year"`
	Month       int32      `json:"month"`
	DailyFans   []int32    `json:"daily_fans"`
	LastUpdated *time.Time `json:"last_updated"`
}

// CircleListResponse is the paginated circle listing.
type CircleListResponse struct {
	Items      []Circle `json:"items"`
	Total      int64    `json:"total"`
	Page       int64    `json:"page"`
	Limit      int64    `json:"limit"`
	TotalPages int64    `json:"total_pages"`
}

// CircleListRequest holds the circle listing filters.
type CircleListRequest struct {
	Page       int64
	Limit      int64
	Name       *string
	Query      *string
	MinMembers *int32
	MaxRank    *int32
	SortBy     *string
	SortDir    *string
	Year       *int32
	Month      *int32
}
