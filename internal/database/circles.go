// Honsemoe - Uma Musume Inheritance and Support Card Search
// Copyright 2026 Honsemoe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/honsemoe/backend

package database

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/honsemoe/backend/internal/models"
)

// ErrNotFound reports that a requested record does not exist.
var ErrNotFound = errors.New("record not found")

const circleColumns = `
        c.circle_id,
        c.name,
        c.comment,
        c.leader_viewer_id,
        t.name AS leader_name,
        c.member_count,
        c.join_style,
        c.policy,
        c.created_at,
        c.last_updated,
        %s AS monthly_rank,
        c.monthly_point,
        c.last_month_rank,
        c.last_month_point,
        c.archived,
        c.yesterday_updated,
        c.yesterday_points,
        %s AS yesterday_rank`

// CircleIDForViewer resolves the circle a viewer belongs to, using the
// current month's membership snapshots. ErrNotFound means the viewer is
// unknown; callers typically enqueue a fetch task in that case.
func (db *DB) CircleIDForViewer(ctx context.Context, viewerID int64) (int64, error) {
	var circleID int64
	err := db.pool.QueryRow(ctx,
		"SELECT circle_id FROM circle_member_fans_monthly WHERE viewer_id = $1 LIMIT 1",
		viewerID).Scan(&circleID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("viewer lookup failed: %w", err)
	}
	return circleID, nil
}

// CircleByID fetches one circle with its stored monthly rank.
func (db *DB) CircleByID(ctx context.Context, circleID int64) (*models.Circle, error) {
	sql := "SELECT" + fmt.Sprintf(circleColumns, "c.monthly_rank", "c.yesterday_rank") + `
        FROM circles c
        LEFT JOIN trainer t ON c.leader_viewer_id::text = t.account_id
        WHERE c.circle_id = $1`

	rows, err := db.pool.Query(ctx, sql, circleID)
	if err != nil {
		return nil, fmt.Errorf("circle query failed: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("circle query failed: %w", err)
		}
		return nil, ErrNotFound
	}
	circle, err := scanCircle(rows)
	if err != nil {
		return nil, err
	}
	return circle, nil
}

// CircleMembers returns a circle's member fan snapshots for one month,
// ordered by viewer id.
func (db *DB) CircleMembers(ctx context.Context, circleID int64, year, month int32) ([]models.CircleMemberFansMonthly, error) {
	rows, err := db.pool.Query(ctx, `
        SELECT
            cm.id,
            cm.circle_id,
            cm.viewer_id,
            t.name AS trainer_name,
            cm.year,
            cm.month,
            cm.daily_fans,
            cm.last_updated
        FROM circle_member_fans_monthly cm
        LEFT JOIN trainer t ON cm.viewer_id::text = t.account_id
        WHERE cm.circle_id = $1 AND cm.year = $2 AND cm.month = $3
        ORDER BY cm.viewer_id`,
		circleID, year, month)
	if err != nil {
		return nil, fmt.Errorf("circle members query failed: %w", err)
	}
	defer rows.Close()

	var members []models.CircleMemberFansMonthly
	for rows.Next() {
		var m models.CircleMemberFansMonthly
		if err := rows.Scan(&m.ID, &m.CircleID, &m.ViewerID, &m.TrainerName,
			&m.Year, &m.Month, &m.DailyFans, &m.LastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan circle member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("circle members iteration failed: %w", err)
	}
	return members, nil
}

// ListCircles returns circles matching the filters, paginated. Without a
// search query, ranks are recomputed live over this month's points; with
// one, the stored monthly ranks are used so the window functions are
// skipped on the expensive search path.
func (db *DB) ListCircles(ctx context.Context, req *models.CircleListRequest) (*models.CircleListResponse, error) {
	limit := req.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	page := req.Page
	if page < 0 {
		page = 0
	}
	offset := page * limit

	countQ := buildCircleListQuery(req, true, limit, offset)
	var total int64
	if err := db.pool.QueryRow(ctx, countQ.SQL(), countQ.Args()...).Scan(&total); err != nil {
		return nil, fmt.Errorf("circle count query failed: %w", err)
	}

	listQ := buildCircleListQuery(req, false, limit, offset)
	rows, err := db.pool.Query(ctx, listQ.SQL(), listQ.Args()...)
	if err != nil {
		return nil, fmt.Errorf("circle list query failed: %w", err)
	}
	defer rows.Close()

	items := make([]models.Circle, 0, limit)
	for rows.Next() {
		circle, err := scanCircle(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *circle)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("circle list iteration failed: %w", err)
	}

	totalPages := int64(0)
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return &models.CircleListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// buildCircleListQuery assembles the count or page query for ListCircles.
func buildCircleListQuery(req *models.CircleListRequest, count bool, limit, offset int64) *Builder {
	searchQuery := ""
	if req.Query != nil {
		searchQuery = strings.TrimSpace(*req.Query)
	}
	useLiveRanks := req.Query == nil
	// Very short queries would match nearly everything.
	hasSearch := len(searchQuery) >= 2

	b := NewBuilder("")

	var withParts []string
	if useLiveRanks {
		withParts = append(withParts, `GlobalRanks AS (
            SELECT
                circle_id,
                RANK() OVER (ORDER BY monthly_point DESC NULLS LAST) AS live_rank,
                RANK() OVER (ORDER BY yesterday_points DESC NULLS LAST) AS live_yesterday_rank
            FROM circles
            WHERE (archived IS NULL OR archived = false)
              AND last_updated >= date_trunc('month', CURRENT_DATE)
              AND last_updated < date_trunc('month', CURRENT_DATE) + interval '1 month'
        )`)
	}
	if len(withParts) > 0 || hasSearch {
		b.Push("WITH ")
	}
	for i, part := range withParts {
		if i > 0 {
			b.Push(", ")
		}
		b.Push(part)
	}
	if hasSearch {
		if len(withParts) > 0 {
			b.Push(", ")
		}
		appendMatchingCirclesCTE(b, searchQuery)
	}

	rankColumn := "c.monthly_rank"
	yesterdayRankColumn := "c.yesterday_rank"
	if useLiveRanks {
		rankColumn = "COALESCE(gr.live_rank::integer, c.monthly_rank)"
		yesterdayRankColumn = "COALESCE(gr.live_yesterday_rank::integer, c.yesterday_rank)"
	}

	if count {
		b.Push(" SELECT COUNT(*)")
	} else {
		b.Push(" SELECT").Push(fmt.Sprintf(circleColumns, rankColumn, yesterdayRankColumn))
	}
	b.Push(" FROM circles c")
	if useLiveRanks {
		b.Push(" LEFT JOIN GlobalRanks gr ON c.circle_id = gr.circle_id")
	}
	b.Push(" LEFT JOIN trainer t ON c.leader_viewer_id::text = t.account_id")
	if hasSearch {
		b.Push(" INNER JOIN MatchingCircles mc ON c.circle_id = mc.circle_id")
	}

	// Only circles refreshed this month carry current points.
	b.Push(` WHERE 1=1
        AND c.last_updated >= date_trunc('month', CURRENT_DATE)
        AND c.last_updated < date_trunc('month', CURRENT_DATE) + interval '1 month'
        AND (c.archived IS NULL OR c.archived = false)`)

	if req.Name != nil {
		b.Push(" AND c.name ILIKE ").Bind("%" + *req.Name + "%")
	}
	if req.MinMembers != nil {
		b.Push(" AND c.member_count >= ").Bind(*req.MinMembers)
	}
	if req.MaxRank != nil {
		if useLiveRanks {
			b.Push(" AND COALESCE(gr.live_rank, c.monthly_rank) <= ").Bind(*req.MaxRank)
		} else {
			b.Push(" AND c.monthly_rank <= ").Bind(*req.MaxRank)
		}
	}

	if !count {
		b.Push(circleOrderClause(req))
		b.Push(" LIMIT ").Bind(limit).Push(" OFFSET ").Bind(offset)
	}
	return b
}

// appendMatchingCirclesCTE appends the search CTE: a union over circle
// name, leader name, member name, and (for numeric queries) circle, leader
// and member ids.
func appendMatchingCirclesCTE(b *Builder, query string) {
	pattern := "%" + query + "%"

	b.Push("MatchingCircles AS (")
	b.Push("SELECT circle_id FROM circles WHERE name ILIKE ").Bind(pattern)
	b.Push(" UNION SELECT c.circle_id FROM circles c JOIN trainer t ON c.leader_viewer_id::text = t.account_id WHERE t.name ILIKE ").Bind(pattern)
	b.Push(` UNION SELECT cm.circle_id
        FROM circle_member_fans_monthly cm
        JOIN trainer tm ON cm.viewer_id::text = tm.account_id
        WHERE cm.year = extract(year from current_date)::int
          AND cm.month = extract(month from current_date)::int
          AND tm.name ILIKE `).Bind(pattern)

	if id, err := strconv.ParseInt(query, 10, 64); err == nil {
		b.Push(" UNION SELECT circle_id FROM circles WHERE circle_id = ").Bind(id)
		b.Push(" UNION SELECT circle_id FROM circles WHERE leader_viewer_id = ").Bind(id)
		b.Push(` UNION SELECT circle_id
            FROM circle_member_fans_monthly
            WHERE viewer_id = `).Bind(id).Push(`
              AND year = extract(year from current_date)::int
              AND month = extract(month from current_date)::int`)
	}
	b.Push(")")
}

// circleOrderClause whitelists the sort field and direction.
func circleOrderClause(req *models.CircleListRequest) string {
	dir := "ASC"
	if req.SortDir != nil && strings.EqualFold(*req.SortDir, "desc") {
		dir = "DESC"
	}
	sortBy := ""
	if req.SortBy != nil {
		sortBy = *req.SortBy
	}
	switch sortBy {
	case "name":
		return " ORDER BY c.name " + dir + ", c.circle_id ASC"
	case "member_count":
		return " ORDER BY c.member_count " + dir + " NULLS LAST, c.circle_id ASC"
	case "rank", "monthly_rank":
		return " ORDER BY monthly_rank " + dir + " NULLS LAST, c.circle_id ASC"
	case "monthly_point":
		return " ORDER BY c.monthly_point " + dir + " NULLS LAST, c.circle_id ASC"
	default:
		return " ORDER BY monthly_rank ASC NULLS LAST, c.circle_id ASC"
	}
}

func scanCircle(rows pgx.Rows) (*models.Circle, error) {
	var c models.Circle
	if err := rows.Scan(
		&c.CircleID, &c.Name, &c.Comment, &c.LeaderViewerID, &c.LeaderName,
		&c.MemberCount, &c.JoinStyle, &c.Policy, &c.CreatedAt, &c.LastUpdated,
		&c.MonthlyRank, &c.MonthlyPoint, &c.LastMonthRank, &c.LastMonthPoint,
		&c.Archived, &c.YesterdayUpdated, &c.YesterdayPoints, &c.YesterdayRank,
	); err != nil {
		return nil, fmt.Errorf("failed to scan circle: %w", err)
	}
	return &c, nil
}
