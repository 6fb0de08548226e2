// Honsemoe - Uma Musume Inheritance and Support Card Search
// Copyright 2026 Honsemoe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/honsemoe/backend

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/honsemoe/backend/internal/metrics"
	"github.com/honsemoe/backend/internal/models"
)

// countCap bounds filtered count queries; anything beyond renders as
// "over 10000" so the planner never walks the full table.
const countCap = 10001

// affinityExpression returns the SQL expression for the affinity score.
// Without a player it falls back to the record's own base affinity; with
// one it indexes the precomputed affinity_scores array (chara ids above
// 100000 are card ids carrying the chara id in their upper digits).
func affinityExpression(playerCharaID *int32) string {
	if playerCharaID == nil {
		return "(COALESCE(i.base_affinity, 0) + COALESCE(i.race_affinity, 0))"
	}
	charaID := *playerCharaID
	if charaID > 100000 {
		charaID /= 100
	}
	arrayIndex := charaID - 1000
	return fmt.Sprintf("(COALESCE(i.affinity_scores[%d], 0) + COALESCE(i.race_affinity, 0))", arrayIndex)
}

// appendPlayerExclusion hides records whose main character is the player's
// own character; filtering FOR a specific main character disables it.
func appendPlayerExclusion(b *Builder, req *models.SearchRequest) {
	if playerID := req.AffinityPlayerID(); playerID != nil && req.DesiredMainCharaID == nil {
		b.Push(" AND i.main_chara_id != ").Bind(*playerID)
	}
}

// appendInheritanceFilters appends every inheritance-side filter shared by
// the count and page queries.
func appendInheritanceFilters(b *Builder, req *models.SearchRequest) {
	if req.TrainerID != nil {
		b.Push(" AND t.account_id = ").Bind(*req.TrainerID)
	}
	if req.TrainerName != nil {
		b.Push(" AND t.name ILIKE ").Bind("%" + *req.TrainerName + "%")
	}
	if req.MainParentID != nil {
		b.Push(" AND i.main_parent_id = ").Bind(*req.MainParentID)
	}
	if req.DesiredMainCharaID != nil {
		b.Push(" AND i.main_chara_id = ").Bind(*req.DesiredMainCharaID)
	}
	if req.ParentLeftID != nil {
		b.Push(" AND i.parent_left_id = ").Bind(*req.ParentLeftID)
	}
	if req.ParentRightID != nil {
		b.Push(" AND i.parent_right_id = ").Bind(*req.ParentRightID)
	}

	// The rank and rarity parameters land on each other's columns. The
	// frontend has always sent them this way around; keep the swap.
	if req.ParentRank != nil {
		b.Push(" AND i.parent_rarity >= ").Bind(*req.ParentRank)
	}
	if req.ParentRarity != nil {
		b.Push(" AND i.parent_rank >= ").Bind(*req.ParentRarity - 1)
	}

	appendMultiGroupSpark(b, "i.blue_sparks", ParseSparkGroups(req.BlueSparks))
	appendMultiGroupSpark(b, "i.pink_sparks", ParseSparkGroups(req.PinkSparks))
	appendMultiGroupSpark(b, "i.green_sparks", ParseSparkGroups(req.GreenSparks))
	appendMultiGroupSpark(b, "i.white_sparks", ParseSparkGroups(req.WhiteSparks))

	if req.BlueSparks9Star != nil && *req.BlueSparks9Star {
		appendNineStarSpark(b, "i.blue_sparks", 9)
	}
	if req.PinkSparks9Star != nil && *req.PinkSparks9Star {
		appendNineStarSpark(b, "i.pink_sparks", 9)
	}
	if req.GreenSparks9Star != nil && *req.GreenSparks9Star {
		appendNineStarSpark(b, "i.green_sparks", 9)
	}

	for _, group := range ParseSparkGroups(req.MainParentBlueSparks) {
		appendMainParentSpark(b, "i.main_blue_factors", group)
	}
	for _, group := range ParseSparkGroups(req.MainParentPinkSparks) {
		appendMainParentSpark(b, "i.main_pink_factors", group)
	}
	for _, group := range ParseSparkGroups(req.MainParentGreenSparks) {
		appendMainParentSpark(b, "i.main_green_factors", group)
	}
	for _, group := range ParseSparkGroups(req.MainParentWhiteSparks) {
		appendSingleGroupSpark(b, "i.main_white_factors", group)
	}

	if req.MinWinCount != nil {
		b.Push(" AND i.win_count >= ").Bind(*req.MinWinCount)
	}
	if req.MinWhiteCount != nil {
		b.Push(" AND i.white_count >= ").Bind(*req.MinWhiteCount)
	}

	if req.MinMainBlueFactors != nil {
		b.Push(" AND i.main_blue_factors >= ").Bind(*req.MinMainBlueFactors)
	}
	if req.MinMainPinkFactors != nil {
		b.Push(" AND i.main_pink_factors >= ").Bind(*req.MinMainPinkFactors)
	}
	if req.MinMainGreenFactors != nil {
		b.Push(" AND i.main_green_factors >= ").Bind(*req.MinMainGreenFactors)
	}
	for _, group := range ParseSparkGroups(req.MainWhiteFactors) {
		appendSingleGroupSpark(b, "i.main_white_factors", group)
	}
	if req.MinMainWhiteCount != nil {
		b.Push(" AND i.main_white_count >= ").Bind(*req.MinMainWhiteCount)
	}

	if req.MaxFollowerNum != nil {
		b.Push(" AND (t.follower_num IS NULL OR t.follower_num <= ").
			Bind(*req.MaxFollowerNum).Push(")")
	}
}

// BuildSearchQuery assembles the page query: inheritance joined with its
// trainer and best support card, the affinity and optional-scoring columns,
// every filter, the sort order and pagination.
func BuildSearchQuery(req *models.SearchRequest, limit, offset int64) *Builder {
	affinityExpr := affinityExpression(req.AffinityPlayerID())

	b := NewBuilder(`SELECT
            i.account_id,
            t.name AS trainer_name,
            t.follower_num,
            t.last_updated,
            i.inheritance_id,
            i.main_parent_id,
            i.parent_left_id,
            i.parent_right_id,
            i.parent_rank,
            i.parent_rarity,
            i.blue_sparks,
            i.pink_sparks,
            i.green_sparks,
            i.white_sparks,
            i.win_count,
            i.white_count,
            i.main_blue_factors,
            i.main_pink_factors,
            i.main_green_factors,
            i.main_white_factors,
            i.main_white_count,
            (`)
	b.Push(affinityExpr).Push(") AS affinity_score")

	optionalWhiteIDs := ParseFactorIDs(req.OptionalWhiteSparks)
	optionalMainWhiteIDs := ParseFactorIDs(req.OptionalMainWhiteFactors)

	if len(optionalWhiteIDs) > 0 {
		b.Push(", calculate_sparks_score(i.white_sparks, ").
			Bind(optionalWhiteIDs).Push(") AS white_sparks_score")
	} else {
		b.Push(", 0 AS white_sparks_score")
	}
	if len(optionalMainWhiteIDs) > 0 {
		b.Push(", calculate_sparks_score(i.main_white_factors, ").
			Bind(optionalMainWhiteIDs).Push(") AS main_white_factors_score")
	} else {
		b.Push(", 0 AS main_white_factors_score")
	}

	b.Push(`,
            sc.support_card_id,
            sc.limit_break_count,
            sc.experience
        FROM inheritance i
        INNER JOIN trainer t ON i.account_id = t.account_id
        LEFT JOIN support_card sc ON i.account_id = sc.account_id
        WHERE 1=1`)

	if req.SupportCardID != nil {
		b.Push(" AND sc.support_card_id = ").Bind(*req.SupportCardID)
	}
	if req.MinLimitBreak != nil {
		b.Push(" AND sc.limit_break_count >= ").Bind(*req.MinLimitBreak)
	}
	if req.MaxLimitBreak != nil {
		b.Push(" AND sc.limit_break_count <= ").Bind(*req.MaxLimitBreak)
	}
	if req.MinExperience != nil {
		b.Push(" AND sc.experience >= ").Bind(*req.MinExperience)
	}

	// Accounts with full friend lists never surface in search results.
	b.Push(" AND (t.follower_num IS NULL OR t.follower_num < 1000)")

	appendPlayerExclusion(b, req)
	appendInheritanceFilters(b, req)

	// GIN pre-filter for optional scoring: only rows holding at least one
	// requested factor at any level are worth scoring.
	whiteExpanded := expandFactorLevels(optionalWhiteIDs)
	mainWhiteExpanded := expandFactorLevels(optionalMainWhiteIDs)
	switch {
	case len(whiteExpanded) > 0 && len(mainWhiteExpanded) > 0:
		b.Push(" AND (i.white_sparks && ").Bind(whiteExpanded).
			Push(" OR i.main_white_factors && ").Bind(mainWhiteExpanded).Push(")")
	case len(whiteExpanded) > 0:
		b.Push(" AND i.white_sparks && ").Bind(whiteExpanded)
	case len(mainWhiteExpanded) > 0:
		b.Push(" AND i.main_white_factors && ").Bind(mainWhiteExpanded)
	}

	// Push the planner towards the support card index.
	if req.SupportCardID != nil {
		b.Push(" AND EXISTS (SELECT 1 FROM support_card sc_exists WHERE sc_exists.account_id = t.account_id AND sc_exists.support_card_id = ").
			Bind(*req.SupportCardID)
		if req.MinLimitBreak != nil {
			b.Push(" AND sc_exists.limit_break_count >= ").Bind(*req.MinLimitBreak)
		}
		b.Push(")")
	}

	hasOptionalScoring := len(optionalWhiteIDs) > 0 || len(optionalMainWhiteIDs) > 0
	b.Push(orderByClause(req, affinityExpr, hasOptionalScoring))

	b.Push(" LIMIT ").Bind(limit).Push(" OFFSET ").Bind(offset)
	return b
}

// orderByClause maps the sort_by parameter to an ORDER BY. Optional
// scoring, when present, always becomes the primary criterion; account id
// breaks ties to keep pagination stable.
func orderByClause(req *models.SearchRequest, affinityExpr string, hasOptionalScoring bool) string {
	sortBy := ""
	if req.SortBy != nil {
		sortBy = *req.SortBy
	}

	scored := func(key string) string {
		if hasOptionalScoring {
			return " ORDER BY (white_sparks_score + main_white_factors_score) DESC, " + key + ", t.account_id ASC"
		}
		return " ORDER BY " + key + ", t.account_id ASC"
	}

	switch sortBy {
	case "affinity", "affinity_score":
		if hasOptionalScoring {
			return " ORDER BY white_sparks_score DESC, main_white_factors_score DESC, " + affinityExpr + " DESC"
		}
		return " ORDER BY " + affinityExpr + " DESC"
	case "win_count":
		return scored("i.win_count DESC")
	case "white_count":
		return scored("i.white_count DESC")
	case "parent_rank":
		return scored("i.parent_rank DESC")
	case "submitted_at", "last_updated":
		return scored("t.last_updated DESC")
	case "main_blue_factors":
		return scored("i.main_blue_factors DESC")
	case "main_pink_factors":
		return scored("i.main_pink_factors DESC")
	case "main_green_factors":
		return scored("i.main_green_factors DESC")
	case "main_white_count":
		return scored("i.main_white_count DESC")
	case "experience":
		return scored("sc.experience DESC NULLS LAST")
	case "limit_break_count":
		return scored("sc.limit_break_count DESC NULLS LAST")
	case "follower_num":
		return scored("COALESCE(t.follower_num, 999999) ASC")
	case "white_sparks_score", "main_white_factors_score":
		return " ORDER BY (white_sparks_score + main_white_factors_score) DESC, t.account_id ASC"
	default:
		if hasOptionalScoring {
			return " ORDER BY (white_sparks_score + main_white_factors_score) DESC, " + affinityExpr + " DESC"
		}
		return " ORDER BY " + affinityExpr + " DESC"
	}
}

// BuildCountQuery assembles the capped count query. The inner SELECT stops
// at countCap rows so heavily-filtered queries stay bounded.
func BuildCountQuery(req *models.SearchRequest) *Builder {
	b := NewBuilder(`SELECT COUNT(*) FROM (
            SELECT 1
            FROM inheritance i
            INNER JOIN trainer t ON i.account_id = t.account_id
            WHERE (t.follower_num IS NULL OR t.follower_num < 1000)`)

	appendPlayerExclusion(b, req)

	// Support card filters go through EXISTS so the planner can use the
	// support_card index without joining the table.
	if req.SupportCardID != nil || req.MinLimitBreak != nil ||
		req.MaxLimitBreak != nil || req.MinExperience != nil {
		b.Push(" AND EXISTS (SELECT 1 FROM support_card sc_ex WHERE sc_ex.account_id = i.account_id")
		if req.SupportCardID != nil {
			b.Push(" AND sc_ex.support_card_id = ").Bind(*req.SupportCardID)
		}
		if req.MinLimitBreak != nil {
			b.Push(" AND sc_ex.limit_break_count >= ").Bind(*req.MinLimitBreak)
		}
		if req.MaxLimitBreak != nil {
			b.Push(" AND sc_ex.limit_break_count <= ").Bind(*req.MaxLimitBreak)
		}
		if req.MinExperience != nil {
			b.Push(" AND sc_ex.experience >= ").Bind(*req.MinExperience)
		}
		b.Push(")")
	}

	appendInheritanceFilters(b, req)

	b.Push(fmt.Sprintf(" LIMIT %d) AS sub", countCap))
	return b
}

// Search runs the page query and maps rows into account records.
func (db *DB) Search(ctx context.Context, req *models.SearchRequest, limit, offset int64) (_ []models.AccountRecord, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("search", time.Since(start), err) }()

	q := BuildSearchQuery(req, limit, offset)

	rows, err := db.pool.Query(ctx, q.SQL(), q.Args()...)
	if err != nil {
		return nil, fmt.Errorf("search query failed: %w", err)
	}
	defer rows.Close()

	records := make([]models.AccountRecord, 0, limit)
	for rows.Next() {
		var (
			accountID        string
			trainerName      string
			followerNum      *int32
			lastUpdated      *time.Time
			inheritanceID    *int32
			mainParentID     *int32
			parentLeftID     *int32
			parentRightID    *int32
			parentRank       *int32
			parentRarity     *int32
			blueSparks       []int32
			pinkSparks       []int32
			greenSparks      []int32
			whiteSparks      []int32
			winCount         *int32
			whiteCount       *int32
			mainBlueFactors  *int32
			mainPinkFactors  *int32
			mainGreenFactors *int32
			mainWhiteFactors []int32
			mainWhiteCount   *int32
			affinityScore    *int32
			whiteSparksScore *int64
			mainWhiteScore   *int64
			supportCardID    *int32
			limitBreakCount  *int32
			experience       *int32
		)

		if err := rows.Scan(
			&accountID, &trainerName, &followerNum, &lastUpdated,
			&inheritanceID, &mainParentID, &parentLeftID, &parentRightID,
			&parentRank, &parentRarity,
			&blueSparks, &pinkSparks, &greenSparks, &whiteSparks,
			&winCount, &whiteCount,
			&mainBlueFactors, &mainPinkFactors, &mainGreenFactors,
			&mainWhiteFactors, &mainWhiteCount,
			&affinityScore, &whiteSparksScore, &mainWhiteScore,
			&supportCardID, &limitBreakCount, &experience,
		); err != nil {
			return nil, fmt.Errorf("failed to scan search row: %w", err)
		}

		record := models.AccountRecord{
			AccountID:   accountID,
			TrainerName: trainerName,
			FollowerNum: followerNum,
			LastUpdated: lastUpdated,
		}

		if inheritanceID != nil {
			record.Inheritance = &models.Inheritance{
				InheritanceID:    *inheritanceID,
				AccountID:        accountID,
				MainParentID:     deref(mainParentID),
				ParentLeftID:     deref(parentLeftID),
				ParentRightID:    deref(parentRightID),
				ParentRank:       deref(parentRank),
				ParentRarity:     deref(parentRarity),
				BlueSparks:       blueSparks,
				PinkSparks:       pinkSparks,
				GreenSparks:      greenSparks,
				WhiteSparks:      whiteSparks,
				WinCount:         deref(winCount),
				WhiteCount:       deref(whiteCount),
				MainBlueFactors:  deref(mainBlueFactors),
				MainPinkFactors:  deref(mainPinkFactors),
				MainGreenFactors: deref(mainGreenFactors),
				MainWhiteFactors: mainWhiteFactors,
				MainWhiteCount:   deref(mainWhiteCount),
				AffinityScore:    affinityScore,
			}
		}

		if supportCardID != nil {
			record.SupportCard = &models.SupportCard{
				AccountID:       accountID,
				SupportCardID:   *supportCardID,
				LimitBreakCount: limitBreakCount,
				Experience:      deref(experience),
			}
		}

		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search row iteration failed: %w", err)
	}
	return records, nil
}

// Count returns the (capped) number of matching records. Blank requests
// read the precomputed total from stats_counts instead of counting.
func (db *DB) Count(ctx context.Context, req *models.SearchRequest) (_ int64, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("count", time.Since(start), err) }()

	if req.IsBlank() {
		var count int64
		err = db.pool.QueryRow(ctx,
			"SELECT COALESCE(trainer_count, 0) FROM stats_counts LIMIT 1").Scan(&count)
		if err != nil {
			return 0, fmt.Errorf("blank count query failed: %w", err)
		}
		return count, nil
	}

	q := BuildCountQuery(req)
	var count int64
	if err := db.pool.QueryRow(ctx, q.SQL(), q.Args()...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count query failed: %w", err)
	}
	return count, nil
}

// Summary returns total and available record counts, computed fresh.
func (db *DB) Summary(ctx context.Context) (_ *models.SearchSummary, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("summary", time.Since(start), err) }()

	s := &models.SearchSummary{}

	queries := []struct {
		sql  string
		dest *int64
	}{
		{"SELECT COUNT(*) FROM inheritance", &s.TotalInheritanceRecords},
		{"SELECT COUNT(DISTINCT account_id) FROM support_card", &s.TotalSupportCardAccounts},
		{`SELECT COUNT(*)
            FROM inheritance i
            INNER JOIN trainer t ON i.account_id = t.account_id
            WHERE (t.follower_num IS NULL OR t.follower_num < 1000)`, &s.AvailableInheritanceRecords},
		{`SELECT COUNT(DISTINCT sc.account_id)
            FROM support_card sc
            INNER JOIN trainer t ON sc.account_id = t.account_id
            WHERE (t.follower_num IS NULL OR t.follower_num < 1000)`, &s.AvailableSupportCardAccounts},
	}
	for _, q := range queries {
		if err := db.pool.QueryRow(ctx, q.sql).Scan(q.dest); err != nil {
			return nil, fmt.Errorf("summary count failed: %w", err)
		}
	}
	return s, nil
}

func deref(p *int32) int32 {
	if p == nil {
		return 0
	}
	return *p
}
