// Honsemoe - Uma Musume Inheritance and Support Card Search
// Copyright 2026 Honsemoe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/honsemoe/backend

package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/honsemoe/backend/internal/models"
)

// InheritanceForShare fetches the inheritance record behind a share page.
func (db *DB) InheritanceForShare(ctx context.Context, accountID string) (string, *models.Inheritance, error) {
	var (
		trainerName string
		inh         models.Inheritance
	)
	err := db.pool.QueryRow(ctx, `
        SELECT
            t.account_id,
            t.name AS trainer_name,
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
            i.main_white_count
        FROM trainer t
        INNER JOIN inheritance i ON t.account_id = i.account_id
        WHERE t.account_id = $1`, accountID).
		Scan(&inh.AccountID, &trainerName, &inh.InheritanceID,
			&inh.MainParentID, &inh.ParentLeftID, &inh.ParentRightID,
			&inh.ParentRank, &inh.ParentRarity,
			&inh.BlueSparks, &inh.PinkSparks, &inh.GreenSparks, &inh.WhiteSparks,
			&inh.WinCount, &inh.WhiteCount,
			&inh.MainBlueFactors, &inh.MainPinkFactors, &inh.MainGreenFactors,
			&inh.MainWhiteFactors, &inh.MainWhiteCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil, ErrNotFound
	}
	if err != nil {
		return "", nil, fmt.Errorf("inheritance share query failed: %w", err)
	}
	return trainerName, &inh, nil
}

// SupportCardForShare fetches the account's best support card, ranked by
// experience.
func (db *DB) SupportCardForShare(ctx context.Context, accountID string) (string, *models.SupportCard, error) {
	var (
		trainerName string
		sc          models.SupportCard
	)
	err := db.pool.QueryRow(ctx, `
        SELECT
            t.account_id,
            t.name AS trainer_name,
            sc.support_card_id,
            sc.limit_break_count,
            sc.experience
        FROM trainer t
        INNER JOIN support_card sc ON t.account_id = sc.account_id
        WHERE t.account_id = $1
        ORDER BY sc.experience DESC, sc.support_card_id ASC
        LIMIT 1`, accountID).
		Scan(&sc.AccountID, &trainerName, &sc.SupportCardID,
			&sc.LimitBreakCount, &sc.Experience)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil, ErrNotFound
	}
	if err != nil {
		return "", nil, fmt.Errorf("support card share query failed: %w", err)
	}
	return trainerName, &sc, nil
}
