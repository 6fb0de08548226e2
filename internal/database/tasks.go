// Honsemoe - Uma Musume Inheritance and Support Card Search
// Copyright 2026 Honsemoe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/honsemoe/backend

package database

import (
	"context"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"

	"github.com/honsemoe/backend/internal/models"
)

// Task priorities. Lower runs first.
const (
	TaskPriorityImmediate = 0
	TaskPrioritySearch    = 1
	TaskPriorityRecheck   = 5
	TaskPriorityDefault   = 0
)

// trainerCopyRecheckEvery triggers a recheck task every N copies of an
// unavailable trainer's id.
const trainerCopyRecheckEvery = 10

// CreateTask inserts a pending task and returns the stored row.
func (db *DB) CreateTask(ctx context.Context, taskType string, taskData json.RawMessage, priority int32, accountID *string) (*models.Task, error) {
	row := db.pool.QueryRow(ctx, `
        INSERT INTO tasks (task_type, task_data, priority, status, created_at, account_id)
        VALUES ($1, $2, $3, 'pending', CURRENT_TIMESTAMP, $4)
        RETURNING id, task_type, task_data, priority, status, created_at, updated_at, worker_id, error_message, account_id`,
		taskType, taskData, priority, accountID)

	var t models.Task
	if err := row.Scan(&t.ID, &t.TaskType, &t.TaskData, &t.Priority, &t.Status,
		&t.CreatedAt, &t.UpdatedAt, &t.WorkerID, &t.ErrorMessage, &t.AccountID); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return &t, nil
}

// EnqueueFriendSearch queues a friend-search task for a trainer id at the
// given priority.
func (db *DB) EnqueueFriendSearch(ctx context.Context, trainerID string, priority int32) (*models.Task, error) {
	data, err := json.Marshal(map[string]string{"id": trainerID, "action": "search"})
	if err != nil {
		return nil, fmt.Errorf("failed to encode task data: %w", err)
	}
	return db.CreateTask(ctx, "friend/search", data, priority, nil)
}

// EnqueueCircleFetch queues a circle fetch for an unknown viewer. Duplicate
// submissions are dropped.
func (db *DB) EnqueueCircleFetch(ctx context.Context, viewerID int64) error {
	data, err := json.Marshal(map[string]int64{"viewer_id": viewerID})
	if err != nil {
		return fmt.Errorf("failed to encode task data: %w", err)
	}
	_, err = db.pool.Exec(ctx, `
        INSERT INTO tasks (task_type, task_data, status, created_at, updated_at)
        VALUES ('fetch_circle', $1, 'pending', NOW(), NOW())
        ON CONFLICT DO NOTHING`, data)
	if err != nil {
		return fmt.Errorf("failed to enqueue circle fetch: %w", err)
	}
	return nil
}

// TrackTrainerCopy increments the copy counter for a trainer id and returns
// the new count. Every trainerCopyRecheckEvery copies, a trainer previously
// marked unavailable gets a recheck task; the second return value reports
// whether one was created.
func (db *DB) TrackTrainerCopy(ctx context.Context, trainerID string) (int32, bool, error) {
	var copyCount int32
	err := db.pool.QueryRow(ctx, `
        INSERT INTO trainer_copies (trainer_id, copy_count, last_copied)
        VALUES ($1, 1, CURRENT_TIMESTAMP)
        ON CONFLICT (trainer_id)
        DO UPDATE SET
            copy_count = trainer_copies.copy_count + 1,
            last_copied = CURRENT_TIMESTAMP
        RETURNING copy_count`, trainerID).Scan(&copyCount)
	if err != nil {
		return 0, false, fmt.Errorf("failed to track trainer copy: %w", err)
	}

	if copyCount < trainerCopyRecheckEvery || copyCount%trainerCopyRecheckEvery != 0 {
		return copyCount, false, nil
	}

	var wasUnavailable bool
	err = db.pool.QueryRow(ctx,
		"SELECT follower_num > 1000 FROM trainer WHERE account_id = $1",
		trainerID).Scan(&wasUnavailable)
	if errors.Is(err, pgx.ErrNoRows) {
		return copyCount, true, nil
	}
	if err != nil {
		return copyCount, true, fmt.Errorf("trainer availability lookup failed: %w", err)
	}
	if !wasUnavailable {
		return copyCount, true, nil
	}

	data, err := json.Marshal(map[string]interface{}{
		"id":         trainerID,
		"action":     "recheck",
		"reason":     "high_copy_count",
		"copy_count": copyCount,
	})
	if err != nil {
		return copyCount, true, fmt.Errorf("failed to encode task data: %w", err)
	}
	_, err = db.pool.Exec(ctx, `
        INSERT INTO tasks (task_type, task_data, priority, status, created_at)
        VALUES ($1, $2, $3, 'pending', CURRENT_TIMESTAMP)`,
		"friend/recheck", data, int32(TaskPriorityRecheck))
	if err != nil {
		return copyCount, true, fmt.Errorf("failed to enqueue recheck: %w", err)
	}
	return copyCount, true, nil
}

// TrainerStatus looks up a trainer's friend list availability. Unknown
// trainers report as available.
func (db *DB) TrainerStatus(ctx context.Context, trainerID string) (*models.TrainerStatus, error) {
	var (
		followerNum *int32
		status      *string
		copyCount   *int32
	)
	err := db.pool.QueryRow(ctx, `
        SELECT
            t.follower_num,
            t.status,
            tc.copy_count
        FROM trainer t
        LEFT JOIN trainer_copies tc ON t.account_id = tc.trainer_id
        WHERE t.account_id = $1`, trainerID).
		Scan(&followerNum, &status, &copyCount)
	if errors.Is(err, pgx.ErrNoRows) {
		unknown := "unknown"
		return &models.TrainerStatus{
			TrainerID: trainerID,
			Available: true,
			Status:    &unknown,
			CopyCount: 0,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("trainer status lookup failed: %w", err)
	}

	followers := int32(0)
	if followerNum != nil {
		followers = *followerNum
	}
	count := int32(0)
	if copyCount != nil {
		count = *copyCount
	}
	return &models.TrainerStatus{
		TrainerID:   trainerID,
		Available:   followers <= 1000,
		FollowerNum: followerNum,
		Status:      status,
		CopyCount:   count,
	}, nil
}
