// Honsemoe - Uma Musume Inheritance and Support Card Search
// Copyright 2026 Honsemoe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/honsemoe/backend

package models

import (
	"time"

	json "github.com/goccy/go-json"
)

// Task is one background job row consumed by the scraper workers. Lower
// priority values run first.
type Task struct {
	ID           int32           `json:"id"`
	TaskType     string          `json:"task_type"`
	TaskData     json.RawMessage `json:"task_data"`
	Priority     int32           `json:"priority"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    *time.Time      `json:"updated_at"`
	WorkerID     *string         `json:"worker_id"`
	ErrorMessage *string         `json:"error_message"`
	AccountID    *string         `json:"account_id"`
}

// CreateTaskRequest is the generic task creation payload.
type CreateTaskRequest struct {
	TaskType  string          `json:"task_type" validate:"required"`
	TaskData  json.RawMessage `json:"task_data" validate:"required"`
	Priority  *int32          `json:"priority" validate:"omitempty,gte=0,lte=10"`
	AccountID *string         `json:"account_id"`
}

// TrainerSubmissionRequest submits a trainer id for a friend-search task.
type TrainerSubmissionRequest struct {
	TrainerID string `json:"trainer_id"`
}

// TaskResponse echoes the created task back to the client.
type TaskResponse struct {
	ID        int32           `json:"id"`
	TaskType  string          `json:"task_type"`
	TaskData  json.RawMessage `json:"task_data"`
	Priority  int32           `json:"priority"`
	Status    string          `json:"status"`
	AccountID *string         `json:"account_id"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt *time.Time      `json:"updated_at"`
}

// TrainerStatus reports whether a trainer's friend list has room.
type TrainerStatus struct {
	TrainerID   string  `json:"trainer_id"`
	Available   bool    `json:"available"`
	FollowerNum *int32  `json:"follower_num,omitempty"`
	Status      *string `json:"status"`
	CopyCount   int32   `json:"copy_count"`
}
