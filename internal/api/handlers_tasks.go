// Honsemoe - Uma Musume Inheritance and Support Card Search
// Copyright 2026 Honsemoe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/honsemoe/backend

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"github.com/honsemoe/backend/internal/database"
	"github.com/honsemoe/backend/internal/metrics"
	"github.com/honsemoe/backend/internal/models"
	"github.com/honsemoe/backend/internal/validation"
)

// SubmitTrainer queues a friend-search task for a submitted trainer id.
// POST /api/tasks/submit
func (h *Handler) SubmitTrainer(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w)

	var payload models.TrainerSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		rw.BadRequest("Invalid JSON body")
		return
	}
	if !validation.IsTrainerID(payload.TrainerID) {
		rw.BadRequest("trainer_id must be 9-12 digits")
		return
	}

	task, err := h.store.EnqueueFriendSearch(r.Context(), payload.TrainerID, database.TaskPrioritySearch)
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	metrics.RecordTaskCreated(task.TaskType)
	rw.Created(taskResponse(task))
}

// ReportTrainerUnavailable queues an immediate recheck for a trainer whose
// friend list was reported full.
// POST /api/tasks/report-unavailable/{trainer_id}
func (h *Handler) ReportTrainerUnavailable(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w)

	trainerID := chi.URLParam(r, "trainer_id")
	if !validation.IsTrainerID(trainerID) {
		rw.BadRequest("trainer_id must be 9-12 digits")
		return
	}

	task, err := h.store.EnqueueFriendSearch(r.Context(), trainerID, database.TaskPriorityImmediate)
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	metrics.RecordTaskCreated(task.TaskType)
	rw.Created(taskResponse(task))
}

// CreateTask creates an arbitrary background task.
// POST /api/tasks/task
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w)

	var payload models.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		rw.BadRequest("Invalid JSON body")
		return
	}
	if ve := validation.ValidateStruct(&payload); ve != nil {
		rw.ValidationError(ve)
		return
	}

	priority := int32(database.TaskPriorityDefault)
	if payload.Priority != nil {
		priority = *payload.Priority
	}

	task, err := h.store.CreateTask(r.Context(), payload.TaskType, payload.TaskData, priority, payload.AccountID)
	if err != nil {
		rw.DatabaseError(err)
		return
	}

	metrics.RecordTaskCreated(task.TaskType)
	rw.Created(taskResponse(task))
}

// TrackCopyResponse acknowledges a trainer-id copy event.
type TrackCopyResponse struct {
	Success     bool  `json:"success"`
	CopyCount   int32 `json:"copy_count"`
	TaskCreated bool  `json:"task_created"`
}

// TrackTrainerCopy counts a trainer-id copy on the frontend. Heavily copied
// trainers with large follower counts get periodic recheck tasks.
// POST /api/tasks/track-copy/{trainer_id}
func (h *Handler) TrackTrainerCopy(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w)

	trainerID := chi.URLParam(r, "trainer_id")
	if !validation.IsTrainerID(trainerID) {
		rw.BadRequest("trainer_id must be 9-12 digits")
		return
	}

	copyCount, taskCreated, err := h.store.TrackTrainerCopy(r.Context(), trainerID)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	if taskCreated {
		metrics.RecordTaskCreated("friend")
	}

	rw.Success(TrackCopyResponse{
		Success:     true,
		CopyCount:   copyCount,
		TaskCreated: taskCreated,
	})
}

// GetTrainerStatus reports whether a trainer's friend list has room.
// GET /api/tasks/trainer/{trainer_id}/status
func (h *Handler) GetTrainerStatus(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w)

	trainerID := chi.URLParam(r, "trainer_id")
	if !validation.IsTrainerID(trainerID) {
		rw.BadRequest("trainer_id must be 9-12 digits")
		return
	}

	status, err := h.store.TrainerStatus(r.Context(), trainerID)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.Success(status)
}

func taskResponse(task *models.Task) models.TaskResponse {
	return models.TaskResponse{
		ID:        task.ID,
		TaskType:  task.TaskType,
		TaskData:  task.TaskData,
		Priority:  task.Priority,
		Status:    task.Status,
		AccountID: task.AccountID,
		CreatedAt: task.CreatedAt,
		UpdatedAt: task.UpdatedAt,
	}
}
