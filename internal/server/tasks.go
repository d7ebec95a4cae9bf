package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/amosley/joinboard/internal/models"
	"github.com/amosley/joinboard/internal/shared"
)

type taskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Priority    string `json:"priority"`
	Category    string `json:"category"`
	Status      string `json:"status"`
	Subtasks    []struct {
		Title       string `json:"title"`
		IsCompleted bool   `json:"is_completed"`
	} `json:"subtasks"`
	AssignedContacts []string `json:"assigned_contacts"`
}

type statusRequest struct {
	Status string `json:"status"`
}

// ListTasks returns the authenticated user's tasks, optionally filtered by
// the status query parameter.
func (a *API) ListTasks(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "access denied")
		return
	}

	criteria := map[string]any{"creator_user_id": claims.UserID}
	if status := r.URL.Query().Get("status"); status != "" {
		if !models.Status(status).Valid() {
			writeError(w, http.StatusBadRequest, "invalid status filter")
			return
		}
		criteria["status"] = status
	}

	tasks, err := a.tasks.List(criteria)
	if err != nil {
		a.logger.Error("failed to list tasks", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	dtos := []taskDTO{}
	for _, task := range tasks {
		dto, err := toTaskDTO(a.tasks, task)
		if err != nil {
			a.logger.Error("failed to assemble task", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		dtos = append(dtos, dto)
	}

	writeJSON(w, http.StatusOK, dtos)
}

// GetTask returns a single task with its subtasks and assigned contacts.
func (a *API) GetTask(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "access denied")
		return
	}

	task, ok := a.ownedTask(w, r.PathValue("id"), claims.UserID)
	if !ok {
		return
	}

	dto, err := toTaskDTO(a.tasks, task)
	if err != nil {
		a.logger.Error("failed to assemble task", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, dto)
}

// CreateTask inserts a task with its subtasks and contact assignments in one
// transaction. Assigned contacts must belong to the authenticated user.
func (a *API) CreateTask(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "access denied")
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task := models.NewTask(0, claims.UserID, req.Title)
	task.SetDescription(req.Description)
	task.SetDueDate(req.DueDate)
	task.SetCategory(req.Category)
	if req.Priority != "" {
		task.SetPriority(models.Priority(req.Priority))
	}
	if req.Status != "" {
		task.SetStatus(models.Status(req.Status))
	}

	var subtasks []models.Subtask
	for _, s := range req.Subtasks {
		subtasks = append(subtasks, models.Subtask{Title: s.Title, IsCompleted: s.IsCompleted})
	}

	for _, contactID := range req.AssignedContacts {
		if _, ok := a.ownedContact(w, contactID, claims.UserID); !ok {
			return
		}
	}

	if err := a.tasks.CreateWithRelations(task, subtasks, req.AssignedContacts); err != nil {
		if errors.Is(err, shared.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		a.logger.Error("failed to create task", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	dto, err := toTaskDTO(a.tasks, task)
	if err != nil {
		a.logger.Error("failed to assemble task", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, dto)
}

// UpdateTask modifies a task's scalar fields. Subtasks and assignments are
// not replaced through this endpoint.
func (a *API) UpdateTask(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "access denied")
		return
	}

	task, ok := a.ownedTask(w, r.PathValue("id"), claims.UserID)
	if !ok {
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task.SetTitle(req.Title)
	task.SetDescription(req.Description)
	task.SetDueDate(req.DueDate)
	task.SetCategory(req.Category)
	if req.Priority != "" {
		task.SetPriority(models.Priority(req.Priority))
	}
	if req.Status != "" {
		task.SetStatus(models.Status(req.Status))
	}

	if err := a.tasks.Update(task); err != nil {
		if errors.Is(err, shared.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		a.logger.Error("failed to update task", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	dto, err := toTaskDTO(a.tasks, task)
	if err != nil {
		a.logger.Error("failed to assemble task", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, dto)
}

// UpdateTaskStatus moves a task to another board column.
func (a *API) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "access denied")
		return
	}

	task, ok := a.ownedTask(w, r.PathValue("id"), claims.UserID)
	if !ok {
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := a.tasks.UpdateStatus(task.ID(), models.Status(req.Status)); err != nil {
		if errors.Is(err, shared.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		a.logger.Error("failed to update task status", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": task.ID(), "status": req.Status})
}

// DeleteTask removes a task owned by the authenticated user.
func (a *API) DeleteTask(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "access denied")
		return
	}

	task, ok := a.ownedTask(w, r.PathValue("id"), claims.UserID)
	if !ok {
		return
	}

	if err := a.tasks.Delete(task.ID()); err != nil {
		a.logger.Error("failed to delete task", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ownedTask loads the task and enforces ownership. Tasks created by someone
// else report not found rather than forbidden.
func (a *API) ownedTask(w http.ResponseWriter, id, userID string) (*models.Task, bool) {
	task, err := a.tasks.Get(id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			writeError(w, http.StatusNotFound, "task not found")
			return nil, false
		}
		a.logger.Error("failed to load task", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return nil, false
	}

	if task.CreatorUserID() != userID {
		writeError(w, http.StatusNotFound, "task not found")
		return nil, false
	}

	return task, true
}
