package models

import (
	"fmt"
	"strings"

	"github.com/amosley/joinboard/internal/shared"
)

// Status enumerates the board columns a task can occupy.
type Status string

const (
	StatusTodo             Status = "todo"
	StatusInProgress       Status = "in_progress"
	StatusAwaitingFeedback Status = "awaiting_feedback"
	StatusDone             Status = "done"
)

// Valid reports whether the status is one of the canonical values.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusAwaitingFeedback, StatusDone:
		return true
	}
	return false
}

// Priority enumerates task urgency levels.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether the priority is one of the canonical values.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task represents a board card created by exactly one user, carrying zero or
// more subtasks and zero or more contact assignments.
type Task struct {
	base
	creatorUserID string
	title         string
	description   string
	dueDate       string
	priority      Priority
	category      string
	status        Status
}

// NewTask creates a Task with medium priority and todo status defaults.
func NewTask(sequence int, creatorUserID, title string) *Task {
	return &Task{
		base:          newBase(sequence),
		creatorUserID: creatorUserID,
		title:         title,
		priority:      PriorityMedium,
		status:        StatusTodo,
	}
}

func (t *Task) CreatorUserID() string { return t.creatorUserID }
func (t *Task) Title() string         { return t.title }
func (t *Task) Description() string   { return t.description }
func (t *Task) DueDate() string       { return t.dueDate }
func (t *Task) Priority() Priority    { return t.priority }
func (t *Task) Category() string      { return t.category }
func (t *Task) Status() Status        { return t.status }

func (t *Task) SetCreatorUserID(id string) { t.creatorUserID = id }
func (t *Task) SetTitle(title string)      { t.title = title }
func (t *Task) SetDescription(d string)    { t.description = d }
func (t *Task) SetDueDate(d string)        { t.dueDate = d }
func (t *Task) SetPriority(p Priority)     { t.priority = p }
func (t *Task) SetCategory(c string)       { t.category = c }
func (t *Task) SetStatus(s Status)         { t.status = s }

// Validate checks required fields and enum membership.
func (t *Task) Validate() error {
	if t.creatorUserID == "" {
		return fmt.Errorf("%w: task creator is required", shared.ErrInvalidInput)
	}
	if strings.TrimSpace(t.title) == "" {
		return fmt.Errorf("%w: task title is required", shared.ErrInvalidInput)
	}
	if !t.priority.Valid() {
		return fmt.Errorf("%w: invalid priority %q", shared.ErrInvalidInput, t.priority)
	}
	if !t.status.Valid() {
		return fmt.Errorf("%w: invalid status %q", shared.ErrInvalidInput, t.status)
	}
	return nil
}

// Subtask is a checklist item owned exclusively by one task.
type Subtask struct {
	ID          string `json:"id"`
	TaskID      string `json:"task_id"`
	Title       string `json:"title"`
	IsCompleted bool   `json:"is_completed"`
}

// TaskAssignment links a task to a contact. Uniqueness is enforced on the
// (task, contact) pair.
type TaskAssignment struct {
	TaskID    string `json:"task_id"`
	ContactID string `json:"contact_id"`
}
