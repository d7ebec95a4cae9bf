package etl

import (
	"github.com/amosley/joinboard/internal/models"
	"github.com/amosley/joinboard/internal/services"
)

// LegacyUser is a user record normalized out of the legacy store.
type LegacyUser struct {
	Name     string
	Email    string
	Password string // stored as plaintext in the legacy store; hashed during load
}

// LegacyContact is a contact record normalized out of the legacy store.
type LegacyContact struct {
	Name     string
	Email    string
	Phone    string
	Initials string
	Color    string
}

// LegacyTask is a task record normalized out of the legacy store, with
// subtasks flattened and assignments kept as display names for the
// name-lookup link step.
type LegacyTask struct {
	Title         string
	Description   string
	DueDate       string
	Category      string
	Status        models.Status
	Priority      models.Priority
	Subtasks      []models.Subtask
	AssignedNames []string
}

// statusFromLegacy maps legacy board position tokens onto canonical statuses.
var statusFromLegacy = map[string]models.Status{
	"toDo":          models.StatusTodo,
	"inProgress":    models.StatusInProgress,
	"awaitFeedback": models.StatusAwaitingFeedback,
	"done":          models.StatusDone,
}

// NormalizeStatus maps a legacy status token to its canonical value.
// Unrecognized tokens fall back to todo rather than failing the record.
func NormalizeStatus(token string) models.Status {
	if status, ok := statusFromLegacy[token]; ok {
		return status
	}
	return models.StatusTodo
}

// NormalizePriority maps a legacy priority token to its canonical value.
// The legacy "urgent" synonym maps to high; an absent token defaults to
// medium, as does anything unrecognized.
func NormalizePriority(token string) models.Priority {
	switch token {
	case "urgent":
		return models.PriorityHigh
	case "":
		return models.PriorityMedium
	}
	if p := models.Priority(token); p.Valid() {
		return p
	}
	return models.PriorityMedium
}

// NormalizeUser extracts a [LegacyUser] from a raw record. The email field
// appears under either "mail" or "email" in legacy data.
func NormalizeUser(raw services.RawRecord) LegacyUser {
	return LegacyUser{
		Name:     raw.String("name"),
		Email:    raw.String("mail", "email"),
		Password: raw.String("password"),
	}
}

// NormalizeContact extracts a [LegacyContact] from a raw record. The phone
// number appears under either "telefonnummer" or "phone" in legacy data.
func NormalizeContact(raw services.RawRecord) LegacyContact {
	return LegacyContact{
		Name:     raw.String("name"),
		Email:    raw.String("email"),
		Phone:    raw.String("telefonnummer", "phone"),
		Initials: raw.String("initials"),
		Color:    raw.String("color"),
	}
}

// NormalizeTask extracts a [LegacyTask] from a raw record, mapping the legacy
// status and priority tokens and flattening subtask and assignment shapes.
func NormalizeTask(raw services.RawRecord) LegacyTask {
	task := LegacyTask{
		Title:       raw.String("Title", "title"),
		Description: raw.String("Description", "description"),
		DueDate:     raw.String("DueDate", "due_date"),
		Category:    raw.String("Category", "category"),
		Status:      NormalizeStatus(raw.String("PositionID", "status")),
		Priority:    NormalizePriority(raw.String("Prio", "priority")),
	}

	for _, item := range raw.Slice("Subtasks") {
		// A subtask with an unrecognized shape keeps an empty title; the
		// loader's NOT NULL constraint then fails that task's transaction.
		var subtask models.Subtask
		if m, ok := item.(map[string]any); ok {
			record := services.RawRecord(m)
			subtask.Title = record.String("title", "Title")
			subtask.IsCompleted = record.Bool("completed", "is_completed")
		}
		task.Subtasks = append(task.Subtasks, subtask)
	}

	for _, item := range raw.Slice("AssignedTo") {
		if name, ok := item.(string); ok && name != "" {
			task.AssignedNames = append(task.AssignedNames, name)
		}
	}

	return task
}
