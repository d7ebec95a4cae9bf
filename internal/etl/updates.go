package etl

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a migration run.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	FetchUsers Phase = iota
	MigrateUsers
	FetchContacts
	MigrateContacts
	FetchTasks
	MigrateTasks
	Finished
)

func (p Phase) String() string {
	switch p {
	case FetchUsers:
		return "fetch_users"
	case MigrateUsers:
		return "migrate_users"
	case FetchContacts:
		return "fetch_contacts"
	case MigrateContacts:
		return "migrate_contacts"
	case FetchTasks:
		return "fetch_tasks"
	case MigrateTasks:
		return "migrate_tasks"
	case Finished:
		return "finished"
	default:
		return ""
	}
}

func fetchUpdate(phase Phase, collection string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   phase,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching %s from legacy store...", collection),
	}
}

func recordUpdate(phase Phase, step, total int, label string, err error) ProgressUpdate {
	mark := "✓"
	if err != nil {
		mark = "✗"
	}
	return ProgressUpdate{
		Phase:   phase,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s %s", step, total, mark, label),
	}
}

func finishedUpdate(report *Report) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Finished,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Migration finished: %d migrated, %d failed", report.TotalSucceeded(), report.TotalFailed()),
		Data:    report,
	}
}
