package repositories

import (
	"database/sql"
	"fmt"
)

// Metrics aggregates the dashboard numbers for one user's board.
type Metrics struct {
	TodoCount             int    `json:"todo_count"`
	InProgressCount       int    `json:"in_progress_count"`
	AwaitingFeedbackCount int    `json:"awaiting_feedback_count"`
	DoneCount             int    `json:"done_count"`
	HighPriorityCount     int    `json:"high_priority_count"`
	TotalTasks            int    `json:"total_tasks"`
	UrgentDeadline        string `json:"urgent_deadline,omitempty"`
}

// SummaryRepository computes per-user dashboard metrics.
type SummaryRepository struct {
	db *sql.DB
}

// NewSummaryRepository creates a new [SummaryRepository] with the given database connection
func NewSummaryRepository(db *sql.DB) *SummaryRepository {
	return &SummaryRepository{db: db}
}

// Metrics returns status and priority counts for the user's tasks, plus the
// earliest due date among unfinished high-priority tasks.
func (r *SummaryRepository) Metrics(userID string) (*Metrics, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'todo') AS todo_count,
			COUNT(*) FILTER (WHERE status = 'in_progress') AS in_progress_count,
			COUNT(*) FILTER (WHERE status = 'awaiting_feedback') AS awaiting_feedback_count,
			COUNT(*) FILTER (WHERE status = 'done') AS done_count,
			COUNT(*) FILTER (WHERE priority = 'high') AS high_priority_count,
			COUNT(*) AS total_tasks,
			MIN(due_date) FILTER (WHERE priority = 'high' AND status != 'done' AND due_date != '') AS urgent_deadline
		FROM tasks
		WHERE creator_user_id = ? AND deleted_at IS NULL
	`

	var m Metrics
	var deadline sql.NullString

	err := r.db.QueryRow(query, userID).Scan(
		&m.TodoCount,
		&m.InProgressCount,
		&m.AwaitingFeedbackCount,
		&m.DoneCount,
		&m.HighPriorityCount,
		&m.TotalTasks,
		&deadline,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query summary metrics: %w", err)
	}

	m.UrgentDeadline = deadline.String
	return &m, nil
}
