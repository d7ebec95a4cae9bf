package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/amosley/joinboard/internal/models"
	"github.com/amosley/joinboard/internal/shared"
)

// TaskRepository implements [models.Repository] for [models.Task] persistence.
//
// A task, its subtasks, and its contact assignments are written inside one
// transaction: either every row for the task persists, or none do.
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new [TaskRepository] with the given database connection
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts a task without subtasks or assignments.
func (r *TaskRepository) Create(task *models.Task) error {
	return r.CreateWithRelations(task, nil, nil)
}

// CreateWithRelations inserts a task together with its subtasks and its
// contact assignment links in a single transaction.
//
// Assignment inserts use ON CONFLICT DO NOTHING, so a contact listed twice
// produces one link. A failure on any row rolls back the whole task and
// surfaces as [shared.ErrTransactionFail].
func (r *TaskRepository) CreateWithRelations(task *models.Task, subtasks []models.Subtask, contactIDs []string) error {
	sequence, err := NextSequence(r.db, "tasks")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	task.SetID(id)
	task.SetSequence(sequence)

	if err := task.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO tasks (id, sequence, creator_user_id, title, description, due_date, priority, category, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = tx.Exec(query, id, sequence, task.CreatorUserID(), task.Title(), task.Description(), task.DueDate(), task.Priority(), task.Category(), task.Status(), task.CreatedAt(), task.UpdatedAt())
	if err != nil {
		return fmt.Errorf("%w: insert task: %v", shared.ErrTransactionFail, err)
	}

	for i := range subtasks {
		subtasks[i].ID = shared.GenerateID()
		subtasks[i].TaskID = id

		// Legacy records with an unrecognized subtask shape yield an empty
		// title; the NOT NULL constraint rejects it and the task rolls back.
		var title any = subtasks[i].Title
		if subtasks[i].Title == "" {
			title = nil
		}

		_, err = tx.Exec(
			"INSERT INTO subtasks (id, task_id, title, is_completed) VALUES (?, ?, ?, ?)",
			subtasks[i].ID, id, title, subtasks[i].IsCompleted,
		)
		if err != nil {
			return fmt.Errorf("%w: insert subtask: %v", shared.ErrTransactionFail, err)
		}
	}

	for _, contactID := range contactIDs {
		_, err = tx.Exec(
			"INSERT INTO task_assignments (task_id, contact_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
			id, contactID,
		)
		if err != nil {
			return fmt.Errorf("%w: insert assignment: %v", shared.ErrTransactionFail, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", shared.ErrTransactionFail, err)
	}

	return nil
}

// Get retrieves a task by ID, excluding soft-deleted tasks
func (r *TaskRepository) Get(id string) (*models.Task, error) {
	query := `
		SELECT id, sequence, creator_user_id, title, description, due_date, priority, category, status, created_at, updated_at, deleted_at
		FROM tasks
		WHERE id = ? AND deleted_at IS NULL
	`

	task, err := scanTask(r.db.QueryRow(query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: task %s", shared.ErrNotFound, id)
	}
	return task, err
}

// Subtasks returns the subtasks belonging to a task.
func (r *TaskRepository) Subtasks(taskID string) ([]models.Subtask, error) {
	rows, err := r.db.Query("SELECT id, task_id, title, is_completed FROM subtasks WHERE task_id = ?", taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to query subtasks: %w", err)
	}
	defer rows.Close()

	var subtasks []models.Subtask
	for rows.Next() {
		var s models.Subtask
		if err := rows.Scan(&s.ID, &s.TaskID, &s.Title, &s.IsCompleted); err != nil {
			return nil, fmt.Errorf("failed to scan subtask: %w", err)
		}
		subtasks = append(subtasks, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return subtasks, nil
}

// AssignedContacts returns the contacts linked to a task via task_assignments.
func (r *TaskRepository) AssignedContacts(taskID string) ([]*models.Contact, error) {
	query := `
		SELECT c.id, c.sequence, c.owner_user_id, c.name, c.email, c.phone, c.initials, c.color, c.created_at, c.updated_at, c.deleted_at
		FROM contacts c
		JOIN task_assignments ta ON ta.contact_id = c.id
		WHERE ta.task_id = ? AND c.deleted_at IS NULL
		ORDER BY c.name ASC
	`

	rows, err := r.db.Query(query, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to query assigned contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*models.Contact
	for rows.Next() {
		contact, err := scanContact(rows.Scan)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, contact)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return contacts, nil
}

// Update modifies an existing task in the database
func (r *TaskRepository) Update(task *models.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	task.SetUpdatedAt(now)

	query := `
		UPDATE tasks
		SET title = ?, description = ?, due_date = ?, priority = ?, category = ?, status = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, task.Title(), task.Description(), task.DueDate(), task.Priority(), task.Category(), task.Status(), now, task.ID())
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: task %s", shared.ErrNotFound, task.ID())
	}

	return nil
}

// UpdateStatus moves a task to a new board column.
func (r *TaskRepository) UpdateStatus(id string, status models.Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: invalid status %q", shared.ErrInvalidInput, status)
	}

	result, err := r.db.Exec(
		"UPDATE tasks SET status = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL",
		status, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: task %s", shared.ErrNotFound, id)
	}

	return nil
}

// Delete soft-deletes a task by ID. Subtasks and assignments are retained
// until the row is hard-deleted, at which point they cascade.
func (r *TaskRepository) Delete(id string) error {
	now := time.Now()

	result, err := r.db.Exec(
		"UPDATE tasks SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL",
		now, id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: task %s", shared.ErrNotFound, id)
	}

	return nil
}

// List retrieves all tasks matching the given criteria, excluding soft-deleted
// tasks. Results are ordered newest first.
func (r *TaskRepository) List(criteria map[string]any) ([]*models.Task, error) {
	query := `
		SELECT id, sequence, creator_user_id, title, description, due_date, priority, category, status, created_at, updated_at, deleted_at
		FROM tasks
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if creatorID, ok := criteria["creator_user_id"].(string); ok && creatorID != "" {
		query += " AND creator_user_id = ?"
		args = append(args, creatorID)
	}

	if status, ok := criteria["status"].(string); ok && status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}

	query += " ORDER BY sequence DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task, err := scanTask(rows.Scan)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return tasks, nil
}

// scanTask reconstructs a [models.Task] from a row scan function.
func scanTask(scan func(...any) error) (*models.Task, error) {
	var (
		id            string
		sequence      int
		creatorUserID string
		title         string
		description   sql.NullString
		dueDate       sql.NullString
		priority      string
		category      sql.NullString
		status        string
		createdAt     time.Time
		updatedAt     time.Time
		deletedAt     sql.NullTime
	)

	err := scan(&id, &sequence, &creatorUserID, &title, &description, &dueDate, &priority, &category, &status, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan task: %w", err)
	}

	task := models.NewTask(sequence, creatorUserID, title)
	task.SetID(id)
	task.SetDescription(description.String)
	task.SetDueDate(dueDate.String)
	task.SetPriority(models.Priority(priority))
	task.SetCategory(category.String)
	task.SetStatus(models.Status(status))
	task.SetCreatedAt(createdAt)
	task.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		task.SetDeletedAt(&deletedAt.Time)
	}

	return task, nil
}
