package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/amosley/joinboard/internal/models"
	"github.com/amosley/joinboard/internal/shared"
)

// UserRepository implements [models.Repository] for [models.User] persistence.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new [UserRepository] with the given database connection
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user into the database with generated ID and sequence.
//
// A duplicate email surfaces as [shared.ErrConflict]; callers that want
// insert-or-update semantics use [UserRepository.UpsertByEmail] instead.
func (r *UserRepository) Create(user *models.User) error {
	sequence, err := NextSequence(r.db, "users")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	user.SetID(id)
	user.SetSequence(sequence)

	if err := user.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO users (id, sequence, name, initials, email, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, id, sequence, user.Name(), user.Initials(), user.Email(), user.PasswordHash(), user.CreatedAt(), user.UpdatedAt())
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: email %s already exists", shared.ErrConflict, user.Email())
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// UpsertByEmail inserts the user, or updates name, initials, and credential
// in place when a row with the same email already exists. The existing row's
// ID and sequence are preserved and written back onto the model, so rows that
// already reference the user stay valid across re-runs. The update path
// allocates no new sequence, and it revives a soft-deleted row: a record that
// reappears in the legacy store is live again.
func (r *UserRepository) UpsertByEmail(user *models.User) error {
	var id string
	var sequence int
	err := r.db.QueryRow("SELECT id, sequence FROM users WHERE email = ?", user.Email()).Scan(&id, &sequence)
	if err == sql.ErrNoRows {
		return r.Create(user)
	}
	if err != nil {
		return fmt.Errorf("failed to look up user by email: %w", err)
	}

	user.SetID(id)
	user.SetSequence(sequence)

	if err := user.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	user.SetUpdatedAt(now)
	user.SetDeletedAt(nil)

	query := `
		UPDATE users
		SET name = ?, initials = ?, password_hash = ?, updated_at = ?, deleted_at = NULL
		WHERE id = ?
	`

	if _, err := r.db.Exec(query, user.Name(), user.Initials(), user.PasswordHash(), now, id); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}

// Get retrieves a user by ID, excluding soft-deleted users
func (r *UserRepository) Get(id string) (*models.User, error) {
	query := `
		SELECT id, sequence, name, initials, email, password_hash, created_at, updated_at, deleted_at
		FROM users
		WHERE id = ? AND deleted_at IS NULL
	`
	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByEmail retrieves a user by email, excluding soft-deleted users
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	query := `
		SELECT id, sequence, name, initials, email, password_hash, created_at, updated_at, deleted_at
		FROM users
		WHERE email = ? AND deleted_at IS NULL
	`
	return r.scanOne(r.db.QueryRow(query, email))
}

// Update modifies an existing user in the database
func (r *UserRepository) Update(user *models.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	user.SetUpdatedAt(now)

	query := `
		UPDATE users
		SET name = ?, initials = ?, email = ?, password_hash = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, user.Name(), user.Initials(), user.Email(), user.PasswordHash(), now, user.ID())
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: user %s", shared.ErrNotFound, user.ID())
	}

	return nil
}

// Delete soft-deletes a user by ID
func (r *UserRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE users
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: user %s", shared.ErrNotFound, id)
	}

	return nil
}

// List retrieves all users matching the given criteria, excluding soft-deleted users
func (r *UserRepository) List(criteria map[string]any) ([]*models.User, error) {
	query := `
		SELECT id, sequence, name, initials, email, password_hash, created_at, updated_at, deleted_at
		FROM users
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if email, ok := criteria["email"].(string); ok && email != "" {
		query += " AND email = ?"
		args = append(args, email)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows.Scan)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return users, nil
}

// scanOne scans a single [sql.Row] into a [models.User]
func (r *UserRepository) scanOne(row *sql.Row) (*models.User, error) {
	user, err := scanUser(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: user", shared.ErrNotFound)
	}
	return user, err
}

// scanUser reconstructs a [models.User] from a row scan function.
func scanUser(scan func(...any) error) (*models.User, error) {
	var (
		id           string
		sequence     int
		name         string
		initials     string
		email        string
		passwordHash string
		createdAt    time.Time
		updatedAt    time.Time
		deletedAt    sql.NullTime
	)

	err := scan(&id, &sequence, &name, &initials, &email, &passwordHash, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	user := models.NewUser(sequence, email, name)
	user.SetID(id)
	user.SetPasswordHash(passwordHash)
	user.SetCreatedAt(createdAt)
	user.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		user.SetDeletedAt(&deletedAt.Time)
	}

	return user, nil
}
