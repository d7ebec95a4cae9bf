package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/amosley/joinboard/internal/models"
	"github.com/amosley/joinboard/internal/shared"
)

// ContactRepository implements [models.Repository] for [models.Contact] persistence.
//
// Contacts carry no natural uniqueness key; repeated inserts of the same
// legacy contact produce duplicate rows. That matches the legacy data, which
// has no stable contact identity beyond its opaque ID.
type ContactRepository struct {
	db *sql.DB
}

// NewContactRepository creates a new [ContactRepository] with the given database connection
func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// Create inserts a new contact into the database with generated ID and sequence
func (r *ContactRepository) Create(contact *models.Contact) error {
	sequence, err := NextSequence(r.db, "contacts")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	contact.SetID(id)
	contact.SetSequence(sequence)

	if err := contact.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO contacts (id, sequence, owner_user_id, name, email, phone, initials, color, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, id, sequence, contact.OwnerUserID(), contact.Name(), contact.Email(), contact.Phone(), contact.Initials(), contact.Color(), contact.CreatedAt(), contact.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert contact: %w", err)
	}

	return nil
}

// Get retrieves a contact by ID, excluding soft-deleted contacts
func (r *ContactRepository) Get(id string) (*models.Contact, error) {
	query := `
		SELECT id, sequence, owner_user_id, name, email, phone, initials, color, created_at, updated_at, deleted_at
		FROM contacts
		WHERE id = ? AND deleted_at IS NULL
	`

	contact, err := scanContact(r.db.QueryRow(query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: contact %s", shared.ErrNotFound, id)
	}
	return contact, err
}

// IDByName returns the ID of the first non-deleted contact with the given
// display name, or [shared.ErrNotFound] when no contact matches.
//
// Name lookup is the fallback link for legacy task assignments that
// reference contacts by display name only; ambiguity resolves to the
// earliest-migrated contact.
func (r *ContactRepository) IDByName(name string) (string, error) {
	var id string
	query := `
		SELECT id FROM contacts
		WHERE name = ? AND deleted_at IS NULL
		ORDER BY sequence ASC
		LIMIT 1
	`

	err := r.db.QueryRow(query, name).Scan(&id)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("%w: contact named %q", shared.ErrNotFound, name)
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up contact by name: %w", err)
	}

	return id, nil
}

// Update modifies an existing contact in the database
func (r *ContactRepository) Update(contact *models.Contact) error {
	if err := contact.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	contact.SetUpdatedAt(now)

	query := `
		UPDATE contacts
		SET name = ?, email = ?, phone = ?, initials = ?, color = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, contact.Name(), contact.Email(), contact.Phone(), contact.Initials(), contact.Color(), now, contact.ID())
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: contact %s", shared.ErrNotFound, contact.ID())
	}

	return nil
}

// Delete soft-deletes a contact by ID
func (r *ContactRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE contacts
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: contact %s", shared.ErrNotFound, id)
	}

	return nil
}

// List retrieves all contacts matching the given criteria, excluding soft-deleted contacts.
// Results are ordered by name for display.
func (r *ContactRepository) List(criteria map[string]any) ([]*models.Contact, error) {
	query := `
		SELECT id, sequence, owner_user_id, name, email, phone, initials, color, created_at, updated_at, deleted_at
		FROM contacts
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if ownerID, ok := criteria["owner_user_id"].(string); ok && ownerID != "" {
		query += " AND owner_user_id = ?"
		args = append(args, ownerID)
	}

	if name, ok := criteria["name"].(string); ok && name != "" {
		query += " AND name = ?"
		args = append(args, name)
	}

	query += " ORDER BY name ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
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

// scanContact reconstructs a [models.Contact] from a row scan function.
func scanContact(scan func(...any) error) (*models.Contact, error) {
	var (
		id          string
		sequence    int
		ownerUserID string
		name        string
		email       sql.NullString
		phone       sql.NullString
		initials    sql.NullString
		color       sql.NullString
		createdAt   time.Time
		updatedAt   time.Time
		deletedAt   sql.NullTime
	)

	err := scan(&id, &sequence, &ownerUserID, &name, &email, &phone, &initials, &color, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan contact: %w", err)
	}

	contact := models.NewContact(sequence, ownerUserID, name)
	contact.SetID(id)
	contact.SetEmail(email.String)
	contact.SetPhone(phone.String)
	if initials.Valid {
		contact.SetInitials(initials.String)
	}
	contact.SetColor(color.String)
	contact.SetCreatedAt(createdAt)
	contact.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		contact.SetDeletedAt(&deletedAt.Time)
	}

	return contact, nil
}
