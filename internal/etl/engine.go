package etl

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/amosley/joinboard/internal/auth"
	"github.com/amosley/joinboard/internal/models"
	"github.com/amosley/joinboard/internal/repositories"
	"github.com/amosley/joinboard/internal/services"
	"github.com/amosley/joinboard/internal/shared"
	"github.com/charmbracelet/log"
)

// State enumerates the orchestrator's lifecycle. Stages execute strictly in
// dependency order: users first (contacts need a default owner), contacts
// second (tasks link to them), tasks last.
type State int

const (
	NotStarted State = iota
	MigratingUsers
	MigratingContacts
	MigratingTasks
	Completed
	Failed
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case MigratingUsers:
		return "migrating_users"
	case MigratingContacts:
		return "migrating_contacts"
	case MigratingTasks:
		return "migrating_tasks"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return ""
	}
}

// MarshalJSON encodes the state as its string form in report exports.
func (s State) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", s.String())), nil
}

// Engine orchestrates one migration run: fetch legacy collections, normalize
// record shapes, relink identities, and load into the relational store.
//
// One Engine instance serves one run. Per-record failures never abort the
// run; only an unreachable users collection is fatal, because every later
// stage depends on the user identity map.
type Engine struct {
	source   services.Source
	users    *repositories.UserRepository
	contacts *repositories.ContactRepository
	tasks    *repositories.TaskRepository
	hasher   auth.Hasher
	logger   *log.Logger
	state    State
}

// EngineOpts contains the dependencies for creating an [Engine].
type EngineOpts struct {
	Source   services.Source
	Users    *repositories.UserRepository
	Contacts *repositories.ContactRepository
	Tasks    *repositories.TaskRepository
	Hasher   auth.Hasher
	Logger   *log.Logger
}

// NewEngine creates an [Engine] in the NotStarted state.
func NewEngine(opts EngineOpts) *Engine {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Hasher == nil {
		opts.Hasher = auth.NewBcryptHasher(0)
	}

	return &Engine{
		source:   opts.Source,
		users:    opts.Users,
		contacts: opts.Contacts,
		tasks:    opts.Tasks,
		hasher:   opts.Hasher,
		logger:   opts.Logger,
		state:    NotStarted,
	}
}

// State returns the engine's current lifecycle state.
func (e *Engine) State() State {
	return e.state
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Run executes the full migration and returns its report. The report is
// always non-nil; when the returned error is non-nil the run hit a fatal
// top-level fault and the report covers whatever completed before it.
func (e *Engine) Run(ctx context.Context, progress chan<- ProgressUpdate) (*Report, error) {
	if e.source == nil {
		return nil, fmt.Errorf("%w: legacy source not initialized", shared.ErrSourceUnavailable)
	}

	report := NewReport()

	e.state = MigratingUsers
	userIDs, err := e.migrateUsers(ctx, report, progress)
	if err != nil {
		e.state = Failed
		report.Finish(Failed)
		return report, fmt.Errorf("users stage: %w", err)
	}

	e.state = MigratingContacts
	e.migrateContacts(ctx, report, progress, userIDs)

	e.state = MigratingTasks
	e.migrateTasks(ctx, report, progress, userIDs)

	e.state = Completed
	report.Finish(Completed)
	e.sendProgress(progress, finishedUpdate(report))

	return report, nil
}

// sortedIDs returns the record keys in stable order, so re-runs process
// records identically and the default-owner choice is deterministic.
func sortedIDs(records map[string]services.RawRecord) []string {
	ids := make([]string, 0, len(records))
	for id := range records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// migrateUsers loads the users collection and builds the user identity map.
// The collection is mandatory: a fetch failure here is fatal for the run.
func (e *Engine) migrateUsers(ctx context.Context, report *Report, progress chan<- ProgressUpdate) (*IdentityMap, error) {
	e.sendProgress(progress, fetchUpdate(FetchUsers, "users"))

	records, err := e.source.Fetch(ctx, "users")
	if err != nil {
		return nil, err
	}

	ids := NewIdentityMap()

	if len(records) == 0 {
		e.logger.Warn("no users found in legacy store")
		return ids, nil
	}

	legacyIDs := sortedIDs(records)
	for i, legacyID := range legacyIDs {
		normalized := NormalizeUser(records[legacyID])

		err := e.loadUser(normalized, ids, legacyID)
		if err != nil {
			e.logger.Error("failed to migrate user", "legacy_id", legacyID, "error", err)
			report.Failure("users", legacyID, err)
		} else {
			e.logger.Info("migrated user", "name", normalized.Name)
			report.Success("users")
		}

		e.sendProgress(progress, recordUpdate(MigrateUsers, i+1, len(legacyIDs), normalized.Name, err))
	}

	return ids, nil
}

// loadUser hashes the legacy plaintext password and upserts the user by
// email, recording the resulting ID in the identity map.
func (e *Engine) loadUser(normalized LegacyUser, ids *IdentityMap, legacyID string) error {
	hash, err := e.hasher.Hash(normalized.Password)
	if err != nil {
		return err
	}

	user := models.NewUser(0, normalized.Email, normalized.Name)
	user.SetPasswordHash(hash)

	if err := e.users.UpsertByEmail(user); err != nil {
		return err
	}

	ids.Add(legacyID, user.ID())
	return nil
}

// migrateContacts loads the contact collection. A fetch failure marks the
// stage failed in the report but does not abort the run; tasks degrade to
// zero assignment links.
func (e *Engine) migrateContacts(ctx context.Context, report *Report, progress chan<- ProgressUpdate, userIDs *IdentityMap) *IdentityMap {
	e.sendProgress(progress, fetchUpdate(FetchContacts, "contact"))

	ids := NewIdentityMap()

	records, err := e.source.Fetch(ctx, "contact")
	if err != nil {
		e.logger.Error("contacts stage skipped", "error", err)
		report.Failure("contacts", "-", err)
		return ids
	}

	if len(records) == 0 {
		e.logger.Warn("no contacts found in legacy store")
		return ids
	}

	legacyIDs := sortedIDs(records)
	for i, legacyID := range legacyIDs {
		normalized := NormalizeContact(records[legacyID])

		err := e.loadContact(normalized, userIDs, ids, legacyID)
		if err != nil {
			e.logger.Error("failed to migrate contact", "legacy_id", legacyID, "error", err)
			report.Failure("contacts", legacyID, err)
		} else {
			e.logger.Info("migrated contact", "name", normalized.Name)
			report.Success("contacts")
		}

		e.sendProgress(progress, recordUpdate(MigrateContacts, i+1, len(legacyIDs), normalized.Name, err))
	}

	return ids
}

// loadContact inserts a contact under the default owner. Legacy contacts
// carry no owner reference, so every row lands on the first-migrated user.
func (e *Engine) loadContact(normalized LegacyContact, userIDs, ids *IdentityMap, legacyID string) error {
	owner, ok := userIDs.First()
	if !ok {
		return shared.ErrNoDefaultOwner
	}

	contact := models.NewContact(0, owner, normalized.Name)
	contact.SetEmail(normalized.Email)
	contact.SetPhone(normalized.Phone)
	contact.SetColor(normalized.Color)
	if normalized.Initials != "" {
		contact.SetInitials(normalized.Initials)
	}

	if err := e.contacts.Create(contact); err != nil {
		return err
	}

	ids.Add(legacyID, contact.ID())
	return nil
}

// migrateTasks loads the task collection. Each task commits atomically with
// its subtasks and assignment links; one task's failure rolls back only that
// task and the stage proceeds.
func (e *Engine) migrateTasks(ctx context.Context, report *Report, progress chan<- ProgressUpdate, userIDs *IdentityMap) {
	e.sendProgress(progress, fetchUpdate(FetchTasks, "task"))

	records, err := e.source.Fetch(ctx, "task")
	if err != nil {
		e.logger.Error("tasks stage skipped", "error", err)
		report.Failure("tasks", "-", err)
		return
	}

	if len(records) == 0 {
		e.logger.Warn("no tasks found in legacy store")
		return
	}

	legacyIDs := sortedIDs(records)
	for i, legacyID := range legacyIDs {
		normalized := NormalizeTask(records[legacyID])

		err := e.loadTask(normalized, userIDs)
		if err != nil {
			e.logger.Error("failed to migrate task", "legacy_id", legacyID, "error", err)
			report.Failure("tasks", legacyID, err)
		} else {
			e.logger.Info("migrated task", "title", normalized.Title)
			report.Success("tasks")
		}

		e.sendProgress(progress, recordUpdate(MigrateTasks, i+1, len(legacyIDs), normalized.Title, err))
	}
}

// loadTask resolves assignment names to contact IDs and writes the task unit
// in one transaction. An assignment name with no matching contact is skipped
// without failing the task; the legacy data references contacts by display
// name only and a miss is expected.
func (e *Engine) loadTask(normalized LegacyTask, userIDs *IdentityMap) error {
	creator, ok := userIDs.First()
	if !ok {
		return shared.ErrNoDefaultOwner
	}

	task := models.NewTask(0, creator, normalized.Title)
	task.SetDescription(normalized.Description)
	task.SetDueDate(normalized.DueDate)
	task.SetCategory(normalized.Category)
	task.SetPriority(normalized.Priority)
	task.SetStatus(normalized.Status)

	var contactIDs []string
	for _, name := range normalized.AssignedNames {
		id, err := e.contacts.IDByName(name)
		if errors.Is(err, shared.ErrNotFound) {
			e.logger.Debug("skipping assignment, no matching contact", "name", name)
			continue
		}
		if err != nil {
			return err
		}
		contactIDs = append(contactIDs, id)
	}

	return e.tasks.CreateWithRelations(task, normalized.Subtasks, contactIDs)
}
