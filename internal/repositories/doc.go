// Package repositories implements SQLite persistence for all domain entities.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// User, contact, and task repositories support soft deletes via deleted_at timestamps and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [UserRepository] : Account persistence with email-keyed upsert for idempotent re-migration
//   - [ContactRepository] : Owner-scoped contact persistence with name-based lookup
//   - [TaskRepository] : Task persistence where a task, its subtasks, and its contact assignments commit in one transaction
//   - [SummaryRepository] : Aggregated dashboard metrics per user
//
// Sequence numbers provide stable, human-readable ordering (e.g., user #42, task #15) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
