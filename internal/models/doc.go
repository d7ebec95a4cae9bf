// Package models defines domain entities and persistence interfaces for the joinboard task service.
//
// The package contains two categories of types:
//
// 1. Lightweight value types used across layers:
//   - [Subtask] : Checklist item belonging to one task
//   - [TaskAssignment] : Junction value linking a task to a contact
//   - [Status] / [Priority] : Canonical task enumerations
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [User] : Account with unique email, derived initials, and password credential
//   - [Contact] : Address book entry owned by exactly one user
//   - [Task] : Board card with subtasks and contact assignments
//
// All persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
