package etl

import (
	"time"
)

// EntityCount tallies migration outcomes for one entity type.
type EntityCount struct {
	Attempted int `json:"attempted"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// Failure describes a single record that could not be migrated.
type Failure struct {
	Entity   string `json:"entity"`
	LegacyID string `json:"legacy_id"`
	Reason   string `json:"reason"`
}

// Report aggregates the outcome of one migration run: per-entity counts and
// the list of per-record failures with their legacy identifiers.
type Report struct {
	Users      EntityCount `json:"users"`
	Contacts   EntityCount `json:"contacts"`
	Tasks      EntityCount `json:"tasks"`
	Failures   []Failure   `json:"failures,omitempty"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt time.Time   `json:"finished_at"`
	FinalState State       `json:"final_state"`
}

// NewReport creates a [Report] with the start timestamp set.
func NewReport() *Report {
	return &Report{StartedAt: time.Now()}
}

// counter returns the tally for an entity name.
func (r *Report) counter(entity string) *EntityCount {
	switch entity {
	case "users":
		return &r.Users
	case "contacts":
		return &r.Contacts
	default:
		return &r.Tasks
	}
}

// Success records one successfully migrated record.
func (r *Report) Success(entity string) {
	c := r.counter(entity)
	c.Attempted++
	c.Succeeded++
}

// Failure records one failed record with its legacy ID and reason.
func (r *Report) Failure(entity, legacyID string, err error) {
	c := r.counter(entity)
	c.Attempted++
	c.Failed++
	r.Failures = append(r.Failures, Failure{Entity: entity, LegacyID: legacyID, Reason: err.Error()})
}

// TotalFailed returns the number of failed records across entity types.
func (r *Report) TotalFailed() int {
	return r.Users.Failed + r.Contacts.Failed + r.Tasks.Failed
}

// TotalSucceeded returns the number of migrated records across entity types.
func (r *Report) TotalSucceeded() int {
	return r.Users.Succeeded + r.Contacts.Succeeded + r.Tasks.Succeeded
}

// HasFailures reports whether any record failed.
func (r *Report) HasFailures() bool {
	return r.TotalFailed() > 0
}

// Finish stamps the end time and final state.
func (r *Report) Finish(state State) {
	r.FinishedAt = time.Now()
	r.FinalState = state
}

// Duration returns the wall time of the run.
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
