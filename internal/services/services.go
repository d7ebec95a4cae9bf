// package services defines interface Source for reading the legacy document store
package services

import (
	"context"
)

// Source defines the read interface over the legacy hierarchical store being
// migrated away from. One call fetches one top-level collection.
type Source interface {
	// Fetch retrieves a flat collection keyed by opaque legacy IDs.
	//
	// An empty or absent collection returns a nil map and nil error; callers
	// can rely on the distinction between "no data" and a fetch failure.
	Fetch(ctx context.Context, collection string) (map[string]RawRecord, error)

	// Name returns the name of the source (e.g., "Firebase")
	Name() string
}

// RawRecord is a raw legacy record: a string-keyed mapping of dynamically
// typed values exactly as stored in the legacy source. Records are read-only;
// normalization produces new values rather than mutating them.
type RawRecord map[string]any

// String returns the first present key holding a string value. Legacy records
// spell the same logical field under several names (mail/email,
// telefonnummer/phone), so accessors take keys in preference order.
func (r RawRecord) String(keys ...string) string {
	for _, key := range keys {
		if v, ok := r[key].(string); ok {
			return v
		}
	}
	return ""
}

// Bool returns the first present key holding a boolean value, or false.
func (r RawRecord) Bool(keys ...string) bool {
	for _, key := range keys {
		if v, ok := r[key].(bool); ok {
			return v
		}
	}
	return false
}

// Slice returns the first present key holding a list value, or nil.
func (r RawRecord) Slice(keys ...string) []any {
	for _, key := range keys {
		if v, ok := r[key].([]any); ok {
			return v
		}
	}
	return nil
}
