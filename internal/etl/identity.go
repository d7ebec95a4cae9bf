package etl

// IdentityMap records legacy ID to newly assigned ID mappings for one entity
// type within a single migration run. Insertion order is preserved so the
// first-migrated entity is a stable choice for default ownership. The map is
// never persisted; each run builds its own and discards it at completion.
type IdentityMap struct {
	ids   map[string]string
	order []string
}

// NewIdentityMap creates an empty [IdentityMap].
func NewIdentityMap() *IdentityMap {
	return &IdentityMap{ids: make(map[string]string)}
}

// Add records a legacy ID to new ID mapping. Re-adding a legacy ID updates
// the mapping without changing its position.
func (m *IdentityMap) Add(legacyID, newID string) {
	if _, exists := m.ids[legacyID]; !exists {
		m.order = append(m.order, legacyID)
	}
	m.ids[legacyID] = newID
}

// Resolve returns the new ID assigned to a legacy ID.
func (m *IdentityMap) Resolve(legacyID string) (string, bool) {
	id, ok := m.ids[legacyID]
	return id, ok
}

// First returns the new ID of the first-added entry. Ownerless records are
// assigned to this entity by the default-owner policy.
func (m *IdentityMap) First() (string, bool) {
	if len(m.order) == 0 {
		return "", false
	}
	return m.ids[m.order[0]], true
}

// Len returns the number of mappings.
func (m *IdentityMap) Len() int {
	return len(m.ids)
}
