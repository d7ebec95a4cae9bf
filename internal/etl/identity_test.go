package etl

import "testing"

func TestIdentityMap(t *testing.T) {
	t.Run("ResolveAndLen", func(t *testing.T) {
		m := NewIdentityMap()
		m.Add("legacy-1", "new-1")
		m.Add("legacy-2", "new-2")

		if m.Len() != 2 {
			t.Errorf("expected 2 mappings, got %d", m.Len())
		}

		id, ok := m.Resolve("legacy-2")
		if !ok || id != "new-2" {
			t.Errorf("expected new-2, got %q (ok=%v)", id, ok)
		}

		if _, ok := m.Resolve("legacy-3"); ok {
			t.Error("expected miss for unknown legacy ID")
		}
	})

	t.Run("FirstIsInsertionOrder", func(t *testing.T) {
		m := NewIdentityMap()
		if _, ok := m.First(); ok {
			t.Error("expected no first entry in empty map")
		}

		m.Add("legacy-b", "new-b")
		m.Add("legacy-a", "new-a")

		first, ok := m.First()
		if !ok || first != "new-b" {
			t.Errorf("expected first-added entry new-b, got %q (ok=%v)", first, ok)
		}
	})

	t.Run("ReAddKeepsPosition", func(t *testing.T) {
		m := NewIdentityMap()
		m.Add("legacy-1", "new-1")
		m.Add("legacy-2", "new-2")
		m.Add("legacy-1", "replacement")

		if m.Len() != 2 {
			t.Errorf("expected 2 mappings after re-add, got %d", m.Len())
		}

		first, _ := m.First()
		if first != "replacement" {
			t.Errorf("expected updated first entry, got %q", first)
		}
	})
}
