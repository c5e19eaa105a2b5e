package hierarchy

import (
	"encoding/json"
	"maps"
	"slices"

	"github.com/alexanderramin/gantt/internal/domain"
)

// ExpandedSet is an immutable snapshot of the task ids whose children are
// visible. Every command returns a new snapshot.
type ExpandedSet struct {
	ids map[string]struct{}
}

func NewExpandedSet(ids ...string) ExpandedSet {
	m := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id != "" {
			m[id] = struct{}{}
		}
	}
	return ExpandedSet{ids: m}
}

// ExpandAll returns a snapshot holding every task that has children.
func ExpandAll(tasks []domain.Task) ExpandedSet {
	m := make(map[string]struct{})
	for _, t := range tasks {
		if t.IsBranch() {
			m[t.ID] = struct{}{}
		}
	}
	return ExpandedSet{ids: m}
}

// CollapseAll returns the empty snapshot.
func CollapseAll() ExpandedSet {
	return ExpandedSet{}
}

func (s ExpandedSet) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

func (s ExpandedSet) Len() int { return len(s.ids) }

// IDs returns the members in ascending order.
func (s ExpandedSet) IDs() []string {
	return slices.Sorted(maps.Keys(s.ids))
}

func (s ExpandedSet) With(id string) ExpandedSet {
	if s.Has(id) {
		return s
	}
	m := maps.Clone(s.ids)
	if m == nil {
		m = make(map[string]struct{}, 1)
	}
	m[id] = struct{}{}
	return ExpandedSet{ids: m}
}

func (s ExpandedSet) Without(id string) ExpandedSet {
	if !s.Has(id) {
		return s
	}
	m := maps.Clone(s.ids)
	delete(m, id)
	return ExpandedSet{ids: m}
}

// Toggle flips membership of id.
func (s ExpandedSet) Toggle(id string) ExpandedSet {
	if s.Has(id) {
		return s.Without(id)
	}
	return s.With(id)
}

// Fingerprint is a stable string form usable as a cache key.
func (s ExpandedSet) Fingerprint() string {
	b, _ := json.Marshal(s.IDs())
	return string(b)
}

func (s ExpandedSet) MarshalJSON() ([]byte, error) {
	ids := s.IDs()
	if ids == nil {
		ids = []string{}
	}
	return json.Marshal(ids)
}

func (s *ExpandedSet) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewExpandedSet(ids...)
	return nil
}
