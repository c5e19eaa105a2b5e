// Package hierarchy derives the visible, ordered rows of a task forest:
// depth-first flattening under an expanded-set and search query, and
// sorting that keeps siblings together under their parent.
package hierarchy

import (
	"strings"
	"sync"

	"github.com/alexanderramin/gantt/internal/domain"
)

// FlattenTasks walks every root in collection order, depth first, and
// emits one row per visible task.
//
// A task is included when the query is empty, its name contains the query
// (case-insensitive) or it has children. Branches always stay visible so
// matching descendants remain reachable. Children are walked only when
// their parent is expanded, whether or not the parent itself matched.
func FlattenTasks(tasks []domain.Task, expanded ExpandedSet, query string) []domain.Row {
	byID := domain.TasksByID(tasks)
	q := strings.ToLower(query)
	rows := make([]domain.Row, 0, len(tasks))
	visited := make(map[string]bool, len(tasks))

	var visit func(id string, level int)
	visit = func(id string, level int) {
		t, ok := byID[id]
		if !ok || visited[id] {
			return
		}
		visited[id] = true

		branch := t.IsBranch()
		open := expanded.Has(id)
		if q == "" || branch || strings.Contains(strings.ToLower(t.Name), q) {
			rows = append(rows, domain.Row{
				Task:        t.Clone(),
				Level:       level,
				IsExpanded:  open,
				HasChildren: branch,
			})
		}
		if branch && open {
			for _, child := range t.Children {
				visit(child, level+1)
			}
		}
	}

	for _, t := range tasks {
		if t.IsRoot() {
			visit(t.ID, 0)
		}
	}
	return rows
}

// Flattener caches the most recent FlattenTasks result. Callers pass a
// revision they bump whenever the task collection changes.
type Flattener struct {
	mu       sync.Mutex
	valid    bool
	revision uint64
	expanded string
	query    string
	rows     []domain.Row
}

// Flatten returns the cached rows when revision, expanded-set and query
// match the previous call, and recomputes otherwise. The returned slice
// is shared; callers must not modify it.
func (f *Flattener) Flatten(revision uint64, tasks []domain.Task, expanded ExpandedSet, query string) []domain.Row {
	f.mu.Lock()
	defer f.mu.Unlock()

	fp := expanded.Fingerprint()
	if f.valid && f.revision == revision && f.expanded == fp && f.query == query {
		return f.rows
	}
	f.rows = FlattenTasks(tasks, expanded, query)
	f.revision, f.expanded, f.query, f.valid = revision, fp, query, true
	return f.rows
}

// Invalidate drops the cached result.
func (f *Flattener) Invalidate() {
	f.mu.Lock()
	f.valid = false
	f.rows = nil
	f.mu.Unlock()
}
