package hierarchy

import "github.com/alexanderramin/gantt/internal/domain"

// LinkChildren fills the Children list of every task that has none from
// the parent pointers of the other tasks, in collection order. Tasks that
// already list children are left alone. The input is not modified.
func LinkChildren(tasks []domain.Task) []domain.Task {
	derived := make(map[string][]string)
	for _, t := range tasks {
		if t.Parent != "" {
			derived[t.Parent] = append(derived[t.Parent], t.ID)
		}
	}

	out := make([]domain.Task, len(tasks))
	for i, t := range tasks {
		c := t.Clone()
		if len(c.Children) == 0 && len(derived[t.ID]) > 0 {
			c.Children = append([]string(nil), derived[t.ID]...)
		}
		out[i] = c
	}
	return out
}
