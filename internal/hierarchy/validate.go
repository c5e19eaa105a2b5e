package hierarchy

import (
	"fmt"
	"slices"

	"github.com/alexanderramin/gantt/internal/domain"
)

type IssueKind string

const (
	IssueEmptyID        IssueKind = "empty_id"
	IssueDuplicateID    IssueKind = "duplicate_id"
	IssueMissingParent  IssueKind = "missing_parent"
	IssueUnknownChild   IssueKind = "unknown_child"
	IssueParentMismatch IssueKind = "parent_mismatch"
	IssueCycle          IssueKind = "cycle"
	IssueEndBeforeStart IssueKind = "end_before_start"
	IssueSecondaryRange IssueKind = "secondary_end_before_start"
)

// Issue is one structural problem found in a task collection. Layout
// tolerates all of them; they explain why rows are missing or misplaced.
type Issue struct {
	Kind    IssueKind `json:"kind"`
	TaskID  string    `json:"taskId"`
	Message string    `json:"message"`
}

func (i Issue) String() string { return i.Message }

func (i Issue) Error() string { return i.Message }

// Validate checks that tasks form a consistent forest. Cycle issues come
// last; everything else follows collection order.
func Validate(tasks []domain.Task) []Issue {
	var issues []Issue
	add := func(kind IssueKind, id, format string, args ...any) {
		issues = append(issues, Issue{Kind: kind, TaskID: id, Message: fmt.Sprintf(format, args...)})
	}

	byID := make(map[string]domain.Task, len(tasks))
	for i, t := range tasks {
		if t.ID == "" {
			add(IssueEmptyID, "", "task at position %d has no id", i)
			continue
		}
		if _, dup := byID[t.ID]; dup {
			add(IssueDuplicateID, t.ID, "duplicate task id %q", t.ID)
			continue
		}
		byID[t.ID] = t
	}

	for _, t := range tasks {
		if t.ID == "" {
			continue
		}
		if t.Parent != "" {
			parent, ok := byID[t.Parent]
			switch {
			case !ok:
				add(IssueMissingParent, t.ID, "task %q references missing parent %q; it and its subtree are hidden", t.ID, t.Parent)
			case !slices.Contains(parent.Children, t.ID):
				add(IssueParentMismatch, t.ID, "task %q names parent %q but is not among its children", t.ID, t.Parent)
			}
		}
		for _, c := range t.Children {
			child, ok := byID[c]
			if !ok {
				add(IssueUnknownChild, t.ID, "task %q lists unknown child %q", t.ID, c)
				continue
			}
			if child.Parent != t.ID {
				add(IssueParentMismatch, c, "task %q is listed as a child of %q but its parent is %q", c, t.ID, child.Parent)
			}
		}
		if t.HasDates() && t.EndDate.Before(t.StartDate) {
			add(IssueEndBeforeStart, t.ID, "task %q ends before it starts", t.ID)
		}
		if t.HasSecondaryRange() && t.EndDate2.Before(t.StartDate2) {
			add(IssueSecondaryRange, t.ID, "task %q secondary range ends before it starts", t.ID)
		}
	}

	for _, id := range cycleMembers(tasks, byID) {
		add(IssueCycle, id, "task %q is part of a parent cycle", id)
	}
	return issues
}

// cycleMembers follows parent pointers and children lists and returns the
// ids that can reach themselves, in collection order.
func cycleMembers(tasks []domain.Task, byID map[string]domain.Task) []string {
	const (
		white = iota
		grey
		black
	)
	state := make(map[string]int, len(byID))
	inCycle := make(map[string]bool)

	var stack []string
	var visit func(id string)
	visit = func(id string) {
		state[id] = grey
		stack = append(stack, id)
		for _, next := range successors(byID[id], byID) {
			switch state[next] {
			case white:
				visit(next)
			case grey:
				for i := len(stack) - 1; i >= 0; i-- {
					inCycle[stack[i]] = true
					if stack[i] == next {
						break
					}
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[id] = black
	}

	for _, t := range tasks {
		if _, ok := byID[t.ID]; ok && state[t.ID] == white {
			visit(t.ID)
		}
	}

	for id, t := range byID {
		cur := t.Parent
		for steps := 0; cur != "" && steps <= len(byID); steps++ {
			if cur == id {
				inCycle[id] = true
				break
			}
			p, ok := byID[cur]
			if !ok {
				break
			}
			cur = p.Parent
		}
	}

	var out []string
	seen := make(map[string]bool)
	for _, t := range tasks {
		if inCycle[t.ID] && !seen[t.ID] {
			seen[t.ID] = true
			out = append(out, t.ID)
		}
	}
	return out
}

// successors are the known children of t, walking downwards.
func successors(t domain.Task, byID map[string]domain.Task) []string {
	var out []string
	for _, c := range t.Children {
		if _, ok := byID[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Messages flattens issues into display strings.
func Messages(issues []Issue) []string {
	out := make([]string, 0, len(issues))
	for _, i := range issues {
		out = append(out, i.Message)
	}
	return out
}
