package cli

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/gantt/internal/domain"
)

// Navigation messages used by views to request view transitions.
// The appModel handles these in its Update method.

// pushViewMsg pushes a new view onto the navigation stack.
type pushViewMsg struct {
	view View
}

// popViewMsg pops the current view off the navigation stack.
type popViewMsg struct{}

// refreshViewMsg asks every view on the stack to recompute its data.
type refreshViewMsg struct{}

// statusMsg replaces the status line.
type statusMsg struct {
	text string
}

// formDoneMsg is sent when a form completes or is cancelled. The appModel
// pops the form, shows status and refreshes the views below.
type formDoneMsg struct {
	status string
}

// sourceReloadedMsg carries the result of re-reading the task file.
type sourceReloadedMsg struct {
	tasks []domain.Task
	err   error
}

func pushView(v View) tea.Cmd {
	return func() tea.Msg { return pushViewMsg{view: v} }
}

func refreshViews() tea.Msg { return refreshViewMsg{} }
