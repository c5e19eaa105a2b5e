package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/gantt/internal/cli/formatter"
)

var (
	keyBack = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back"))
	keyQuit = key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit"))
)

// appModel is the root bubbletea Model for the TUI. It manages a view
// stack over the shared chart state.
type appModel struct {
	state     *SharedState
	viewStack []View
	help      help.Model
	quitting  bool
}

func newAppModel(state *SharedState) appModel {
	h := help.New()
	h.ShortSeparator = "  "
	h.Styles.ShortKey = formatter.StyleFg
	h.Styles.ShortDesc = formatter.StyleDim
	h.Styles.ShortSeparator = formatter.StyleDim

	return appModel{
		state:     state,
		viewStack: []View{newGanttView(state)},
		help:      h,
	}
}

// activeView returns the top view on the stack, or nil.
func (m *appModel) activeView() View {
	if len(m.viewStack) == 0 {
		return nil
	}
	return m.viewStack[len(m.viewStack)-1]
}

// setActiveView replaces the top of the view stack.
func (m *appModel) setActiveView(v View) {
	if len(m.viewStack) > 0 {
		m.viewStack[len(m.viewStack)-1] = v
	}
}

func (m *appModel) pop() {
	if len(m.viewStack) > 1 {
		m.viewStack = m.viewStack[:len(m.viewStack)-1]
	}
}

// broadcast delivers msg to every view on the stack so views below a form
// see data changes made through it.
func (m *appModel) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for i, v := range m.viewStack {
		updated, cmd := v.Update(msg)
		m.viewStack[i] = updated.(View)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

func (m appModel) Init() tea.Cmd {
	if v := m.activeView(); v != nil {
		return v.Init()
	}
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		m.help.Width = msg.Width
		return m, m.broadcast(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case pushViewMsg:
		m.viewStack = append(m.viewStack, msg.view)
		return m, msg.view.Init()

	case popViewMsg:
		m.pop()
		return m, nil

	case refreshViewMsg:
		return m, m.broadcast(msg)

	case statusMsg:
		m.state.Status = msg.text
		return m, nil

	case formDoneMsg:
		m.pop()
		m.state.Status = msg.status
		return m, refreshViews

	case sourceReloadedMsg:
		if msg.err != nil {
			m.state.Status = formatter.StyleRed.Render("Reload failed: " + msg.err.Error())
			return m, nil
		}
		if err := m.state.App.Tasks.Reload(context.Background(), msg.tasks); err != nil {
			m.state.Status = formatter.StyleRed.Render("Reload failed: " + err.Error())
			return m, nil
		}
		m.state.Status = formatter.Dim(fmt.Sprintf("Reloaded %d task(s) from %s", len(msg.tasks), filepath.Base(m.state.Path)))
		return m, refreshViews
	}

	if v := m.activeView(); v != nil {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}
	return m, nil
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	v := m.activeView()
	// Views with a focused text input receive every key, including q.
	if v != nil && viewCapturesInput(v) {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}

	switch {
	case key.Matches(msg, keyQuit):
		m.quitting = true
		return m, tea.Quit
	case msg.Type == tea.KeyEsc && len(m.viewStack) > 1:
		m.pop()
		return m, nil
	}

	if v != nil {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}
	return m, nil
}

func (m appModel) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{m.renderHeader()}
	if v := m.activeView(); v != nil {
		sections = append(sections, v.View())
	}
	sections = append(sections, m.renderStatusBar())
	result := strings.Join(sections, "\n")

	// Pad to terminal height so the alt-screen renderer leaves no stale
	// lines behind.
	if m.state.Height > 0 {
		lines := strings.Count(result, "\n") + 1
		if lines < m.state.Height {
			result += strings.Repeat("\n", m.state.Height-lines)
		}
	}
	return result
}

func (m *appModel) renderHeader() string {
	title := formatter.StylePurple.Render("gantt")

	var crumbs []string
	for _, v := range m.viewStack {
		if t := v.Title(); t != "" {
			crumbs = append(crumbs, t)
		}
	}
	header := title
	if len(crumbs) > 0 {
		header += " " + formatter.Dim("›") + " " + formatter.Dim(strings.Join(crumbs, " › "))
	}
	if m.state.Path != "" {
		header += "  " + formatter.Dim("[") + formatter.StyleGreen.Render(filepath.Base(m.state.Path)) + formatter.Dim("]")
	}

	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	return header + "\n" + sep
}

func (m *appModel) renderStatusBar() string {
	var bindings []key.Binding
	if v := m.activeView(); v != nil {
		bindings = append(bindings, v.ShortHelp()...)
	}
	if len(m.viewStack) > 1 {
		bindings = append(bindings, keyBack)
	} else {
		bindings = append(bindings, keyQuit)
	}

	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	return sep + "\n" + m.help.ShortHelpView(bindings)
}
