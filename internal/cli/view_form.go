package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/gantt/internal/cli/formatter"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/service"
)

// formView wraps a huh.Form as a View on the navigation stack. When the
// form completes, done runs once and its message closes the form.
type formView struct {
	state    *SharedState
	form     *huh.Form
	titleStr string
	done     func() tea.Msg
	finished bool
}

func newFormView(state *SharedState, title string, form *huh.Form, done func() tea.Msg) *formView {
	return &formView{
		state:    state,
		form:     form,
		titleStr: title,
		done:     done,
	}
}

func (v *formView) Init() tea.Cmd {
	return v.form.Init()
}

func (v *formView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if v.finished {
		return v, nil
	}
	// Escape cancels the form.
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		v.finished = true
		return v, func() tea.Msg { return formDoneMsg{status: formatter.Dim("Cancelled.")} }
	}

	form, cmd := v.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		v.form = f
	}

	switch v.form.State {
	case huh.StateCompleted:
		v.finished = true
		done := v.done
		return v, tea.Batch(cmd, func() tea.Msg { return done() })
	case huh.StateAborted:
		v.finished = true
		return v, func() tea.Msg { return formDoneMsg{status: formatter.Dim("Cancelled.")} }
	}
	return v, cmd
}

func (v *formView) View() string {
	return v.form.View()
}

func (v *formView) ID() ViewID    { return ViewForm }
func (v *formView) Title() string { return v.titleStr }
func (v *formView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func ganttHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// taskFormFields holds form-bound values for the task dialogs.
type taskFormFields struct {
	name     string
	start    string
	end      string
	progress string
	typ      string
}

func fieldsFromTask(t domain.Task) *taskFormFields {
	return &taskFormFields{
		name:     t.Name,
		start:    domain.FormatDate(t.StartDate),
		end:      domain.FormatDate(t.EndDate),
		progress: strconv.Itoa(domain.ClampProgress(t.Progress)),
		typ:      string(t.Type.OrDefault()),
	}
}

type parsedTaskFields struct {
	name     string
	start    time.Time
	end      time.Time
	progress int
	typ      domain.TaskType
}

func (f *taskFormFields) parse() (parsedTaskFields, error) {
	var p parsedTaskFields
	var err error
	p.name = strings.TrimSpace(f.name)
	if p.start, err = domain.ParseDate(f.start); err != nil {
		return p, err
	}
	if p.end, err = domain.ParseDate(f.end); err != nil {
		return p, err
	}
	if strings.TrimSpace(f.progress) != "" {
		if p.progress, err = strconv.Atoi(strings.TrimSpace(f.progress)); err != nil {
			return p, fmt.Errorf("invalid progress %q", f.progress)
		}
	}
	if p.typ, err = domain.ParseTaskType(f.typ); err != nil {
		return p, err
	}
	return p, nil
}

func taskForm(f *taskFormFields) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&f.name).
				Validate(validateRequired("name")),
			huh.NewInput().
				Title("Start date").
				Placeholder("YYYY-MM-DD").
				Value(&f.start).
				Validate(validateDate),
			huh.NewInput().
				Title("End date").
				Placeholder("YYYY-MM-DD").
				Value(&f.end).
				Validate(validateDate),
			huh.NewInput().
				Title("Progress (0-100)").
				Placeholder("0").
				Value(&f.progress).
				Validate(validateProgress),
			huh.NewSelect[string]().
				Title("Type").
				Options(
					huh.NewOption("Task", string(domain.TaskTypeTask)),
					huh.NewOption("Project", string(domain.TaskTypeProject)),
					huh.NewOption("Milestone", string(domain.TaskTypeMilestone)),
				).
				Value(&f.typ),
		),
	).WithTheme(ganttHuhTheme()).WithShowHelp(false)
}

// newEditTaskView edits the name, dates, progress and type of a task.
func newEditTaskView(state *SharedState, t domain.Task) View {
	f := fieldsFromTask(t)
	return newFormView(state, "Edit "+t.Name, taskForm(f), func() tea.Msg {
		return applyTaskEdit(context.Background(), state.App, t.ID, f)
	})
}

// newAddTaskView adds a task under parent, or a root task when parent is
// empty. Dates default to one week from the parent's start or today.
func newAddTaskView(state *SharedState, parent string) View {
	start := state.App.today()
	title := "Add task"
	if parent != "" {
		if p, err := state.App.Tasks.Get(context.Background(), parent); err == nil {
			title = "Add task under " + p.Name
			if !p.StartDate.IsZero() {
				start = p.StartDate
			}
		}
	}
	f := &taskFormFields{
		start:    domain.FormatDate(start),
		end:      domain.FormatDate(domain.AddDays(start, 6)),
		progress: "0",
		typ:      string(domain.TaskTypeTask),
	}
	return newFormView(state, title, taskForm(f), func() tea.Msg {
		return applyTaskAdd(context.Background(), state.App, parent, f)
	})
}

// newDeleteTaskView confirms removal of a task and its subtree.
func newDeleteTaskView(state *SharedState, t domain.Task) View {
	confirmed := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q?", t.Name)).
				Description("Its subtasks are removed too.").
				Affirmative("Delete").
				Negative("Keep").
				Value(&confirmed),
		),
	).WithTheme(ganttHuhTheme()).WithShowHelp(false)

	return newFormView(state, "Delete "+t.Name, form, func() tea.Msg {
		if !confirmed {
			return formDoneMsg{status: formatter.Dim("Kept " + t.Name + ".")}
		}
		return applyTaskRemove(context.Background(), state.App, t.ID)
	})
}

func applyTaskEdit(ctx context.Context, app *App, id string, f *taskFormFields) tea.Msg {
	p, err := f.parse()
	if err != nil {
		return formError(err)
	}
	updated, err := app.Tasks.Update(ctx, service.TaskEdit{
		ID:        id,
		Name:      p.name,
		StartDate: p.start,
		EndDate:   p.end,
		Progress:  &p.progress,
		Type:      &p.typ,
	})
	if err != nil {
		return formError(err)
	}
	return formDoneMsg{status: fmt.Sprintf("%s Updated: %s", formatter.StyleGreen.Render("✔"), formatter.Bold(updated.Name))}
}

func applyTaskAdd(ctx context.Context, app *App, parent string, f *taskFormFields) tea.Msg {
	p, err := f.parse()
	if err != nil {
		return formError(err)
	}
	created, err := app.Tasks.Add(ctx, service.NewTask{
		Name:      p.name,
		StartDate: p.start,
		EndDate:   p.end,
		Progress:  p.progress,
		Type:      p.typ,
		Parent:    parent,
	})
	if err != nil {
		return formError(err)
	}
	return formDoneMsg{status: fmt.Sprintf("%s Added: %s", formatter.StyleGreen.Render("✔"), formatter.Bold(created.Name))}
}

func applyTaskRemove(ctx context.Context, app *App, id string) tea.Msg {
	removed, err := app.Tasks.Remove(ctx, id)
	if err != nil {
		return formError(err)
	}
	return formDoneMsg{status: fmt.Sprintf("%s Removed %d task(s)", formatter.StyleGreen.Render("✔"), len(removed))}
}

func formError(err error) tea.Msg {
	return formDoneMsg{status: formatter.StyleRed.Render("Error: " + err.Error())}
}

func validateRequired(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

// validateDate requires a YYYY-MM-DD date.
func validateDate(s string) error {
	t, err := domain.ParseDate(s)
	if err != nil {
		return err
	}
	if t.IsZero() {
		return fmt.Errorf("enter a date")
	}
	return nil
}

// validateProgress accepts empty or an integer from 0 to 100.
func validateProgress(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 || v > 100 {
		return fmt.Errorf("enter a number from 0 to 100")
	}
	return nil
}
