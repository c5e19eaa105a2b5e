package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/gantt/internal/cli/formatter"
	"github.com/alexanderramin/gantt/internal/hierarchy"
	"github.com/alexanderramin/gantt/internal/service"
)

// layoutLoadedMsg carries a computed layout. seq identifies the request;
// results of superseded requests are dropped.
type layoutLoadedMsg struct {
	seq    int
	layout *service.Layout
	err    error
}

type ganttKeyMap struct {
	Up, Down        key.Binding
	Toggle          key.Binding
	ExpandAll       key.Binding
	CollapseAll     key.Binding
	Search          key.Binding
	Sort            key.Binding
	Timeline        key.Binding
	Narrower, Wider key.Binding
	Left, Right     key.Binding
	Edit, Add, Del  key.Binding
}

var ganttKeys = ganttKeyMap{
	Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/↓", "move")),
	Down:        key.NewBinding(key.WithKeys("down", "j")),
	Toggle:      key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "expand/collapse")),
	ExpandAll:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e/c", "expand/collapse all")),
	CollapseAll: key.NewBinding(key.WithKeys("c")),
	Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Sort:        key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "sort")),
	Timeline:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "timeline")),
	Narrower:    key.NewBinding(key.WithKeys("<"), key.WithHelp("</>", "resize")),
	Wider:       key.NewBinding(key.WithKeys(">")),
	Left:        key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "scroll")),
	Right:       key.NewBinding(key.WithKeys("right", "l")),
	Edit:        key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "edit")),
	Add:         key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	Del:         key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
}

// ganttView is the dual-pane chart: the task table beside the week grid.
type ganttView struct {
	state  *SharedState
	layout *service.Layout
	err    error

	cursor int
	offset int // first visible row
	// selected keeps the cursor on the same task across recomputes.
	selected string

	firstWeek   int
	weekPlaced  bool
	searching   bool
	searchInput textinput.Model
	seq         int
}

func newGanttView(state *SharedState) *ganttView {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = state.App.Config.SearchPlaceholder
	ti.CharLimit = 120
	return &ganttView{state: state, searchInput: ti}
}

func (v *ganttView) ID() ViewID { return ViewGantt }

func (v *ganttView) Title() string { return "Chart" }

func (v *ganttView) CapturesInput() bool { return v.searching }

func (v *ganttView) ShortHelp() []key.Binding {
	if v.searching {
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		}
	}
	k := ganttKeys
	return []key.Binding{k.Up, k.Toggle, k.ExpandAll, k.Search, k.Sort, k.Timeline, k.Narrower, k.Left, k.Edit, k.Add, k.Del}
}

func (v *ganttView) Init() tea.Cmd {
	return v.loadLayout()
}

// loadLayout snapshots the view-state into a request and computes it.
func (v *ganttView) loadLayout() tea.Cmd {
	v.seq++
	seq := v.seq
	svc := v.state.App.Layout
	req := v.state.LayoutRequest()
	return func() tea.Msg {
		layout, err := svc.Compute(context.Background(), req)
		return layoutLoadedMsg{seq: seq, layout: layout, err: err}
	}
}

func (v *ganttView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case layoutLoadedMsg:
		if msg.seq != v.seq {
			return v, nil
		}
		v.err = msg.err
		if msg.err != nil {
			return v, nil
		}
		v.setLayout(msg.layout)
		return v, nil

	case refreshViewMsg:
		return v, v.loadLayout()

	case tea.KeyMsg:
		if v.searching {
			return v.updateSearch(msg)
		}
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *ganttView) setLayout(layout *service.Layout) {
	v.layout = layout
	if idx := layout.RowIndex(v.selected); idx >= 0 {
		v.cursor = idx
	}
	v.cursor = max(0, min(v.cursor, len(layout.Rows)-1))
	if !v.weekPlaced && len(layout.Weeks) > 0 {
		v.firstWeek = firstBarWeek(layout)
		v.weekPlaced = true
	}
	v.firstWeek = max(0, min(v.firstWeek, len(layout.Weeks)-1))
	v.syncSelection()
}

func (v *ganttView) syncSelection() {
	if r, ok := v.current(); ok {
		v.selected = r.ID
	}
	body := v.bodyHeight()
	if v.cursor < v.offset {
		v.offset = v.cursor
	}
	if v.cursor >= v.offset+body {
		v.offset = v.cursor - body + 1
	}
	v.offset = max(0, v.offset)
}

func (v *ganttView) current() (service.LayoutRow, bool) {
	if v.layout == nil || v.cursor < 0 || v.cursor >= len(v.layout.Rows) {
		return service.LayoutRow{}, false
	}
	return v.layout.Rows[v.cursor], true
}

func (v *ganttView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := ganttKeys
	v.state.Status = ""
	switch {
	case key.Matches(msg, k.Up):
		if v.cursor > 0 {
			v.cursor--
			v.syncSelection()
		}
	case key.Matches(msg, k.Down):
		if v.layout != nil && v.cursor < len(v.layout.Rows)-1 {
			v.cursor++
			v.syncSelection()
		}

	case key.Matches(msg, k.Toggle):
		r, ok := v.current()
		if !ok || !r.HasChildren {
			return v, nil
		}
		v.state.Expanded = v.state.Expanded.Toggle(r.ID)
		return v, v.loadLayout()
	case key.Matches(msg, k.ExpandAll):
		tasks, err := v.state.App.Tasks.List(context.Background())
		if err != nil {
			v.state.Status = err.Error()
			return v, nil
		}
		v.state.Expanded = hierarchy.ExpandAll(tasks)
		return v, v.loadLayout()
	case key.Matches(msg, k.CollapseAll):
		v.state.Expanded = hierarchy.CollapseAll()
		return v, v.loadLayout()

	case key.Matches(msg, k.Search):
		v.searching = true
		v.searchInput.SetValue(v.state.Search)
		v.searchInput.CursorEnd()
		return v, v.searchInput.Focus()
	case msg.Type == tea.KeyEsc && v.state.Search != "":
		v.state.Search = ""
		return v, v.loadLayout()

	case key.Matches(msg, k.Sort):
		cols := v.state.Columns()
		idx := int(msg.String()[0] - '1')
		if idx >= len(cols) || !cols[idx].Sortable {
			return v, nil
		}
		v.state.Sort = v.state.Sort.Toggle(cols[idx].Key)
		return v, v.loadLayout()

	case key.Matches(msg, k.Timeline):
		v.state.ShowTimeline = !v.state.ShowTimeline
	case key.Matches(msg, k.Narrower):
		v.state.ResizeTable(-1)
	case key.Matches(msg, k.Wider):
		v.state.ResizeTable(1)
	case key.Matches(msg, k.Left):
		v.firstWeek = max(0, v.firstWeek-1)
	case key.Matches(msg, k.Right):
		if v.layout != nil {
			v.firstWeek = min(len(v.layout.Weeks)-1, v.firstWeek+1)
		}

	case key.Matches(msg, k.Edit):
		if r, ok := v.current(); ok {
			return v, pushView(newEditTaskView(v.state, r.Task))
		}
	case key.Matches(msg, k.Add):
		parent := ""
		if r, ok := v.current(); ok {
			parent = r.ID
		}
		return v, pushView(newAddTaskView(v.state, parent))
	case key.Matches(msg, k.Del):
		if r, ok := v.current(); ok {
			return v, pushView(newDeleteTaskView(v.state, r.Task))
		}
	}
	return v, nil
}

// updateSearch filters live while typing. Enter keeps the query, Esc
// clears it.
func (v *ganttView) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		v.searching = false
		v.searchInput.Blur()
		return v, nil
	case tea.KeyEsc:
		v.searching = false
		v.searchInput.Blur()
		v.searchInput.SetValue("")
		v.state.Search = ""
		return v, v.loadLayout()
	}

	var cmd tea.Cmd
	v.searchInput, cmd = v.searchInput.Update(msg)
	if q := v.searchInput.Value(); q != v.state.Search {
		v.state.Search = q
		return v, tea.Batch(cmd, v.loadLayout())
	}
	return v, cmd
}

// bodyHeight is the number of task rows that fit: the chart has two
// header lines and the view adds a search line and a status line.
func (v *ganttView) bodyHeight() int {
	if v.state.Height == 0 {
		return 1 << 20
	}
	return max(1, v.state.ContentHeight()-4)
}

func (v *ganttView) chartOptions() formatter.ChartOptions {
	cfg := v.state.App.Config
	cols := v.state.Columns()
	weeks := cfg.TerminalWeeks
	if v.state.Width > 0 {
		tableChars := 0
		for _, c := range cols {
			tableChars += formatter.ColumnChars(c)
		}
		weeks = max(1, (v.state.Width-tableChars-1)/cfg.TerminalWeekWidth)
	}
	return formatter.ChartOptions{
		Columns:      cols,
		WeekWidth:    cfg.TerminalWeekWidth,
		FirstWeek:    v.firstWeek,
		Weeks:        weeks,
		Cursor:       v.cursor - v.offset,
		HideTimeline: !v.state.ShowTimeline,
	}
}

func (v *ganttView) View() string {
	if v.err != nil {
		return "\n  " + formatter.StyleRed.Render("Error: "+v.err.Error())
	}
	if v.layout == nil {
		return "\n  " + formatter.Dim("Loading...")
	}

	var b strings.Builder
	switch {
	case v.searching:
		b.WriteString(v.searchInput.View())
	case v.state.Search != "":
		b.WriteString(formatter.Dim("search: ") + v.state.Search)
	}
	b.WriteString("\n")

	window := *v.layout
	end := min(len(window.Rows), v.offset+v.bodyHeight())
	window.Rows = window.Rows[min(v.offset, end):end]
	b.WriteString(formatter.RenderChart(&window, v.chartOptions()))

	if len(v.layout.Rows) == 0 {
		b.WriteString(formatter.Dim("  No matching tasks.") + "\n")
	}
	b.WriteString(v.statusLine())
	return b.String()
}

func (v *ganttView) statusLine() string {
	var parts []string
	if v.state.Status != "" {
		parts = append(parts, v.state.Status)
	} else if r, ok := v.current(); ok {
		parts = append(parts, formatter.FormatTaskDetail(r.Task))
	}
	if v.state.Sort.Active() {
		parts = append(parts, formatter.Dim(fmt.Sprintf("sorted by %s %s", v.state.Sort.Key, v.state.Sort.Dir)))
	}
	if n := len(v.layout.Warnings); n > 0 {
		parts = append(parts, formatter.StyleYellow.Render(fmt.Sprintf("%d warning(s)", n)))
	}
	return strings.Join(parts, "  ")
}
