package cli

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/alexanderramin/gantt/internal/cli/formatter"
	"github.com/alexanderramin/gantt/internal/column"
	"github.com/alexanderramin/gantt/internal/hierarchy"
	"github.com/alexanderramin/gantt/internal/service"
)

// layoutFlags are the view-state flags shared by every command that
// computes a layout.
type layoutFlags struct {
	search    string
	sortKey   string
	desc      bool
	expand    []string
	expandAll bool
	endYear   int
}

func (f *layoutFlags) flagSet(app *App) *pflag.FlagSet {
	fs := pflag.NewFlagSet("layout", pflag.ContinueOnError)
	fs.StringVar(&f.search, "search", "", "Filter rows by task name (branches stay visible)")
	fs.StringVar(&f.sortKey, "sort", "", "Sort siblings by column key")
	fs.BoolVar(&f.desc, "desc", false, "Sort descending")
	fs.StringSliceVar(&f.expand, "expand", nil, "Expand these task ids (comma-separated)")
	fs.BoolVar(&f.expandAll, "expand-all", false, "Expand every branch")
	fs.IntVar(&f.endYear, "end-year", app.Config.EndYear, "Last year of the timeline")
	return fs
}

// request builds the layout request for the loaded session.
func (f *layoutFlags) request(ctx context.Context, app *App, s *session) (service.LayoutRequest, error) {
	req := service.LayoutRequest{
		Expanded:        s.expanded,
		Search:          f.search,
		EndYear:         f.endYear,
		WeekColumnWidth: app.Config.WeekColumnWidth,
		Today:           app.today(),
	}

	if f.expandAll {
		tasks, err := app.Tasks.List(ctx)
		if err != nil {
			return req, fmt.Errorf("listing tasks: %w", err)
		}
		req.Expanded = hierarchy.ExpandAll(tasks)
	}
	for _, id := range f.expand {
		req.Expanded = req.Expanded.With(id)
	}

	if f.sortKey != "" {
		col, ok := column.Find(app.Config.ColumnSet(), f.sortKey)
		if !ok {
			return req, fmt.Errorf("unknown sort column %q", f.sortKey)
		}
		if !col.Sortable {
			return req, fmt.Errorf("column %q is not sortable", f.sortKey)
		}
		req.Sort = hierarchy.SortState{Key: f.sortKey}
		if f.desc {
			req.Sort.Dir = hierarchy.Desc
		}
	}
	return req, nil
}

// chartFlags size the terminal rendering of a layout.
type chartFlags struct {
	weeks      int
	weekWidth  int
	firstWeek  int
	noTimeline bool
}

func (f *chartFlags) flagSet(app *App) *pflag.FlagSet {
	fs := pflag.NewFlagSet("chart", pflag.ContinueOnError)
	fs.IntVar(&f.weeks, "weeks", app.Config.TerminalWeeks, "Number of week columns to draw (0 for all)")
	fs.IntVar(&f.weekWidth, "week-width", app.Config.TerminalWeekWidth, "Characters per week column")
	fs.IntVar(&f.firstWeek, "first-week", -1, "First week index to draw (-1 starts at the earliest bar)")
	fs.BoolVar(&f.noTimeline, "no-timeline", !app.Config.ShowTimeline, "Draw only the table")
	return fs
}

func (f *chartFlags) options(app *App, layout *service.Layout) formatter.ChartOptions {
	first := f.firstWeek
	if first < 0 {
		first = firstBarWeek(layout)
	}
	return formatter.ChartOptions{
		Columns:      column.Resize(app.Config.ColumnSet(), app.Config.TableWidth),
		WeekWidth:    f.weekWidth,
		FirstWeek:    first,
		Weeks:        f.weeks,
		Cursor:       -1,
		HideTimeline: f.noTimeline,
	}
}

// firstBarWeek is the week index holding the leftmost dated bar.
func firstBarWeek(layout *service.Layout) int {
	first := -1
	for _, r := range layout.Rows {
		if !r.HasDates() || layout.WeekColumnWidth <= 0 {
			continue
		}
		idx := int(r.Bar.Left / layout.WeekColumnWidth)
		if first < 0 || idx < first {
			first = idx
		}
	}
	return max(0, first)
}
