package cli

import (
	"github.com/alexanderramin/gantt/internal/column"
	"github.com/alexanderramin/gantt/internal/hierarchy"
	"github.com/alexanderramin/gantt/internal/service"
)

const (
	minTableWidth  = 160
	maxTableWidth  = 1200
	tableWidthStep = 40
)

// SharedState holds the chart view-state shared across all views via
// pointer. Every change produces a new layout request; nothing here is
// derived data.
type SharedState struct {
	App  *App
	Path string

	Expanded     hierarchy.ExpandedSet
	Search       string
	Sort         hierarchy.SortState
	ShowTimeline bool
	// TableWidth is the table pane width in pixels.
	TableWidth int

	// Status is the transient message under the chart.
	Status string

	// Terminal dimensions
	Width  int
	Height int
}

func newSharedState(app *App, s *session) *SharedState {
	return &SharedState{
		App:          app,
		Path:         s.path,
		Expanded:     s.expanded,
		ShowTimeline: app.Config.ShowTimeline,
		TableWidth:   max(minTableWidth, app.Config.TableWidth),
	}
}

// LayoutRequest is the consistent request for the current view-state.
func (s *SharedState) LayoutRequest() service.LayoutRequest {
	return service.LayoutRequest{
		Expanded:        s.Expanded,
		Search:          s.Search,
		Sort:            s.Sort,
		EndYear:         s.App.Config.EndYear,
		WeekColumnWidth: s.App.Config.WeekColumnWidth,
		Today:           s.App.today(),
	}
}

// Columns are the configured columns fitted to the table pane.
func (s *SharedState) Columns() []column.Column {
	return column.Resize(s.App.Config.ColumnSet(), s.TableWidth)
}

// ResizeTable moves the table/timeline split by steps of tableWidthStep.
func (s *SharedState) ResizeTable(steps int) {
	s.TableWidth = max(minTableWidth, min(maxTableWidth, s.TableWidth+steps*tableWidthStep))
}

// ContentHeight returns the available height for view content,
// accounting for header (2 lines: title + separator) and
// status bar (2 lines: separator + hints).
func (s *SharedState) ContentHeight() int {
	h := s.Height - 4
	if h < 1 {
		return 1
	}
	return h
}
