package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/hierarchy"
	"github.com/alexanderramin/gantt/internal/repository"
	"github.com/alexanderramin/gantt/internal/timeline"
)

// LayoutRequest is the full, consistent input of one layout pass. Zero
// EndYear and Today mean the defaults; a non-positive WeekColumnWidth
// means the default width.
type LayoutRequest struct {
	Expanded        hierarchy.ExpandedSet
	Search          string
	Sort            hierarchy.SortState
	EndYear         int
	WeekColumnWidth float64
	Today           time.Time
}

// LayoutRow is a visible row with its bar placement.
type LayoutRow struct {
	domain.Row
	Bar timeline.BarStyle
	// Secondary is set when the task has a second date range.
	Secondary *timeline.BarStyle
	// Marker is set for milestones.
	Marker *timeline.BarStyle
}

// Layout is owned by the caller. Its rows are copies and may be modified.
type Layout struct {
	Rows            []LayoutRow
	Weeks           []timeline.WeekRange
	Months          []timeline.MonthGroup
	DayCount        int
	WeekColumnWidth float64
	GridWidth       float64
	Warnings        []string
	Revision        uint64
}

type layoutService struct {
	tasks     repository.TaskRepo
	flattener hierarchy.Flattener
	observer  UseCaseObserver
}

func NewLayoutService(tasks repository.TaskRepo, observers ...UseCaseObserver) LayoutService {
	return &layoutService{
		tasks:    tasks,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Compute runs the pipeline: timeline dates, weeks, month groups,
// flattening, sorting and bar geometry.
func (s *layoutService) Compute(ctx context.Context, req LayoutRequest) (layout *Layout, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"search": req.Search,
		"sort":   req.Sort.Key,
	}
	defer observe(ctx, s.observer, "compute-layout", startedAt, fields, &err)

	before := s.tasks.Revision()
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	revision := s.tasks.Revision()

	endYear := req.EndYear
	if endYear == 0 {
		endYear = timeline.DefaultEndYear
	}
	today := req.Today
	if today.IsZero() {
		today = domain.Today()
	}
	width := req.WeekColumnWidth
	if width <= 0 {
		width = timeline.DefaultWeekColumnWidth
	}

	if err := checkTimelineRange(tasks, endYear, today); err != nil {
		return nil, err
	}

	dates := timeline.CalculateTimelineDates(tasks, endYear, today)
	weeks := timeline.CalculateWeeklyRanges(dates)

	var rows []domain.Row
	if before == revision {
		rows = s.flattener.Flatten(revision, tasks, req.Expanded, req.Search)
	} else {
		rows = hierarchy.FlattenTasks(tasks, req.Expanded, req.Search)
	}
	rows = req.Sort.Apply(rows)

	layout = &Layout{
		Rows:            make([]LayoutRow, len(rows)),
		Weeks:           weeks,
		Months:          timeline.MonthGroups(weeks),
		DayCount:        len(dates),
		WeekColumnWidth: width,
		GridWidth:       timeline.GridWidth(weeks, width),
		Warnings:        hierarchy.Messages(hierarchy.Validate(tasks)),
		Revision:        revision,
	}
	for i, r := range rows {
		layout.Rows[i] = placeRow(r, weeks, width)
	}

	fields["rows"] = len(layout.Rows)
	fields["weeks"] = len(weeks)
	fields["warnings"] = len(layout.Warnings)
	return layout, nil
}

// checkTimelineRange keeps the daily axis bounded: one date is built per
// day between the earliest start and endYear.
func checkTimelineRange(tasks []domain.Task, endYear int, today time.Time) error {
	if today.Year() < timeline.MinYear {
		return fmt.Errorf("%w: today %s is before %d", ErrInvalidLayout, domain.FormatDate(today), timeline.MinYear)
	}
	if limit := today.Year() + timeline.MaxYearsAhead; endYear > limit {
		return fmt.Errorf("%w: end year %d is after %d", ErrInvalidLayout, endYear, limit)
	}
	for _, t := range tasks {
		if !t.StartDate.IsZero() && t.StartDate.Year() < timeline.MinYear {
			return fmt.Errorf("%w: task %s starts in %d, before %d", ErrInvalidLayout, t.ID, t.StartDate.Year(), timeline.MinYear)
		}
	}
	return nil
}

// placeRow copies the task so a layout never aliases rows memoized by the
// flattener.
func placeRow(r domain.Row, weeks []timeline.WeekRange, width float64) LayoutRow {
	r.Task = r.Task.Clone()
	lr := LayoutRow{Row: r, Bar: timeline.TaskBarStyle(r.Task, weeks, width)}
	if sec, ok := timeline.SecondaryBarStyle(r.Task, weeks, width); ok {
		lr.Secondary = &sec
	}
	if r.IsMilestone() {
		m := timeline.MilestoneMarker(lr.Bar)
		lr.Marker = &m
	}
	return lr
}

// RowIndex returns the position of the row for id, or -1.
func (l *Layout) RowIndex(id string) int {
	for i, r := range l.Rows {
		if r.ID == id {
			return i
		}
	}
	return -1
}
