package web

import (
	"strings"
	"time"

	"github.com/alexanderramin/gantt/internal/column"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/service"
	"github.com/alexanderramin/gantt/internal/timeline"
)

type barDTO struct {
	Left  float64 `json:"left"`
	Width float64 `json:"width"`
}

func toBar(b timeline.BarStyle) barDTO { return barDTO{Left: b.Left, Width: b.Width} }

func toBarPtr(b *timeline.BarStyle) *barDTO {
	if b == nil {
		return nil
	}
	d := toBar(*b)
	return &d
}

type rowDTO struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Type        string            `json:"type"`
	Level       int               `json:"level"`
	Indent      int               `json:"indent"`
	IsExpanded  bool              `json:"isExpanded"`
	HasChildren bool              `json:"hasChildren"`
	Progress    int               `json:"progress"`
	StartDate   string            `json:"startDate"`
	EndDate     string            `json:"endDate"`
	Cells       map[string]string `json:"cells"`
	Bar         barDTO            `json:"bar"`
	Secondary   *barDTO           `json:"secondaryBar,omitempty"`
	Marker      *barDTO           `json:"milestone,omitempty"`
}

type weekDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Label string `json:"label"`
}

type layoutDTO struct {
	Revision        uint64                `json:"revision"`
	DayCount        int                   `json:"dayCount"`
	WeekColumnWidth float64               `json:"weekColumnWidth"`
	GridWidth       float64               `json:"gridWidth"`
	Weeks           []weekDTO             `json:"weeks"`
	Months          []timeline.MonthGroup `json:"months"`
	Rows            []rowDTO              `json:"rows"`
	Warnings        []string              `json:"warnings"`
}

func toLayoutDTO(l *service.Layout, cols []column.Column) layoutDTO {
	out := layoutDTO{
		Revision:        l.Revision,
		DayCount:        l.DayCount,
		WeekColumnWidth: l.WeekColumnWidth,
		GridWidth:       l.GridWidth,
		Weeks:           make([]weekDTO, len(l.Weeks)),
		Months:          l.Months,
		Rows:            make([]rowDTO, len(l.Rows)),
		Warnings:        l.Warnings,
	}
	if out.Months == nil {
		out.Months = []timeline.MonthGroup{}
	}
	if out.Warnings == nil {
		out.Warnings = []string{}
	}
	for i, w := range l.Weeks {
		out.Weeks[i] = weekDTO{
			Start: timeline.FormatDateFull(w.Start),
			End:   timeline.FormatDateFull(w.End),
			Label: timeline.WeekLabel(w),
		}
	}
	for i, r := range l.Rows {
		cells := make(map[string]string, len(cols))
		for _, c := range cols {
			cells[c.Key] = column.Cell(r.Row, c)
		}
		out.Rows[i] = rowDTO{
			ID:          r.ID,
			Name:        r.Name,
			Type:        string(r.Type.OrDefault()),
			Level:       r.Level,
			Indent:      column.Indent(r.Row),
			IsExpanded:  r.IsExpanded,
			HasChildren: r.HasChildren,
			Progress:    r.Progress,
			StartDate:   timeline.FormatDateFull(r.StartDate),
			EndDate:     timeline.FormatDateFull(r.EndDate),
			Cells:       cells,
			Bar:         toBar(r.Bar),
			Secondary:   toBarPtr(r.Secondary),
			Marker:      toBarPtr(r.Marker),
		}
	}
	return out
}

// taskInput is the body of create and update requests.
type taskInput struct {
	Name      string `json:"name"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Progress  *int   `json:"progress"`
	Type      string `json:"type"`
	Parent    string `json:"parent"`
}

// parse validates the date and type strings; field presence is left to
// the task service.
func (in taskInput) parse() (start, end time.Time, typ domain.TaskType, err error) {
	if start, err = domain.ParseDate(in.StartDate); err != nil {
		return
	}
	if end, err = domain.ParseDate(in.EndDate); err != nil {
		return
	}
	typ, err = domain.ParseTaskType(in.Type)
	return
}

// expandedInput is the body of the expanded-set endpoints.
type expandedInput struct {
	Expanded []string `json:"expanded"`
	ID       string   `json:"id"`
}

func cleanIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}
