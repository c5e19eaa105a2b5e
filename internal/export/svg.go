// Package export renders a computed layout to standalone files.
package export

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/alexanderramin/gantt/internal/column"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/service"
	"github.com/alexanderramin/gantt/internal/timeline"
)

// SVGOptions controls the drawing. Zero values take the defaults.
type SVGOptions struct {
	Columns      []column.Column
	RowHeight    int
	HeaderHeight int
	// Weeks limits the drawn week columns; 0 draws all of them.
	Weeks int
}

const (
	defaultRowHeight    = 40
	defaultHeaderHeight = 28
	barInset            = 8

	colorGrid      = "#e0e0e0"
	colorHeader    = "#f5f5f5"
	colorText      = "#333333"
	colorBar       = "#4a90d9"
	colorProgress  = "#2c6fb7"
	colorSecondary = "#a8c8ec"
	colorMilestone = "#e67e22"
)

func (o SVGOptions) withDefaults() SVGOptions {
	if len(o.Columns) == 0 {
		o.Columns = column.Defaults()
	}
	if o.RowHeight <= 0 {
		o.RowHeight = defaultRowHeight
	}
	if o.HeaderHeight <= 0 {
		o.HeaderHeight = defaultHeaderHeight
	}
	return o
}

// WriteSVG draws the table beside the timeline grid: a month header row,
// a week header row, then one row per layout row with its bars.
func WriteSVG(w io.Writer, layout *service.Layout, opts SVGOptions) error {
	opts = opts.withDefaults()

	weeks := layout.Weeks
	if opts.Weeks > 0 && opts.Weeks < len(weeks) {
		weeks = weeks[:opts.Weeks]
	}
	weekW := layout.WeekColumnWidth
	tableW := float64(column.TotalWidth(opts.Columns))
	gridW := float64(len(weeks)) * weekW
	headerH := float64(2 * opts.HeaderHeight)
	rowH := float64(opts.RowHeight)
	width := tableW + gridW
	height := headerH + rowH*float64(len(layout.Rows))

	var b strings.Builder
	fmt.Fprintf(&b, `<?xml version="1.0" encoding="UTF-8"?>`+"\n")
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" font-family="sans-serif" font-size="12">`+"\n", num(width), num(height))
	fmt.Fprintf(&b, `<rect x="0" y="0" width="%s" height="%s" fill="%s"/>`+"\n", num(width), num(headerH), colorHeader)

	// Table header.
	x := 0.0
	for _, c := range opts.Columns {
		fmt.Fprintf(&b, `<text x="%s" y="%s" fill="%s" font-weight="bold">%s</text>`+"\n",
			num(x+6), num(headerH-10), colorText, esc(c.Label))
		x += float64(c.EffectiveWidth())
	}

	// Month and week headers.
	h := float64(opts.HeaderHeight)
	for _, m := range timeline.MonthGroups(weeks) {
		mx := tableW + float64(m.StartIndex)*weekW
		fmt.Fprintf(&b, `<text x="%s" y="%s" fill="%s">%s</text>`+"\n", num(mx+6), num(h-9), colorText, esc(m.Label))
		fmt.Fprintf(&b, `<line x1="%s" y1="0" x2="%s" y2="%s" stroke="%s"/>`+"\n", num(mx), num(mx), num(h), colorGrid)
	}
	for i, wk := range weeks {
		wx := tableW + float64(i)*weekW
		fmt.Fprintf(&b, `<text x="%s" y="%s" fill="%s">%s</text>`+"\n", num(wx+6), num(headerH-9), colorText, esc(timeline.WeekLabel(wk)))
		fmt.Fprintf(&b, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s"/>`+"\n", num(wx), num(h), num(wx), num(height), colorGrid)
	}

	for i, r := range layout.Rows {
		y := headerH + float64(i)*rowH
		fmt.Fprintf(&b, `<g data-id="%s">`+"\n", esc(r.ID))
		fmt.Fprintf(&b, `<line x1="0" y1="%s" x2="%s" y2="%s" stroke="%s"/>`+"\n", num(y+rowH), num(width), num(y+rowH), colorGrid)
		writeCells(&b, r, opts.Columns, y, rowH)
		writeBars(&b, r, tableW, gridW, y, rowH)
		b.WriteString("</g>\n")
	}

	b.WriteString("</svg>\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func writeCells(b *strings.Builder, r service.LayoutRow, cols []column.Column, y, rowH float64) {
	x := 0.0
	for _, c := range cols {
		text := column.Cell(r.Row, c)
		tx := x + 6
		if c.IsTree() {
			tx += float64(column.Indent(r.Row))
			text = marker(r.Row) + text
		}
		fmt.Fprintf(b, `<text x="%s" y="%s" fill="%s">%s</text>`+"\n", num(tx), num(y+rowH/2+4), colorText, esc(text))
		x += float64(c.EffectiveWidth())
	}
}

// writeBars clips bars to the drawn part of the grid.
func writeBars(b *strings.Builder, r service.LayoutRow, tableW, gridW, y, rowH float64) {
	if r.Secondary != nil && r.Secondary.Left < gridW {
		w := min(r.Secondary.Width, gridW-r.Secondary.Left)
		fmt.Fprintf(b, `<rect class="secondary" x="%s" y="%s" width="%s" height="%s" rx="3" fill="%s"/>`+"\n",
			num(tableW+r.Secondary.Left), num(y+rowH-barInset), num(w), num(barInset/2), colorSecondary)
	}
	if r.Marker != nil {
		if r.Marker.Left >= gridW {
			return
		}
		cx := tableW + r.Marker.Left + r.Marker.Width/2
		fmt.Fprintf(b, `<circle class="milestone" cx="%s" cy="%s" r="%s" fill="%s"/>`+"\n",
			num(cx), num(y+rowH/2), num(timeline.MilestoneSize/2), colorMilestone)
		return
	}
	if r.Bar.Left >= gridW {
		return
	}
	w := min(r.Bar.Width, gridW-r.Bar.Left)
	top := y + barInset
	barH := rowH - 2*barInset
	fmt.Fprintf(b, `<rect class="bar" x="%s" y="%s" width="%s" height="%s" rx="4" fill="%s"/>`+"\n",
		num(tableW+r.Bar.Left), num(top), num(w), num(barH), colorBar)
	if p := domain.ClampProgress(r.Progress); p > 0 {
		fmt.Fprintf(b, `<rect class="progress" x="%s" y="%s" width="%s" height="%s" rx="4" fill="%s"/>`+"\n",
			num(tableW+r.Bar.Left), num(top), num(w*float64(p)/100), num(barH), colorProgress)
	}
}

func marker(r domain.Row) string {
	switch {
	case !r.HasChildren:
		return ""
	case r.IsExpanded:
		return "▾ "
	default:
		return "▸ "
	}
}

func num(f float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", f), "0"), ".")
}

func esc(s string) string { return html.EscapeString(s) }
