package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/alexanderramin/gantt/internal/service"
	"github.com/alexanderramin/gantt/internal/timeline"
)

var csvHeader = []string{"id", "name", "level", "type", "start", "end", "duration", "progress", "left", "width"}

// WriteCSV writes one record per visible row in layout order.
func WriteCSV(w io.Writer, layout *service.Layout) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range layout.Rows {
		duration := ""
		if r.HasDates() {
			duration = strconv.Itoa(timeline.GetDuration(r.StartDate, r.EndDate))
		}
		rec := []string{
			r.ID,
			r.Name,
			strconv.Itoa(r.Level),
			string(r.Type.OrDefault()),
			timeline.FormatDateFull(r.StartDate),
			timeline.FormatDateFull(r.EndDate),
			duration,
			strconv.Itoa(r.Progress),
			strconv.FormatFloat(r.Bar.Left, 'f', -1, 64),
			strconv.FormatFloat(r.Bar.Width, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
