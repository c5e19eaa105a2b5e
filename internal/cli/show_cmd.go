package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/gantt/internal/cli/formatter"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/service"
	"github.com/alexanderramin/gantt/internal/timeline"
)

func newShowCmd(app *App) *cobra.Command {
	var lf layoutFlags
	var cf chartFlags

	cmd := &cobra.Command{
		Use:   "show FILE",
		Short: "Print the task table beside a terminal timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, args[0], func(ctx context.Context, s *session) error {
				layout, err := computeLayout(ctx, app, &lf, s)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.RenderChart(layout, cf.options(app, layout)))
				fmt.Fprint(cmd.ErrOrStderr(), formatter.FormatWarnings(layout.Warnings))
				return nil
			})
		},
	}

	cmd.Flags().AddFlagSet(lf.flagSet(app))
	cmd.Flags().AddFlagSet(cf.flagSet(app))
	return cmd
}

func newRowsCmd(app *App) *cobra.Command {
	var lf layoutFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "rows FILE",
		Short: "List the visible rows with their bar geometry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, args[0], func(ctx context.Context, s *session) error {
				layout, err := computeLayout(ctx, app, &lf, s)
				if err != nil {
					return err
				}
				if asJSON {
					return writeRowsJSON(cmd.OutOrStdout(), layout)
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRows(layout))
				fmt.Fprint(cmd.ErrOrStderr(), formatter.FormatWarnings(layout.Warnings))
				return nil
			})
		},
	}

	cmd.Flags().AddFlagSet(lf.flagSet(app))
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print rows as JSON")
	return cmd
}

func newWeeksCmd(app *App) *cobra.Command {
	var lf layoutFlags

	cmd := &cobra.Command{
		Use:   "weeks FILE",
		Short: "List the week columns of the timeline grouped by month",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, args[0], func(ctx context.Context, s *session) error {
				layout, err := computeLayout(ctx, app, &lf, s)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatWeeks(layout.Weeks))
				return nil
			})
		},
	}

	cmd.Flags().AddFlagSet(lf.flagSet(app))
	return cmd
}

func computeLayout(ctx context.Context, app *App, lf *layoutFlags, s *session) (*service.Layout, error) {
	req, err := lf.request(ctx, app, s)
	if err != nil {
		return nil, err
	}
	return app.Layout.Compute(ctx, req)
}

type rowJSON struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Type        domain.TaskType    `json:"type"`
	Level       int                `json:"level"`
	Expanded    bool               `json:"isExpanded"`
	HasChildren bool               `json:"hasChildren"`
	StartDate   string             `json:"startDate,omitempty"`
	EndDate     string             `json:"endDate,omitempty"`
	Duration    int                `json:"duration,omitempty"`
	Progress    int                `json:"progress"`
	Bar         timeline.BarStyle  `json:"bar"`
	Secondary   *timeline.BarStyle `json:"secondaryBar,omitempty"`
	Milestone   *timeline.BarStyle `json:"milestone,omitempty"`
}

func writeRowsJSON(w io.Writer, layout *service.Layout) error {
	rows := make([]rowJSON, 0, len(layout.Rows))
	for _, r := range layout.Rows {
		out := rowJSON{
			ID:          r.ID,
			Name:        r.Name,
			Type:        r.Type.OrDefault(),
			Level:       r.Level,
			Expanded:    r.IsExpanded,
			HasChildren: r.HasChildren,
			StartDate:   domain.FormatDate(r.StartDate),
			EndDate:     domain.FormatDate(r.EndDate),
			Progress:    domain.ClampProgress(r.Progress),
			Bar:         r.Bar,
			Secondary:   r.Secondary,
			Milestone:   r.Marker,
		}
		if r.HasDates() {
			out.Duration = timeline.GetDuration(r.StartDate, r.EndDate)
		}
		rows = append(rows, out)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}
