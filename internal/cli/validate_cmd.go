package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/gantt/internal/cli/formatter"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/hierarchy"
	"github.com/alexanderramin/gantt/internal/timeline"
)

// ErrIssuesFound is returned by validate when the hierarchy is inconsistent.
var ErrIssuesFound = errors.New("task hierarchy has issues")

func newValidateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check the task hierarchy for broken links, cycles and bad dates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, args[0], func(_ context.Context, s *session) error {
				issues := hierarchy.Validate(s.snapshot.Tasks)
				report := strings.TrimRight(formatter.FormatIssues(issues), "\n")
				fmt.Fprintln(cmd.OutOrStdout(), formatter.RenderBox(filepath.Base(s.path), report))
				if len(issues) > 0 {
					return fmt.Errorf("%w: %d issue(s)", ErrIssuesFound, len(issues))
				}
				return nil
			})
		},
	}
}

func newDurationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "duration START END",
		Short: "Print the inclusive day count between two dates",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := requiredDate("start", args[0])
			if err != nil {
				return err
			}
			end, err := requiredDate("end", args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatDays(timeline.GetDuration(start, end)))
			return nil
		},
	}
}

func requiredDate(name, s string) (t time.Time, err error) {
	t, err = domain.ParseDate(s)
	if err != nil {
		return t, err
	}
	if t.IsZero() {
		return t, fmt.Errorf("%s date is required", name)
	}
	return t, nil
}
