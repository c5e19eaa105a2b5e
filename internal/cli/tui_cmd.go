package cli

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/gantt/internal/repository"
	"github.com/alexanderramin/gantt/internal/watch"
)

func newTUICmd(app *App) *cobra.Command {
	var watchFile bool

	cmd := &cobra.Command{
		Use:   "tui FILE",
		Short: "Open the interactive chart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), app, args[0], watchFile)
		},
	}

	cmd.Flags().BoolVar(&watchFile, "watch", false, "Reload tasks when FILE changes")
	return cmd
}

// runTUI loads path and runs the chart until the user quits. With
// watchFile, changes to the file are sent to the program as reloads.
func runTUI(ctx context.Context, app *App, path string, watchFile bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := app.openSession(ctx, path)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newAppModel(newSharedState(app, s)), tea.WithAltScreen(), tea.WithContext(ctx))

	if watchFile {
		go func() {
			err := watch.WatchSource(ctx, s.source, app.Config.WatchDebounce, app.logger(), func(snap *repository.Snapshot, err error) {
				if err != nil {
					p.Send(sourceReloadedMsg{err: err})
					return
				}
				p.Send(sourceReloadedMsg{tasks: snap.Tasks})
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				p.Send(statusMsg{text: fmt.Sprintf("Watching stopped: %v", err)})
			}
		}()
	}

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running chart: %w", err)
	}
	return nil
}
