// Package cli implements the gantt command line: one-shot renderings of a
// task file, exports, the JSON API server and the interactive chart.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/gantt/internal/config"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/hierarchy"
	"github.com/alexanderramin/gantt/internal/repository"
	"github.com/alexanderramin/gantt/internal/service"
)

// App holds the services and settings shared by all commands.
type App struct {
	Layout service.LayoutService
	Tasks  service.TaskService
	Config config.Config
	Logger *slog.Logger

	// OpenSource resolves a FILE argument. Defaults to
	// repository.OpenSource.
	OpenSource func(path string) (repository.TaskSource, io.Closer, error)

	// IsInteractive reports whether stdin is a terminal. The root command
	// only launches the chart UI when it returns true.
	IsInteractive func() bool

	// Today pins the current day for layouts. Nil means domain.Today.
	Today func() time.Time
}

func (a *App) today() time.Time {
	if a.Today != nil {
		return a.Today()
	}
	return domain.Today()
}

func (a *App) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.Logger
}

// session is a loaded task source. The task collection itself lives in
// the App's repository.
type session struct {
	path     string
	source   repository.TaskSource
	closer   io.Closer
	snapshot *repository.Snapshot
	expanded hierarchy.ExpandedSet
}

func (s *session) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// openSession reads path and replaces the App's collection with its tasks.
// The initial expanded-set is the document's list plus the configured
// defaults.
func (a *App) openSession(ctx context.Context, path string) (*session, error) {
	open := a.OpenSource
	if open == nil {
		open = repository.OpenSource
	}
	src, closer, err := open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	snap, err := src.Load(ctx)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	if err := a.Tasks.Reload(ctx, snap.Tasks); err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	ids := append(append([]string(nil), snap.Expanded...), a.Config.DefaultExpanded...)
	return &session{
		path:     path,
		source:   src,
		closer:   closer,
		snapshot: snap,
		expanded: hierarchy.NewExpandedSet(ids...),
	}, nil
}

// NewRootCmd creates the top-level "gantt" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "gantt [FILE]",
		Short: "Task hierarchy and timeline charts",
		Long: `Render a task hierarchy as a Gantt chart.

FILE is a JSON or YAML task document, or a SQLite database (.db).
Without a subcommand and with a terminal attached, gantt opens the
interactive chart for FILE.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 || app.IsInteractive == nil || !app.IsInteractive() {
				return cmd.Help()
			}
			return runTUI(cmd.Context(), app, args[0], false)
		},
	}

	root.AddCommand(
		newShowCmd(app),
		newRowsCmd(app),
		newWeeksCmd(app),
		newDurationCmd(),
		newValidateCmd(app),
		newExportCmd(app),
		newTUICmd(app),
		newServeCmd(app),
	)

	return root
}

// withSession opens path for the duration of fn.
func withSession(cmd *cobra.Command, app *App, path string, fn func(ctx context.Context, s *session) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := app.openSession(ctx, path)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(ctx, s)
}
