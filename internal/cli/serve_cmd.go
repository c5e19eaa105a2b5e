package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/gantt/internal/repository"
	"github.com/alexanderramin/gantt/internal/watch"
	"github.com/alexanderramin/gantt/internal/web"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string
	var watchFile bool

	cmd := &cobra.Command{
		Use:   "serve FILE",
		Short: "Serve chart layouts and task edits as a JSON API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, args[0], func(ctx context.Context, s *session) error {
				ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
				defer stop()

				if watchFile {
					go reloadOnChange(ctx, app, s.source)
				}

				srv := web.NewServer(web.Deps{
					Layout:          app.Layout,
					Tasks:           app.Tasks,
					Columns:         app.Config.ColumnSet(),
					EndYear:         app.Config.EndYear,
					WeekColumnWidth: app.Config.WeekColumnWidth,
					Logger:          app.logger(),
				})
				return srv.Run(ctx, addr)
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", app.Config.Addr, "Listen address")
	cmd.Flags().BoolVar(&watchFile, "watch", false, "Reload tasks when FILE changes")
	return cmd
}

// reloadOnChange replaces the App's collection whenever src changes, until
// ctx ends. Failed reloads keep the previous tasks.
func reloadOnChange(ctx context.Context, app *App, src repository.TaskSource) {
	logger := app.logger()
	err := watch.WatchSource(ctx, src, app.Config.WatchDebounce, logger, func(snap *repository.Snapshot, err error) {
		if err != nil {
			return
		}
		if err := app.Tasks.Reload(ctx, snap.Tasks); err != nil {
			logger.Warn("replacing tasks failed", "error", err)
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("watching task source failed", "path", src.Path(), "error", err)
	}
}
