package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/gantt/internal/cli/formatter"
	"github.com/alexanderramin/gantt/internal/export"
	"github.com/alexanderramin/gantt/internal/service"
)

func newExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a chart to SVG or CSV",
	}

	cmd.AddCommand(
		newExportFormatCmd(app, "svg", "Draw the chart as a standalone SVG image",
			func(w io.Writer, layout *service.Layout, weeks int) error {
				return export.WriteSVG(w, layout, export.SVGOptions{
					Columns:   app.Config.ColumnSet(),
					RowHeight: app.Config.RowHeight,
					Weeks:     weeks,
				})
			}),
		newExportFormatCmd(app, "csv", "Write the visible rows with their geometry as CSV",
			func(w io.Writer, layout *service.Layout, _ int) error {
				return export.WriteCSV(w, layout)
			}),
	)
	return cmd
}

type exportFunc func(w io.Writer, layout *service.Layout, weeks int) error

func newExportFormatCmd(app *App, format, short string, write exportFunc) *cobra.Command {
	var lf layoutFlags
	var output string
	var weeks int

	cmd := &cobra.Command{
		Use:   format + " FILE",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, args[0], func(ctx context.Context, s *session) error {
				layout, err := computeLayout(ctx, app, &lf, s)
				if err != nil {
					return err
				}

				if output == "" || output == "-" {
					return write(cmd.OutOrStdout(), layout, weeks)
				}
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating %s: %w", output, err)
				}
				if err := write(f, layout, weeks); err != nil {
					_ = f.Close()
					return fmt.Errorf("writing %s: %w", output, err)
				}
				if err := f.Close(); err != nil {
					return fmt.Errorf("writing %s: %w", output, err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "%s Wrote %s (%d rows)\n",
					formatter.StyleGreen.Render("✔"), output, len(layout.Rows))
				return nil
			})
		},
	}

	cmd.Flags().AddFlagSet(lf.flagSet(app))
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().IntVar(&weeks, "weeks", 0, "Limit the drawn week columns (0 for all)")
	return cmd
}
