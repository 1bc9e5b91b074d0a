// leaguectl/cmd/table.go
package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Ftotnem/LEAGUE-SERVICES/leaguectl/board"
)

type tableFlags struct {
	sort      string
	status    string
	tablePath string
	watch     time.Duration
}

func newTableCmd(a *app) *cobra.Command {
	var f tableFlags

	cmd := &cobra.Command{
		Use:   "table",
		Short: "Show the standings table",
		Example: `  leaguectl table
  leaguectl table --sort name
  leaguectl table --watch 8s`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sortMode, err := board.ParseSortMode(f.sort)
			if err != nil {
				return err
			}
			status, err := parseStatusFlag(f.status)
			if err != nil {
				return err
			}
			tablePath := f.tablePath
			if tablePath == "" {
				tablePath = a.cfg.TablePath
			}
			opts := board.Options{TablePath: tablePath, Status: status, Sort: sortMode}

			if f.watch <= 0 {
				return runTable(cmd.Context(), a, cmd.OutOrStdout(), opts)
			}
			return watch(cmd.Context(), f.watch, func(ctx context.Context) {
				if err := runTable(ctx, a, cmd.OutOrStdout(), opts); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				}
			})
		},
	}

	cmd.Flags().StringVar(&f.sort, "sort", string(board.SortPoints), "Sort by points (points, goal difference, goals scored, name) or name")
	cmd.Flags().StringVar(&f.status, "status", "", "Only list matches with this status below the table (SCHEDULED, LIVE, FT)")
	cmd.Flags().StringVar(&f.tablePath, "table-path", "", "Provider table endpoint (default from LEAGUE_TABLE_PATH or /table)")
	cmd.Flags().DurationVar(&f.watch, "watch", 0, "Refresh on this interval until interrupted, e.g. 8s")
	return cmd
}

func runTable(ctx context.Context, a *app, out io.Writer, opts board.Options) error {
	b, err := a.loader.Load(ctx, opts)
	if err != nil {
		return err
	}

	source := "Using table from provider"
	if b.Source == board.SourceComputed {
		source = "Computed from matches"
	}
	fmt.Fprintf(out, "%s (%s, %s)\n", source, a.client.BaseURL(), time.Now().Format(time.TimeOnly))
	board.RenderTable(out, b.Rows)

	if opts.Status != "" {
		fmt.Fprintf(out, "\n%s matches\n", opts.Status)
		board.SortHistory(b.Matches)
		board.RenderFixtures(out, b.Matches, b.TeamNames(), "", time.Local)
	}
	return nil
}

// watch runs fn immediately and then on every tick until ctx is done. Each run replaces the
// previous output.
func watch(ctx context.Context, interval time.Duration, fn func(ctx context.Context)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		fn(ctx)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
