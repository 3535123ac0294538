package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"vocabsub/internal/services"
	"vocabsub/internal/store"
)

type runView struct {
	ID          string          `json:"id"`
	Source      string          `json:"source"`
	Output      string          `json:"output,omitempty"`
	Status      store.RunStatus `json:"status"`
	StartedAt   time.Time       `json:"started_at"`
	DurationMs  int64           `json:"duration_ms"`
	Segments    int             `json:"segments"`
	Words       int             `json:"words"`
	BatchErrors int             `json:"batch_errors"`
	Error       string          `json:"error,omitempty"`
}

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var (
		limit   int
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "List recent annotation runs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd.Context(), func(st *store.Store) error {
				var runs []store.Run
				if len(args) == 1 {
					run, err := st.GetRun(cmd.Context(), args[0])
					if errors.Is(err, store.ErrNotFound) {
						return services.Wrap(services.ErrNotFound, "store", "get run", args[0], err)
					}
					if err != nil {
						return err
					}
					runs = append(runs, *run)
				} else {
					var err error
					runs, err = st.ListRuns(cmd.Context(), limit)
					if err != nil {
						return err
					}
				}

				views := make([]runView, 0, len(runs))
				for _, run := range runs {
					views = append(views, runView{
						ID:          run.ID,
						Source:      run.Source,
						Output:      run.Output,
						Status:      run.Status,
						StartedAt:   run.StartedAt,
						DurationMs:  run.Duration().Milliseconds(),
						Segments:    run.Segments,
						Words:       run.Words,
						BatchErrors: run.BatchErrors,
						Error:       run.ErrorMessage,
					})
				}
				if jsonOut {
					return writeJSON(cmd, views)
				}

				out := cmd.OutOrStdout()
				if len(views) == 0 {
					fmt.Fprintln(out, "No runs recorded")
					return nil
				}
				rows := make([][]string, 0, len(views))
				for _, v := range views {
					rows = append(rows, []string{
						shortID(v.ID),
						v.StartedAt.Local().Format("2006-01-02 15:04"),
						string(v.Status),
						filepath.Base(v.Source),
						strconv.Itoa(v.Segments),
						strconv.Itoa(v.Words),
						strconv.Itoa(v.BatchErrors),
						formatDuration(time.Duration(v.DurationMs) * time.Millisecond),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Started", "Status", "Source", "Segments", "Words", "Errors", "Took"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
				))
				for _, v := range views {
					if v.Error != "" {
						fmt.Fprintf(out, "%s: %s\n", shortID(v.ID), v.Error)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(100 * time.Millisecond).String()
}

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached reasoning responses",
	}

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Count cached responses per chain",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd.Context(), func(st *store.Store) error {
				counts, err := st.CountResponses(cmd.Context())
				if err != nil {
					return err
				}
				total := 0
				for _, n := range counts {
					total += n
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Store: %s\n", st.Path())
				fmt.Fprintf(out, "Cached responses: %d\n", total)
				if total > 0 {
					fmt.Fprintln(out, renderTable([]string{"Chain", "Responses"}, countRows(counts, nil), []columnAlignment{alignLeft, alignRight}))
				}
				return nil
			})
		},
	})

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete every cached response",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd.Context(), func(st *store.Store) error {
				removed, err := st.ClearResponses(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached responses\n", removed)
				return nil
			})
		},
	})

	return cacheCmd
}
