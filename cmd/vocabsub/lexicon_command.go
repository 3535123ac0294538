package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newLexiconCommand(ctx *commandContext) *cobra.Command {
	lexCmd := &cobra.Command{
		Use:   "lexicon",
		Short: "Inspect the vocabulary lexicon",
	}
	lexCmd.AddCommand(newLexiconInfoCommand(ctx))
	return lexCmd
}

func newLexiconInfoCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show lexicon version and dictionary sizes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			lex, report, err := ctx.loadLexicon(logger)
			if err != nil {
				return err
			}
			summary := lex.Summary()
			if jsonOut {
				return writeJSON(cmd, map[string]any{
					"directory": cfg.Paths.LexiconDir,
					"summary":   summary,
					"files":     report.Files,
					"skipped":   report.Skipped,
					"issues":    report.Issues,
				})
			}

			out := cmd.OutOrStdout()
			version := summary.Version
			if version == "" {
				version = "(unversioned)"
			}
			fmt.Fprintf(out, "Directory: %s\n", cfg.Paths.LexiconDir)
			fmt.Fprintf(out, "Version:   %s\n", version)
			fmt.Fprintf(out, "Language:  %s\n", summary.Language)

			rows := [][]string{
				{"cefr", strconv.Itoa(summary.CEFR)},
				{"frequency", strconv.Itoa(summary.Frequency)},
				{"swear", strconv.Itoa(summary.Swear)},
			}
			for _, id := range lex.ExamIDs() {
				rows = append(rows, []string{"exam:" + id, strconv.Itoa(summary.Exams[id])})
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, renderTable([]string{"Dictionary", "Entries"}, rows, []columnAlignment{alignLeft, alignRight}))

			if report.Skipped > 0 {
				fmt.Fprintf(out, "\nSkipped %d malformed entries:\n", report.Skipped)
				for _, issue := range report.Issues {
					fmt.Fprintf(out, "  - %s\n", issue)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}
