package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"vocabsub/internal/deps"
	"vocabsub/internal/pipeline"
	"vocabsub/internal/store"
)

const healthCheckTimeout = 30 * time.Second

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var skipLLM bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check external tools, the lexicon, the store and the reasoning backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			failures := 0
			line := func(label string, kind statusKind, msg string) {
				if kind == statusError {
					failures++
				}
				fmt.Fprintln(out, renderStatusLine(label, kind, msg, colorize))
			}

			fmt.Fprintln(out, renderSectionHeader("Configuration", colorize))
			line("Config file", statusInfo, ctx.configPath)
			line("Languages", statusInfo, cfg.Language.Source+" -> "+cfg.Language.Target)
			ceiling := cfg.Learner.KnownCeiling
			if ceiling == "" {
				ceiling = "none"
			}
			line("Known ceiling", statusInfo, ceiling)

			fmt.Fprintln(out, renderSectionHeader("External tools", colorize))
			for _, status := range deps.CheckBinaries(deps.Requirements(cfg)) {
				switch {
				case status.Available:
					line(status.Name, statusOK, status.Command)
				case status.Optional:
					line(status.Name, statusWarn, status.Detail+"; optional: "+status.Description)
				default:
					line(status.Name, statusError, status.Detail)
				}
			}

			fmt.Fprintln(out, renderSectionHeader("Data", colorize))
			if lex, report, err := ctx.loadLexicon(nil); err != nil {
				line("Lexicon", statusError, err.Error())
			} else {
				summary := lex.Summary()
				msg := fmt.Sprintf("%d CEFR entries, %d exam lists", summary.CEFR, len(summary.Exams))
				if summary.Version != "" {
					msg = summary.Version + ", " + msg
				}
				kind := statusOK
				if report.Skipped > 0 {
					kind = statusWarn
					msg += fmt.Sprintf(", %d malformed entries skipped", report.Skipped)
				}
				line("Lexicon", kind, msg)
			}
			if err := ctx.withStore(cmd.Context(), func(st *store.Store) error {
				runs, err := st.ListRuns(cmd.Context(), 1)
				if err != nil {
					return err
				}
				msg := st.Path()
				if len(runs) > 0 {
					msg += fmt.Sprintf(" (last run %s, %s)", runs[0].StartedAt.Local().Format("2006-01-02 15:04"), runs[0].Status)
				}
				line("Run store", statusOK, msg)
				return nil
			}); err != nil {
				line("Run store", statusError, err.Error())
			}

			fmt.Fprintln(out, renderSectionHeader("Reasoning", colorize))
			switch backend, err := pipeline.NewBackend(cfg); {
			case err != nil:
				line("Backend", statusWarn, err.Error()+"; annotate --offline still works")
			case skipLLM:
				line("Backend", statusInfo, fmt.Sprintf("%s %s (health check skipped)", cfg.LLM.Provider, backend.Model()))
			default:
				checkCtx, cancel := context.WithTimeout(cmd.Context(), healthCheckTimeout)
				err := backend.HealthCheck(checkCtx)
				cancel()
				if err != nil {
					line("Backend", statusError, fmt.Sprintf("%s %s: %v", cfg.LLM.Provider, backend.Model(), err))
				} else {
					line("Backend", statusOK, fmt.Sprintf("%s %s", cfg.LLM.Provider, backend.Model()))
				}
			}

			if failures > 0 {
				return fmt.Errorf("doctor: %s failed", plural(failures, "check", "checks"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipLLM, "skip-llm", false, "Do not contact the reasoning backend")
	return cmd
}
