package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"vocabsub/internal/pipeline"
	"vocabsub/internal/segments"
	"vocabsub/internal/services"
	"vocabsub/internal/store"
	"vocabsub/internal/writeback"
)

type annotateSummary struct {
	RunID          string              `json:"run_id"`
	Source         string              `json:"source"`
	Output         string              `json:"output"`
	Mode           string              `json:"mode"`
	LexiconVersion string              `json:"lexicon_version,omitempty"`
	Model          string              `json:"model,omitempty"`
	Batches        int                 `json:"batches"`
	BatchErrors    []string            `json:"batch_errors,omitempty"`
	Issues         []string            `json:"issues,omitempty"`
	RemovedEvents  int                 `json:"removed_events"`
	AddedEvents    int                 `json:"added_events"`
	Skipped        int                 `json:"skipped_annotations"`
	Requests       int                 `json:"llm_requests"`
	PromptTokens   int                 `json:"prompt_tokens"`
	OutputTokens   int                 `json:"completion_tokens"`
	DurationMs     int64               `json:"duration_ms"`
	Statistics     segments.Statistics `json:"statistics"`
}

func newAnnotateCommand(ctx *commandContext) *cobra.Command {
	var (
		outputPath string
		modeFlag   string
		translate  bool
		track      int
		url        string
		offline    bool
		jsonOut    bool
	)

	cmd := &cobra.Command{
		Use:   "annotate [input]",
		Short: "Annotate a subtitle file with vocabulary for the learner",
		Long: `Annotate reads an SRT or ASS file, picks the words above the learner's
level, asks the reasoning backend to review and gloss them, and writes an
annotated copy next to the input. Video files are searched for an embedded
text track; --url downloads subtitles of a remote video instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			mode, err := writeback.ParseMode(firstNonBlank(modeFlag, cfg.Annotate.Mode))
			if err != nil {
				return services.Wrap(services.ErrValidation, "cli", "annotate", "", err)
			}
			if !cmd.Flags().Changed("translate") {
				translate = cfg.Annotate.TranslateSentences
			}

			lex, _, err := ctx.loadLexicon(logger)
			if err != nil {
				return err
			}

			var input string
			if len(args) > 0 {
				input = args[0]
			}
			source, err := resolveSource(cmd.Context(), cfg, sourceRequest{Input: input, Track: track, URL: url})
			if err != nil {
				return err
			}
			defer source.Close()

			opts := []pipeline.Option{pipeline.WithLogger(logger)}
			var backend pipeline.Backend
			if !offline {
				backend, err = pipeline.NewBackend(cfg)
				if err != nil {
					return err
				}
				opts = append(opts, pipeline.WithCompleter(backend, backend.Model()))
			}

			return ctx.withStore(cmd.Context(), func(st *store.Store) error {
				runner, err := pipeline.New(cfg, lex, append(opts, pipeline.WithStore(st))...)
				if err != nil {
					return err
				}
				result, err := runner.Run(cmd.Context(), pipeline.Input{
					SourcePath: source.Path,
					OutputPath: firstNonBlank(outputPath, source.DefaultOutput),
					Mode:       mode,
					Translate:  translate,
				})
				if err != nil {
					return err
				}

				summary := summarizeRun(result, source, mode)
				if backend != nil {
					usage := backend.Usage()
					summary.Model = backend.Model()
					summary.Requests = usage.Requests
					summary.PromptTokens = usage.PromptTokens
					summary.OutputTokens = usage.CompletionTokens
				}
				if jsonOut {
					return writeJSON(cmd, summary)
				}
				printAnnotateSummary(cmd.OutOrStdout(), summary)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Annotated file path (default: <input>.vocab.<ext>)")
	cmd.Flags().StringVarP(&modeFlag, "mode", "m", "", "Write-back mode: events or inplace (default from config)")
	cmd.Flags().BoolVarP(&translate, "translate", "t", false, "Also translate whole lines")
	cmd.Flags().IntVar(&track, "track", trackAuto, "Subtitle stream ordinal to extract from a video input (default: first in the source language)")
	cmd.Flags().StringVar(&url, "url", "", "Download subtitles of a remote video with yt-dlp")
	cmd.Flags().BoolVar(&offline, "offline", false, "Skip the reasoning backend and keep dictionary candidates as-is")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output the run summary as JSON")
	return cmd
}

func summarizeRun(result pipeline.Result, source subtitleSource, mode writeback.Mode) annotateSummary {
	summary := annotateSummary{
		RunID:          result.RunID,
		Source:         source.Origin + ": " + source.Path,
		Output:         result.OutputPath,
		Mode:           string(mode),
		LexiconVersion: result.LexiconVersion,
		Batches:        result.Batches,
		Issues:         result.Issues,
		RemovedEvents:  result.Cleaned.RemovedCues + result.Cleaned.RemovedEmpty,
		AddedEvents:    result.Writeback.AddedEvents,
		Skipped:        result.Writeback.Skipped,
		DurationMs:     result.Duration.Milliseconds(),
		Statistics:     result.Statistics,
	}
	if source.Origin == "file" {
		summary.Source = source.Path
	}
	for _, be := range result.BatchErrors {
		summary.BatchErrors = append(summary.BatchErrors, be.Error())
	}
	return summary
}

func printAnnotateSummary(out io.Writer, s annotateSummary) {
	stats := s.Statistics
	fmt.Fprintf(out, "Run:       %s\n", s.RunID)
	fmt.Fprintf(out, "Source:    %s\n", s.Source)
	fmt.Fprintf(out, "Output:    %s (%s)\n", s.Output, s.Mode)
	fmt.Fprintf(out, "Segments:  %d (%d annotated)\n", stats.Segments, stats.Annotated)
	fmt.Fprintf(out, "Words:     %d (%d enriched)\n", stats.Words, stats.Enriched)
	if s.Model != "" {
		fmt.Fprintf(out, "Reasoning: %s, %s, %s (%d prompt / %d completion tokens)\n",
			s.Model, plural(s.Batches, "batch", "batches"), plural(s.Requests, "request", "requests"),
			s.PromptTokens, s.OutputTokens)
	} else {
		fmt.Fprintln(out, "Reasoning: skipped (offline)")
	}
	if s.RemovedEvents > 0 {
		fmt.Fprintf(out, "Cleaned:   %s removed\n", plural(s.RemovedEvents, "cue", "cues"))
	}
	fmt.Fprintf(out, "Duration:  %s\n", (time.Duration(s.DurationMs) * time.Millisecond).String())

	if stats.Words > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderTable([]string{"CEFR", "Words"}, countRows(stats.ByCEFR, segments.Levels()), []columnAlignment{alignLeft, alignRight}))
	}
	if len(s.BatchErrors) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "%s kept dictionary results only:\n", plural(len(s.BatchErrors), "batch", "batches"))
		for _, msg := range s.BatchErrors {
			fmt.Fprintf(out, "  - %s\n", msg)
		}
	}
	if len(s.Issues) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Subtitle issues (%d):\n", len(s.Issues))
		for _, issue := range s.Issues {
			fmt.Fprintf(out, "  - %s\n", issue)
		}
	}
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
