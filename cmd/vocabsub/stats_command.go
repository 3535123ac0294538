package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"vocabsub/internal/pipeline"
	"vocabsub/internal/segments"
	"vocabsub/internal/vocab"
)

type statsWord struct {
	Segment int      `json:"segment"`
	Text    string   `json:"text"`
	Lemma   string   `json:"lemma"`
	POS     string   `json:"pos"`
	CEFR    string   `json:"cefr"`
	Exams   []string `json:"exams,omitempty"`
}

type statsReport struct {
	Source         string              `json:"source"`
	LexiconVersion string              `json:"lexicon_version,omitempty"`
	Statistics     segments.Statistics `json:"statistics"`
	Words          []statsWord         `json:"words,omitempty"`
}

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var (
		track     int
		showWords bool
		jsonOut   bool
	)

	cmd := &cobra.Command{
		Use:   "stats <input>",
		Short: "Show dictionary candidates without calling the reasoning backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			lex, _, err := ctx.loadLexicon(logger)
			if err != nil {
				return err
			}
			source, err := resolveSource(cmd.Context(), cfg, sourceRequest{Input: args[0], Track: track})
			if err != nil {
				return err
			}
			defer source.Close()

			runner, err := pipeline.New(cfg, lex, pipeline.WithLogger(logger))
			if err != nil {
				return err
			}
			result, err := runner.Run(cmd.Context(), pipeline.Input{SourcePath: source.Path, ExtractOnly: true})
			if err != nil {
				return err
			}

			report := statsReport{
				Source:         args[0],
				LexiconVersion: result.LexiconVersion,
				Statistics:     result.Statistics,
			}
			if showWords {
				report.Words = collectWords(result.Segments)
			}
			if jsonOut {
				return writeJSON(cmd, report)
			}
			printStats(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().IntVar(&track, "track", trackAuto, "Subtitle stream ordinal to extract from a video input")
	cmd.Flags().BoolVarP(&showWords, "words", "w", false, "List every candidate word")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func collectWords(list *segments.List) []statsWord {
	if list == nil {
		return nil
	}
	var words []statsWord
	for _, seg := range list.Segments() {
		for _, w := range seg.Candidates {
			words = append(words, statsWord{
				Segment: seg.Index,
				Text:    w.Text,
				Lemma:   w.Lemma,
				POS:     string(w.POS),
				CEFR:    cefrLabel(w.CEFR),
				Exams:   w.Exams,
			})
		}
	}
	return words
}

func cefrLabel(level vocab.CEFR) string {
	if level.Known() {
		return level.String()
	}
	return segments.UnknownLevel
}

func printStats(out io.Writer, r statsReport) {
	s := r.Statistics
	fmt.Fprintf(out, "Source:   %s\n", r.Source)
	if r.LexiconVersion != "" {
		fmt.Fprintf(out, "Lexicon:  %s\n", r.LexiconVersion)
	}
	fmt.Fprintf(out, "Segments: %d (%d with candidates)\n", s.Segments, s.Annotated)
	fmt.Fprintf(out, "Words:    %d\n", s.Words)

	counts := []columnAlignment{alignLeft, alignRight}
	fmt.Fprintln(out)
	fmt.Fprintln(out, renderTable([]string{"CEFR", "Words"}, countRows(s.ByCEFR, segments.Levels()), counts))
	if len(s.ByPOS) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderTable([]string{"POS", "Words"}, countRows(s.ByPOS, nil), counts))
	}
	if len(s.ByExam) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderTable([]string{"Exam", "Words"}, countRows(s.ByExam, nil), counts))
	}

	if len(r.Words) > 0 {
		rows := make([][]string, 0, len(r.Words))
		for _, w := range r.Words {
			rows = append(rows, []string{strconv.Itoa(w.Segment), w.Text, w.Lemma, w.POS, w.CEFR, strings.Join(w.Exams, ", ")})
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderTable(
			[]string{"Seg", "Text", "Lemma", "POS", "CEFR", "Exams"},
			rows,
			[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
		))
	}
}
