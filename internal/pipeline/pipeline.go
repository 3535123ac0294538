package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"vocabsub/internal/config"
	"vocabsub/internal/extract"
	"vocabsub/internal/lexicon"
	"vocabsub/internal/logging"
	"vocabsub/internal/reasoning"
	"vocabsub/internal/segments"
	"vocabsub/internal/services"
	"vocabsub/internal/store"
	"vocabsub/internal/subtitles"
	"vocabsub/internal/tokenizer"
	"vocabsub/internal/vocab"
	"vocabsub/internal/writeback"
)

var _ reasoning.ResponseCache = (*store.Store)(nil)

// RunStore records run history and caches reasoning responses.
type RunStore interface {
	reasoning.ResponseCache
	CreateRun(ctx context.Context, source string) (*store.Run, error)
	FinishRun(ctx context.Context, id string, summary store.RunSummary) error
}

// Input describes one annotation job.
type Input struct {
	SourcePath string
	// OutputPath defaults to DefaultOutputPath(SourcePath).
	OutputPath string
	Mode       writeback.Mode
	Translate  bool
	// ExtractOnly stops after candidate extraction: no reasoning calls, no
	// output file and no run record.
	ExtractOnly bool
}

// BatchError is a chain failure confined to one batch.
type BatchError struct {
	Batch int
	Chain string
	Err   error
}

func (e BatchError) Error() string {
	return fmt.Sprintf("batch %d %s: %v", e.Batch, e.Chain, e.Err)
}

// Result summarizes a finished run.
type Result struct {
	RunID          string
	OutputPath     string
	LexiconVersion string
	Segments       *segments.List
	Statistics     segments.Statistics
	Cleaned        subtitles.CleanStats
	Issues         []string
	Batches        int
	BatchErrors    []BatchError
	Writeback      writeback.Report
	Duration       time.Duration
}

// Runner wires the collaborators for annotation runs.
type Runner struct {
	cfg       *config.Config
	lex       *lexicon.Lexicon
	tagger    tokenizer.Tagger
	completer reasoning.Completer
	model     string
	store     RunStore
	logger    *slog.Logger
}

// Option customizes a Runner.
type Option func(*Runner)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithTagger replaces the tagger built from configuration.
func WithTagger(tagger tokenizer.Tagger) Option {
	return func(r *Runner) { r.tagger = tagger }
}

// WithCompleter sets the reasoning backend. model is used in cache keys.
// Without a completer runs are heuristic only.
func WithCompleter(completer reasoning.Completer, model string) Option {
	return func(r *Runner) {
		r.completer = completer
		r.model = model
	}
}

// WithStore enables run history and, when configured, the response cache.
func WithStore(s RunStore) Option {
	return func(r *Runner) { r.store = s }
}

// New builds a Runner over an already loaded lexicon.
func New(cfg *config.Config, lex *lexicon.Lexicon, opts ...Option) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("pipeline: config is required")
	}
	if lex == nil {
		return nil, errors.New("pipeline: lexicon is required")
	}
	r := &Runner{cfg: cfg, lex: lex, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "pipeline")
	if r.tagger == nil {
		tagger, err := tokenizer.NewTagger(tokenizer.Options{
			Backend:  cfg.Tokenizer.Backend,
			Command:  cfg.Tokenizer.Command,
			Args:     cfg.Tokenizer.Args,
			Language: cfg.Language.Source,
			Known:    lex.Has,
		})
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "pipeline", "build tokenizer", "", err)
		}
		r.tagger = tagger
	}
	return r, nil
}

// DefaultOutputPath places the annotated copy next to the source:
// episode.srt becomes episode.vocab.srt.
func DefaultOutputPath(source string) string {
	ext := filepath.Ext(source)
	return strings.TrimSuffix(source, ext) + ".vocab" + ext
}

// Run executes one job. Batch-local chain failures are reported in
// Result.BatchErrors; the returned error is reserved for failures that stop
// the run.
func (r *Runner) Run(ctx context.Context, in Input) (result Result, err error) {
	started := time.Now()
	if strings.TrimSpace(in.SourcePath) == "" {
		return result, services.Wrap(services.ErrValidation, "pipeline", "run", "source path is required", nil)
	}
	result.LexiconVersion = r.lex.Version()
	if !in.ExtractOnly {
		result.OutputPath = in.OutputPath
		if result.OutputPath == "" {
			result.OutputPath = DefaultOutputPath(in.SourcePath)
		}
		if filepath.Clean(result.OutputPath) == filepath.Clean(in.SourcePath) {
			return result, services.Wrap(services.ErrValidation, "pipeline", "run", "output path must differ from the source", nil)
		}
	}

	result.RunID = uuid.NewString()
	if r.store != nil && !in.ExtractOnly {
		run, createErr := r.store.CreateRun(ctx, in.SourcePath)
		if createErr != nil {
			return result, fmt.Errorf("record run start: %w", createErr)
		}
		result.RunID = run.ID
		defer func() {
			summary := store.RunSummary{
				Segments:    result.Statistics.Segments,
				Words:       result.Statistics.Words,
				BatchErrors: len(result.BatchErrors),
				Err:         err,
				Stats:       result.Statistics,
			}
			if err == nil {
				summary.Output = result.OutputPath
			}
			if finishErr := r.store.FinishRun(context.WithoutCancel(ctx), result.RunID, summary); finishErr != nil {
				r.logger.Warn("failed to record run outcome",
					logging.String(logging.FieldEventType, "run_record_failed"),
					logging.String(logging.FieldErrorHint, "check the store path is writable"),
					logging.String(logging.FieldImpact, "run history is incomplete"),
					logging.Error(finishErr),
				)
			}
		}()
	}

	ctx = logging.WithRunID(ctx, result.RunID)
	logger := logging.WithContext(ctx, r.logger)
	logger.Info("run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.String("source", in.SourcePath),
		logging.String("mode", string(in.Mode)),
		logging.Bool("extract_only", in.ExtractOnly),
	)

	doc, err := subtitles.ReadFile(in.SourcePath)
	if err != nil {
		return result, services.Wrap(services.ErrValidation, "pipeline", "read subtitles", in.SourcePath, err)
	}
	if r.cfg.Annotate.CleanAds {
		result.Cleaned = subtitles.CleanEvents(doc)
	}
	result.Issues = subtitles.Validate(doc)
	for _, issue := range result.Issues {
		logging.WarnWithContext(logger, "subtitle issue", "subtitle_issue",
			logging.String("issue", issue),
			logging.String(logging.FieldErrorHint, "inspect the subtitle file"),
			logging.String(logging.FieldImpact, "annotations may be misplaced"),
		)
	}

	list := buildSegments(doc)
	result.Segments = list
	if list.Len() == 0 {
		return result, services.Wrap(services.ErrValidation, "pipeline", "build segments", "no dialogue events", nil)
	}

	ids := vocab.NewIDGenerator(1)
	extractor := extract.New(r.lex, ids, r.cfg.KnownCeiling())
	if err := r.extract(ctx, logger, extractor, list); err != nil {
		return result, err
	}

	if in.ExtractOnly {
		result.Statistics = list.Statistics()
		result.Duration = time.Since(started)
		return result, nil
	}

	if r.completer != nil {
		svc := r.newService(logger, extractor)
		batches := list.Batches(r.cfg.Batching.ContextWindow, r.cfg.Batching.ExtraLen)
		result.Batches = len(batches)
		for _, batch := range batches {
			if err := ctx.Err(); err != nil {
				return result, err
			}
			if batchErr := r.processBatch(ctx, svc, batch, in.Translate); batchErr != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return result, ctxErr
				}
				result.BatchErrors = append(result.BatchErrors, *batchErr)
			}
		}
	} else {
		logger.Info("no reasoning backend configured; keeping heuristic candidates",
			logging.String(logging.FieldEventType, "reasoning_skipped"),
		)
	}

	mode := in.Mode
	if mode == "" {
		mode = writeback.ModeEvents
	}
	result.Writeback, err = writeback.Apply(doc, list, mode)
	if err != nil {
		return result, err
	}
	if err := subtitles.WriteFile(ctx, result.OutputPath, doc); err != nil {
		return result, err
	}
	result.Statistics = list.Statistics()
	result.Duration = time.Since(started)

	logger.Info("run completed",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.String("output", result.OutputPath),
		logging.Int("segments", result.Statistics.Segments),
		logging.Int("words", result.Statistics.Words),
		logging.Int("enriched", result.Statistics.Enriched),
		logging.Int("batch_errors", len(result.BatchErrors)),
		logging.Duration("duration", result.Duration),
	)
	return result, nil
}

// buildSegments turns dialogue events into segments. Plaintext comes from
// the same walk write-back uses, so offsets line up with the styled text.
func buildSegments(doc *subtitles.Document) *segments.List {
	speech := doc.Speech()
	segs := make([]*segments.Segment, 0, len(speech))
	for _, ev := range speech {
		segs = append(segs, &segments.Segment{
			Index:     ev.Index,
			StartMs:   ev.StartMs,
			EndMs:     ev.EndMs,
			Plaintext: writeback.Plaintext(ev.Text),
		})
	}
	return segments.NewList(segs)
}

func (r *Runner) extract(ctx context.Context, logger *slog.Logger, extractor *extract.Extractor, list *segments.List) error {
	worker := tokenizer.NewWorker(r.tagger,
		tokenizer.WithLogger(logger),
		tokenizer.WithStartupTimeout(time.Duration(r.cfg.Tokenizer.StartupTimeoutSeconds)*time.Second),
	)
	if err := worker.Start(ctx); err != nil {
		return services.Wrap(services.ErrExternalTool, "pipeline", "start tokenizer", "", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := worker.Shutdown(stopCtx); err != nil {
			logger.Warn("tokenizer shutdown failed",
				logging.String(logging.FieldEventType, "tokenizer_shutdown_failed"),
				logging.String(logging.FieldErrorHint, "a tagger process may need to be killed manually"),
				logging.String(logging.FieldImpact, "none for this run"),
				logging.Error(err),
			)
		}
	}()

	for _, seg := range list.Segments() {
		if err := ctx.Err(); err != nil {
			return err
		}
		clean := seg.CleanText()
		if strings.TrimSpace(clean) == "" {
			continue
		}
		tokens, err := worker.Submit(ctx, clean)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			logging.ErrorWithContext(logger, "tokenizer failed", "tokenizer_unavailable",
				logging.Int(logging.FieldSegment, seg.Index),
				logging.String(logging.FieldErrorHint, "check the tokenizer backend"),
				logging.String(logging.FieldImpact, "run aborted"),
				logging.Error(err),
			)
			return services.Wrap(services.ErrExternalTool, "pipeline", "tokenize", fmt.Sprintf("segment %d", seg.Index), err)
		}
		seg.Candidates = extractor.Extract(seg, tokens)
	}
	logger.Debug("extraction complete",
		logging.String(logging.FieldEventType, "extraction_complete"),
		logging.Int("segments", list.Len()),
	)
	return nil
}

func (r *Runner) newService(logger *slog.Logger, extractor *extract.Extractor) *reasoning.Service {
	opts := []reasoning.Option{
		reasoning.WithLogger(logger),
		reasoning.WithAttempts(r.cfg.LLM.MaxAttempts),
		reasoning.WithLanguages(r.cfg.Language.Source, r.cfg.Language.Target),
	}
	if r.store != nil && r.cfg.Annotate.CacheResponses {
		opts = append(opts, reasoning.WithCache(r.store, r.cfg.LLM.Provider, r.model))
	}
	return reasoning.New(r.completer, extractor, opts...)
}

// processBatch runs the chains for one batch in order. The first failing
// chain ends the batch; what earlier chains applied stays applied.
func (r *Runner) processBatch(ctx context.Context, svc *reasoning.Service, batch segments.Batch, translate bool) *BatchError {
	ctx = logging.WithBatch(ctx, batch.Number)
	logger := logging.WithContext(ctx, r.logger)

	fail := func(chain string, err error) *BatchError {
		logging.ErrorWithContext(logger, "reasoning chain failed", "chain_exhausted",
			logging.String(logging.FieldChain, chain),
			logging.Int("first_segment", batch.Real.First),
			logging.Int("last_segment", batch.Real.Last),
			logging.String(logging.FieldErrorHint, "check the reasoning backend; rerun to retry with cached responses"),
			logging.String(logging.FieldImpact, "batch keeps results of earlier chains"),
			logging.Error(err),
		)
		return &BatchError{Batch: batch.Number, Chain: chain, Err: err}
	}

	feedback, err := svc.Feedback(ctx, batch)
	if err != nil {
		return fail(reasoning.ChainFeedback, err)
	}
	enrich, err := svc.Enrich(ctx, batch)
	if err != nil {
		return fail(reasoning.ChainEnrich, err)
	}
	attrs := []logging.Attr{
		logging.String(logging.FieldEventType, "batch_complete"),
		logging.Int("kept", feedback.Kept),
		logging.Int("removed", feedback.Removed),
		logging.Int("added", feedback.Added),
		logging.Int("enriched", enrich.Enriched),
	}
	if translate {
		translated, err := svc.Translate(ctx, batch)
		if err != nil {
			return fail(reasoning.ChainTranslate, err)
		}
		attrs = append(attrs, logging.Int("translated", translated.Translated))
	}
	logger.Info("batch processed", logging.Args(attrs...)...)
	return nil
}
