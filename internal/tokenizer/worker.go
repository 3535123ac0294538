package tokenizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"vocabsub/internal/logging"
)

type request struct {
	ctx   context.Context
	text  string
	reply chan result
}

type result struct {
	tokens []Token
	err    error
}

// Worker owns a Tagger on a dedicated goroutine. Requests, results, startup
// status and shutdown acknowledgements each travel on their own channel.
type Worker struct {
	tagger         Tagger
	logger         *slog.Logger
	startupTimeout time.Duration

	requests chan request
	status   chan error
	shutdown chan chan error
	done     chan struct{}

	submitMu sync.Mutex

	mu      sync.Mutex
	started bool
	closed  bool
}

// WorkerOption configures a Worker.
type WorkerOption func(*Worker)

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) WorkerOption {
	return func(w *Worker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithStartupTimeout bounds how long Start waits for the model handshake.
func WithStartupTimeout(timeout time.Duration) WorkerOption {
	return func(w *Worker) {
		if timeout > 0 {
			w.startupTimeout = timeout
		}
	}
}

// NewWorker wraps tagger. The worker does nothing until Start.
func NewWorker(tagger Tagger, opts ...WorkerOption) *Worker {
	w := &Worker{
		tagger:         tagger,
		logger:         logging.NewNop(),
		startupTimeout: 60 * time.Second,
		requests:       make(chan request),
		status:         make(chan error, 1),
		shutdown:       make(chan chan error),
		done:           make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = logging.NewComponentLogger(w.logger, "tokenizer")
	return w
}

// Start launches the worker goroutine and blocks until the tagger reports
// that its model is loaded. A load failure is returned wrapped in
// ErrModelLoad and the worker is left closed.
func (w *Worker) Start(ctx context.Context) error {
	if w.tagger == nil {
		return fmt.Errorf("%w: no tagger configured", ErrModelLoad)
	}
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return errors.New("tokenizer: worker already started")
	}
	w.started = true
	w.mu.Unlock()

	loadCtx, cancel := context.WithTimeout(ctx, w.startupTimeout)
	defer cancel()

	go w.run(loadCtx)

	if err := <-w.status; err != nil {
		w.markClosed()
		w.logger.Error("tokenizer model load failed",
			logging.String(logging.FieldEventType, "tokenizer_unavailable"),
			logging.String(logging.FieldErrorHint, "check the tokenizer backend and its model installation"),
			logging.Error(err),
		)
		return fmt.Errorf("%w: %v", ErrModelLoad, err)
	}
	w.logger.Debug("tokenizer ready")
	return nil
}

func (w *Worker) run(loadCtx context.Context) {
	defer close(w.done)

	// Close also aborts a Load that ignores its deadline.
	loaded := make(chan error, 1)
	go func() { loaded <- w.load(loadCtx) }()
	var err error
	select {
	case err = <-loaded:
	case <-loadCtx.Done():
		err = loadCtx.Err()
	}
	if err != nil {
		_ = w.tagger.Close()
		w.status <- err
		return
	}
	w.status <- nil
	for {
		select {
		case req := <-w.requests:
			tokens, err := w.tag(req.ctx, req.text)
			req.reply <- result{tokens: tokens, err: err}
		case ack := <-w.shutdown:
			ack <- w.tagger.Close()
			return
		}
	}
}

func (w *Worker) load(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tagger panicked during load: %v", r)
		}
	}()
	return w.tagger.Load(ctx)
}

func (w *Worker) tag(ctx context.Context, text string) (tokens []Token, err error) {
	defer func() {
		if r := recover(); r != nil {
			tokens, err = nil, fmt.Errorf("tagger panicked: %v", r)
		}
	}()
	return w.tagger.Tag(ctx, text)
}

func (w *Worker) markClosed() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
}

func (w *Worker) isClosed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed || !w.started
}

// Submit tags text and blocks until the tokens arrive. Only one request is
// in flight at a time; concurrent callers queue behind each other.
func (w *Worker) Submit(ctx context.Context, text string) ([]Token, error) {
	w.submitMu.Lock()
	defer w.submitMu.Unlock()
	if w.isClosed() {
		return nil, ErrWorkerClosed
	}

	req := request{ctx: ctx, text: text, reply: make(chan result, 1)}
	select {
	case w.requests <- req:
	case <-w.done:
		return nil, ErrWorkerClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case res := <-req.reply:
		return res.tokens, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Shutdown asks the worker to close its tagger and waits for the
// acknowledgement. Calling it more than once is safe.
func (w *Worker) Shutdown(ctx context.Context) error {
	w.submitMu.Lock()
	defer w.submitMu.Unlock()

	w.mu.Lock()
	if !w.started || w.closed {
		w.closed = true
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	ack := make(chan error, 1)
	select {
	case w.shutdown <- ack:
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-ack:
		if err != nil {
			return fmt.Errorf("tokenizer: close tagger: %w", err)
		}
		w.logger.Debug("tokenizer stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
