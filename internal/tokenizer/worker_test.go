package tokenizer

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"vocabsub/internal/vocab"
)

type fakeTagger struct {
	loadErr  error
	loadWait time.Duration
	panicOn  string
	closed   atomic.Int32
	active   atomic.Int32
	maxSeen  atomic.Int32
}

func (f *fakeTagger) Load(ctx context.Context) error {
	if f.loadWait > 0 {
		select {
		case <-time.After(f.loadWait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return f.loadErr
}

func (f *fakeTagger) Tag(_ context.Context, text string) ([]Token, error) {
	n := f.active.Add(1)
	defer f.active.Add(-1)
	if n > f.maxSeen.Load() {
		f.maxSeen.Store(n)
	}
	if text == f.panicOn {
		panic("boom")
	}
	time.Sleep(time.Millisecond)
	return []Token{{Text: text, Lemma: text, POS: vocab.NOUN}}, nil
}

func (f *fakeTagger) Close() error {
	f.closed.Add(1)
	return nil
}

func TestWorkerSubmitAndShutdown(t *testing.T) {
	tagger := &fakeTagger{}
	w := NewWorker(tagger)
	ctx := context.Background()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	done := make(chan struct{})
	for i := 0; i < 4; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			tokens, err := w.Submit(ctx, "cat")
			if err != nil || len(tokens) != 1 || tokens[0].Text != "cat" {
				t.Errorf("Submit = %v, %v", tokens, err)
			}
		}()
	}
	for i := 0; i < 4; i++ {
		<-done
	}
	if got := tagger.maxSeen.Load(); got != 1 {
		t.Fatalf("expected one request in flight, saw %d", got)
	}

	if err := w.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if tagger.closed.Load() != 1 {
		t.Fatal("expected tagger to be closed once")
	}
	if _, err := w.Submit(ctx, "cat"); !errors.Is(err, ErrWorkerClosed) {
		t.Fatalf("expected ErrWorkerClosed, got %v", err)
	}
	if err := w.Shutdown(ctx); err != nil {
		t.Fatalf("second Shutdown: %v", err)
	}
}

func TestWorkerStartFailsFast(t *testing.T) {
	tagger := &fakeTagger{loadErr: errors.New("model missing")}
	w := NewWorker(tagger)
	err := w.Start(context.Background())
	if !errors.Is(err, ErrModelLoad) {
		t.Fatalf("expected ErrModelLoad, got %v", err)
	}
	if _, err := w.Submit(context.Background(), "x"); !errors.Is(err, ErrWorkerClosed) {
		t.Fatalf("expected ErrWorkerClosed after failed start, got %v", err)
	}
}

func TestWorkerStartTimeout(t *testing.T) {
	tagger := &fakeTagger{loadWait: time.Second}
	w := NewWorker(tagger, WithStartupTimeout(20*time.Millisecond))
	if err := w.Start(context.Background()); !errors.Is(err, ErrModelLoad) {
		t.Fatalf("expected ErrModelLoad on timeout, got %v", err)
	}
}

func TestWorkerRecoversFromTaggerPanic(t *testing.T) {
	tagger := &fakeTagger{panicOn: "bad"}
	w := NewWorker(tagger)
	ctx := context.Background()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Shutdown(ctx)
	if _, err := w.Submit(ctx, "bad"); err == nil {
		t.Fatal("expected panic to surface as error")
	}
	if _, err := w.Submit(ctx, "good"); err != nil {
		t.Fatalf("worker should survive a panic: %v", err)
	}
}

func TestSubmitBeforeStart(t *testing.T) {
	w := NewWorker(&fakeTagger{})
	if _, err := w.Submit(context.Background(), "x"); !errors.Is(err, ErrWorkerClosed) {
		t.Fatalf("expected ErrWorkerClosed, got %v", err)
	}
}
