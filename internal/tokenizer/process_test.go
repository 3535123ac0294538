//go:build unix

package tokenizer

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	path := filepath.Join(t.TempDir(), "tagger.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestProcessTaggerRoundTrip(t *testing.T) {
	script := writeScript(t, `echo '{"status":"ready"}'
while read line; do
  echo '{"tokens":[{"text":"cat","lemma":"cat","pos":"NOUN","is_stop":false,"is_punct":false,"entity_iob":"O"}]}'
done
`)
	tagger, err := NewProcessTagger(ProcessConfig{Command: "sh", Args: []string{script}, StopTimeout: time.Second})
	if err != nil {
		t.Fatalf("NewProcessTagger: %v", err)
	}
	w := NewWorker(tagger, WithStartupTimeout(5*time.Second))
	ctx := context.Background()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	tokens, err := w.Submit(ctx, "cat")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(tokens) != 1 || tokens[0].Lemma != "cat" || tokens[0].POS != "NOUN" {
		t.Fatalf("unexpected tokens %+v", tokens)
	}
	if err := w.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}

func TestProcessTaggerHandshakeError(t *testing.T) {
	script := writeScript(t, `echo '{"status":"error","error":"model en_core_web_sm not installed"}'
`)
	tagger, err := NewProcessTagger(ProcessConfig{Command: "sh", Args: []string{script}, StopTimeout: time.Second})
	if err != nil {
		t.Fatalf("NewProcessTagger: %v", err)
	}
	err = NewWorker(tagger, WithStartupTimeout(5*time.Second)).Start(context.Background())
	if !errors.Is(err, ErrModelLoad) {
		t.Fatalf("expected ErrModelLoad, got %v", err)
	}
}

func TestNewProcessTaggerRequiresCommand(t *testing.T) {
	if _, err := NewProcessTagger(ProcessConfig{}); err == nil {
		t.Fatal("expected error for empty command")
	}
}
