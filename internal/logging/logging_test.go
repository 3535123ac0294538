package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"vocabsub/internal/config"
)

func TestPrettyHandlerFormatsComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newPrettyHandler(&buf, lvl, false))
	logger = NewComponentLogger(logger, "pipeline")
	logger.Info("batch done", String("chain", "feedback"), Int("words", 3), String("note", "two words"))

	line := buf.String()
	if !strings.Contains(line, "INFO  pipeline: batch done") {
		t.Fatalf("unexpected header: %q", line)
	}
	if !strings.Contains(line, "chain=feedback") || !strings.Contains(line, "words=3") {
		t.Fatalf("missing fields: %q", line)
	}
	if !strings.Contains(line, `note="two words"`) {
		t.Fatalf("expected quoted value: %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should be rendered as prefix only: %q", line)
	}
}

func TestPrettyHandlerValueRendering(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newPrettyHandler(&buf, new(slog.LevelVar), false))
	logger.Info("call finished",
		Duration("took", 1234567*time.Microsecond),
		String("model", ""),
		Bool("cached", true),
		Any("err", errors.New("rate limited")),
	)

	line := buf.String()
	for _, want := range []string{"took=1.235s", `model=""`, "cached=true", `err="rate limited"`} {
		if !strings.Contains(line, want) {
			t.Fatalf("missing %s in %q", want, line)
		}
	}
}

func TestPrettyHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelWarn)
	logger := slog.New(newPrettyHandler(&buf, lvl, false))
	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level, got %q", buf.String())
	}
}

func TestNewWritesJSONCopyToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logs", "out.log")
	logger, err := New(Options{Level: "info", Format: "json", OutputPaths: []string{filepath.Join(dir, "console.log")}, FilePath: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("hello", String(FieldRunID, "abc"))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &record); err != nil {
		t.Fatalf("decode %q: %v", data, err)
	}
	if record["msg"] != "hello" || record["run_id"] != "abc" || record["level"] != "info" {
		t.Fatalf("unexpected record %v", record)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	logger, err := NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	logger.Info("configured")
	if _, err := os.Stat(filepath.Join(cfg.Paths.LogDir, LogFileName)); err != nil {
		t.Fatalf("expected log file: %v", err)
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newJSONHandler(&buf, new(slog.LevelVar), false))
	WarnWithContext(logger, "chain failed", "chain_exhausted", Error(errors.New("boom")))

	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &record); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{FieldEventType, FieldErrorHint, FieldImpact} {
		if _, ok := record[key]; !ok {
			t.Fatalf("missing %s in %v", key, record)
		}
	}
	if record[FieldEventType] != "chain_exhausted" {
		t.Fatalf("unexpected event type %v", record[FieldEventType])
	}
}

func TestWithContextAddsRunFields(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(newJSONHandler(&buf, new(slog.LevelVar), false))
	ctx := WithChain(WithBatch(WithRunID(context.Background(), "run-1"), 4), "enrichment")
	WithContext(ctx, base).Info("x")

	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &record); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if record[FieldRunID] != "run-1" || record[FieldBatch] != float64(4) || record[FieldChain] != "enrichment" {
		t.Fatalf("unexpected context fields %v", record)
	}
}

func TestJSONHandlerFormatsDurations(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newJSONHandler(&buf, new(slog.LevelVar), false))
	logger.Info("batch processed", Duration("duration", 1500*time.Millisecond+300*time.Microsecond))

	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &record); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if record["duration"] != "1.5s" {
		t.Fatalf("unexpected duration %v", record["duration"])
	}
	if ts, _ := record["ts"].(string); !strings.HasSuffix(ts, "Z") || len(ts) != len("2006-01-02T15:04:05.000Z") {
		t.Fatalf("unexpected timestamp %q", ts)
	}
}

func TestTeeHandler(t *testing.T) {
	if _, ok := TeeHandler(nil, nil).(NoopHandler); !ok {
		t.Fatal("expected NoopHandler when every handler is nil")
	}
	var a, b bytes.Buffer
	infoOnly := slog.NewJSONHandler(&a, &slog.HandlerOptions{Level: slog.LevelInfo})
	errorOnly := slog.NewJSONHandler(&b, &slog.HandlerOptions{Level: slog.LevelError})
	logger := slog.New(TeeHandler(infoOnly, errorOnly))
	logger.Info("info line")
	if a.Len() == 0 || b.Len() != 0 {
		t.Fatalf("info should reach only the first handler: a=%q b=%q", a.String(), b.String())
	}
	logger.Error("error line")
	if b.Len() == 0 {
		t.Fatal("error should reach the second handler")
	}
}
