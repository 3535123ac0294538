package deps

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"vocabsub/internal/config"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Unset", Optional: true},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Detail != "" {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary to be unavailable with detail, got %#v", results[1])
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail for unset command: %q", results[2].Detail)
	}

	missing := MissingRequired(results)
	if len(missing) != 1 || missing[0] != "Missing" {
		t.Fatalf("unexpected missing list %v", missing)
	}
}

func TestRequirementsIncludeTaggerForProcessBackend(t *testing.T) {
	cfg := config.Default()
	if got := len(Requirements(&cfg)); got != 3 {
		t.Fatalf("expected 3 media requirements, got %d", got)
	}
	cfg.Tokenizer.Backend = "process"
	cfg.Tokenizer.Command = "spacy-tagger"
	reqs := Requirements(&cfg)
	last := reqs[len(reqs)-1]
	if last.Name != "Tagger" || last.Command != "spacy-tagger" || last.Optional {
		t.Fatalf("unexpected tagger requirement %+v", last)
	}
}

func TestSidecarNextToPrimary(t *testing.T) {
	tmp := t.TempDir()
	ffmpegPath := filepath.Join(tmp, executableName("ffmpeg"))
	ffprobePath := filepath.Join(tmp, executableName("ffprobe"))
	script := []byte("#!/bin/sh\nexit 0\n")
	for _, p := range []string{ffmpegPath, ffprobePath} {
		if err := os.WriteFile(p, script, 0o755); err != nil {
			t.Fatalf("write stub: %v", err)
		}
	}

	status := Sidecar(ffmpegPath, "ffprobe")
	if !status.Available {
		t.Fatalf("expected sidecar to be available, got detail %q", status.Detail)
	}
	if status.Command != ffprobePath {
		t.Fatalf("expected command %q, got %q", ffprobePath, status.Command)
	}
}

func TestSidecarPathFallback(t *testing.T) {
	tmp := t.TempDir()
	ffmpegPath := filepath.Join(tmp, executableName("ffmpeg"))
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(ffmpegPath, script, 0o755); err != nil {
		t.Fatalf("write ffmpeg stub: %v", err)
	}

	binDir := filepath.Join(tmp, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir bin: %v", err)
	}
	ffprobePath := filepath.Join(binDir, executableName("ffprobe"))
	if err := os.WriteFile(ffprobePath, script, 0o755); err != nil {
		t.Fatalf("write ffprobe stub: %v", err)
	}
	t.Setenv("PATH", binDir)

	status := Sidecar(ffmpegPath, "ffprobe")
	if !status.Available {
		t.Fatalf("expected PATH fallback to be available, got detail %q", status.Detail)
	}
	if status.Command != ffprobePath {
		t.Fatalf("expected command %q, got %q", ffprobePath, status.Command)
	}
}

func TestSidecarNotFound(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("PATH", "")
	status := Sidecar(filepath.Join(tmp, executableName("ffmpeg")), "ffprobe")
	if status.Available {
		t.Fatal("expected resolution to fail")
	}
	if status.Detail == "" {
		t.Fatal("expected detail message when the sidecar is unavailable")
	}
}

func executableName(base string) string {
	if runtime.GOOS == "windows" {
		return base + ".exe"
	}
	return base
}
