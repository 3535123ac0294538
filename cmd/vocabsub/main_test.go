package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vocabsub/internal/config"
)

const sampleSRT = "1\n00:00:01,000 --> 00:00:03,000\nThe cat sat on the mat.\n\n2\n00:00:04,000 --> 00:00:06,000\nNevertheless, she persevered.\n"

const sampleCEFR = `{
	"cat": [{"pos": "noun", "level": "A1"}],
	"sit": [{"pos": "verb", "level": "A1"}],
	"mat": [{"pos": "noun", "level": "A2"}],
	"nevertheless": [{"pos": "adverb", "level": "B2"}],
	"persevere": [{"pos": "verb", "level": "C1"}]
}`

type cliTestEnv struct {
	base       string
	configPath string
	cfg        *config.Config
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	home := filepath.Join(base, "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("NO_COLOR", "1")
	for _, key := range []string{"VOCABSUB_LLM_API_KEY", "OPENROUTER_API_KEY", "ANTHROPIC_API_KEY"} {
		t.Setenv(key, "")
	}

	lexDir := filepath.Join(base, "lexicon")
	writeFile(t, filepath.Join(lexDir, "cefr.json"), sampleCEFR)
	writeFile(t, filepath.Join(lexDir, "VERSION"), "test-lexicon 1")

	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.LexiconDir = lexDir
	cfg.Paths.StorePath = filepath.Join(base, "data", "vocabsub.db")
	cfg.Learner.KnownCeiling = "A2"
	cfg.Logging.Level = "error"

	configPath := filepath.Join(base, "config.toml")
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	writeFile(t, configPath, string(data))

	return &cliTestEnv{base: base, configPath: configPath, cfg: &cfg}
}

func (e *cliTestEnv) subtitle(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.base, name)
	writeFile(t, path, content)
	return path
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}
