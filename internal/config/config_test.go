package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"vocabsub/internal/config"
	"vocabsub/internal/vocab"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("VOCABSUB_LLM_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")
	return home
}

func TestLoadDefaultConfigExpandsPathsAndUsesEnvKey(t *testing.T) {
	home := isolate(t)
	t.Setenv("OPENROUTER_API_KEY", "router-key")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(home, ".local", "share", "vocabsub")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Paths.StorePath != filepath.Join(wantData, "vocabsub.db") {
		t.Fatalf("unexpected store path: %q", cfg.Paths.StorePath)
	}
	if cfg.LLM.APIKey != "router-key" {
		t.Fatalf("expected API key from env, got %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.BaseURL == "" || cfg.LLM.Model == "" {
		t.Fatalf("expected openrouter defaults, got %+v", cfg.LLM)
	}
	if cfg.KnownCeiling() != vocab.A2 {
		t.Fatalf("expected default ceiling A2, got %v", cfg.KnownCeiling())
	}
	if cfg.Batching.ContextWindow != 8 || cfg.Batching.ExtraLen != 2 {
		t.Fatalf("unexpected batching defaults: %+v", cfg.Batching)
	}
	if cfg.Annotate.Mode != config.ModeEvents || !cfg.Annotate.CacheResponses {
		t.Fatalf("unexpected annotate defaults: %+v", cfg.Annotate)
	}
}

func TestLoadCustomConfigOverrides(t *testing.T) {
	home := isolate(t)
	t.Setenv("VOCABSUB_LLM_API_KEY", "generic-key")
	t.Setenv("ANTHROPIC_API_KEY", "anthropic-key")

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[paths]
data_dir = "~/subs"
store_path = "~/subs/runs.db"

[language]
source = "Japanese"
target = "english"

[learner]
known_ceiling = "b1"

[batching]
context_window = 4
extra_len = 0

[llm]
provider = "Anthropic"

[annotate]
mode = "INPLACE"

[logging]
format = "json"
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected existing config at %q, got %q (exists=%v)", path, resolved, exists)
	}
	if cfg.Paths.DataDir != filepath.Join(home, "subs") {
		t.Fatalf("unexpected data dir: %q", cfg.Paths.DataDir)
	}
	if cfg.Paths.StorePath != filepath.Join(home, "subs", "runs.db") {
		t.Fatalf("unexpected store path: %q", cfg.Paths.StorePath)
	}
	if cfg.Language.Source != "ja" || cfg.Language.Target != "en" {
		t.Fatalf("unexpected languages: %+v", cfg.Language)
	}
	if cfg.KnownCeiling() != vocab.B1 {
		t.Fatalf("expected B1 ceiling, got %v", cfg.KnownCeiling())
	}
	if cfg.LLM.Provider != config.ProviderAnthropic {
		t.Fatalf("unexpected provider %q", cfg.LLM.Provider)
	}
	if cfg.LLM.APIKey != "generic-key" {
		t.Fatalf("expected generic key to take precedence, got %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.BaseURL != "" {
		t.Fatalf("anthropic provider should not inherit the openrouter URL, got %q", cfg.LLM.BaseURL)
	}
	if cfg.Annotate.Mode != config.ModeInPlace {
		t.Fatalf("unexpected mode %q", cfg.Annotate.Mode)
	}
	if cfg.Batching.ContextWindow != 4 || cfg.Batching.ExtraLen != 0 {
		t.Fatalf("unexpected batching: %+v", cfg.Batching)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging: %+v", cfg.Logging)
	}
}

func TestEmptyCeilingDisablesSuppression(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[learner]\nknown_ceiling = \"\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.KnownCeiling() != vocab.CEFRUnknown {
		t.Fatalf("expected no ceiling, got %v", cfg.KnownCeiling())
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	isolate(t)
	cases := map[string]string{
		"ceiling":  "[learner]\nknown_ceiling = \"D1\"\n",
		"window":   "[batching]\ncontext_window = 0\n",
		"extra":    "[batching]\nextra_len = -1\n",
		"mode":     "[annotate]\nmode = \"overlay\"\n",
		"provider": "[llm]\nprovider = \"carrier-pigeon\"\n",
		"backend":  "[tokenizer]\nbackend = \"magic\"\n",
		"process":  "[tokenizer]\nbackend = \"process\"\n",
		"format":   "[logging]\nformat = \"xml\"\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if _, _, _, err := config.Load(path); err == nil {
				t.Fatalf("expected validation error for %s", name)
			}
		})
	}
}

func TestValidateLLMRequiresKey(t *testing.T) {
	isolate(t)
	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if err := cfg.ValidateLLM(); err == nil || !strings.Contains(err.Error(), "llm.api_key") {
		t.Fatalf("expected missing key error, got %v", err)
	}
	cfg.LLM.APIKey = "k"
	if err := cfg.ValidateLLM(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateSampleLoadsCleanly(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		t.Fatalf("sample is not valid TOML: %v", err)
	}
	for _, section := range []string{"paths", "language", "learner", "batching", "tokenizer", "llm", "annotate", "media", "logging"} {
		if _, ok := raw[section]; !ok {
			t.Fatalf("sample missing [%s]", section)
		}
	}
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
}

func TestEncodeRedactsAPIKey(t *testing.T) {
	isolate(t)
	cfg := config.Default()
	cfg.LLM.APIKey = "secret"
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if strings.Contains(string(data), "secret") {
		t.Fatal("expected API key to be redacted")
	}
	if cfg.LLM.APIKey != "secret" {
		t.Fatal("Encode must not modify the receiver")
	}
}

func TestEnsureDirectories(t *testing.T) {
	isolate(t)
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.StorePath = filepath.Join(base, "db", "vocabsub.db")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{"data", "logs", "db"} {
		if info, err := os.Stat(filepath.Join(base, dir)); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", dir, err)
		}
	}
}
