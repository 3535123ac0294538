package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigInitWritesSampleOnce(t *testing.T) {
	env := setupCLITestEnv(t)
	target := filepath.Join(env.base, "fresh", "config.toml")

	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected second init without --overwrite to fail")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigShowRedactsAPIKey(t *testing.T) {
	env := setupCLITestEnv(t)
	t.Setenv("VOCABSUB_LLM_API_KEY", "sk-secret-value")

	out, _, err := runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if strings.Contains(out, "sk-secret-value") {
		t.Fatalf("api key leaked:\n%s", out)
	}
	requireContains(t, out, "********")
	requireContains(t, out, env.configPath)
	requireContains(t, out, "known_ceiling")
}

func TestConfigValidateReportsMissingKey(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Reasoning backend not usable")
	requireContains(t, out, "Configuration valid")
}
