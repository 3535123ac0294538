package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"vocabsub/internal/config"
	"vocabsub/internal/lexicon"
	"vocabsub/internal/logging"
	"vocabsub/internal/services"
	"vocabsub/internal/store"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "load", resolved, err)
			return
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			cfg.Logging.Level = strings.TrimSpace(*c.logLevelFlag)
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "ensure directories", "", err)
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = services.Wrap(services.ErrConfiguration, "logging", "init", "", err)
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// loadLexicon reads the configured lexicon directory and logs what had to be
// dropped.
func (c *commandContext) loadLexicon(logger *slog.Logger) (*lexicon.Lexicon, lexicon.LoadReport, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, lexicon.LoadReport{}, err
	}
	lex, report, err := lexicon.Load(cfg.Paths.LexiconDir, cfg.Language.Source)
	if err != nil {
		marker := services.ErrValidation
		if errors.Is(err, os.ErrNotExist) {
			marker = services.ErrNotFound
		}
		return nil, report, services.Wrap(marker, "lexicon", "load", cfg.Paths.LexiconDir, err)
	}
	if report.Skipped > 0 && logger != nil {
		logging.WarnWithContext(logger, "lexicon entries skipped", "lexicon_entries_skipped",
			logging.Int("skipped", report.Skipped),
			logging.String("first_issue", firstOrEmpty(report.Issues)),
			logging.String(logging.FieldErrorHint, "fix the listed lexicon entries"),
			logging.String(logging.FieldImpact, "skipped lemmas are never annotated"),
		)
	}
	return lex, report, nil
}

func (c *commandContext) withStore(ctx context.Context, fn func(*store.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	st, err := store.Open(ctx, cfg.Paths.StorePath)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "store", "open", cfg.Paths.StorePath, err)
	}
	defer st.Close()
	return fn(st)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func firstOrEmpty(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, pluralForm)
}
