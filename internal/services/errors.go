package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTimeout       = errors.New("timeout")
	ErrTransient     = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker. The marker should be one of the exported
// sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ExitCode maps a failure to the process exit status used by the CLI.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrConfiguration):
		return 2
	case errors.Is(err, ErrValidation), errors.Is(err, ErrNotFound):
		return 3
	case errors.Is(err, ErrExternalTool):
		return 4
	default:
		return 1
	}
}

// Hint returns a short operator-facing remedy for err, or "" when none applies.
func Hint(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfiguration):
		return "check the config file (vocabsub config show)"
	case errors.Is(err, ErrNotFound):
		return "verify the input path and lexicon directory"
	case errors.Is(err, ErrValidation):
		return "inspect the subtitle file for malformed cues"
	case errors.Is(err, ErrExternalTool):
		return "run vocabsub doctor to check external tools"
	case errors.Is(err, ErrTimeout), errors.Is(err, ErrTransient):
		return "retry later; cached responses are reused"
	default:
		return ""
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
