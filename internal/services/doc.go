// Package services holds what the external integrations share: error markers
// that let the CLI and the pipeline tell a configuration mistake from a
// flaky reasoning service, and the Wrap helper that attaches stage context.
//
// Concrete clients live in subpackages: llm (OpenRouter chat completions)
// and anthropic (Claude messages).
package services
