// Package config loads, normalizes and validates vocabsub's TOML
// configuration.
//
// Load starts from Default, overlays the file (if any), expands paths,
// applies environment fallbacks for API keys and then validates the result.
// CreateSample writes the embedded sample used by `vocabsub config init`.
package config
