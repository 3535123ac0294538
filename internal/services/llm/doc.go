// Package llm talks to an OpenRouter-compatible chat completions endpoint
// and returns JSON-only completions for the reasoning chains.
//
// # Entry Points
//
// NewClient: construct a client from Config.
// Client.CompleteJSON: send system/user prompts, receive the raw JSON payload.
// Client.HealthCheck: verify the API key and model with a tiny request.
// DecodeLLMJSON: decode a payload, tolerating code fences and stray prose.
//
// # Retry Behaviour
//
// The client retries on HTTP 408/429/5xx, network timeouts and empty
// completions with exponential backoff (base 1s, max 10s). Retry-After is
// honoured. Context cancellation aborts retries immediately.
//
// # Usage
//
// Token counts reported by the provider accumulate on the client and are
// exposed through Client.Usage for run statistics.
package llm
