// Package tokenizer runs a part-of-speech tagger behind a single long-lived
// worker. The orchestrator submits one text at a time and blocks for the
// tokens; the worker loads its model once, confirms readiness through a
// status handshake, and acknowledges shutdown.
//
// Three taggers are provided: an external model process speaking JSON lines
// (for example a spaCy script), a built-in rules tagger for English, and a
// kagome tagger for Japanese.
package tokenizer
