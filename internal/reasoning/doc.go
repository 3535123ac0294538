// Package reasoning runs the three structured round trips made per context
// window: feedback (prune, correct and extend candidates), enrichment
// (translation and usage notes per word) and optional sentence translation.
//
// Each chain builds a typed request, sends it through a Completer, decodes
// and validates the typed response, and applies it to the batch. A response
// that fails validation counts as a failed attempt; after the configured
// number of attempts the chain returns ErrExhausted and the caller decides
// how the batch degrades.
//
// Words are correlated across round trips by word_id only. Feedback is
// applied to the batch's real range; enrichment to the whole fetch range.
package reasoning
