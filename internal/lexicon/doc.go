// Package lexicon holds the static dictionaries consulted while picking and
// describing candidate words: CEFR difficulty, frequency/phonetics/definitions,
// exam vocabulary lists and a swear-word list.
//
// A Lexicon is built once per run (Load from a directory, or New from
// in-memory data) and is never mutated afterwards, so it can be shared
// without locking. Malformed entries are dropped at load time and simply
// look like missing words to callers.
package lexicon
