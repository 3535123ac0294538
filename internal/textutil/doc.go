// Package textutil provides the text normalization shared by the lexicon,
// the candidate extractor and log formatting.
//
// Lemma and surface-form keys are produced by FoldKey (NFC + Unicode case
// folding via golang.org/x/text) so that dictionary lookups, deduplication
// and swear-word filtering all agree on what "the same word" means.
package textutil
