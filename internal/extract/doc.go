// Package extract turns tagged subtitle text into lexicon-annotated
// vocabulary candidates and applies the same lexicon rules to words proposed
// later by the reasoning service.
package extract
