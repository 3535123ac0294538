// Package segments owns the ordered subtitle segment list of a run and the
// context batcher that slices it into overlapping windows for the reasoning
// chains. Each segment's clean text blanks bracketed non-speech cues so that
// word offsets stay valid against the original plaintext.
package segments
