// Package writeback turns accepted annotations into subtitle edits.
//
// Word offsets point into a segment's plaintext, which is derived from the
// styled event text by Map: override blocks ({...}) and markup tags (<i>) are
// zero-width, while \N, \n, \h and raw newlines each become a single space.
// In-place mode uses the mapping to splice annotations into the styled line
// back to front; events mode leaves the line alone and adds a separate
// annotation event (ASS) or line (SRT).
package writeback
