// Package vocab defines the annotation vocabulary: candidate words, their
// position metadata, difficulty levels and the part-of-speech tag set.
//
// Word identity across reasoning-service round trips is carried solely by
// WordMetadata.WordID, minted by an IDGenerator owned by one run. IDs are
// never reused, even after a word is removed.
package vocab
