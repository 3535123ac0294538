// Package language normalizes language codes for the source and target
// languages of an annotation run.
//
// Codes may arrive as ISO 639-1, ISO 639-2, English words ("japanese") or
// BCP 47 tags ("en-US"); everything is reduced to the 2-letter form used by
// configuration, tagger selection and prompt wording.
package language
