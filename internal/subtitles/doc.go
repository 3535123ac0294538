// Package subtitles reads and writes SubRip (.srt) and Advanced SubStation
// (.ass/.ssa) files as a Document of timed events.
//
// Event.Text keeps the styled line exactly as it appears in the file (override
// blocks, HTML-ish tags and \N escapes included); the write-back step decides
// what plaintext those map to. ASS headers and trailing sections are carried
// through untouched so a round trip only changes the events it was asked to.
//
// CleanEvents drops advertisement cues, Validate reports timing problems,
// and WriteFile replaces the destination atomically under a file lock.
package subtitles
