// Package store persists run history and cached reasoning responses in a
// SQLite database.
//
// The schema is managed with goose migrations embedded in the binary. Queries
// are built with squirrel and executed through a small busy-retry wrapper so
// concurrent CLI invocations sharing the database back off instead of
// failing on SQLITE_BUSY.
package store
