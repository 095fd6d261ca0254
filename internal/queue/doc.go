// Package queue persists the release queue document: named release groups,
// standalone staged items, blocked items, and the history of released items.
//
// The whole document is the unit of change. Callers Load it, mutate it, and
// Save it back; Update wraps that read-modify-write cycle. Every successful
// Save increments Document.Version, and a Save whose version no longer
// matches the stored one fails with ErrVersionConflict instead of silently
// overwriting a concurrent edit.
//
// Three backends implement Store:
//   - FileStore keeps a YAML document on disk and serializes access across
//     processes with a flock(2) lock file.
//   - SQLiteStore keeps the same document in a single-row SQLite table.
//   - MemoryStore backs tests and dry runs.
//
// Treat this package as the single source of truth for queue document
// semantics; engines never touch the backing files directly.
package queue
