// Package services defines shared utilities consumed by the release engines
// and the command layer.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper so every engine reports
//     failures with the same taxonomy (not found, invalid status, already
//     exists, unknown profile, partial failure).
//   - Context helpers that stamp item IDs, group IDs, and correlation
//     identifiers for logging.
//
// Use these helpers when wiring new engine logic so error classification and
// observability stay uniform across components.
package services
