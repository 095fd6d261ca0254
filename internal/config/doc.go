// Package config loads, normalizes, and validates cadence configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// CADENCE_CONTENT_DIR and CADENCE_TIMEZONE. The Config type centralizes every
// knob the CLI and engines need: where episode metadata lives, which backend
// holds the release queue document, the distribution profile table, and the
// timezone calendar days are computed in.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
