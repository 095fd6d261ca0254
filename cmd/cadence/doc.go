// Package main hosts the cadence CLI entrypoint and command graph.
//
// Each command loads the configuration, opens the metadata and release queue
// stores through internal/api, performs one operation, and renders the result
// as a table, plain lines, or JSON. Engine behavior lives in the internal
// packages; commands here only parse flags and format output.
package main
