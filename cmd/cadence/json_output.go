package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"cadence/internal/api"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeJSONError reports err as an ErrorResponse and still returns it so the
// process exits non-zero.
func writeJSONError(cmd *cobra.Command, err error) error {
	if encErr := writeJSON(cmd, api.NewErrorResponse(err)); encErr != nil {
		return encErr
	}
	return err
}
