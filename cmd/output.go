package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// call runs fn behind a spinner on stderr, or directly when the output is
// JSON so nothing but the document reaches the terminal.
func call(cmd *cobra.Command, label string, asJSON bool, fn func() error) error {
	if asJSON {
		return fn()
	}

	return runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), label, func(_ context.Context) error {
		return fn()
	})
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeView prints the rendered page, or v as JSON.
func writeView(cmd *cobra.Command, asJSON bool, v any, render func() (string, error)) error {
	if asJSON {
		return writeJSON(cmd, v)
	}

	rendered, err := render()
	if err != nil {
		return fmt.Errorf("render view: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}
