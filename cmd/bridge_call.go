package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/querykiln/kiln/internal/bridge"
	"github.com/spf13/cobra"
)

func newBridgeCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bridge",
		Short: "Call privileged operations directly",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "call <operation> [json-args]",
		Short: "Run one bridge operation and print its result as JSON",
		Long: "Runs a bridge operation by name. json-args is a JSON array of positional arguments, " +
			"for example: kiln bridge call secure-request '[\"/keywords\", {\"topic\": \"tea\"}]'.\n\n" +
			"Operations: " + strings.Join(bridge.Operations, ", "),
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var rawArgs json.RawMessage
			if len(args) == 2 {
				rawArgs = json.RawMessage(args[1])
			}

			resp, err := app.bridge.Dispatch(cmd.Context(), args[0], rawArgs)
			if err != nil {
				return err
			}

			encoded, err := json.MarshalIndent(resp, "", "  ")
			if err != nil {
				return fmt.Errorf("encode bridge result: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
			return err
		},
	})

	return cmd
}
