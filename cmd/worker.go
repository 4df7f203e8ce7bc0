package cmd

import (
	"fmt"

	"github.com/querykiln/kiln/internal/adapters/render/view"
	"github.com/spf13/cobra"
)

func newWorkerCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Inspect the QueryKiln API",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "test",
		Short: "Test the API connection with the saved license",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var workerErr error
			if err := call(cmd, "Testing API...", false, func() error {
				workerErr = app.pages.CheckWorker(cmd.Context())
				return nil
			}); err != nil {
				return err
			}

			rendered, err := view.RenderWorkerStatus(workerErr)
			if err != nil {
				return fmt.Errorf("render worker status: %w", err)
			}
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), rendered); err != nil {
				return err
			}

			return workerErr
		},
	})

	return cmd
}
