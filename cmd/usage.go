package cmd

import (
	"github.com/querykiln/kiln/internal/adapters/render/view"
	"github.com/querykiln/kiln/internal/domain"
	"github.com/spf13/cobra"
)

func newUsageCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show today's usage counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var usage domain.UsageSnapshot
			err := call(cmd, "Fetching usage...", asJSON, func() error {
				var err error
				usage, err = app.pages.Usage(cmd.Context())
				return err
			})
			if err != nil {
				return err
			}

			return writeView(cmd, asJSON, usage, func() (string, error) {
				return view.RenderUsage(usage)
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}
