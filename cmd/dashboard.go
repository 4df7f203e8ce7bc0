package cmd

import (
	"github.com/querykiln/kiln/internal/adapters/render/view"
	"github.com/querykiln/kiln/internal/version"
	"github.com/spf13/cobra"
)

func newDashboardCmd(app *app) *cobra.Command {
	var checkWorker bool

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show license, usage and API status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dashboard := view.Dashboard{Version: version.String()}

			err := call(cmd, "Loading dashboard...", false, func() error {
				session, err := app.pages.Open(cmd.Context())
				if err != nil {
					return err
				}

				dashboard.License = session.License
				dashboard.Usage = session.Usage
				dashboard.UsageErr = session.UsageErr

				if checkWorker {
					dashboard.WorkerChecked = true
					dashboard.WorkerErr = app.pages.CheckWorker(cmd.Context())
				}
				return nil
			})
			if err != nil {
				return err
			}

			return writeView(cmd, false, nil, func() (string, error) {
				return view.RenderDashboard(dashboard)
			})
		},
	}

	cmd.Flags().BoolVar(&checkWorker, "check-worker", false, "Also test the API connection")

	return cmd
}
