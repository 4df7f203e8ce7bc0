package cmd

import "github.com/spf13/cobra"

// Commands annotated with skipWire run without loading configuration.
const annotationSkipWire = "kiln/skip-wire"

func Execute() error {
	rootCmd, app := buildRootCmd()
	defer app.Close()

	return rootCmd.Execute()
}

func buildRootCmd() (*cobra.Command, *app) {
	var debug bool
	app := &app{}

	rootCmd := &cobra.Command{
		Use:   "kiln",
		Short: "QueryKiln: AI rewrite and SEO research from the terminal",
		Long: "kiln activates a QueryKiln license and runs the QueryKiln tools (AI rewrite, keyword research, " +
			"backlink checking, competitor analysis, content gap analysis, plagiarism checking) against the QueryKiln API.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[annotationSkipWire] != "" {
				return nil
			}
			return app.wire(wireOptions{debug: debug, stderr: cmd.ErrOrStderr()})
		},
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log bridge calls and API requests to stderr")

	rootCmd.AddCommand(
		newVersionCmd(),
		newLicenseCmd(app),
		newUsageCmd(app),
		newDashboardCmd(app),
		newWorkerCmd(app),
		newRewriteCmd(app),
		newKeywordsCmd(app),
		newBacklinksCmd(app),
		newCompetitorsCmd(app),
		newContentGapCmd(app),
		newPlagiarismCmd(app),
		newUpdateCmd(app),
		newBridgeCmd(app),
		newServeCmd(app),
	)

	return rootCmd, app
}
