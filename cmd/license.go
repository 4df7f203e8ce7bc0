package cmd

import (
	"fmt"

	"github.com/querykiln/kiln/internal/adapters/render/view"
	"github.com/querykiln/kiln/internal/domain"
	"github.com/querykiln/kiln/internal/surface"
	"github.com/spf13/cobra"
)

func newLicenseCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "license",
		Short: "Activate, show or remove the QueryKiln license",
	}

	cmd.AddCommand(
		newLicenseActivateCmd(app),
		newLicenseShowCmd(app),
		newLicenseClearCmd(app),
	)

	return cmd
}

func newLicenseActivateCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "activate <license-key>",
		Short: "Verify a license key and save it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := ""
			if len(args) == 1 {
				key = args[0]
			}

			var license domain.License
			err := call(cmd, "Activating license...", asJSON, func() error {
				var err error
				license, err = app.pages.ActivateLicense(cmd.Context(), key)
				return err
			})
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, license)
			}

			if _, err := fmt.Fprintln(cmd.OutOrStdout(), license.Message); err != nil {
				return err
			}
			return writeLicense(cmd, app, &license)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newLicenseShowCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the saved license",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var session *surface.Session
			err := call(cmd, "Loading license...", asJSON, func() error {
				var err error
				session, err = app.pages.Open(cmd.Context())
				return err
			})
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, session.License)
			}

			rendered, err := view.RenderLicense(session.License, session.Usage, session.UsageErr)
			if err != nil {
				return fmt.Errorf("render license: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newLicenseClearCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the saved license",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.pages.ClearLicense(cmd.Context()); err != nil {
				return err
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), "License removed.")
			return err
		},
	}
}

// writeLicense renders a freshly activated license, with today's usage on
// the free tier.
func writeLicense(cmd *cobra.Command, app *app, license *domain.License) error {
	var usage *domain.UsageSnapshot
	usageErr := ""
	if license.Tier.IsFree() {
		snapshot, err := app.pages.Usage(cmd.Context())
		if err != nil {
			usageErr = err.Error()
		} else {
			usage = &snapshot
		}
	}

	rendered, err := view.RenderLicense(license, usage, usageErr)
	if err != nil {
		return fmt.Errorf("render license: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}
