package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/querykiln/kiln/internal/domain"
	"github.com/spf13/cobra"
)

func newUpdateCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Check for, download and install kiln updates",
	}

	cmd.AddCommand(
		newUpdateCheckCmd(app),
		newUpdateDownloadCmd(app),
		newUpdateInstallCmd(app),
	)

	return cmd
}

func newUpdateCheckCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check whether a newer release is available",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var available string
			err := call(cmd, "Checking for updates...", false, func() error {
				var err error
				available, err = app.pages.CheckForUpdates(cmd.Context())
				return err
			})
			if err != nil {
				return err
			}

			if available == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "You are up to date!")
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Update available: v%s\nRun `kiln update download` to fetch it.\n", available)
			return err
		},
	}
}

func newUpdateDownloadCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "download",
		Short: "Download the newest release and report progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			events, cancel := app.notifier.Subscribe()
			defer cancel()

			if err := app.pages.StartUpdateDownload(cmd.Context()); err != nil {
				return err
			}

			return followDownload(cmd, events)
		},
	}
}

// followDownload prints update events until the download finishes or fails.
func followDownload(cmd *cobra.Command, events <-chan domain.UpdateEvent) error {
	out := cmd.OutOrStdout()
	for {
		select {
		case <-cmd.Context().Done():
			return cmd.Context().Err()
		case event, ok := <-events:
			if !ok {
				return errors.New("update event stream closed")
			}

			switch event.Kind {
			case domain.UpdateEventAvailable:
				if event.Info != nil {
					fmt.Fprintf(out, "Downloading v%s\n", event.Info.Version)
				}
			case domain.UpdateEventProgress:
				if event.Progress != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "\r%5.1f%%  %d/%d bytes", event.Progress.Percent, event.Progress.Transferred, event.Progress.Total)
				}
			case domain.UpdateEventDownloaded:
				version := ""
				if event.Info != nil {
					version = " v" + event.Info.Version
				}
				fmt.Fprintln(cmd.ErrOrStderr())
				_, err := fmt.Fprintf(out, "Update%s downloaded. Run `kiln update install` to apply it.\n", version)
				return err
			case domain.UpdateEventError:
				fmt.Fprintln(cmd.ErrOrStderr())
				return fmt.Errorf("update download failed: %s", event.Error)
			}
		}
	}
}

func newUpdateInstallCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Replace the kiln binary with the downloaded release and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			app.shutdown.BeforeTerminate(func() {
				fmt.Fprintln(out, "Update installed. Restart kiln to use the new version.")
			})

			return app.pages.InstallUpdate(context.WithoutCancel(cmd.Context()))
		},
	}
}
