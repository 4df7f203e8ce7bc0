package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/querykiln/kiln/internal/bridge"
	"github.com/querykiln/kiln/internal/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	serverShutdownTimeout = 5 * time.Second
	tokenFileMode         = 0o600
	tokenDirMode          = 0o700
)

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

func newServeCmd(app *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose the bridge operations and update events on a loopback HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = app.cfg.Serve.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServer(ctx, cmd, app, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from serve.addr)")

	return cmd
}

func runServer(ctx context.Context, cmd *cobra.Command, app *app, addr string) error {
	token := bridge.NewToken()
	server, err := bridge.NewServer(app.bridge, app.notifier, version.String(), token, app.log.Named("server"))
	if err != nil {
		return err
	}

	tokenPath := app.cfg.ServeTokenPath()
	if err := writeToken(tokenPath, token); err != nil {
		return err
	}
	removeToken := func() {
		if err := os.Remove(tokenPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			app.log.Warn("remove serve token", zap.Error(err))
		}
	}
	defer removeToken()

	// Terminate runs inside the quit-and-install request and exits without
	// unwinding, so the hooks must not wait for in-flight handlers.
	app.shutdown.BeforeTerminate(removeToken)
	app.shutdown.BeforeTerminate(detachedShutdown(server, app.log))

	if app.cfg.Update.FeedURL != "" {
		app.notifier.ScheduleStartupCheck(ctx, app.cfg.Update.StartupDelay, func(ctx context.Context) error {
			_, err := app.updates.Check(ctx)
			return err
		})
	}

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- server.Listen(addr)
	}()

	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "kiln bridge listening on http://%s\ntoken: %s\n", addr, tokenPath); err != nil {
		return err
	}

	select {
	case err := <-listenErr:
		if err != nil {
			return fmt.Errorf("bridge server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	// Ends open event streams so the server can drain.
	app.notifier.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("shutdown bridge server: %w", err)
	}

	app.updates.Wait()
	return nil
}

// writeToken publishes the run token readable by the current user only.
func writeToken(path string, token string) error {
	if err := os.MkdirAll(filepath.Dir(path), tokenDirMode); err != nil {
		return fmt.Errorf("create token directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(token+"\n"), tokenFileMode); err != nil {
		return fmt.Errorf("write serve token: %w", err)
	}
	if err := os.Chmod(path, tokenFileMode); err != nil {
		return fmt.Errorf("chmod serve token: %w", err)
	}

	return nil
}

// detachedShutdown returns a terminate hook that stops the server in the
// background.
func detachedShutdown(server shutdowner, log *zap.Logger) func() {
	return func() {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				log.Warn("shutdown bridge server", zap.Error(err))
			}
		}()
	}
}
