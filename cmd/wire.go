package cmd

import (
	"fmt"
	"io"
	"sync"

	tomlrepo "github.com/querykiln/kiln/internal/adapters/repo/toml"
	chainstore "github.com/querykiln/kiln/internal/adapters/secrets/chain"
	filestore "github.com/querykiln/kiln/internal/adapters/secrets/file"
	"github.com/querykiln/kiln/internal/adapters/update"
	"github.com/querykiln/kiln/internal/adapters/worker"
	"github.com/querykiln/kiln/internal/application"
	"github.com/querykiln/kiln/internal/bridge"
	"github.com/querykiln/kiln/internal/config"
	"github.com/querykiln/kiln/internal/logger"
	"github.com/querykiln/kiln/internal/ports"
	"github.com/querykiln/kiln/internal/shutdown"
	"github.com/querykiln/kiln/internal/surface"
	"github.com/querykiln/kiln/internal/version"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// app is the process-wide context handed to every command. It is filled in
// by wire once flags are parsed.
type app struct {
	cfg      config.Config
	log      *zap.Logger
	bridge   *bridge.Bridge
	pages    *surface.Pages
	notifier *bridge.Notifier
	updates  *application.UpdateService
	shutdown *shutdown.Manager

	closeOnce sync.Once
}

type wireOptions struct {
	debug  bool
	stderr io.Writer
}

func (a *app) wire(opts wireOptions) error {
	cfg, err := config.Load(viper.New())
	if err != nil {
		return err
	}

	level := cfg.Log.Level
	if opts.debug {
		level = "debug"
	}
	log, err := logger.New(level, cfg.Log.Format, opts.stderr)
	if err != nil {
		return fmt.Errorf("wire logger: %w", err)
	}

	secrets, err := wireSecretStore(cfg)
	if err != nil {
		return fmt.Errorf("wire secret store: %w", err)
	}

	licenses, err := tomlrepo.NewLicenseRepository(cfg.LicensePath(), secrets)
	if err != nil {
		return fmt.Errorf("wire license repository: %w", err)
	}

	settings, err := tomlrepo.NewSettingsStore(cfg.SettingsPath())
	if err != nil {
		return fmt.Errorf("wire settings store: %w", err)
	}

	remote := &worker.Client{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		Logger:  log.Named("worker"),
	}

	notifier := bridge.NewNotifier(bridge.DefaultEventBuffer, log.Named("notifier"))
	terminator := shutdown.New()

	updater, err := update.NewFeedUpdater(update.Options{
		FeedURL:        cfg.Update.FeedURL,
		CurrentVersion: version.Version,
		DownloadDir:    cfg.DownloadDir(),
		Settings:       settings,
		Sink:           notifier,
		Terminator:     terminator,
		Logger:         log.Named("updater"),
	})
	if err != nil {
		return fmt.Errorf("wire updater: %w", err)
	}

	licenseService := application.NewService(licenses, remote, application.LicenseOptions{
		DevMode: cfg.License.DevMode,
		DevKey:  cfg.License.DevKey,
	}, log.Named("license"))
	updates := application.NewUpdateService(updater, settings, notifier, ports.SystemClock{}, log.Named("update"))
	b := bridge.New(licenseService, updates, log.Named("bridge"))

	a.cfg = cfg
	a.log = log
	a.bridge = b
	a.pages = surface.New(b, log.Named("surface"))
	a.notifier = notifier
	a.updates = updates
	a.shutdown = terminator

	terminator.BeforeTerminate(a.Close)

	return nil
}

// wireSecretStore returns nil for the inline backend: the key then stays in
// the license record.
func wireSecretStore(cfg config.Config) (ports.SecretStore, error) {
	switch cfg.Secrets.Backend {
	case config.SecretsInline:
		return nil, nil
	case config.SecretsFile:
		return filestore.NewStore(cfg.SecretsDir()), nil
	default:
		return chainstore.NewPassFirstWithFileFallback(cfg.SecretsDir())
	}
}

// Close tears down the notifier and flushes the logger. It is safe to call
// on an app that was never wired.
func (a *app) Close() {
	a.closeOnce.Do(func() {
		if a.notifier != nil {
			a.notifier.Close()
		}
		if a.log != nil {
			_ = a.log.Sync()
		}
	})
}
