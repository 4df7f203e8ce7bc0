package application

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/querykiln/kiln/internal/domain"
	"github.com/querykiln/kiln/internal/ports"
	"go.uber.org/zap"
)

const (
	SettingLastCheckedAt    = "update.last_checked_at"
	SettingAvailableVersion = "update.available_version"
)

type UpdateService struct {
	updater  ports.Updater
	settings ports.SettingsStore
	sink     ports.UpdateSink
	clock    ports.Clock
	log      *zap.Logger

	downloading atomic.Bool
	wg          sync.WaitGroup
}

func NewUpdateService(updater ports.Updater, settings ports.SettingsStore, sink ports.UpdateSink, clock ports.Clock, log *zap.Logger) *UpdateService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &UpdateService{
		updater:  updater,
		settings: settings,
		sink:     sink,
		clock:    clock,
		log:      log,
	}
}

// Check asks the updater for a newer release. It returns an empty version
// when the running build is current.
func (s *UpdateService) Check(ctx context.Context) (string, error) {
	info, err := s.updater.Check(ctx)
	if err != nil {
		return "", fmt.Errorf("check for updates: %w", err)
	}

	version := ""
	if info != nil {
		version = info.Version
	}

	if err := s.settings.Set(ctx, SettingLastCheckedAt, s.clock.Now().UTC().Format(time.RFC3339)); err != nil {
		s.log.Warn("record update check time", zap.Error(err))
	}
	if err := s.settings.Set(ctx, SettingAvailableVersion, version); err != nil {
		s.log.Warn("record available version", zap.Error(err))
	}

	return version, nil
}

// LastCheck reports when updates were last checked and what was found.
func (s *UpdateService) LastCheck(ctx context.Context) (time.Time, string, error) {
	rawCheckedAt, err := s.settings.Get(ctx, SettingLastCheckedAt, "")
	if err != nil {
		return time.Time{}, "", fmt.Errorf("read last update check: %w", err)
	}
	version, err := s.settings.Get(ctx, SettingAvailableVersion, "")
	if err != nil {
		return time.Time{}, "", fmt.Errorf("read available version: %w", err)
	}
	if rawCheckedAt == "" {
		return time.Time{}, version, nil
	}

	checkedAt, err := time.Parse(time.RFC3339, rawCheckedAt)
	if err != nil {
		return time.Time{}, version, nil
	}

	return checkedAt, version, nil
}

// StartDownload begins downloading in the background and returns at once.
// Progress and completion are reported through the sink; a second call while
// a download runs is ignored.
func (s *UpdateService) StartDownload(ctx context.Context) {
	if !s.downloading.CompareAndSwap(false, true) {
		s.log.Debug("update download already running")
		return
	}

	downloadCtx := context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.downloading.Store(false)

		if err := s.updater.Download(downloadCtx); err != nil {
			s.log.Warn("update download failed", zap.Error(err))
			if s.sink != nil {
				s.sink.Publish(domain.UpdateEvent{Kind: domain.UpdateEventError, Error: err.Error()})
			}
		}
	}()
}

// Wait blocks until a running background download finishes.
func (s *UpdateService) Wait() {
	s.wg.Wait()
}

// Install applies the downloaded update. On success the process exits and
// Install does not return.
func (s *UpdateService) Install(ctx context.Context) error {
	if err := s.updater.Install(ctx); err != nil {
		return fmt.Errorf("install update: %w", err)
	}

	return nil
}
