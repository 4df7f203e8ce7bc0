package update

import (
	"context"
	"crypto/sha512"
	"encoding/base64"
	"errors"
	"fmt"
	"hash"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/minio/selfupdate"
	"github.com/querykiln/kiln/internal/domain"
	"github.com/querykiln/kiln/internal/ports"
	"go.uber.org/zap"
)

const (
	SettingPendingPath    = "update.pending_path"
	SettingPendingVersion = "update.pending_version"

	progressInterval = 250 * time.Millisecond
)

// Terminator ends the process once an update has been applied.
type Terminator interface {
	Terminate(reason string)
}

type Options struct {
	FeedURL        string
	CurrentVersion string
	DownloadDir    string
	HTTPClient     *http.Client
	Settings       ports.SettingsStore
	Sink           ports.UpdateSink
	Terminator     Terminator
	Logger         *zap.Logger
}

// FeedUpdater checks a static release feed, downloads the platform asset and
// replaces the running binary on install. Downloads never start on their own.
type FeedUpdater struct {
	feedURL        string
	currentVersion string
	downloadDir    string
	client         *http.Client
	settings       ports.SettingsStore
	sink           ports.UpdateSink
	terminator     Terminator
	log            *zap.Logger

	goos  func() string
	apply func(io.Reader, selfupdate.Options) error
	now   func() time.Time

	mu     sync.Mutex
	latest *release
}

var _ ports.Updater = (*FeedUpdater)(nil)

func NewFeedUpdater(opts Options) (*FeedUpdater, error) {
	if opts.Settings == nil {
		return nil, errors.New("update settings store is nil")
	}
	if opts.DownloadDir == "" {
		return nil, errors.New("update download dir is empty")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &FeedUpdater{
		feedURL:        opts.FeedURL,
		currentVersion: opts.CurrentVersion,
		downloadDir:    opts.DownloadDir,
		client:         opts.HTTPClient,
		settings:       opts.Settings,
		sink:           opts.Sink,
		terminator:     opts.Terminator,
		log:            log,
		goos:           defaultGOOS,
		apply:          selfupdate.Apply,
		now:            time.Now,
	}, nil
}

// Check returns the newer release, or nil when the running version is
// current. A newer release is announced with update-available.
func (u *FeedUpdater) Check(ctx context.Context) (*domain.UpdateInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	manifest, err := u.fetchRelease(ctx)
	if err != nil {
		return nil, err
	}

	newer, err := isNewer(u.currentVersion, manifest.Version)
	if err != nil {
		return nil, err
	}
	if !newer {
		u.setLatest(nil)
		u.log.Debug("no update available", zap.String("current", u.currentVersion), zap.String("feed", manifest.Version))
		return nil, nil
	}

	info, err := manifest.info()
	if err != nil {
		return nil, err
	}

	u.setLatest(&manifest)
	u.publish(domain.UpdateEvent{Kind: domain.UpdateEventAvailable, Info: &info})
	u.log.Info("update available", zap.String("version", info.Version))

	return &info, nil
}

// Download fetches the asset of the newest release into the download dir,
// verifies its sha512 and records it as pending.
func (u *FeedUpdater) Download(ctx context.Context) error {
	manifest := u.getLatest()
	if manifest == nil {
		info, err := u.Check(ctx)
		if err != nil {
			return err
		}
		if info == nil {
			return domain.ErrNoUpdateAvailable
		}
		manifest = u.getLatest()
	}

	info, err := manifest.info()
	if err != nil {
		return err
	}

	assetURL, err := resolveURL(u.feedURL, info.Path)
	if err != nil {
		return err
	}

	target, err := u.fetchAsset(ctx, assetURL, info)
	if err != nil {
		return err
	}

	if err := u.settings.Set(ctx, SettingPendingPath, target); err != nil {
		return fmt.Errorf("record pending update: %w", err)
	}
	if err := u.settings.Set(ctx, SettingPendingVersion, info.Version); err != nil {
		return fmt.Errorf("record pending update version: %w", err)
	}

	info.Path = target
	u.publish(domain.UpdateEvent{Kind: domain.UpdateEventDownloaded, Info: &info})
	u.log.Info("update downloaded", zap.String("version", info.Version), zap.String("path", target))

	return nil
}

// Install replaces the running binary with the pending download and then
// terminates the process.
func (u *FeedUpdater) Install(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	pending, err := u.settings.Get(ctx, SettingPendingPath, "")
	if err != nil {
		return fmt.Errorf("read pending update: %w", err)
	}
	if pending == "" {
		return domain.ErrNoPendingUpdate
	}

	file, err := os.Open(pending)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			_ = u.clearPending(ctx)
			return domain.ErrNoPendingUpdate
		}
		return fmt.Errorf("open pending update: %w", err)
	}

	applyErr := u.apply(file, selfupdate.Options{})
	_ = file.Close()
	if applyErr != nil {
		if rollbackErr := selfupdate.RollbackError(applyErr); rollbackErr != nil {
			return fmt.Errorf("apply update: %w", errors.Join(applyErr, rollbackErr))
		}
		return fmt.Errorf("apply update: %w", applyErr)
	}

	version, _ := u.settings.Get(ctx, SettingPendingVersion, "")
	if err := u.clearPending(ctx); err != nil {
		u.log.Warn("clear pending update", zap.Error(err))
	}
	if err := os.Remove(pending); err != nil && !errors.Is(err, os.ErrNotExist) {
		u.log.Warn("remove installed update file", zap.Error(err))
	}

	u.log.Info("update installed", zap.String("version", version))
	if u.terminator != nil {
		u.terminator.Terminate("update installed")
	}

	return nil
}

func (u *FeedUpdater) fetchAsset(ctx context.Context, assetURL string, info domain.UpdateInfo) (string, error) {
	if info.SHA512 == "" {
		return "", ErrMissingChecksum
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL, nil)
	if err != nil {
		return "", fmt.Errorf("create download request: %w", err)
	}

	resp, err := u.httpClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("download update: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("download update: status %d", resp.StatusCode)
	}

	if err := os.MkdirAll(u.downloadDir, 0o700); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}

	tempFile, err := os.CreateTemp(u.downloadDir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("create download file: %w", err)
	}
	tempPath := tempFile.Name()
	cleanup := func() {
		_ = tempFile.Close()
		_ = os.Remove(tempPath)
	}

	total := resp.ContentLength
	if total <= 0 {
		total = info.Size
	}

	digest := sha512.New()
	reader := &progressReader{
		reader:  io.TeeReader(resp.Body, digest),
		total:   total,
		started: u.now(),
		now:     u.now,
		emit:    u.publishProgress,
	}

	if _, err := io.Copy(tempFile, reader); err != nil {
		cleanup()
		return "", fmt.Errorf("write update download: %w", err)
	}
	reader.finish()

	if err := verifyDigest(digest, info.SHA512); err != nil {
		cleanup()
		return "", err
	}

	if err := tempFile.Chmod(0o700); err != nil {
		cleanup()
		return "", fmt.Errorf("chmod update download: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("close update download: %w", err)
	}

	target := filepath.Join(u.downloadDir, path.Base(info.Path))
	if err := os.Rename(tempPath, target); err != nil {
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("finalize update download: %w", err)
	}

	return target, nil
}

func verifyDigest(digest hash.Hash, expected string) error {
	if expected == "" {
		return ErrMissingChecksum
	}

	actual := base64.StdEncoding.EncodeToString(digest.Sum(nil))
	if actual != expected {
		return fmt.Errorf("update checksum mismatch: got %s", actual)
	}

	return nil
}

func (u *FeedUpdater) clearPending(ctx context.Context) error {
	return errors.Join(
		u.settings.Delete(ctx, SettingPendingPath),
		u.settings.Delete(ctx, SettingPendingVersion),
	)
}

func (u *FeedUpdater) publish(event domain.UpdateEvent) {
	if u.sink != nil {
		u.sink.Publish(event)
	}
}

func (u *FeedUpdater) publishProgress(progress domain.UpdateProgress) {
	u.publish(domain.UpdateEvent{Kind: domain.UpdateEventProgress, Progress: &progress})
}

func (u *FeedUpdater) setLatest(manifest *release) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.latest = manifest
}

func (u *FeedUpdater) getLatest() *release {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.latest
}

func (u *FeedUpdater) httpClient() *http.Client {
	if u.client != nil {
		return u.client
	}
	return http.DefaultClient
}

type progressReader struct {
	reader      io.Reader
	total       int64
	transferred int64
	started     time.Time
	lastEmit    time.Time
	now         func() time.Time
	emit        func(domain.UpdateProgress)
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.transferred += int64(n)

	if n > 0 {
		now := r.now()
		if now.Sub(r.lastEmit) >= progressInterval {
			r.lastEmit = now
			r.emit(r.snapshot(now))
		}
	}

	return n, err
}

// finish reports the final 100% progress.
func (r *progressReader) finish() {
	if r.total <= 0 {
		r.total = r.transferred
	}
	r.emit(r.snapshot(r.now()))
}

func (r *progressReader) snapshot(now time.Time) domain.UpdateProgress {
	progress := domain.UpdateProgress{
		Transferred: r.transferred,
		Total:       r.total,
	}
	if r.total > 0 {
		progress.Percent = float64(r.transferred) / float64(r.total) * 100
	}
	if elapsed := now.Sub(r.started).Seconds(); elapsed > 0 {
		progress.BytesPerSecond = int64(float64(r.transferred) / elapsed)
	}

	return progress
}
