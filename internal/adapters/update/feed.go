package update

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"runtime"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/querykiln/kiln/internal/domain"
	"gopkg.in/yaml.v3"
)

const maxFeedBytes = 1 << 20

var (
	ErrFeedNotConfigured = errors.New("update feed url is not configured")
	ErrDevelopmentBuild  = errors.New("running build has no release version")
	ErrMissingChecksum   = errors.New("update feed has no sha512 for the asset")
)

// release mirrors the latest*.yml manifest published next to release assets.
type release struct {
	Version     string        `yaml:"version"`
	Path        string        `yaml:"path"`
	SHA512      string        `yaml:"sha512"`
	ReleaseDate string        `yaml:"releaseDate"`
	Files       []releaseFile `yaml:"files"`
}

type releaseFile struct {
	URL    string `yaml:"url"`
	SHA512 string `yaml:"sha512"`
	Size   int64  `yaml:"size"`
}

// asset picks the downloadable file, preferring the top-level path entry.
func (r release) asset() (releaseFile, error) {
	if r.Path != "" {
		for _, file := range r.Files {
			if file.URL == r.Path {
				if file.SHA512 == "" {
					file.SHA512 = r.SHA512
				}
				return file, nil
			}
		}
		return releaseFile{URL: r.Path, SHA512: r.SHA512}, nil
	}
	if len(r.Files) > 0 {
		return r.Files[0], nil
	}

	return releaseFile{}, errors.New("release manifest lists no files")
}

func (r release) info() (domain.UpdateInfo, error) {
	file, err := r.asset()
	if err != nil {
		return domain.UpdateInfo{}, err
	}

	info := domain.UpdateInfo{
		Version: r.Version,
		Path:    file.URL,
		SHA512:  file.SHA512,
		Size:    file.Size,
	}
	if r.ReleaseDate != "" {
		if parsed, err := time.Parse(time.RFC3339, r.ReleaseDate); err == nil {
			info.ReleaseDate = parsed.UTC()
		}
	}

	return info, nil
}

// manifestName follows the per-platform latest*.yml naming used by release
// tooling: latest.yml on Windows, latest-mac.yml and latest-linux.yml elsewhere.
func manifestName(goos string) string {
	switch goos {
	case "windows":
		return "latest.yml"
	case "darwin":
		return "latest-mac.yml"
	default:
		return "latest-" + goos + ".yml"
	}
}

func (u *FeedUpdater) fetchRelease(ctx context.Context) (release, error) {
	endpoint, err := resolveURL(u.feedURL, manifestName(u.goos()))
	if err != nil {
		return release{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return release{}, fmt.Errorf("create feed request: %w", err)
	}

	resp, err := u.httpClient().Do(req)
	if err != nil {
		return release{}, fmt.Errorf("request update feed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return release{}, fmt.Errorf("request update feed: status %d", resp.StatusCode)
	}

	var manifest release
	if err := yaml.NewDecoder(io.LimitReader(resp.Body, maxFeedBytes)).Decode(&manifest); err != nil {
		return release{}, fmt.Errorf("decode update feed: %w", err)
	}
	if strings.TrimSpace(manifest.Version) == "" {
		return release{}, errors.New("update feed has no version")
	}

	return manifest, nil
}

func isNewer(current string, candidate string) (bool, error) {
	running, err := semver.NewVersion(current)
	if err != nil {
		return false, fmt.Errorf("%w: %q", ErrDevelopmentBuild, current)
	}
	offered, err := semver.NewVersion(candidate)
	if err != nil {
		return false, fmt.Errorf("parse feed version %q: %w", candidate, err)
	}

	return offered.GreaterThan(running), nil
}

func resolveURL(base string, ref string) (string, error) {
	if strings.TrimSpace(base) == "" {
		return "", ErrFeedNotConfigured
	}

	parsed, err := url.Parse(strings.TrimRight(base, "/") + "/")
	if err != nil {
		return "", fmt.Errorf("parse update feed url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("update feed url must use http or https")
	}

	target, err := parsed.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parse update asset path: %w", err)
	}

	return target.String(), nil
}

func defaultGOOS() string {
	return runtime.GOOS
}
