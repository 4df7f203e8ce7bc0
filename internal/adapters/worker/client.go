package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/querykiln/kiln/internal/domain"
	"github.com/querykiln/kiln/internal/metrics"
	"github.com/querykiln/kiln/internal/ports"
	"go.uber.org/zap"
)

const DefaultBaseURL = "https://querykiln-api.gerkinonfire.workers.dev"

const (
	PathVerifyLicense = "/verify-license"
	PathUsage         = "/usage"
	PathRewrite       = "/rewrite"
	PathKeywords      = "/keywords"
	PathBacklinks     = "/backlinks"
	PathCompetitors   = "/competitors"
	PathContentGap    = "/content-gap"
	PathPlagiarism    = "/plagiarism"
)

const (
	licenseHeader    = "x-license"
	maxResponseBytes = 16 << 20
)

var ErrResponseTooLarge = errors.New("response too large")

// Client talks to the Worker. A zero Timeout leaves the call bounded only by
// the caller's context.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     *zap.Logger
}

var _ ports.Remote = (*Client)(nil)

// Post sends one POST to the Worker and returns the body verbatim when it is
// valid JSON. The HTTP status is not interpreted.
func (c *Client) Post(ctx context.Context, key string, path string, payload any) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	endpoint, err := buildAPIURL(c.baseURL(), path)
	if err != nil {
		return nil, err
	}

	body, err := encodePayload(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", path, err)
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(requestCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(licenseHeader, key)

	started := time.Now()
	resp, err := c.httpClient().Do(req)
	if err != nil {
		c.observe(path, started, metrics.OutcomeError)
		c.log().Debug("worker request failed", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("request %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	text, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		c.observe(path, started, metrics.OutcomeError)
		return nil, fmt.Errorf("read %s response: %w", path, err)
	}
	if len(text) > maxResponseBytes {
		c.observe(path, started, metrics.OutcomeError)
		return nil, fmt.Errorf("read %s response: %w (over %d MiB)", path, ErrResponseTooLarge, maxResponseBytes>>20)
	}

	c.log().Debug("worker response",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(text)),
		zap.Duration("duration", time.Since(started)),
	)

	if !json.Valid(text) {
		c.observe(path, started, metrics.OutcomeError)
		return nil, &ports.InvalidResponseError{Path: path, Status: resp.StatusCode, Raw: string(text)}
	}

	c.observe(path, started, metrics.OutcomeOK)
	return json.RawMessage(text), nil
}

func (c *Client) VerifyLicense(ctx context.Context, key string) (ports.VerifyResponse, error) {
	raw, err := c.Post(ctx, key, PathVerifyLicense, map[string]string{"license_key": key})
	if err != nil {
		return ports.VerifyResponse{}, err
	}

	if err := ValidateResponse(PathVerifyLicense, raw); err != nil {
		return ports.VerifyResponse{}, &ports.InvalidResponseError{Path: PathVerifyLicense, Raw: string(raw), Err: err}
	}

	var result ports.VerifyResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return ports.VerifyResponse{}, &ports.InvalidResponseError{Path: PathVerifyLicense, Raw: string(raw), Err: err}
	}

	return result, nil
}

type usageEnvelope struct {
	domain.UsageSnapshot
	Usage *domain.UsageSnapshot `json:"usage"`
	Error string                `json:"error"`
}

// Usage fetches the daily counters. The Worker has been seen to report them
// both at the top level and nested under "usage"; both are accepted.
func (c *Client) Usage(ctx context.Context, key string) (domain.UsageSnapshot, error) {
	raw, err := c.Post(ctx, key, PathUsage, nil)
	if err != nil {
		return domain.UsageSnapshot{}, err
	}

	if err := ValidateResponse(PathUsage, raw); err != nil {
		return domain.UsageSnapshot{}, &ports.InvalidResponseError{Path: PathUsage, Raw: string(raw), Err: err}
	}

	var envelope usageEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return domain.UsageSnapshot{}, &ports.InvalidResponseError{Path: PathUsage, Raw: string(raw), Err: err}
	}
	if envelope.Error != "" {
		return domain.UsageSnapshot{}, &ports.RemoteError{Path: PathUsage, Message: envelope.Error}
	}
	if envelope.Usage != nil {
		return envelope.Usage.Normalize(), nil
	}

	return envelope.UsageSnapshot.Normalize(), nil
}

func (c *Client) baseURL() string {
	if strings.TrimSpace(c.BaseURL) == "" {
		return DefaultBaseURL
	}
	return c.BaseURL
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) log() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return ctx, func() {}
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, c.Timeout)
}

func (c *Client) observe(path string, started time.Time, outcome string) {
	metrics.WorkerRequestDuration.WithLabelValues(path, outcome).Observe(time.Since(started).Seconds())
}

func encodePayload(payload any) ([]byte, error) {
	switch p := payload.(type) {
	case nil:
		return []byte("{}"), nil
	case json.RawMessage:
		if len(bytes.TrimSpace(p)) == 0 || bytes.Equal(bytes.TrimSpace(p), []byte("null")) {
			return []byte("{}"), nil
		}
		if !json.Valid(p) {
			return nil, errors.New("payload is not valid JSON")
		}
		return p, nil
	default:
		return json.Marshal(payload)
	}
}

func buildAPIURL(baseURL string, path string) (string, error) {
	if path == "" {
		return "", errors.New("api path is required")
	}
	if !strings.HasPrefix(path, "/") {
		return "", fmt.Errorf("api path %q must start with /", path)
	}

	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return "", fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("api base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("api base url host is required")
	}

	return parsed.String() + path, nil
}
