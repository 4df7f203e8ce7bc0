// Package surface holds the page logic of the client: input checks, advisory
// tier gating and typed decoding of Worker results. Pages only talk to the
// privileged side through bridge operations.
package surface

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/querykiln/kiln/internal/adapters/worker"
	"github.com/querykiln/kiln/internal/bridge"
	"github.com/querykiln/kiln/internal/domain"
	"go.uber.org/zap"
)

const (
	messageEnterLicenseKey = "Please enter a license key."
	messageEnterRewrite    = "Please enter text to rewrite"
	messageEnterTopic      = "Please enter a topic"
	messageEnterDomain     = "Please enter a domain"
	messageEnterContent    = "Please enter some content"
	messageEnterCheckText  = "Please enter text to check."
	messageRewriteLimit    = "Daily rewrite limit reached."
	messageActivation      = "Activation failed."
	messageUpdateCheck     = "Update check failed."
)

// Bridge is the set of privileged operations a page may call.
type Bridge interface {
	ValidateLicense(ctx context.Context, key string) bridge.Response
	LoadSavedLicense(ctx context.Context) bridge.Response
	ClearSavedLicense(ctx context.Context) bridge.Response
	GetUsage(ctx context.Context) bridge.Response
	SecureRequest(ctx context.Context, path string, payload any) bridge.Response
	CheckForUpdates(ctx context.Context) bridge.Response
	StartUpdateDownload(ctx context.Context) bridge.Response
	QuitAndInstall(ctx context.Context) bridge.Response
}

var _ Bridge = (*bridge.Bridge)(nil)

// PageError is a failure shown to the user as is. Raw carries the Worker
// body when it was not JSON.
type PageError struct {
	Message string
	Raw     string
}

func (e *PageError) Error() string {
	return e.Message
}

func pageError(message string) error {
	return &PageError{Message: message}
}

// Session is what a page loads when it is opened. Usage is only fetched for
// the free tier.
type Session struct {
	License  *domain.License
	Usage    *domain.UsageSnapshot
	UsageErr string
}

func (s *Session) Tier() domain.Tier {
	if s == nil || s.License == nil {
		return ""
	}
	return s.License.Tier
}

func (s *Session) tracksUsage() bool {
	return s.Tier().IsFree()
}

func (s *Session) usage() *domain.UsageSnapshot {
	if s == nil {
		return nil
	}
	return s.Usage
}

type Pages struct {
	bridge Bridge
	log    *zap.Logger
}

func New(b Bridge, log *zap.Logger) *Pages {
	if log == nil {
		log = zap.NewNop()
	}

	return &Pages{bridge: b, log: log}
}

// Open loads the saved license and, on the free tier, today's usage.
func (p *Pages) Open(ctx context.Context) (*Session, error) {
	resp := p.bridge.LoadSavedLicense(ctx)
	session := &Session{}
	if resp.IsNull() {
		return session, nil
	}

	var license domain.License
	if err := resp.Decode(&license); err != nil {
		return nil, err
	}
	session.License = &license

	if session.tracksUsage() {
		p.refreshUsage(ctx, session)
	}

	return session, nil
}

func (p *Pages) ActivateLicense(ctx context.Context, key string) (domain.License, error) {
	if strings.TrimSpace(key) == "" {
		return domain.License{}, pageError(messageEnterLicenseKey)
	}

	resp := p.bridge.ValidateLicense(ctx, key)
	if resp.Failed() {
		message := resp.Message()
		if message == "" {
			message = messageActivation
		}
		return domain.License{}, pageError(message)
	}

	var license domain.License
	if err := resp.Decode(&license); err != nil {
		return domain.License{}, err
	}

	return license, nil
}

func (p *Pages) ClearLicense(ctx context.Context) error {
	resp := p.bridge.ClearSavedLicense(ctx)
	if resp.Failed() {
		return pageError(resp.Message())
	}

	return nil
}

func (p *Pages) Usage(ctx context.Context) (domain.UsageSnapshot, error) {
	resp := p.bridge.GetUsage(ctx)
	if resp.Failed() {
		return domain.UsageSnapshot{}, pageError(resp.Message())
	}

	var usage domain.UsageSnapshot
	if err := resp.Decode(&usage); err != nil {
		return domain.UsageSnapshot{}, err
	}

	return usage.Normalize(), nil
}

// CheckWorker sends the connectivity check. A nil error means the Worker
// answered without an error field.
func (p *Pages) CheckWorker(ctx context.Context) error {
	resp := p.bridge.SecureRequest(ctx, worker.PathRewrite, domain.RewriteRequest{
		Text:  "test",
		Tone:  "neutral",
		Style: "default",
	})
	if resp.Failed() {
		return failure(resp)
	}

	return nil
}

func (p *Pages) Rewrite(ctx context.Context, session *Session, req domain.RewriteRequest) (domain.RewriteResult, error) {
	if strings.TrimSpace(req.Text) == "" {
		return domain.RewriteResult{}, pageError(messageEnterRewrite)
	}
	if err := domain.Gate(session.Tier(), domain.FeatureRewrite, session.usage()); err != nil {
		return domain.RewriteResult{}, err
	}

	resp := p.bridge.SecureRequest(ctx, worker.PathRewrite, req)
	if resp.OK && hitLimit(resp.Payload) {
		return domain.RewriteResult{}, pageError(messageRewriteLimit)
	}

	var result domain.RewriteResult
	if err := decodeResult(resp, worker.PathRewrite, "rewrite", &result); err != nil {
		return domain.RewriteResult{}, err
	}

	if session.tracksUsage() {
		p.refreshUsage(ctx, session)
	}

	return result, nil
}

func (p *Pages) Keywords(ctx context.Context, session *Session, topic string) (domain.KeywordReport, error) {
	if strings.TrimSpace(topic) == "" {
		return domain.KeywordReport{}, pageError(messageEnterTopic)
	}
	if err := domain.Gate(session.Tier(), domain.FeatureKeywords, session.usage()); err != nil {
		return domain.KeywordReport{}, err
	}

	var report domain.KeywordReport
	resp := p.bridge.SecureRequest(ctx, worker.PathKeywords, map[string]string{"topic": topic})
	if err := decodeResult(resp, worker.PathKeywords, "keyword", &report); err != nil {
		return domain.KeywordReport{}, err
	}

	if session.tracksUsage() {
		p.refreshUsage(ctx, session)
	}

	return report, nil
}

func (p *Pages) Backlinks(ctx context.Context, site string) (domain.BacklinkReport, error) {
	if strings.TrimSpace(site) == "" {
		return domain.BacklinkReport{}, pageError(messageEnterDomain)
	}

	var report domain.BacklinkReport
	resp := p.bridge.SecureRequest(ctx, worker.PathBacklinks, map[string]string{"domain": site})
	if err := decodeResult(resp, worker.PathBacklinks, "backlink", &report); err != nil {
		return domain.BacklinkReport{}, err
	}

	return report, nil
}

func (p *Pages) Competitors(ctx context.Context, site string) (domain.CompetitorReport, error) {
	if strings.TrimSpace(site) == "" {
		return domain.CompetitorReport{}, pageError(messageEnterDomain)
	}

	var report domain.CompetitorReport
	resp := p.bridge.SecureRequest(ctx, worker.PathCompetitors, map[string]string{"domain": site})
	if err := decodeResult(resp, worker.PathCompetitors, "competitor", &report); err != nil {
		return domain.CompetitorReport{}, err
	}

	return report, nil
}

func (p *Pages) ContentGap(ctx context.Context, text string) (domain.ContentGapReport, error) {
	if strings.TrimSpace(text) == "" {
		return domain.ContentGapReport{}, pageError(messageEnterContent)
	}

	var report domain.ContentGapReport
	resp := p.bridge.SecureRequest(ctx, worker.PathContentGap, map[string]string{"text": text})
	if err := decodeResult(resp, worker.PathContentGap, "content gap", &report); err != nil {
		return domain.ContentGapReport{}, err
	}

	return report, nil
}

func (p *Pages) Plagiarism(ctx context.Context, session *Session, text string) (domain.PlagiarismReport, error) {
	if strings.TrimSpace(text) == "" {
		return domain.PlagiarismReport{}, pageError(messageEnterCheckText)
	}
	if err := domain.Gate(session.Tier(), domain.FeaturePlagiarism, nil); err != nil {
		return domain.PlagiarismReport{}, err
	}

	var report domain.PlagiarismReport
	resp := p.bridge.SecureRequest(ctx, worker.PathPlagiarism, map[string]string{"text": text})
	if err := decodeResult(resp, worker.PathPlagiarism, "plagiarism", &report); err != nil {
		return domain.PlagiarismReport{}, err
	}

	return report, nil
}

// CheckForUpdates returns the available version, or "" when up to date.
func (p *Pages) CheckForUpdates(ctx context.Context) (string, error) {
	resp := p.bridge.CheckForUpdates(ctx)
	if resp.Failed() {
		message := resp.Message()
		if message == "" {
			message = messageUpdateCheck
		}
		return "", pageError(message)
	}

	var result struct {
		Version *string `json:"version"`
	}
	if err := resp.Decode(&result); err != nil {
		return "", err
	}
	if result.Version == nil {
		return "", nil
	}

	return *result.Version, nil
}

func (p *Pages) StartUpdateDownload(ctx context.Context) error {
	resp := p.bridge.StartUpdateDownload(ctx)
	if resp.Failed() {
		return pageError(resp.Message())
	}

	return nil
}

// InstallUpdate only returns when there was nothing to install or applying
// the update failed.
func (p *Pages) InstallUpdate(ctx context.Context) error {
	resp := p.bridge.QuitAndInstall(ctx)
	if resp.Failed() {
		return pageError(resp.Message())
	}

	return nil
}

func (p *Pages) refreshUsage(ctx context.Context, session *Session) {
	usage, err := p.Usage(ctx)
	if err != nil {
		session.UsageErr = err.Error()
		p.log.Debug("refresh usage", zap.Error(err))
		return
	}

	session.Usage = &usage
	session.UsageErr = ""
}

func failure(resp bridge.Response) error {
	err := &PageError{Message: resp.Message()}
	if resp.Raw != nil {
		err.Raw = *resp.Raw
	}
	return err
}

// decodeResult turns a Worker result into v. An error field wins over the
// payload; a payload that does not match its schema is reported as invalid
// data about subject.
func decodeResult(resp bridge.Response, path string, subject string, v any) error {
	if resp.Failed() {
		return failure(resp)
	}

	if err := worker.ValidateResponse(path, resp.Payload); err != nil {
		if errors.Is(err, worker.ErrSchemaMismatch) {
			return pageError("Worker returned invalid " + subject + " data.")
		}
		return err
	}

	if err := json.Unmarshal(resp.Payload, v); err != nil {
		return pageError("Worker returned invalid " + subject + " data.")
	}

	return nil
}

func hitLimit(payload json.RawMessage) bool {
	var limits struct {
		Limit bool `json:"limit"`
	}
	if err := json.Unmarshal(payload, &limits); err != nil {
		return false
	}
	return limits.Limit
}
