package surface

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/querykiln/kiln/internal/application"
	"github.com/querykiln/kiln/internal/bridge"
	"github.com/querykiln/kiln/internal/domain"
	"github.com/querykiln/kiln/internal/ports"
	"github.com/querykiln/kiln/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	pages   *Pages
	repo    *mocks.MockLicenseRepository
	remote  *mocks.MockRemote
	updater *mocks.MockUpdater
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	repo := mocks.NewMockLicenseRepository(t)
	remote := mocks.NewMockRemote(t)
	updater := mocks.NewMockUpdater(t)
	settings := mocks.NewMockSettingsStore(t)
	settings.EXPECT().Set(mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	licenses := application.NewService(repo, remote, application.LicenseOptions{}, nil)
	updates := application.NewUpdateService(updater, settings, nil, nil, nil)

	return fixture{
		pages:   New(bridge.New(licenses, updates, nil), nil),
		repo:    repo,
		remote:  remote,
		updater: updater,
	}
}

func licensed(tier domain.Tier) domain.License {
	return domain.License{Success: true, Tier: tier, Key: &domain.LicenseKey{Key: "KEY-1234"}}
}

func sessionFor(tier domain.Tier, usage *domain.UsageSnapshot) *Session {
	license := licensed(tier)
	return &Session{License: &license, Usage: usage}
}

func requirePageError(t *testing.T, err error, message string) *PageError {
	t.Helper()

	var pageErr *PageError
	require.ErrorAs(t, err, &pageErr)
	assert.Equal(t, message, pageErr.Message)
	return pageErr
}

func TestEmptyInputFailsWithoutBridgeCall(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := &Session{}

	_, err := f.pages.ActivateLicense(ctx, " ")
	requirePageError(t, err, "Please enter a license key.")

	_, err = f.pages.Rewrite(ctx, session, domain.RewriteRequest{Text: "\n"})
	requirePageError(t, err, "Please enter text to rewrite")

	_, err = f.pages.Keywords(ctx, session, "")
	requirePageError(t, err, "Please enter a topic")

	_, err = f.pages.Backlinks(ctx, "")
	requirePageError(t, err, "Please enter a domain")

	_, err = f.pages.Competitors(ctx, "  ")
	requirePageError(t, err, "Please enter a domain")

	_, err = f.pages.ContentGap(ctx, "")
	requirePageError(t, err, "Please enter some content")

	_, err = f.pages.Plagiarism(ctx, session, "")
	requirePageError(t, err, "Please enter text to check.")
}

func TestOpenWithoutLicense(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().Load(mock.Anything).Return(domain.License{}, domain.ErrNoLicense).Once()

	session, err := f.pages.Open(context.Background())
	require.NoError(t, err)
	assert.Nil(t, session.License)
	assert.Nil(t, session.Usage)
	assert.Equal(t, domain.Tier(""), session.Tier())
}

func TestOpenFetchesUsageOnlyForFreeTier(t *testing.T) {
	t.Run("spark", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Load(mock.Anything).Return(licensed(domain.TierSpark), nil)
		f.remote.EXPECT().Usage(mock.Anything, "KEY-1234").Return(domain.UsageSnapshot{Rewrite: 3, Keywords: 1}, nil).Once()

		session, err := f.pages.Open(context.Background())
		require.NoError(t, err)
		require.NotNil(t, session.Usage)
		assert.Equal(t, 3, session.Usage.Rewrite)
	})

	t.Run("ember", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Load(mock.Anything).Return(licensed(domain.TierEmber), nil).Once()

		session, err := f.pages.Open(context.Background())
		require.NoError(t, err)
		assert.Equal(t, domain.TierEmber, session.Tier())
		assert.Nil(t, session.Usage)
	})

	t.Run("spark usage failure", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Load(mock.Anything).Return(licensed(domain.TierSpark), nil)
		f.remote.EXPECT().Usage(mock.Anything, "KEY-1234").Return(domain.UsageSnapshot{}, &ports.RemoteError{Message: "License not active"}).Once()

		session, err := f.pages.Open(context.Background())
		require.NoError(t, err)
		assert.Nil(t, session.Usage)
		assert.Equal(t, "License not active", session.UsageErr)
	})
}

func TestActivateLicenseRejected(t *testing.T) {
	f := newFixture(t)
	f.remote.EXPECT().VerifyLicense(mock.Anything, "NOPE").Return(ports.VerifyResponse{Error: "License key not found"}, nil).Once()

	_, err := f.pages.ActivateLicense(context.Background(), "NOPE")
	requirePageError(t, err, "License key not found")
}

func TestActivateLicense(t *testing.T) {
	f := newFixture(t)
	f.remote.EXPECT().VerifyLicense(mock.Anything, "GOOD").Return(ports.VerifyResponse{Valid: true, Tier: domain.TierEmber, Status: "active"}, nil).Once()
	f.repo.EXPECT().Save(mock.Anything, mock.AnythingOfType("domain.License")).Return(nil).Once()

	license, err := f.pages.ActivateLicense(context.Background(), "GOOD")
	require.NoError(t, err)
	assert.Equal(t, domain.TierEmber, license.Tier)
	assert.Equal(t, "GOOD", license.KeyValue())
}

func TestCheckWorkerSendsConnectivityRequest(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().Load(mock.Anything).Return(licensed(domain.TierForge), nil)

	request := domain.RewriteRequest{Text: "test", Tone: "neutral", Style: "default"}
	f.remote.EXPECT().Post(mock.Anything, "KEY-1234", "/rewrite", request).Return(json.RawMessage(`{"output":"ok"}`), nil).Once()
	require.NoError(t, f.pages.CheckWorker(context.Background()))

	f.remote.EXPECT().Post(mock.Anything, "KEY-1234", "/rewrite", request).Return(json.RawMessage(`{"error":"Worker overloaded"}`), nil).Once()
	err := f.pages.CheckWorker(context.Background())
	requirePageError(t, err, "Worker overloaded")
}

func TestRewriteBlockedAtDailyCap(t *testing.T) {
	f := newFixture(t)
	session := sessionFor(domain.TierSpark, &domain.UsageSnapshot{Rewrite: domain.DailyCap})

	_, err := f.pages.Rewrite(context.Background(), session, domain.RewriteRequest{Text: "hello"})
	require.ErrorIs(t, err, domain.ErrDailyLimitReached)
	assert.EqualError(t, err, "Daily rewrite limit reached for Spark tier.")
}

func TestRewriteWorkerLimit(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().Load(mock.Anything).Return(licensed(domain.TierForge), nil)
	f.remote.EXPECT().Post(mock.Anything, "KEY-1234", "/rewrite", mock.Anything).Return(json.RawMessage(`{"limit":true,"error":"limit"}`), nil).Once()

	_, err := f.pages.Rewrite(context.Background(), sessionFor(domain.TierForge, nil), domain.RewriteRequest{Text: "hello"})
	requirePageError(t, err, "Daily rewrite limit reached.")
}

func TestRewriteRefreshesSparkUsage(t *testing.T) {
	f := newFixture(t)
	session := sessionFor(domain.TierSpark, &domain.UsageSnapshot{Rewrite: 4})

	f.repo.EXPECT().Load(mock.Anything).Return(licensed(domain.TierSpark), nil)
	f.remote.EXPECT().Post(mock.Anything, "KEY-1234", "/rewrite", domain.RewriteRequest{Text: "hello", Tone: "casual", Style: "blog"}).
		Return(json.RawMessage(`{"output":"Hi there"}`), nil).Once()
	f.remote.EXPECT().Usage(mock.Anything, "KEY-1234").Return(domain.UsageSnapshot{Rewrite: 5}, nil).Once()

	result, err := f.pages.Rewrite(context.Background(), session, domain.RewriteRequest{Text: "hello", Tone: "casual", Style: "blog"})
	require.NoError(t, err)
	assert.Equal(t, "Hi there", result.Output)
	assert.Equal(t, 5, session.Usage.Rewrite)
}

func TestKeywordsResponses(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
		wantLen int
	}{
		{name: "report", body: `{"keywords":[{"keyword":"green tea","volume":1200,"difficulty":"low"}]}`, wantLen: 1},
		{name: "error field", body: `{"error":"Topic too long"}`, wantErr: "Topic too long"},
		{name: "missing keywords", body: `{"ideas":[]}`, wantErr: "Worker returned invalid keyword data."},
		{name: "keywords not a list", body: `{"keywords":"none"}`, wantErr: "Worker returned invalid keyword data."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.repo.EXPECT().Load(mock.Anything).Return(licensed(domain.TierEmber), nil)
			f.remote.EXPECT().Post(mock.Anything, "KEY-1234", "/keywords", map[string]string{"topic": "tea"}).Return(json.RawMessage(tt.body), nil).Once()

			report, err := f.pages.Keywords(context.Background(), sessionFor(domain.TierEmber, nil), "tea")
			if tt.wantErr != "" {
				requirePageError(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Len(t, report.Keywords, tt.wantLen)
		})
	}
}

func TestBacklinksInvalidJSONKeepsRawBody(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().Load(mock.Anything).Return(licensed(domain.TierForge), nil)
	f.remote.EXPECT().Post(mock.Anything, "KEY-1234", "/backlinks", mock.Anything).
		Return(nil, &ports.InvalidResponseError{Path: "/backlinks", Raw: "upstream timeout"}).Once()

	_, err := f.pages.Backlinks(context.Background(), "example.com")
	pageErr := requirePageError(t, err, "Invalid JSON from Worker")
	assert.Equal(t, "upstream timeout", pageErr.Raw)
}

func TestCompetitorsAndContentGapDecode(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().Load(mock.Anything).Return(licensed(domain.TierForge), nil)
	f.remote.EXPECT().Post(mock.Anything, "KEY-1234", "/competitors", map[string]string{"domain": "example.com"}).
		Return(json.RawMessage(`{"competitors":[{"name":"Rival","market_share":"12%","strengths":["price"]}],"analysis_summary":{"overall_market_trends":"growing"}}`), nil).Once()
	f.remote.EXPECT().Post(mock.Anything, "KEY-1234", "/content-gap", map[string]string{"text": "draft"}).
		Return(json.RawMessage(`{"content_gap_analysis":{"gaps":{"topics":["pricing"]},"recommendations":{"content_types":["guide"]}}}`), nil).Once()

	competitors, err := f.pages.Competitors(context.Background(), "example.com")
	require.NoError(t, err)
	require.Len(t, competitors.Competitors, 1)
	assert.Equal(t, "Rival", competitors.Competitors[0].Name)
	assert.Equal(t, "growing", competitors.Summary.OverallMarketTrends)

	gap, err := f.pages.ContentGap(context.Background(), "draft")
	require.NoError(t, err)
	assert.Equal(t, []string{"pricing"}, gap.Analysis.Gaps.Topics)
	assert.Equal(t, []string{"guide"}, gap.Analysis.Recommendations.ContentTypes)
}

func TestPlagiarismGating(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.pages.Plagiarism(ctx, sessionFor(domain.TierSpark, nil), "some text")
	require.ErrorIs(t, err, domain.ErrFeatureNotInTier)
	assert.EqualError(t, err, "Plagiarism Checker is not available on the Spark plan.")

	_, err = f.pages.Plagiarism(ctx, sessionFor(domain.TierEmber, nil), "some text")
	assert.EqualError(t, err, "Plagiarism Checker is only available on the Forge plan.")

	f.repo.EXPECT().Load(mock.Anything).Return(licensed(domain.TierForge), nil)
	f.remote.EXPECT().Post(mock.Anything, "KEY-1234", "/plagiarism", map[string]string{"text": "some text"}).
		Return(json.RawMessage(`{"score":72.5,"matches":[{"source":"https://example.com","similarity":72.5}]}`), nil).Once()

	report, err := f.pages.Plagiarism(ctx, sessionFor(domain.TierForge, nil), "some text")
	require.NoError(t, err)
	assert.True(t, report.NeedsReview())
	require.Len(t, report.Matches, 1)
}

func TestUsageWithoutLicense(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().Load(mock.Anything).Return(domain.License{}, domain.ErrNoLicense).Once()

	_, err := f.pages.Usage(context.Background())
	requirePageError(t, err, "No license loaded")
	f.remote.AssertNotCalled(t, "Usage", mock.Anything, mock.Anything)
}

func TestCheckForUpdates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.updater.EXPECT().Check(mock.Anything).Return(&domain.UpdateInfo{Version: "2.0.0"}, nil).Once()
	version, err := f.pages.CheckForUpdates(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", version)

	f.updater.EXPECT().Check(mock.Anything).Return(nil, nil).Once()
	version, err = f.pages.CheckForUpdates(ctx)
	require.NoError(t, err)
	assert.Empty(t, version)

	f.updater.EXPECT().Check(mock.Anything).Return(nil, errors.New("feed offline")).Once()
	_, err = f.pages.CheckForUpdates(ctx)
	requirePageError(t, err, "check for updates: feed offline")
}

func TestInstallUpdateWithoutDownload(t *testing.T) {
	f := newFixture(t)
	f.updater.EXPECT().Install(mock.Anything).Return(domain.ErrNoPendingUpdate).Once()

	err := f.pages.InstallUpdate(context.Background())
	requirePageError(t, err, "install update: no downloaded update to install")
}
