package application

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	tomlrepo "github.com/querykiln/kiln/internal/adapters/repo/toml"
	"github.com/querykiln/kiln/internal/domain"
	"github.com/querykiln/kiln/internal/ports"
	"github.com/querykiln/kiln/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const devKey = "D3V-K3Y-1313"

func newService(t *testing.T, options LicenseOptions) (*Service, *mocks.MockLicenseRepository, *mocks.MockRemote) {
	t.Helper()

	repo := mocks.NewMockLicenseRepository(t)
	remote := mocks.NewMockRemote(t)
	return NewService(repo, remote, options, nil), repo, remote
}

func TestValidateLicenseRejectsEmptyKeyWithoutIO(t *testing.T) {
	service, _, _ := newService(t, LicenseOptions{})

	for _, key := range []string{"", "   ", "\t\n"} {
		_, err := service.ValidateLicense(context.Background(), key)
		require.ErrorIs(t, err, domain.ErrEmptyLicenseKey)
	}
}

func TestValidateLicenseDevKeyPersistsWithoutRemoteCall(t *testing.T) {
	service, repo, _ := newService(t, LicenseOptions{DevMode: true, DevKey: devKey})

	want := domain.License{
		Success: true,
		Dev:     true,
		Tier:    domain.TierForge,
		Mode:    domain.ModeDev,
		Message: "Developer license activated",
		Key:     &domain.LicenseKey{Key: devKey},
	}
	repo.EXPECT().Save(mockAnyContext(), want).Return(nil).Once()

	got, err := service.ValidateLicense(context.Background(), "  "+devKey+" ")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestValidateLicenseDevKeyIsOrdinaryWhenDevModeOff(t *testing.T) {
	service, _, remote := newService(t, LicenseOptions{DevKey: devKey})

	remote.EXPECT().VerifyLicense(mockAnyContext(), devKey).Return(ports.VerifyResponse{Valid: false}, nil).Once()

	_, err := service.ValidateLicense(context.Background(), devKey)
	require.ErrorIs(t, err, domain.ErrLicenseRejected)
	assert.EqualError(t, err, "Invalid license")
}

func TestValidateLicenseValidPersistsRecord(t *testing.T) {
	service, repo, remote := newService(t, LicenseOptions{})

	remote.EXPECT().VerifyLicense(mockAnyContext(), "ABC-123").Return(ports.VerifyResponse{
		Valid:     true,
		Tier:      domain.TierEmber,
		VariantID: domain.NumberVariant("777"),
		Status:    "active",
		RenewsAt:  "2026-11-30",
	}, nil).Once()

	want := domain.License{
		Success:   true,
		Tier:      domain.TierEmber,
		VariantID: domain.NumberVariant("777"),
		Mode:      "active",
		Message:   "License activated",
		RenewsAt:  "2026-11-30",
		Key:       &domain.LicenseKey{Key: "ABC-123"},
	}
	repo.EXPECT().Save(mockAnyContext(), want).Return(nil).Once()

	got, err := service.ValidateLicense(context.Background(), " ABC-123 ")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestValidateLicenseRejectionSurfacesRemoteReasonAndPersistsNothing(t *testing.T) {
	service, _, remote := newService(t, LicenseOptions{})

	remote.EXPECT().VerifyLicense(mockAnyContext(), "BAD").Return(ports.VerifyResponse{Valid: false, Error: "License expired"}, nil).Once()

	_, err := service.ValidateLicense(context.Background(), "BAD")

	var rejected *domain.RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "License expired", rejected.Message)
}

func TestValidateLicenseTransportFailurePersistsNothing(t *testing.T) {
	service, _, remote := newService(t, LicenseOptions{})

	remote.EXPECT().VerifyLicense(mockAnyContext(), "KEY").Return(ports.VerifyResponse{}, errors.New("dial tcp: connection refused")).Once()

	_, err := service.ValidateLicense(context.Background(), "KEY")
	require.Error(t, err)
	assert.ErrorContains(t, err, "connection refused")
	assert.NotErrorIs(t, err, domain.ErrLicenseRejected)
}

func TestValidateLicenseReportsSaveFailure(t *testing.T) {
	service, repo, remote := newService(t, LicenseOptions{})

	remote.EXPECT().VerifyLicense(mockAnyContext(), "KEY").Return(ports.VerifyResponse{Valid: true, Tier: domain.TierSpark}, nil).Once()
	repo.EXPECT().Save(mockAnyContext(), mock.AnythingOfType("domain.License")).Return(errors.New("disk full")).Once()

	_, err := service.ValidateLicense(context.Background(), "KEY")
	assert.ErrorContains(t, err, "save license: disk full")
}

func TestUsageWithoutLicenseSkipsRemote(t *testing.T) {
	service, repo, _ := newService(t, LicenseOptions{})

	repo.EXPECT().Load(mockAnyContext()).Return(domain.License{}, domain.ErrNoLicense).Once()

	_, err := service.Usage(context.Background())
	require.ErrorIs(t, err, domain.ErrNoLicense)
}

func TestUsageWithKeylessRecordSkipsRemote(t *testing.T) {
	service, repo, _ := newService(t, LicenseOptions{})

	repo.EXPECT().Load(mockAnyContext()).Return(domain.License{Success: true, Tier: domain.TierSpark}, nil).Once()

	_, err := service.Usage(context.Background())
	require.ErrorIs(t, err, domain.ErrNoLicense)
}

func TestUsageUsesStoredKey(t *testing.T) {
	service, repo, remote := newService(t, LicenseOptions{})

	repo.EXPECT().Load(mockAnyContext()).Return(domain.License{Tier: domain.TierSpark, Key: &domain.LicenseKey{Key: "K1"}}, nil).Once()
	remote.EXPECT().Usage(mockAnyContext(), "K1").Return(domain.UsageSnapshot{Rewrite: 4}, nil).Once()

	usage, err := service.Usage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, usage.Rewrite)
}

func TestSecureRequestWithoutLicenseSkipsRemote(t *testing.T) {
	service, repo, _ := newService(t, LicenseOptions{})

	repo.EXPECT().Load(mockAnyContext()).Return(domain.License{}, domain.ErrNoLicense).Once()

	_, err := service.SecureRequest(context.Background(), "/rewrite", map[string]string{"text": "x"})
	require.ErrorIs(t, err, domain.ErrNoLicense)
}

func TestSecureRequestPassesBodyThrough(t *testing.T) {
	service, repo, remote := newService(t, LicenseOptions{})

	payload := map[string]string{"topic": "coffee"}
	repo.EXPECT().Load(mockAnyContext()).Return(domain.License{Key: &domain.LicenseKey{Key: "K1"}}, nil).Once()
	remote.EXPECT().Post(mockAnyContext(), "K1", "/keywords", payload).Return(json.RawMessage(`{"keywords":[]}`), nil).Once()

	body, err := service.SecureRequest(context.Background(), "/keywords", payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"keywords":[]}`, string(body))
}

func TestSecureRequestKeepsInvalidResponseError(t *testing.T) {
	service, repo, remote := newService(t, LicenseOptions{})

	repo.EXPECT().Load(mockAnyContext()).Return(domain.License{Key: &domain.LicenseKey{Key: "K1"}}, nil).Once()
	remote.EXPECT().Post(mockAnyContext(), "K1", "/rewrite", nil).Return(nil, &ports.InvalidResponseError{Path: "/rewrite", Raw: "oops"}).Once()

	_, err := service.SecureRequest(context.Background(), "/rewrite", nil)

	var invalid *ports.InvalidResponseError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "oops", invalid.Raw)
}

func TestClearLicenseWrapsRepositoryError(t *testing.T) {
	service, repo, _ := newService(t, LicenseOptions{})

	repo.EXPECT().Clear(mockAnyContext()).Return(errors.New("read-only file system")).Once()

	err := service.ClearLicense(context.Background())
	assert.ErrorContains(t, err, "clear license: read-only file system")
}

func TestLicenseLifecycleAgainstFileStore(t *testing.T) {
	repo, err := tomlrepo.NewLicenseRepository(filepath.Join(t.TempDir(), "querykiln-license.toml"), nil)
	require.NoError(t, err)
	remote := mocks.NewMockRemote(t)
	service := NewService(repo, remote, LicenseOptions{DevMode: true, DevKey: devKey}, nil)
	ctx := context.Background()

	_, err = service.LoadLicense(ctx)
	require.ErrorIs(t, err, domain.ErrNoLicense)

	activated, err := service.ValidateLicense(ctx, devKey)
	require.NoError(t, err)

	loaded, err := service.LoadLicense(ctx)
	require.NoError(t, err)
	assert.Equal(t, activated, loaded)

	remote.EXPECT().VerifyLicense(mockAnyContext(), "REAL-KEY").Return(ports.VerifyResponse{Valid: true, Tier: domain.TierSpark, Status: "active"}, nil).Once()
	_, err = service.ValidateLicense(ctx, "REAL-KEY")
	require.NoError(t, err)

	loaded, err = service.LoadLicense(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.TierSpark, loaded.Tier)
	assert.Equal(t, "REAL-KEY", loaded.KeyValue())

	require.NoError(t, service.ClearLicense(ctx))
	_, err = service.LoadLicense(ctx)
	require.ErrorIs(t, err, domain.ErrNoLicense)

	require.NoError(t, service.ClearLicense(ctx))
}

func mockAnyContext() interface{} {
	return mock.Anything
}
