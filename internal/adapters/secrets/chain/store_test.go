package chain

import (
	"context"
	"errors"
	"testing"

	passstore "github.com/querykiln/kiln/internal/adapters/secrets/pass"
	"github.com/querykiln/kiln/internal/domain"
	portmocks "github.com/querykiln/kiln/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const licenseKeyRef = "querykiln/license/key"

func TestStoreGetUsesPrimaryWhenItSucceeds(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Get(mock.Anything, licenseKeyRef).Return("from-pass", nil).Once()

	value, err := store.Get(context.Background(), licenseKeyRef)
	require.NoError(t, err)
	assert.Equal(t, "from-pass", value)
}

func TestStoreGetFallsBackWhenPrimaryUnavailable(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Get(mock.Anything, licenseKeyRef).Return("", passstore.ErrUnavailable).Once()
	fallback.EXPECT().Get(mock.Anything, licenseKeyRef).Return("from-file", nil).Once()

	value, err := store.Get(context.Background(), licenseKeyRef)
	require.NoError(t, err)
	assert.Equal(t, "from-file", value)
}

func TestStoreGetCombinedErrorKeepsSecretNotFound(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Get(mock.Anything, licenseKeyRef).Return("", errors.New("pass failed")).Once()
	fallback.EXPECT().Get(mock.Anything, licenseKeyRef).Return("", domain.ErrSecretNotFound).Once()

	_, err := store.Get(context.Background(), licenseKeyRef)
	require.Error(t, err)
	assert.ErrorContains(t, err, "primary backend")
	assert.ErrorContains(t, err, "pass failed")
	assert.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStorePutFallsBackWhenPrimaryFails(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Put(mock.Anything, licenseKeyRef, "secret").Return(errors.New("gpg: no public key")).Once()
	fallback.EXPECT().Put(mock.Anything, licenseKeyRef, "secret").Return(nil).Once()

	require.NoError(t, store.Put(context.Background(), licenseKeyRef, "secret"))
}

func TestStorePutDoesNotCallFallbackWhenPrimarySucceeds(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Put(mock.Anything, licenseKeyRef, "secret").Return(nil).Once()

	require.NoError(t, store.Put(context.Background(), licenseKeyRef, "secret"))
}

func TestStoreDeleteClearsBothBackends(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Delete(mock.Anything, licenseKeyRef).Return(nil).Once()
	fallback.EXPECT().Delete(mock.Anything, licenseKeyRef).Return(nil).Once()

	require.NoError(t, store.Delete(context.Background(), licenseKeyRef))
}

func TestStoreDeleteIgnoresMissingEntries(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Delete(mock.Anything, licenseKeyRef).Return(domain.ErrSecretNotFound).Once()
	fallback.EXPECT().Delete(mock.Anything, licenseKeyRef).Return(nil).Once()

	require.NoError(t, store.Delete(context.Background(), licenseKeyRef))
}

func TestStoreDeleteReportsBothFailures(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Delete(mock.Anything, licenseKeyRef).Return(errors.New("pass failed")).Once()
	fallback.EXPECT().Delete(mock.Anything, licenseKeyRef).Return(errors.New("permission denied")).Once()

	err := store.Delete(context.Background(), licenseKeyRef)
	require.Error(t, err)
	assert.ErrorContains(t, err, "pass failed")
	assert.ErrorContains(t, err, "permission denied")
}

func TestStoreGetDoesNotFallbackOnCanceledContextError(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Get(mock.Anything, licenseKeyRef).Return("", context.Canceled).Once()

	_, err := store.Get(context.Background(), licenseKeyRef)
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewStoreCheckedRejectsNilBackends(t *testing.T) {
	t.Parallel()

	_, err := NewStoreChecked(nil, portmocks.NewMockSecretStore(t))
	require.ErrorIs(t, err, errNilPrimaryStore)

	_, err = NewStoreChecked(portmocks.NewMockSecretStore(t), nil)
	require.ErrorIs(t, err, errNilFallbackStore)
}
