package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{name: "empty key is hidden", key: "", want: "Hidden"},
		{name: "short key kept", key: "ABCD", want: "ABCD"},
		{name: "long key masked", key: "ABCD-1234-WXYZ", want: "**********WXYZ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskKey(tt.key))
		})
	}
}

func TestLicenseStatusLabel(t *testing.T) {
	assert.Equal(t, "Developer Mode", License{Dev: true, Mode: ModeDev}.StatusLabel())
	assert.Equal(t, "Active", License{}.StatusLabel())
	assert.Equal(t, "on_trial", License{Mode: "on_trial"}.StatusLabel())
}

func TestLicenseHasKey(t *testing.T) {
	assert.False(t, License{}.HasKey())
	assert.False(t, License{Key: &LicenseKey{Key: "  "}}.HasKey())
	assert.True(t, License{Key: &LicenseKey{Key: "k"}}.HasKey())
}

func TestVariantIDKeepsJSONKind(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want VariantID
	}{
		{name: "number", in: `{"variant_id":12345}`, want: NumberVariant("12345")},
		{name: "numeric string", in: `{"variant_id":"12345"}`, want: StringVariant("12345")},
		{name: "leading zeros", in: `{"variant_id":"007"}`, want: StringVariant("007")},
		{name: "signed string", in: `{"variant_id":"+5"}`, want: StringVariant("+5")},
		{name: "text", in: `{"variant_id":"var-9"}`, want: StringVariant("var-9")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var decoded struct {
				ID VariantID `json:"variant_id"`
			}
			require.NoError(t, json.Unmarshal([]byte(tt.in), &decoded))
			assert.Equal(t, tt.want, decoded.ID)

			encoded, err := json.Marshal(decoded)
			require.NoError(t, err)
			assert.JSONEq(t, tt.in, string(encoded))
		})
	}
}

func TestVariantIDNullIsOmittedFromLicense(t *testing.T) {
	var decoded struct {
		ID VariantID `json:"variant_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"variant_id":null}`), &decoded))
	assert.True(t, decoded.ID.IsZero())

	encoded, err := json.Marshal(License{Tier: TierEmber})
	require.NoError(t, err)
	assert.NotContains(t, string(encoded), "variant_id")
}

func TestLicenseJSONShape(t *testing.T) {
	encoded, err := json.Marshal(License{
		Success: true,
		Dev:     true,
		Tier:    TierForge,
		Mode:    ModeDev,
		Message: "Developer license activated",
		Key:     &LicenseKey{Key: "D3V-K3Y-1313"},
	})
	require.NoError(t, err)

	assert.JSONEq(t, `{"success":true,"dev":true,"tier":"Kiln Forge","mode":"dev","message":"Developer license activated","licenseKey":{"key":"D3V-K3Y-1313"}}`, string(encoded))
}
