package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGate(t *testing.T) {
	atCap := &UsageSnapshot{Rewrite: DailyCap, Keywords: DailyCap - 1}

	tests := []struct {
		name    string
		tier    Tier
		feature Feature
		usage   *UsageSnapshot
		wantErr error
		wantMsg string
	}{
		{name: "spark rewrite at cap", tier: TierSpark, feature: FeatureRewrite, usage: atCap, wantErr: ErrDailyLimitReached, wantMsg: "Daily rewrite limit reached for Spark tier."},
		{name: "spark keywords below cap", tier: TierSpark, feature: FeatureKeywords, usage: atCap},
		{name: "spark without usage snapshot", tier: TierSpark, feature: FeatureRewrite},
		{name: "forge ignores counters", tier: TierForge, feature: FeatureRewrite, usage: atCap},
		{name: "spark plagiarism", tier: TierSpark, feature: FeaturePlagiarism, wantErr: ErrFeatureNotInTier, wantMsg: "Plagiarism Checker is not available on the Spark plan."},
		{name: "ember plagiarism", tier: TierEmber, feature: FeaturePlagiarism, wantErr: ErrFeatureNotInTier, wantMsg: "Plagiarism Checker is only available on the Forge plan."},
		{name: "forge plagiarism", tier: TierForge, feature: FeaturePlagiarism},
		{name: "backlinks always allowed", tier: TierSpark, feature: FeatureBacklinks},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Gate(tt.tier, tt.feature, tt.usage)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, tt.wantErr)
			assert.EqualError(t, err, tt.wantMsg)
		})
	}
}

func TestUsageSnapshotNormalizeAndLabel(t *testing.T) {
	u := UsageSnapshot{Rewrite: -2, Grammar: 3, Keywords: 10}.Normalize()

	assert.Equal(t, 0, u.Rewrite)
	assert.Equal(t, "3/10", u.Label(FeatureGrammar))
	assert.Equal(t, "10/10", u.Label(FeatureKeywords))
	assert.Equal(t, 0, u.Count(FeatureBacklinks))
}

func TestPlagiarismReportNeedsReview(t *testing.T) {
	assert.True(t, PlagiarismReport{Score: 60}.NeedsReview())
	assert.False(t, PlagiarismReport{Score: 59.9}.NeedsReview())
}
