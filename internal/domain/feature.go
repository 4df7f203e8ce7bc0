package domain

import "errors"

type Feature string

const (
	FeatureRewrite     Feature = "rewrite"
	FeatureGrammar     Feature = "grammar"
	FeatureKeywords    Feature = "keywords"
	FeatureBacklinks   Feature = "backlinks"
	FeatureCompetitors Feature = "competitors"
	FeatureContentGap  Feature = "content-gap"
	FeaturePlagiarism  Feature = "plagiarism"
)

var (
	ErrDailyLimitReached = errors.New("daily limit reached")
	ErrFeatureNotInTier  = errors.New("feature not available on plan")
)

// GateError explains why a feature was refused before any request was made.
type GateError struct {
	Feature Feature
	Tier    Tier
	Reason  error
	Message string
}

func (e *GateError) Error() string {
	return e.Message
}

func (e *GateError) Unwrap() error {
	return e.Reason
}

// Gate performs the advisory client-side tier check. The remote service
// remains the enforcement point; usage may be nil when it was not fetched.
func Gate(tier Tier, feature Feature, usage *UsageSnapshot) error {
	switch feature {
	case FeaturePlagiarism:
		switch tier {
		case TierSpark:
			return &GateError{Feature: feature, Tier: tier, Reason: ErrFeatureNotInTier, Message: "Plagiarism Checker is not available on the Spark plan."}
		case TierEmber:
			return &GateError{Feature: feature, Tier: tier, Reason: ErrFeatureNotInTier, Message: "Plagiarism Checker is only available on the Forge plan."}
		}
	case FeatureRewrite, FeatureKeywords, FeatureGrammar:
		if !tier.IsFree() || usage == nil {
			return nil
		}
		if usage.Count(feature) >= DailyCap {
			return &GateError{Feature: feature, Tier: tier, Reason: ErrDailyLimitReached, Message: limitMessage(feature)}
		}
	}

	return nil
}

func limitMessage(feature Feature) string {
	switch feature {
	case FeatureRewrite:
		return "Daily rewrite limit reached for Spark tier."
	case FeatureKeywords:
		return "Daily keyword research limit reached for Spark tier."
	default:
		return "Daily grammar limit reached for Spark tier."
	}
}
