package domain

import "fmt"

// DailyCap is the per-feature daily allowance of the free tier.
const DailyCap = 10

type UsageSnapshot struct {
	Rewrite  int `json:"rewrite"`
	Grammar  int `json:"grammar"`
	Keywords int `json:"keywords"`
}

// Normalize clamps negative counters reported by the remote service to zero.
func (u UsageSnapshot) Normalize() UsageSnapshot {
	return UsageSnapshot{
		Rewrite:  max(u.Rewrite, 0),
		Grammar:  max(u.Grammar, 0),
		Keywords: max(u.Keywords, 0),
	}
}

func (u UsageSnapshot) Count(feature Feature) int {
	switch feature {
	case FeatureRewrite:
		return u.Rewrite
	case FeatureGrammar:
		return u.Grammar
	case FeatureKeywords:
		return u.Keywords
	default:
		return 0
	}
}

// Label renders a counter as "used/cap".
func (u UsageSnapshot) Label(feature Feature) string {
	return fmt.Sprintf("%d/%d", u.Count(feature), DailyCap)
}
