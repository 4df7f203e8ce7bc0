package domain

type RewriteRequest struct {
	Text  string `json:"text"`
	Tone  string `json:"tone"`
	Style string `json:"style"`
}

type RewriteResult struct {
	Output string `json:"output"`
	Limit  bool   `json:"limit,omitempty"`
}

type Keyword struct {
	Keyword    string `json:"keyword"`
	Volume     any    `json:"volume"`
	Difficulty any    `json:"difficulty"`
}

type KeywordReport struct {
	Keywords []Keyword `json:"keywords"`
}

type ReferringDomain struct {
	Domain    string `json:"domain"`
	Backlinks any    `json:"backlinks"`
}

type BacklinkTypes struct {
	Dofollow any `json:"dofollow"`
	Nofollow any `json:"nofollow"`
}

type BacklinkAnalysis struct {
	TotalBacklinks         any               `json:"total_backlinks"`
	ReferringDomains       any               `json:"referring_domains"`
	TopReferringDomains    []ReferringDomain `json:"top_referring_domains"`
	BacklinkTypes          BacklinkTypes     `json:"backlink_types"`
	AnchorTextDistribution map[string]any    `json:"anchor_text_distribution"`
	TopCountries           map[string]any    `json:"top_countries"`
}

type BacklinkReport struct {
	Analysis BacklinkAnalysis `json:"backlink_analysis"`
}

type Competitor struct {
	Name        string   `json:"name"`
	MarketShare any      `json:"market_share"`
	Strengths   []string `json:"strengths"`
	Weaknesses  []string `json:"weaknesses"`
	KeyFeatures []string `json:"key_features"`
}

type AnalysisSummary struct {
	OverallMarketTrends string   `json:"overall_market_trends"`
	Opportunities       []string `json:"opportunities"`
	Threats             []string `json:"threats"`
}

type CompetitorReport struct {
	Competitors []Competitor    `json:"competitors"`
	Summary     AnalysisSummary `json:"analysis_summary"`
}

type ContentGaps struct {
	Keywords           []string `json:"keywords"`
	Topics             []string `json:"topics"`
	AudienceNeeds      []string `json:"audience_needs"`
	CompetitorAnalysis []string `json:"competitor_analysis"`
	ContentFormat      []string `json:"content_format"`
	DepthOfInformation []string `json:"depth_of_information"`
}

type ContentRecommendations struct {
	Keywords            []string `json:"keywords"`
	TopicsToExplore     []string `json:"topics_to_explore"`
	ContentTypes        []string `json:"content_types"`
	AdditionalResources []string `json:"additional_resources"`
}

type ContentGapAnalysis struct {
	Gaps            ContentGaps            `json:"gaps"`
	Recommendations ContentRecommendations `json:"recommendations"`
}

type ContentGapReport struct {
	Analysis ContentGapAnalysis `json:"content_gap_analysis"`
}

type PlagiarismMatch struct {
	Source     string  `json:"source"`
	Similarity float64 `json:"similarity"`
}

type PlagiarismReport struct {
	Score   float64           `json:"score"`
	Matches []PlagiarismMatch `json:"matches"`
}

// HighSimilarity is the score from which a plagiarism result warrants review.
const HighSimilarity = 60

func (r PlagiarismReport) NeedsReview() bool {
	return r.Score >= HighSimilarity
}
