package model

// ThreatTier is the qualitative competitive-risk classification of a
// competitor candidate.
type ThreatTier string

const (
	ThreatLow    ThreatTier = "low"
	ThreatMedium ThreatTier = "medium"
	ThreatHigh   ThreatTier = "high"
)

// TrendDirection describes the synthetic momentum of a competitor's brand.
type TrendDirection string

const (
	TrendRising    TrendDirection = "rising"
	TrendStable    TrendDirection = "stable"
	TrendDeclining TrendDirection = "declining"
)

// MarketTier buckets a competitor by synthetic brand score.
type MarketTier string

const (
	TierLeader     MarketTier = "leader"
	TierChallenger MarketTier = "challenger"
	TierFollower   MarketTier = "follower"
	TierNiche      MarketTier = "niche"
)

// MarketTierForScore maps a brand score onto its market-strength tier.
func MarketTierForScore(score float64) MarketTier {
	switch {
	case score >= 90:
		return TierLeader
	case score >= 80:
		return TierChallenger
	case score >= 70:
		return TierFollower
	default:
		return TierNiche
	}
}

// CompetitorMetrics are synthetic brand/market metrics attached to each
// candidate. They are illustrative, not measured.
type CompetitorMetrics struct {
	Score        float64        `json:"score"`
	AvgPosition  float64        `json:"avg_position"`
	ShareOfVoice float64        `json:"share_of_voice"`
	MentionCount int            `json:"mention_count"`
	Trend        TrendDirection `json:"trend"`
	MarketTier   MarketTier     `json:"market_tier"`
}

// CompetitorCandidate is one plausible competitor produced by an
// identification strategy. Candidates are never mutated after creation,
// only re-ranked and deduplicated.
type CompetitorCandidate struct {
	Name        string            `json:"name"`
	Domain      string            `json:"domain,omitempty"`
	Industry    string            `json:"industry,omitempty"`
	Description string            `json:"description,omitempty"`
	Confidence  float64           `json:"confidence"`
	Method      string            `json:"method"`
	Threat      ThreatTier        `json:"threat"`
	Metrics     CompetitorMetrics `json:"metrics"`
}

// MarketAnalysis is the aggregate summary computed over a merged candidate
// list.
type MarketAnalysis struct {
	MarketSize       string   `json:"market_size"`
	CompetitionLevel string   `json:"competition_level"`
	Trends           []string `json:"trends"`
}

// IdentificationResult is the full output of one competitor-identification
// call. ConfidenceAverage is 0 when no candidates were found.
type IdentificationResult struct {
	Competitors       []CompetitorCandidate `json:"competitors"`
	TotalFound        int                   `json:"total_found"`
	ConfidenceAverage float64               `json:"confidence_average"`
	MethodsUsed       []string              `json:"methods_used"`
	MarketAnalysis    MarketAnalysis        `json:"market_analysis"`
}
