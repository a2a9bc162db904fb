package model

// MentionSentiment classifies the tone of the context around one mention.
type MentionSentiment string

const (
	SentimentPositive MentionSentiment = "positive"
	SentimentNegative MentionSentiment = "negative"
	SentimentNeutral  MentionSentiment = "neutral"
)

// BrandMention is a single occurrence of the brand inside an answer, with
// the surrounding token window captured for context.
type BrandMention struct {
	Brand      string           `json:"brand"`
	Context    string           `json:"context"`
	Position   int              `json:"position"` // 1-based token index
	Sentiment  MentionSentiment `json:"sentiment"`
	Confidence float64          `json:"confidence"`
}

// BrandAnalysis is the immutable value derived from exactly one Answer.
// SentimentScore is clamped to [-1, 1] and AccuracyScore to [0, 1];
// BrandPosition is nil when the brand never appears.
type BrandAnalysis struct {
	Mentions       []BrandMention `json:"mentions"`
	MentionCount   int            `json:"mention_count"`
	BrandPosition  *int           `json:"brand_position,omitempty"` // 1-based sentence index
	SentimentScore float64        `json:"sentiment_score"`
	AccuracyScore  float64        `json:"accuracy_score"`
	Competitors    []string       `json:"competitors,omitempty"`
	Insights       []string       `json:"insights,omitempty"`
}
