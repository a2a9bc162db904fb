package model

import "time"

// PlatformDescriptor is the static configuration for one external
// answer-engine platform. The descriptor set is process-wide configuration,
// not a runtime entity.
type PlatformDescriptor struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	DisplayName       string `json:"display_name"`
	Endpoint          string `json:"endpoint"`
	IsActive          bool   `json:"is_active"`
	RequiresAuth      bool   `json:"requires_auth"`
	RequestsPerMinute int    `json:"requests_per_minute"`
	RequestsPerDay    int    `json:"requests_per_day"`
}

// AnswerMetadata carries optional provider details about one answer.
// Citations is only populated by platforms that ground answers in sources.
type AnswerMetadata struct {
	Model     string   `json:"model,omitempty"`
	Tokens    int      `json:"tokens,omitempty"`
	LatencyMS int64    `json:"latency_ms,omitempty"`
	Simulated bool     `json:"simulated,omitempty"`
	Citations []string `json:"citations,omitempty"`
}

// Answer is the result of asking one platform one question. It is ephemeral:
// consumed by the analysis engine and persisted in reduced form.
type Answer struct {
	Platform    string         `json:"platform"`
	Question    string         `json:"question"`
	Text        string         `json:"text"`
	CollectedAt time.Time      `json:"collected_at"`
	Metadata    AnswerMetadata `json:"metadata"`
}
