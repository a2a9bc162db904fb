package model

import "time"

// CollectionResult is the outcome of one (query, platform) attempt. A failed
// pair is never retried within a collection pass; it appears in the result
// set with Success=false and the error message preserved.
type CollectionResult struct {
	Success  bool           `json:"success"`
	QueryID  string         `json:"query_id"`
	Platform string         `json:"platform"`
	Answer   *Answer        `json:"answer,omitempty"`
	Analysis *BrandAnalysis `json:"analysis,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// CollectionSummary aggregates a result list by success flag.
type CollectionSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// Summarize derives the per-pass summary from a result list.
func Summarize(results []CollectionResult) CollectionSummary {
	s := CollectionSummary{Total: len(results)}
	for _, r := range results {
		if r.Success {
			s.Successful++
		} else {
			s.Failed++
		}
	}
	return s
}

// CollectionRun is the persisted summary row for one collection pass.
type CollectionRun struct {
	ID         string    `json:"id"`
	ProjectID  string    `json:"project_id"`
	Total      int       `json:"total"`
	Successful int       `json:"successful"`
	Failed     int       `json:"failed"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// ResponseRecord is the reduced form of one Answer+BrandAnalysis pair as it
// is written to the store. Exactly one record per successful pair.
type ResponseRecord struct {
	ID             string    `json:"id"`
	ProjectID      string    `json:"project_id"`
	QueryID        string    `json:"query_id"`
	Platform       string    `json:"platform"`
	ResponseText   string    `json:"response_text"`
	BrandMentions  int       `json:"brand_mentions"`
	BrandPosition  *int      `json:"brand_position,omitempty"`
	SentimentScore float64   `json:"sentiment_score"`
	AccuracyScore  float64   `json:"accuracy_score"`
	ResponseLength int       `json:"response_length"`
	CollectedAt    time.Time `json:"collected_at"`
}
