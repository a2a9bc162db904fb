// Package monitoring watches collection health: pair failure rates, brand
// sentiment drift, and collection silence, with webhook alerting.
package monitoring

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/aeo-monitor/internal/store"
)

// MetricsSnapshot holds a point-in-time view of collection health.
type MetricsSnapshot struct {
	// Collection-run metrics (within lookback window).
	RunsTotal       int     `json:"runs_total"`
	PairsTotal      int     `json:"pairs_total"`
	PairsSuccessful int     `json:"pairs_successful"`
	PairsFailed     int     `json:"pairs_failed"`
	FailureRate     float64 `json:"failure_rate"`

	// Response metrics (within lookback window).
	ResponseCount int            `json:"response_count"`
	AvgSentiment  float64        `json:"avg_sentiment"`
	AvgAccuracy   float64        `json:"avg_accuracy"`
	ByPlatform    map[string]int `json:"by_platform,omitempty"`

	// Metadata.
	LookbackHours int       `json:"lookback_hours"`
	CollectedAt   time.Time `json:"collected_at"`
}

// Collector gathers health metrics from the store.
type Collector struct {
	store store.Store
}

// NewCollector creates a metrics collector.
func NewCollector(st store.Store) *Collector {
	return &Collector{store: st}
}

// Collect gathers a snapshot over the given lookback window.
func (c *Collector) Collect(ctx context.Context, lookbackHours int) (*MetricsSnapshot, error) {
	snap := &MetricsSnapshot{
		LookbackHours: lookbackHours,
		CollectedAt:   time.Now().UTC(),
	}

	cutoff := time.Now().UTC().Add(-time.Duration(lookbackHours) * time.Hour)

	runs, err := c.store.ListRunsSince(ctx, cutoff)
	if err != nil {
		return nil, eris.Wrap(err, "monitoring: list collection runs")
	}

	snap.RunsTotal = len(runs)
	for _, r := range runs {
		snap.PairsTotal += r.Total
		snap.PairsSuccessful += r.Successful
		snap.PairsFailed += r.Failed
	}
	if snap.PairsTotal > 0 {
		snap.FailureRate = float64(snap.PairsFailed) / float64(snap.PairsTotal)
	}

	stats, err := c.store.ResponseStatsSince(ctx, cutoff)
	if err != nil {
		return nil, eris.Wrap(err, "monitoring: response stats")
	}
	snap.ResponseCount = stats.Count
	snap.AvgSentiment = stats.AvgSentiment
	snap.AvgAccuracy = stats.AvgAccuracy
	snap.ByPlatform = stats.ByPlatform

	return snap, nil
}
