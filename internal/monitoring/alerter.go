package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/aeo-monitor/internal/config"
)

// AlertType identifies the kind of alert.
type AlertType string

const (
	AlertFailureRate       AlertType = "collection_failure_rate"
	AlertSentimentFloor    AlertType = "sentiment_floor"
	AlertCollectionSilence AlertType = "collection_silence"
)

// Alert represents a single alert to be sent.
type Alert struct {
	Type      AlertType      `json:"type"`
	Severity  string         `json:"severity"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Alerter evaluates a MetricsSnapshot against configured thresholds and
// sends alerts via webhook when thresholds are breached.
type Alerter struct {
	cfg    config.MonitoringConfig
	client *http.Client
}

// NewAlerter creates an Alerter with the given monitoring config.
func NewAlerter(cfg config.MonitoringConfig) *Alerter {
	return &Alerter{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Evaluate checks the snapshot against thresholds and returns any alerts.
func (a *Alerter) Evaluate(snap *MetricsSnapshot) []Alert {
	var alerts []Alert
	now := time.Now().UTC()

	// Small samples produce noisy rates; require a handful of pairs first.
	if snap.PairsTotal >= 5 && snap.FailureRate > a.cfg.FailureRateThreshold {
		alerts = append(alerts, Alert{
			Type:     AlertFailureRate,
			Severity: "high",
			Message: fmt.Sprintf(
				"Collection failure rate %.1f%% exceeds threshold %.1f%% (%d failed / %d pairs in last %dh)",
				snap.FailureRate*100, a.cfg.FailureRateThreshold*100,
				snap.PairsFailed, snap.PairsTotal, snap.LookbackHours,
			),
			Details: map[string]any{
				"failure_rate": snap.FailureRate,
				"threshold":    a.cfg.FailureRateThreshold,
				"failed":       snap.PairsFailed,
				"pairs":        snap.PairsTotal,
			},
			Timestamp: now,
		})
	}

	if snap.ResponseCount >= 5 && snap.AvgSentiment < a.cfg.SentimentFloor {
		alerts = append(alerts, Alert{
			Type:     AlertSentimentFloor,
			Severity: "medium",
			Message: fmt.Sprintf(
				"Average brand sentiment %.2f fell below floor %.2f across %d responses in last %dh",
				snap.AvgSentiment, a.cfg.SentimentFloor, snap.ResponseCount, snap.LookbackHours,
			),
			Details: map[string]any{
				"avg_sentiment": snap.AvgSentiment,
				"floor":         a.cfg.SentimentFloor,
				"responses":     snap.ResponseCount,
			},
			Timestamp: now,
		})
	}

	if snap.RunsTotal == 0 {
		alerts = append(alerts, Alert{
			Type:     AlertCollectionSilence,
			Severity: "medium",
			Message: fmt.Sprintf(
				"No collection runs recorded in last %dh",
				snap.LookbackHours,
			),
			Details: map[string]any{
				"lookback_hours": snap.LookbackHours,
			},
			Timestamp: now,
		})
	}

	return alerts
}

// SendAlerts delivers alerts to the configured webhook URL.
// Returns the number of alerts successfully sent.
func (a *Alerter) SendAlerts(ctx context.Context, alerts []Alert) int {
	if a.cfg.WebhookURL == "" || len(alerts) == 0 {
		return 0
	}

	sent := 0
	for _, alert := range alerts {
		if err := a.sendWebhook(ctx, alert); err != nil {
			zap.L().Error("monitoring: failed to send alert",
				zap.String("type", string(alert.Type)),
				zap.Error(err),
			)
			continue
		}
		zap.L().Info("monitoring: alert sent",
			zap.String("type", string(alert.Type)),
			zap.String("severity", alert.Severity),
		)
		sent++
	}
	return sent
}

// sendWebhook posts a single alert to the webhook URL.
func (a *Alerter) sendWebhook(ctx context.Context, alert Alert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return eris.Wrap(err, "monitoring: marshal alert")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return eris.Wrap(err, "monitoring: create webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return eris.Wrap(err, "monitoring: webhook request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 400 {
		return eris.Errorf("monitoring: webhook returned status %d", resp.StatusCode)
	}
	return nil
}
