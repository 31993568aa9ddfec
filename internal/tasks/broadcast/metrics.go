package broadcast

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricNameDeliveries = "broadcast_deliveries_total"
	metricNameRetries    = "broadcast_retries_total"
	metricNameRuns       = "broadcast_runs_total"

	outcomeSuccess = "success"
	outcomeFailed  = "failed"
	outcomeSkipped = "skipped"
)

type broadcastMetrics struct {
	deliveries metric.Int64Counter
	retries    metric.Int64Counter
	runs       metric.Int64Counter
	enabled    bool
}

func newBroadcastMetrics(meter metric.Meter, helper *log.Helper) *broadcastMetrics {
	m := &broadcastMetrics{}
	if meter == nil {
		return m
	}
	var err error
	if m.deliveries, err = meter.Int64Counter(metricNameDeliveries,
		metric.WithDescription("Broadcast deliveries by outcome")); err != nil {
		helper.Warnf("broadcast metrics: register deliveries counter: %v", err)
		return m
	}
	if m.retries, err = meter.Int64Counter(metricNameRetries,
		metric.WithDescription("Broadcast deliveries retried after rate limiting")); err != nil {
		helper.Warnf("broadcast metrics: register retries counter: %v", err)
	}
	if m.runs, err = meter.Int64Counter(metricNameRuns,
		metric.WithDescription("Broadcast jobs started")); err != nil {
		helper.Warnf("broadcast metrics: register runs counter: %v", err)
	}
	m.enabled = true
	return m
}

func (m *broadcastMetrics) recordDelivery(ctx context.Context, outcome string) {
	if m == nil || !m.enabled || m.deliveries == nil {
		return
	}
	m.deliveries.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (m *broadcastMetrics) recordRetry(ctx context.Context) {
	if m == nil || !m.enabled || m.retries == nil {
		return
	}
	m.retries.Add(ctx, 1)
}

func (m *broadcastMetrics) recordRun(ctx context.Context) {
	if m == nil || !m.enabled || m.runs == nil {
		return
	}
	m.runs.Add(ctx, 1)
}
