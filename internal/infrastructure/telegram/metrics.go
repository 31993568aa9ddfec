package telegram

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const metricNameAPICalls = "telegram_api_calls_total"

type clientMetrics struct {
	calls   metric.Int64Counter
	enabled bool
}

func newClientMetrics(meter metric.Meter, helper *log.Helper) *clientMetrics {
	m := &clientMetrics{}
	if meter == nil {
		return m
	}
	var err error
	if m.calls, err = meter.Int64Counter(metricNameAPICalls,
		metric.WithDescription("Telegram Bot API calls by operation and outcome")); err != nil {
		helper.Warnf("telegram metrics: register calls counter: %v", err)
		return m
	}
	m.enabled = true
	return m
}

func (m *clientMetrics) record(ctx context.Context, op string, err error) {
	if m == nil || !m.enabled {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
		if _, limited := RetryAfter(err); limited {
			outcome = "rate_limited"
		}
	}
	m.calls.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("outcome", outcome),
	))
}
