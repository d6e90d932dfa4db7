package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Stock adjustment outcomes
const (
	StockResultApplied  = "applied"
	StockResultRejected = "rejected"
	StockResultConflict = "conflict"
)

// BusinessMetrics records dispatch, stock and notification counters
type BusinessMetrics struct {
	dispatchEvents   metric.Int64Counter
	stockAdjustments metric.Int64Counter
	casRetries       metric.Int64Counter
	notifyDropped    metric.Int64Counter
	notifyClients    metric.Int64UpDownCounter
}

// NewBusinessMetrics creates the instruments on meter
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	m := &BusinessMetrics{}
	var err error

	if m.dispatchEvents, err = meter.Int64Counter("erp.dispatch.events",
		metric.WithDescription("Dispatch lifecycle events"),
		metric.WithUnit("{event}"),
	); err != nil {
		return nil, err
	}
	if m.stockAdjustments, err = meter.Int64Counter("erp.stock.adjustments",
		metric.WithDescription("Stock adjustments by outcome"),
		metric.WithUnit("{adjustment}"),
	); err != nil {
		return nil, err
	}
	if m.casRetries, err = meter.Int64Counter("erp.stock.cas_retries",
		metric.WithDescription("Stock writes retried after a version conflict"),
		metric.WithUnit("{retry}"),
	); err != nil {
		return nil, err
	}
	if m.notifyDropped, err = meter.Int64Counter("erp.notify.dropped",
		metric.WithDescription("Notifications dropped on full subscriber buffers"),
		metric.WithUnit("{message}"),
	); err != nil {
		return nil, err
	}
	if m.notifyClients, err = meter.Int64UpDownCounter("erp.notify.clients",
		metric.WithDescription("Connected notification subscribers"),
		metric.WithUnit("{client}"),
	); err != nil {
		return nil, err
	}
	return m, nil
}

// DispatchEvent counts a dispatch event of eventType
func (m *BusinessMetrics) DispatchEvent(ctx context.Context, eventType string) {
	m.dispatchEvents.Add(ctx, 1, metric.WithAttributes(attribute.String("type", eventType)))
}

// StockAdjusted counts one stock adjustment outcome for scope (warehouse or branch)
func (m *BusinessMetrics) StockAdjusted(ctx context.Context, scope, result string) {
	m.stockAdjustments.Add(ctx, 1, metric.WithAttributes(
		attribute.String("scope", scope),
		attribute.String("result", result),
	))
}

// CASRetried counts a retried stock write
func (m *BusinessMetrics) CASRetried(ctx context.Context, scope string) {
	m.casRetries.Add(ctx, 1, metric.WithAttributes(attribute.String("scope", scope)))
}

// ClientsChanged tracks subscriber churn
func (m *BusinessMetrics) ClientsChanged(ctx context.Context, delta int64) {
	m.notifyClients.Add(ctx, delta)
}

// MessageDropped counts a dropped notification
func (m *BusinessMetrics) MessageDropped(ctx context.Context) {
	m.notifyDropped.Add(ctx, 1)
}
