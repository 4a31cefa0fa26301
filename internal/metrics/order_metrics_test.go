package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestOrderMetricsCounters(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newOrderMetricsWithRegisterer(registry)

	m.RecordOrderCreated()
	m.RecordOrderCreated()
	m.RecordOrderUpdated()
	m.RecordOrderCanceled()
	m.RecordWorkflowFailed()
	m.RecordInsufficientStock()
	m.RecordOutboxEvent()
	m.RecordWorkflowDuration("create", 25*time.Millisecond)

	require.Equal(t, float64(2), testutil.ToFloat64(m.ordersCreated))
	require.Equal(t, float64(1), testutil.ToFloat64(m.ordersUpdated))
	require.Equal(t, float64(1), testutil.ToFloat64(m.ordersCanceled))
	require.Equal(t, float64(1), testutil.ToFloat64(m.workflowFailed))
	require.Equal(t, float64(1), testutil.ToFloat64(m.insufficientStock))
	require.Equal(t, float64(1), testutil.ToFloat64(m.outboxEvents))
}

func TestOrderMetricsStockDirections(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newOrderMetricsWithRegisterer(registry)

	m.RecordStockAdjustment(-3)
	m.RecordStockAdjustment(-1)
	m.RecordStockAdjustment(5)

	require.Equal(t, float64(2), testutil.ToFloat64(m.stockAdjustments.WithLabelValues("decrement")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.stockAdjustments.WithLabelValues("increment")))
}

func TestOrderMetricsDoubleRegistration(t *testing.T) {
	registry := prometheus.NewRegistry()

	first := newOrderMetricsWithRegisterer(registry)
	first.RecordOrderCreated()

	// Повторная регистрация возвращает уже существующие коллекторы.
	second := newOrderMetricsWithRegisterer(registry)
	second.RecordOrderCreated()

	require.Equal(t, float64(2), testutil.ToFloat64(first.ordersCreated))
}
