package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEventOrderCreated(t *testing.T) {
	payload := []byte(`{"id":"o1","identify":"ORD-1","customer_name":"Ada","total":42.5}`)

	ev, err := ParseEvent(EventOrderCreated, payload)
	require.NoError(t, err)

	created, ok := ev.(OrderCreated)
	require.True(t, ok)
	assert.Equal(t, "o1", created.Order.ID)
	assert.Equal(t, 42.5, created.Order.Total)
}

func TestParseEventOrderStatusUpdated(t *testing.T) {
	ev, err := ParseEvent(EventOrderStatusUpdated, []byte(`{"order_id":"o1","status":"ready"}`))
	require.NoError(t, err)

	status, ok := ev.(OrderStatusUpdated)
	require.True(t, ok)
	assert.Equal(t, "ready", status.Status)
}

func TestParseEventRejectsInvalidPayloads(t *testing.T) {
	_, err := ParseEvent(EventOrderCreated, []byte(`{"identify":"no-id"}`))
	assert.Error(t, err, "order events without an id are rejected at the boundary")

	_, err = ParseEvent(EventOrderStatusUpdated, []byte(`{"order_id":"o1"}`))
	assert.Error(t, err)

	_, err = ParseEvent(EventOrderCreated, []byte(`not json`))
	assert.Error(t, err)

	_, err = ParseEvent("order.deleted", []byte(`{}`))
	assert.Error(t, err)
}

func TestParseEventMetrics(t *testing.T) {
	ev, err := ParseEvent(EventMetricsUpdated, []byte(`{"orders_today":12,"revenue":340.5}`))
	require.NoError(t, err)

	metrics, ok := ev.(MetricsUpdated)
	require.True(t, ok)
	assert.Equal(t, 12.0, metrics.Metrics["orders_today"])
}

func TestChannelNames(t *testing.T) {
	assert.Equal(t, "tenant.t1.orders", OrdersChannel("t1"))
	assert.Equal(t, "tenant.t1.dashboard", DashboardChannel("t1"))
}
