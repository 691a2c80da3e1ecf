package realtime

import (
	"encoding/json"
	"fmt"

	"github.com/example/posbridge/pkg/backend"
)

// Broker event names, scoped to tenant channels.
const (
	EventOrderCreated       = "order.created"
	EventOrderUpdated       = "order.updated"
	EventOrderStatusUpdated = "order.status.updated"
	EventMetricsUpdated     = "metrics.updated"
)

// OrdersChannel is the tenant-scoped private channel carrying order events.
func OrdersChannel(tenant string) string {
	return fmt.Sprintf("tenant.%s.orders", tenant)
}

// DashboardChannel carries aggregate metrics refreshes.
func DashboardChannel(tenant string) string {
	return fmt.Sprintf("tenant.%s.dashboard", tenant)
}

// Event is a validated broker payload. Each event name maps to one concrete
// variant so handlers never see untyped maps.
type Event interface {
	EventName() string
}

type OrderCreated struct {
	Order backend.Order
}

func (OrderCreated) EventName() string { return EventOrderCreated }

type OrderUpdated struct {
	Order backend.Order
}

func (OrderUpdated) EventName() string { return EventOrderUpdated }

type OrderStatusUpdated struct {
	OrderID string
	Status  string
}

func (OrderStatusUpdated) EventName() string { return EventOrderStatusUpdated }

type MetricsUpdated struct {
	Metrics map[string]float64
}

func (MetricsUpdated) EventName() string { return EventMetricsUpdated }

// ParseEvent validates a raw broker payload at the boundary and returns the
// tagged variant for the event name.
func ParseEvent(name string, payload []byte) (Event, error) {
	switch name {
	case EventOrderCreated, EventOrderUpdated:
		var order backend.Order
		if err := json.Unmarshal(payload, &order); err != nil {
			return nil, fmt.Errorf("failed to decode %s payload: %w", name, err)
		}
		if order.ID == "" {
			return nil, fmt.Errorf("event %s missing order id", name)
		}
		if name == EventOrderCreated {
			return OrderCreated{Order: order}, nil
		}
		return OrderUpdated{Order: order}, nil

	case EventOrderStatusUpdated:
		var body struct {
			OrderID string `json:"order_id"`
			Status  string `json:"status"`
		}
		if err := json.Unmarshal(payload, &body); err != nil {
			return nil, fmt.Errorf("failed to decode %s payload: %w", name, err)
		}
		if body.OrderID == "" || body.Status == "" {
			return nil, fmt.Errorf("event %s missing order id or status", name)
		}
		return OrderStatusUpdated{OrderID: body.OrderID, Status: body.Status}, nil

	case EventMetricsUpdated:
		var metrics map[string]float64
		if err := json.Unmarshal(payload, &metrics); err != nil {
			return nil, fmt.Errorf("failed to decode %s payload: %w", name, err)
		}
		return MetricsUpdated{Metrics: metrics}, nil
	}

	return nil, fmt.Errorf("unknown event %q", name)
}
