package realtime

import "time"

// Notification is one in-app alert for a newly observed order. Immutable
// once created; session-scoped.
type Notification struct {
	ID            string    `json:"id"`
	OrderID       string    `json:"order_id"`
	OrderIdentify string    `json:"order_identify"`
	CustomerName  string    `json:"customer_name"`
	Total         float64   `json:"total"`
	CreatedAt     time.Time `json:"created_at"`
	Timestamp     int64     `json:"timestamp"`
	Sound         bool      `json:"sound"`
}
