package backend

import "time"

// Order is the backend's order representation, as returned by the listing
// endpoint and carried in push events.
type Order struct {
	ID           string    `json:"id"`
	Identify     string    `json:"identify"`
	CustomerName string    `json:"customer_name"`
	Status       string    `json:"status"`
	Total        float64   `json:"total"`
	CreatedAt    time.Time `json:"created_at"`
}

type ListOrdersParams struct {
	Status string
	Limit  int
}

// OrderProduct is one line of a create-order request.
type OrderProduct struct {
	Identify string  `json:"identify"`
	Qty      int     `json:"qty"`
	Price    float64 `json:"price"`
}

// CreateOrderRequest is the finalize payload. Token is the tenant token;
// exactly one of Table or DeliveryAddress is set depending on ServiceType.
type CreateOrderRequest struct {
	Token           string         `json:"token"`
	ServiceType     string         `json:"service_type"`
	PaymentMethodID string         `json:"payment_method_id"`
	Table           string         `json:"table,omitempty"`
	DeliveryAddress string         `json:"delivery_address,omitempty"`
	Comment         string         `json:"comment,omitempty"`
	Products        []OrderProduct `json:"products"`
}

// PlanUsage is the point-in-time usage-versus-ceiling snapshot.
type PlanUsage struct {
	HasLimitReached bool        `json:"has_limit_reached"`
	ReachedLimits   []string    `json:"reached_limits"`
	CurrentUsage    UsageCounts `json:"current_usage"`
	PlanLimits      UsageCounts `json:"plan_limits"`
	PlanName        string      `json:"plan_name"`
	Message         string      `json:"message"`
}

type UsageCounts struct {
	Users           int `json:"users"`
	Products        int `json:"products"`
	OrdersThisMonth int `json:"orders_this_month"`
}

type MigrationRequest struct {
	TargetPlanID string `json:"target_plan_id"`
	Notes        string `json:"notes,omitempty"`
}

type Migration struct {
	ID           string    `json:"id"`
	TargetPlanID string    `json:"target_plan_id"`
	Status       string    `json:"status"`
	Notes        string    `json:"notes"`
	RequestedAt  time.Time `json:"requested_at"`
}

// ChannelAuth is the broker subscription grant for a private channel.
type ChannelAuth struct {
	Auth string `json:"auth"`
}
