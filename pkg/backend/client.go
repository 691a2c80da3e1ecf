package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// envelope is the conventional backend response wrapper.
type envelope struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// Client talks to the platform REST API with bearer-token auth.
type Client struct {
	baseURL string
	token   string
	tenant  string
	http    *http.Client
	logger  *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func NewClient(baseURL, token, tenant string, timeout time.Duration, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		tenant:  tenant,
		logger:  logger,
		http: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tenant returns the tenant token this client is scoped to.
func (c *Client) Tenant() string {
	return c.tenant
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call backend: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	if len(raw) > 0 {
		// Non-JSON bodies fall through to the status mapping below.
		_ = json.Unmarshal(raw, &env)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthenticated
	case resp.StatusCode == http.StatusConflict:
		return &ConflictError{Message: env.Message}
	case resp.StatusCode == http.StatusUnprocessableEntity:
		return &ValidationError{Message: env.Message, Fields: env.Errors}
	case resp.StatusCode >= 400:
		return &APIError{Status: resp.StatusCode, Message: env.Message}
	}

	if !env.Success && env.Message != "" {
		return &APIError{Status: resp.StatusCode, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}

// ListOrders fetches recent orders for the tenant, newest first.
func (c *Client) ListOrders(ctx context.Context, params ListOrdersParams) ([]Order, error) {
	q := url.Values{}
	q.Set("token", c.tenant)
	if params.Status != "" {
		q.Set("status", params.Status)
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}

	var orders []Order
	if err := c.do(ctx, http.MethodGet, "/api/v1/orders", q, nil, &orders); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodPost, "/api/v1/orders", nil, req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) ListProducts(ctx context.Context) (json.RawMessage, error) {
	return c.listRaw(ctx, "/api/v1/products")
}

func (c *Client) ListCategories(ctx context.Context) (json.RawMessage, error) {
	return c.listRaw(ctx, "/api/v1/categories")
}

func (c *Client) ListTables(ctx context.Context) (json.RawMessage, error) {
	return c.listRaw(ctx, "/api/v1/tables")
}

func (c *Client) ListPaymentMethods(ctx context.Context) (json.RawMessage, error) {
	return c.listRaw(ctx, "/api/v1/payment-methods")
}

func (c *Client) listRaw(ctx context.Context, path string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("token", c.tenant)

	var data json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, q, nil, &data); err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	return data, nil
}

// DeleteProduct removes a catalog product. A 409 from the backend (product
// still referenced by open orders) comes back as *ConflictError.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/products/"+id, nil, nil, nil)
}

func (c *Client) PlanUsage(ctx context.Context) (*PlanUsage, error) {
	var usage PlanUsage
	if err := c.do(ctx, http.MethodGet, "/api/v1/plan/usage", nil, nil, &usage); err != nil {
		return nil, fmt.Errorf("failed to fetch plan usage: %w", err)
	}
	return &usage, nil
}

func (c *Client) RequestPlanMigration(ctx context.Context, req MigrationRequest) error {
	return c.do(ctx, http.MethodPost, "/api/v1/plan/migrations", nil, req, nil)
}

func (c *Client) MigrationHistory(ctx context.Context) ([]Migration, error) {
	var history []Migration
	if err := c.do(ctx, http.MethodGet, "/api/v1/plan/migrations", nil, nil, &history); err != nil {
		return nil, fmt.Errorf("failed to fetch migration history: %w", err)
	}
	return history, nil
}

// ChannelAuth authorizes a private broker channel subscription for this
// tenant's socket.
func (c *Client) ChannelAuth(ctx context.Context, socketID, channel string) (*ChannelAuth, error) {
	body := map[string]string{
		"socket_id":    socketID,
		"channel_name": channel,
	}
	var auth ChannelAuth
	if err := c.do(ctx, http.MethodPost, "/api/v1/broadcasting/auth", nil, body, &auth); err != nil {
		return nil, fmt.Errorf("failed to authorize channel %s: %w", channel, err)
	}
	return &auth, nil
}
